package render

import (
	"fmt"
	"strings"

	"github.com/dshills/issuegate/internal/label"
	"github.com/dshills/issuegate/internal/summary"
)

// Markdown renders the summary as a Markdown section, e.g. for PR comments.
type Markdown struct {
	Labels label.Provider
	Links  label.Links
}

// Render implements Renderer.
func (m *Markdown) Render(s *summary.Summary) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder

	indicator := "ℹ️"
	if s.HasErrors() {
		indicator = "⚠️"
	}
	fmt.Fprintf(&b, "## %s %s\n\n", indicator, title(s))
	fmt.Fprintf(&b, "**%s: %s**\n\n", s.Build.DisplayName(), warningsCount(s.TotalSize))

	if origins := s.Origins(); len(origins) > 0 {
		fmt.Fprintf(&b, "- %s\n", toolsLine(label.DisplayNames(m.Labels, origins)))
	}
	if n := s.CleanBuilds(); n > 0 {
		fmt.Fprintf(&b, "- %s\n", cleanBuildsLine(n, fmt.Sprintf("#%d", s.NoIssuesSinceBuild)))
	}
	if s.NewSize > 0 {
		fmt.Fprintf(&b, "- %s\n", newWarnings(s.NewSize))
	}
	if s.FixedSize > 0 {
		fmt.Fprintf(&b, "- %s\n", fixedWarnings(s.FixedSize))
	}
	if s.QualityGate.Enabled {
		fmt.Fprintf(&b, "- Quality gate: **%s**\n", s.QualityGate.Verdict.Label())
	}
	if s.Reference != nil {
		fmt.Fprintf(&b, "- Reference build: [%s](%s)\n", s.Reference.DisplayName(), m.Links.AbsoluteURL(s.Reference.URL()))
	}

	// Errors
	if s.HasErrors() {
		b.WriteString("\n### Errors\n\n")
		for _, msg := range s.ErrorMessages {
			for _, line := range strings.Split(msg, "\n") {
				fmt.Fprintf(&b, "> %s\n", strings.TrimSuffix(line, "\r"))
			}
		}
	}

	return b.String(), nil
}
