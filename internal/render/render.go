// Package render produces presentation output from a build summary.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/issuegate/internal/label"
	"github.com/dshills/issuegate/internal/summary"
)

// Renderer turns a summary into text. Output must be byte-identical for
// identical summaries.
type Renderer interface {
	Render(s *summary.Summary) (string, error)
}

// Deps are the collaborators shared by all formats.
type Deps struct {
	Labels label.Provider
	Links  label.Links
	// Terminal is used by the text format; nil selects an ASCII renderer.
	Terminal *lipgloss.Renderer
}

// Formats lists the supported format names.
var Formats = []string{"html", "text", "md", "json"}

// ForFormat returns the renderer for a format name.
func ForFormat(format string, d Deps) (Renderer, error) {
	if d.Labels == nil {
		d.Labels = label.NewRegistry()
	}
	if d.Links == nil {
		d.Links = label.StaticLinks{}
	}
	switch strings.ToLower(format) {
	case "html":
		return &HTML{Labels: d.Labels, Links: d.Links}, nil
	case "text", "txt":
		return &Text{Labels: d.Labels, Terminal: d.Terminal}, nil
	case "md", "markdown":
		return &Markdown{Labels: d.Labels, Links: d.Links}, nil
	case "json":
		return &JSON{Labels: d.Labels}, nil
	}
	return nil, fmt.Errorf("render: unknown format %q (want one of %s)", format, strings.Join(Formats, ", "))
}

// --- shared wording ---

func warningsCount(n int) string {
	switch n {
	case 0:
		return "No warnings"
	case 1:
		return "One warning"
	default:
		return fmt.Sprintf("%d warnings", n)
	}
}

func newWarnings(n int) string {
	if n == 1 {
		return "One new warning"
	}
	return fmt.Sprintf("%d new warnings", n)
}

func fixedWarnings(n int) string {
	if n == 1 {
		return "One fixed warning"
	}
	return fmt.Sprintf("%d fixed warnings", n)
}

func toolsLine(names string) string {
	return "Static analysis tools: " + names
}

func cleanBuildsLine(n int, sinceLink string) string {
	return fmt.Sprintf("No warnings for %d builds, i.e. since build %s", n, sinceLink)
}

func title(s *summary.Summary) string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}
