package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/dshills/issuegate/internal/label"
	"github.com/dshills/issuegate/internal/summary"
)

// HTML renders the summary fragment embedded in a build page.
type HTML struct {
	Labels label.Provider
	Links  label.Links
}

// Render implements Renderer.
func (h *HTML) Render(s *summary.Summary) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	id := html.EscapeString(s.ID)
	resultURL := id + "Result"

	fmt.Fprintf(&b, "<div id=\"%s-summary\">", id)

	// Title with warning count and status icon
	fmt.Fprintf(&b, "<div id=\"%s-title\">%s: ", id, html.EscapeString(title(s)))
	if s.TotalSize == 0 {
		b.WriteString(warningsCount(0))
	} else {
		fmt.Fprintf(&b, "<a href=\"%s\">%s</a>", resultURL, warningsCount(s.TotalSize))
	}
	icon := "fa-info-circle"
	if s.HasErrors() {
		icon = "fa-exclamation-triangle"
	}
	fmt.Fprintf(&b, " <a href=\"%s/info\"><i class=\"fa %s\"></i></a>", resultURL, icon)
	b.WriteString("</div>")

	b.WriteString("<ul>")
	if origins := s.Origins(); len(origins) > 0 {
		fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(toolsLine(label.DisplayNames(h.Labels, origins))))
	}
	if n := s.CleanBuilds(); n > 0 {
		link := fmt.Sprintf("<a href=\"../%d\" class=\"model-link inside\">%d</a>", s.NoIssuesSinceBuild, s.NoIssuesSinceBuild)
		fmt.Fprintf(&b, "<li>%s</li>", cleanBuildsLine(n, link))
	}
	if s.NewSize > 0 {
		fmt.Fprintf(&b, "<li><a href=\"%s/new\">%s</a></li>", resultURL, newWarnings(s.NewSize))
	}
	if s.FixedSize > 0 {
		fmt.Fprintf(&b, "<li><a href=\"%s/fixed\">%s</a></li>", resultURL, fixedWarnings(s.FixedSize))
	}
	if s.QualityGate.Enabled {
		v := s.QualityGate.Verdict
		fmt.Fprintf(&b, "<li>Quality gate: <img src=\"%s\" class=\"icon-%s icon-lg\" alt=\"%s\" title=\"%s\"> %s</li>",
			html.EscapeString(h.Links.ImagePath(v.Color())), v.Color(), v.Label(), v.Label(), v.Label())
	}
	if s.Reference != nil {
		fmt.Fprintf(&b, "<li>Reference build: <a href=\"%s\">%s</a></li>",
			html.EscapeString(h.Links.AbsoluteURL(s.Reference.URL())), html.EscapeString(s.Reference.DisplayName()))
	}
	for _, msg := range s.ErrorMessages {
		fmt.Fprintf(&b, "<li class=\"error\">Error: %s</li>", html.EscapeString(msg))
	}
	b.WriteString("</ul>")

	b.WriteString("</div>")
	return b.String(), nil
}
