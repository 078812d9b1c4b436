package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/dshills/issuegate/internal/gate"
	"github.com/dshills/issuegate/internal/label"
	"github.com/dshills/issuegate/internal/summary"
)

// Text renders the summary for a terminal. Colors depend on the lipgloss
// renderer; without one the output is plain ASCII.
type Text struct {
	Labels   label.Provider
	Terminal *lipgloss.Renderer
}

type textStyles struct {
	title, info, errorMark, bullet lipgloss.Style
	verdict                        map[gate.Verdict]lipgloss.Style
}

func newTextStyles(r *lipgloss.Renderer) textStyles {
	return textStyles{
		title:     r.NewStyle().Bold(true),
		info:      r.NewStyle().Foreground(lipgloss.Color("69")),
		errorMark: r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		bullet:    r.NewStyle().PaddingLeft(2),
		verdict: map[gate.Verdict]lipgloss.Style{
			gate.VerdictSuccess:  r.NewStyle().Foreground(lipgloss.Color("33")),
			gate.VerdictUnstable: r.NewStyle().Foreground(lipgloss.Color("214")),
			gate.VerdictFailed:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		},
	}
}

// Render implements Renderer.
func (t *Text) Render(s *summary.Summary) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	term := t.Terminal
	if term == nil {
		term = lipgloss.NewRenderer(io.Discard)
		term.SetColorProfile(termenv.Ascii)
	}
	st := newTextStyles(term)
	var b strings.Builder

	mark := st.info.Render("[i]")
	if s.HasErrors() {
		mark = st.errorMark.Render("[!]")
	}
	fmt.Fprintf(&b, "%s %s\n", mark, st.title.Render(fmt.Sprintf("%s: %s", title(s), warningsCount(s.TotalSize))))

	var lines []string
	if origins := s.Origins(); len(origins) > 0 {
		lines = append(lines, toolsLine(label.DisplayNames(t.Labels, origins)))
	}
	if n := s.CleanBuilds(); n > 0 {
		lines = append(lines, cleanBuildsLine(n, fmt.Sprintf("#%d", s.NoIssuesSinceBuild)))
	}
	if s.NewSize > 0 {
		lines = append(lines, newWarnings(s.NewSize))
	}
	if s.FixedSize > 0 {
		lines = append(lines, fixedWarnings(s.FixedSize))
	}
	if s.QualityGate.Enabled {
		v := s.QualityGate.Verdict
		lines = append(lines, "Quality gate: "+st.verdict[v].Render(v.Label()))
	}
	if s.Reference != nil {
		lines = append(lines, "Reference build: "+s.Reference.DisplayName())
	}
	for _, msg := range s.ErrorMessages {
		lines = append(lines, st.errorMark.Render("Error:")+" "+msg)
	}
	for _, l := range lines {
		b.WriteString(st.bullet.Render("- "+l))
		b.WriteString("\n")
	}
	return b.String(), nil
}
