package render

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/dshills/issuegate/internal/analysis"
	"github.com/dshills/issuegate/internal/gate"
	"github.com/dshills/issuegate/internal/label"
	"github.com/dshills/issuegate/internal/summary"
)

// fakeLinks mirrors a host that resolves every image and URL to a fixed value.
type fakeLinks struct{}

func (fakeLinks) ImagePath(string) string   { return "color" }
func (fakeLinks) AbsoluteURL(string) string { return "absoluteUrl" }

func testLabels() label.Provider {
	return label.NewRegistry(
		label.Tool{ID: "checkstyle", Name: "CheckStyle"},
		label.Tool{ID: "pmd", Name: "PMD"},
	)
}

func newHTML() *HTML {
	return &HTML{Labels: testLabels(), Links: fakeLinks{}}
}

// sampleSummary is build #2 with no issues, a passing-or-disabled gate and
// reference build "Job #15".
func sampleSummary() *summary.Summary {
	return &summary.Summary{
		ID:            "test",
		Name:          "SummaryTest",
		Build:         analysis.BuildID{Job: "Job", Number: 2},
		SizePerOrigin: map[string]int{},
		ErrorMessages: []string{},
		Reference:     &analysis.BuildID{Job: "Job", Number: 15},
	}
}

func mustRender(t *testing.T, r Renderer, s *summary.Summary) string {
	t.Helper()
	out, err := r.Render(s)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return out
}

func TestHTMLErrorIcon(t *testing.T) {
	s := sampleSummary()
	s.ErrorMessages = []string{"Error 1", "Error 2"}
	out := mustRender(t, newHTML(), s)
	if !strings.Contains(out, `class="fa fa-exclamation-triangle"`) {
		t.Errorf("missing triangle icon: %s", out)
	}
	for _, msg := range s.ErrorMessages {
		if !strings.Contains(out, msg) {
			t.Errorf("error message %q not surfaced", msg)
		}
	}
}

func TestHTMLInfoIcon(t *testing.T) {
	out := mustRender(t, newHTML(), sampleSummary())
	if !strings.Contains(out, `<a href="testResult/info"><i class="fa fa-info-circle"></i>`) {
		t.Errorf("missing info icon: %s", out)
	}
}

func TestHTMLIDs(t *testing.T) {
	out := mustRender(t, newHTML(), sampleSummary())
	for _, want := range []string{`<div id="test-summary">`, `<div id="test-title">`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestHTMLToolNames(t *testing.T) {
	out := mustRender(t, newHTML(), sampleSummary())
	if strings.Contains(out, "Static analysis tools:") {
		t.Error("tool line rendered without origins")
	}

	s := sampleSummary()
	s.SizePerOrigin = map[string]int{"pmd": 20, "checkstyle": 15}
	s.TotalSize = 35
	out = mustRender(t, newHTML(), s)
	if !strings.Contains(out, "Static analysis tools: CheckStyle, PMD") {
		t.Errorf("missing tool names: %s", out)
	}
}

func TestHTMLNoIssuesSince(t *testing.T) {
	s := sampleSummary()
	s.NoIssuesSinceBuild = 1
	out := mustRender(t, newHTML(), s)
	if !strings.Contains(out, "No warnings for 2 builds") {
		t.Errorf("missing streak line: %s", out)
	}
	if !strings.Contains(out, `since build <a href="../1" class="model-link inside">1</a>`) {
		t.Errorf("missing since link: %s", out)
	}
}

func TestHTMLNoIssuesSinceSuppressedWithIssues(t *testing.T) {
	s := sampleSummary()
	s.NoIssuesSinceBuild = 1
	s.TotalSize = 1
	s.SizePerOrigin = map[string]int{"pmd": 1}
	out := mustRender(t, newHTML(), s)
	if strings.Contains(out, "No warnings for") {
		t.Error("streak line rendered although the build has issues")
	}
	if !strings.Contains(out, `<a href="testResult">One warning</a>`) {
		t.Errorf("missing one-warning link: %s", out)
	}
}

func TestHTMLNoIssuesSinceSuppressedWhenBuildIsYounger(t *testing.T) {
	s := sampleSummary()
	s.Build.Number = 1
	s.NoIssuesSinceBuild = 3
	out := mustRender(t, newHTML(), s)
	if strings.Contains(out, "No warnings for") {
		t.Error("streak line rendered for younger build")
	}
	if !strings.Contains(out, "No warnings") {
		t.Error("missing plain no-warnings title")
	}
}

func TestHTMLNoIssuesSinceSameBuild(t *testing.T) {
	s := sampleSummary()
	s.NoIssuesSinceBuild = 2
	out := mustRender(t, newHTML(), s)
	if strings.Contains(out, "No warnings for") {
		t.Error("streak line rendered when streak starts with this build")
	}
	if !strings.Contains(out, "SummaryTest: No warnings") {
		t.Errorf("missing no-warnings title: %s", out)
	}
}

func TestHTMLNewAndFixed(t *testing.T) {
	newRe := regexp.MustCompile(`(?s)<a href="testResult/new">.*3 new warnings.*</a>`)
	fixedRe := regexp.MustCompile(`(?s)<a href="testResult/fixed">.*5 fixed warnings.*</a>`)

	out := mustRender(t, newHTML(), sampleSummary())
	if newRe.MatchString(out) || fixedRe.MatchString(out) || strings.Contains(out, "/new") || strings.Contains(out, "/fixed") {
		t.Errorf("delta lines rendered for zero counts: %s", out)
	}

	s := sampleSummary()
	s.NewSize = 3
	s.FixedSize = 5
	out = mustRender(t, newHTML(), s)
	if !newRe.MatchString(out) {
		t.Errorf("missing new warnings: %s", out)
	}
	if !fixedRe.MatchString(out) {
		t.Errorf("missing fixed warnings: %s", out)
	}
}

func TestHTMLQualityGate(t *testing.T) {
	line := `Quality gate: <img src="color" class="icon-blue icon-lg" alt="Success" title="Success"> Success`

	s := sampleSummary()
	s.QualityGate = gate.Result{Enabled: true, Verdict: gate.VerdictSuccess}
	if out := mustRender(t, newHTML(), s); !strings.Contains(out, line) {
		t.Errorf("missing gate line: %s", out)
	}

	s.QualityGate = gate.Result{}
	if out := mustRender(t, newHTML(), s); strings.Contains(out, "Quality gate:") {
		t.Errorf("gate line rendered for disabled gate: %s", out)
	}
}

func TestHTMLReferenceBuild(t *testing.T) {
	out := mustRender(t, newHTML(), sampleSummary())
	if !strings.Contains(out, `Reference build: <a href="absoluteUrl">Job #15</a>`) {
		t.Errorf("missing reference line: %s", out)
	}

	s := sampleSummary()
	s.Reference = nil
	if out := mustRender(t, newHTML(), s); strings.Contains(out, "Reference build:") {
		t.Error("reference line rendered without reference")
	}
}

func TestHTMLFullSummary(t *testing.T) {
	s := sampleSummary()
	s.SizePerOrigin = map[string]int{"checkstyle": 15, "pmd": 20}
	s.TotalSize = 35
	s.NewSize = 2
	s.FixedSize = 2
	s.QualityGate = gate.Result{Enabled: true, Verdict: gate.VerdictSuccess}

	out := mustRender(t, newHTML(), s)
	for _, want := range []string{
		"CheckStyle, PMD",
		`<a href="testResult/new">2 new warnings</a>`,
		`<a href="testResult/fixed">2 fixed warnings</a>`,
		`Quality gate: <img src="color" class="icon-blue icon-lg" alt="Success" title="Success"> Success`,
		`Reference build: <a href="absoluteUrl">Job #15</a>`,
		`<a href="testResult">35 warnings</a>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %s", want, out)
		}
	}
}

func TestHTMLEscapes(t *testing.T) {
	s := sampleSummary()
	s.ErrorMessages = []string{`<script>alert("x")</script>`}
	out := mustRender(t, newHTML(), s)
	if strings.Contains(out, "<script>") {
		t.Errorf("unescaped error message: %s", out)
	}
}

func TestEmptySummaryAllFormats(t *testing.T) {
	s := sampleSummary()
	s.Reference = nil
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			r, err := ForFormat(format, Deps{Labels: testLabels(), Links: fakeLinks{}})
			if err != nil {
				t.Fatal(err)
			}
			out := mustRender(t, r, s)
			for _, unwanted := range []string{"Static analysis tools", "new warning", "fixed warning", "Reference build:", "Quality gate:"} {
				if strings.Contains(out, unwanted) {
					t.Errorf("%s output contains %q:\n%s", format, unwanted, out)
				}
			}
		})
	}
}

func TestFullSummaryAllFormats(t *testing.T) {
	s := sampleSummary()
	s.SizePerOrigin = map[string]int{"checkstyle": 15, "pmd": 20}
	s.TotalSize = 35
	s.NewSize = 2
	s.FixedSize = 2
	s.QualityGate = gate.Result{Enabled: true, Verdict: gate.VerdictSuccess}
	for _, format := range []string{"html", "text", "md"} {
		t.Run(format, func(t *testing.T) {
			r, _ := ForFormat(format, Deps{Labels: testLabels(), Links: fakeLinks{}})
			out := mustRender(t, r, s)
			for _, want := range []string{"CheckStyle, PMD", "2 new warnings", "2 fixed warnings", "Success", "Job #15"} {
				if !strings.Contains(out, want) {
					t.Errorf("%s output missing %q:\n%s", format, want, out)
				}
			}
		})
	}
}

func TestDeterministic(t *testing.T) {
	s := sampleSummary()
	s.SizePerOrigin = map[string]int{"pmd": 1, "checkstyle": 2, "eslint": 3, "cpd": 4}
	s.TotalSize = 10
	s.ErrorMessages = []string{"a", "b"}
	for _, format := range Formats {
		r, _ := ForFormat(format, Deps{Labels: testLabels(), Links: fakeLinks{}})
		first := mustRender(t, r, s)
		for i := 0; i < 20; i++ {
			if got := mustRender(t, r, s); got != first {
				t.Fatalf("%s output differs between renders", format)
			}
		}
	}
}

func TestInconsistentInputFailsFast(t *testing.T) {
	s := sampleSummary()
	s.SizePerOrigin = map[string]int{"checkstyle": 15}
	for _, format := range Formats {
		r, _ := ForFormat(format, Deps{})
		if _, err := r.Render(s); !errors.Is(err, summary.ErrRenderInputInconsistent) {
			t.Errorf("%s: err = %v, want ErrRenderInputInconsistent", format, err)
		}
	}
}

func TestTextPlainWithoutTerminal(t *testing.T) {
	s := sampleSummary()
	s.ErrorMessages = []string{"boom"}
	out := mustRender(t, &Text{Labels: testLabels()}, s)
	if strings.Contains(out, "\x1b[") {
		t.Errorf("unexpected escape codes: %q", out)
	}
	if !strings.HasPrefix(out, "[!] SummaryTest: No warnings") {
		t.Errorf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "Error: boom") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestMarkdownStreak(t *testing.T) {
	s := sampleSummary()
	s.NoIssuesSinceBuild = 1
	out := mustRender(t, &Markdown{Labels: testLabels(), Links: fakeLinks{}}, s)
	if !strings.Contains(out, "No warnings for 2 builds, i.e. since build #1") {
		t.Errorf("missing streak: %s", out)
	}
}

func TestJSONView(t *testing.T) {
	s := sampleSummary()
	s.SizePerOrigin = map[string]int{"checkstyle": 15, "pmd": 20}
	s.TotalSize = 35
	s.QualityGate = gate.Result{Enabled: true, Verdict: gate.VerdictUnstable}
	out := mustRender(t, &JSON{Labels: testLabels()}, s)

	var got struct {
		TotalSize int `json:"total_size"`
		Tools     []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Size int    `json:"size"`
		} `json:"tools"`
		VerdictLabel string `json:"verdict_label"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.TotalSize != 35 || len(got.Tools) != 2 || got.Tools[0].Name != "CheckStyle" || got.Tools[1].Size != 20 {
		t.Errorf("unexpected view: %+v", got)
	}
	if got.VerdictLabel != "Unstable" {
		t.Errorf("verdict_label = %q", got.VerdictLabel)
	}
}

func TestForFormatUnknown(t *testing.T) {
	if _, err := ForFormat("pdf", Deps{}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestMarkdownMultilineErrorStaysQuoted(t *testing.T) {
	s := sampleSummary()
	s.ErrorMessages = []string{"first line\r\n## not a heading\nlast"}
	out := mustRender(t, &Markdown{Labels: testLabels(), Links: fakeLinks{}}, s)
	if !strings.Contains(out, "> first line\n> ## not a heading\n> last\n") {
		t.Errorf("multi-line error not quoted line by line:\n%s", out)
	}
	if strings.Contains(out, "\n## not a heading") {
		t.Errorf("error line escaped the blockquote:\n%s", out)
	}
}
