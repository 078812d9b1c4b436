// Package summary assembles the immutable summary record of one build evaluation.
package summary

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/issuegate/internal/analysis"
	"github.com/dshills/issuegate/internal/delta"
	"github.com/dshills/issuegate/internal/gate"
	"github.com/dshills/issuegate/internal/issues"
)

// ErrRenderInputInconsistent is returned when a summary's per-origin counts
// do not add up to its total. It points at a defect upstream.
var ErrRenderInputInconsistent = errors.New("summary: inconsistent render input")

// Summary is the record consumed by renderers.
type Summary struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Build              analysis.BuildID  `json:"build"`
	TotalSize          int               `json:"total_size"`
	SizePerOrigin      map[string]int    `json:"size_per_origin"`
	NewSize            int               `json:"new_size"`
	FixedSize          int               `json:"fixed_size"`
	ErrorMessages      []string          `json:"error_messages"`
	NoIssuesSinceBuild int               `json:"no_issues_since_build,omitempty"`
	QualityGate        gate.Result       `json:"quality_gate"`
	Reference          *analysis.BuildID `json:"reference,omitempty"`
}

// Input bundles what Build needs.
type Input struct {
	ID   string
	Name string
	Run  *analysis.Run
	// Reference is the resolved reference build; nil when none qualifies.
	Reference *analysis.BuildID
	Delta     delta.Outcome
	Gate      gate.Result
}

// Build combines a run, its delta and its gate result into a Summary.
// It copies everything it keeps, so the result does not alias the inputs.
func Build(in Input) *Summary {
	s := &Summary{
		ID:                 in.ID,
		Name:               in.Name,
		Build:              in.Run.Build,
		TotalSize:          in.Run.Issues.Size(),
		SizePerOrigin:      in.Run.Issues.SizePerOrigin(),
		NewSize:            in.Delta.NewSize(),
		FixedSize:          in.Delta.FixedSize(),
		ErrorMessages:      append([]string{}, in.Run.Errors...),
		NoIssuesSinceBuild: in.Delta.NoIssuesSinceBuild,
		QualityGate: gate.Result{
			Enabled: in.Gate.Enabled,
			Verdict: in.Gate.Verdict,
			Reached: append([]string(nil), in.Gate.Reached...),
		},
	}
	if in.Reference != nil {
		ref := *in.Reference
		s.Reference = &ref
	}
	return s
}

// Validate fails fast on a summary whose counts disagree.
func (s *Summary) Validate() error {
	if err := issues.CheckSizes(s.SizePerOrigin, s.TotalSize); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderInputInconsistent, err)
	}
	if s.NewSize < 0 || s.FixedSize < 0 {
		return fmt.Errorf("%w: negative delta counts", ErrRenderInputInconsistent)
	}
	return nil
}

// HasErrors reports whether the analysis produced error messages.
func (s *Summary) HasErrors() bool { return len(s.ErrorMessages) > 0 }

// Origins returns the origin ids with at least one issue entry, sorted.
func (s *Summary) Origins() []string {
	out := make([]string, 0, len(s.SizePerOrigin))
	for k := range s.SizePerOrigin {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CleanBuilds returns how many builds in a row had no issues, or zero when
// the streak should not be reported: the build has issues, the streak is
// unset, or it started with this build.
func (s *Summary) CleanBuilds() int {
	if s.TotalSize != 0 || s.NoIssuesSinceBuild <= 0 {
		return 0
	}
	if s.Build.Number <= s.NoIssuesSinceBuild {
		return 0
	}
	return s.Build.Number - s.NoIssuesSinceBuild + 1
}
