package delta

import "github.com/dshills/issuegate/internal/issues"

// BuildSize is the issue count of one build.
type BuildSize struct {
	Number int
	Size   int
}

// NoIssuesSince returns the first build of the zero-issue streak that ends
// with current. earlier lists previous builds newest first; the walk stops
// at the first build with issues or at a gap in the numbering. Zero means
// current has issues.
func NoIssuesSince(current BuildSize, earlier []BuildSize) int {
	if current.Size > 0 {
		return 0
	}
	since := current.Number
	for _, b := range earlier {
		if b.Number != since-1 || b.Size > 0 {
			break
		}
		since = b.Number
	}
	return since
}

// Outcome is the full delta of one build.
type Outcome struct {
	Result
	NoIssuesSinceBuild int
}

// ComputeFor runs Compute and, when a reference exists, the
// no-issues-since walk.
func ComputeFor(build int, current issues.Set, reference *issues.Set, earlier []BuildSize) Outcome {
	out := Outcome{Result: Compute(current, reference)}
	if reference != nil {
		out.NoIssuesSinceBuild = NoIssuesSince(BuildSize{Number: build, Size: current.Size()}, earlier)
	}
	return out
}
