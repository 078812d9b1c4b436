// Package analysis defines the analysis run recorded for one build.
package analysis

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dshills/issuegate/internal/gate"
	"github.com/dshills/issuegate/internal/issues"
)

// BuildID names one build of a job.
type BuildID struct {
	Job    string `json:"job"`
	Number int    `json:"number"`
}

// DisplayName returns the full display name, e.g. "my-job #15".
func (b BuildID) DisplayName() string {
	return fmt.Sprintf("%s #%d", b.Job, b.Number)
}

// URL returns the build path relative to the server root.
func (b BuildID) URL() string {
	return fmt.Sprintf("job/%s/%d/", url.PathEscape(b.Job), b.Number)
}

func (b BuildID) String() string { return b.DisplayName() }

// Run is the analysis result of one build.
type Run struct {
	ID        string     `json:"id"`
	Build     BuildID    `json:"build"`
	Timestamp time.Time  `json:"timestamp"`
	Issues    issues.Set `json:"-"`
	Reference *BuildID   `json:"reference,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
	// Result is the overall verdict captured when the run was recorded.
	Result gate.Verdict `json:"result,omitempty"`
}

// Size is a shorthand for r.Issues.Size().
func (r *Run) Size() int { return r.Issues.Size() }
