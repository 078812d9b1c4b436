// Package delta compares the issues of a build with those of its reference build.
package delta

import "github.com/dshills/issuegate/internal/issues"

// Result holds the issues that appeared, disappeared or stayed.
type Result struct {
	HasReference bool
	New          []issues.Issue
	Fixed        []issues.Issue
	Outstanding  []issues.Issue
}

// NewSize returns the number of new issues.
func (r Result) NewSize() int { return len(r.New) }

// FixedSize returns the number of fixed issues.
func (r Result) FixedSize() int { return len(r.Fixed) }

// Compute matches current against reference by identity key. A nil
// reference means no prior build qualifies: every current issue is new.
func Compute(current issues.Set, reference *issues.Set) Result {
	if reference == nil {
		return Result{New: current.Issues()}
	}
	r := Result{HasReference: true}
	for _, iss := range current.Issues() {
		if reference.Contains(iss.Key()) {
			r.Outstanding = append(r.Outstanding, iss)
		} else {
			r.New = append(r.New, iss)
		}
	}
	for _, iss := range reference.Issues() {
		if !current.Contains(iss.Key()) {
			r.Fixed = append(r.Fixed, iss)
		}
	}
	return r
}
