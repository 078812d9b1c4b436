package issues

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInconsistent reports a set whose per-origin counts do not add up to its size.
var ErrInconsistent = errors.New("issue set: per-origin counts do not sum to total")

// Set is the immutable collection of issues found in one build.
// The zero value is an empty set.
type Set struct {
	issues   []Issue
	index    map[Key]int
	byOrigin map[string]int
}

// NewSet builds a set from issues. Duplicate identity keys are dropped,
// the first occurrence wins.
func NewSet(issues ...Issue) Set {
	s := Set{
		issues:   make([]Issue, 0, len(issues)),
		index:    make(map[Key]int, len(issues)),
		byOrigin: make(map[string]int),
	}
	for _, iss := range issues {
		k := iss.Key()
		if _, dup := s.index[k]; dup {
			continue
		}
		s.index[k] = len(s.issues)
		s.issues = append(s.issues, iss)
		s.byOrigin[iss.Origin]++
	}
	return s
}

// Size returns the number of distinct issues.
func (s Set) Size() int { return len(s.issues) }

// IsEmpty reports whether the set has no issues.
func (s Set) IsEmpty() bool { return len(s.issues) == 0 }

// Issues returns a copy of the issues in insertion order.
func (s Set) Issues() []Issue {
	out := make([]Issue, len(s.issues))
	copy(out, s.issues)
	return out
}

// Contains reports whether an issue with the given key is present.
func (s Set) Contains(k Key) bool {
	_, ok := s.index[k]
	return ok
}

// SizePerOrigin returns a fresh map of origin to issue count.
func (s Set) SizePerOrigin() map[string]int {
	out := make(map[string]int, len(s.byOrigin))
	for k, v := range s.byOrigin {
		out[k] = v
	}
	return out
}

// Origins returns the origin ids present in the set, sorted.
func (s Set) Origins() []string {
	out := make([]string, 0, len(s.byOrigin))
	for k := range s.byOrigin {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SizeOf returns the number of issues with the given severity.
func (s Set) SizeOf(sev Severity) int {
	return CountSeverity(s.issues, sev)
}

// Validate re-checks that per-origin counts sum to the set size.
func (s Set) Validate() error {
	return CheckSizes(s.SizePerOrigin(), s.Size())
}

// CheckSizes verifies that the per-origin counts add up to total.
func CheckSizes(perOrigin map[string]int, total int) error {
	sum := 0
	for _, n := range perOrigin {
		sum += n
	}
	if sum != total {
		return fmt.Errorf("%w: sum %d, total %d", ErrInconsistent, sum, total)
	}
	return nil
}

// CountSeverity counts issues with the given severity.
func CountSeverity(issues []Issue, sev Severity) int {
	n := 0
	for _, iss := range issues {
		if iss.Severity == sev {
			n++
		}
	}
	return n
}
