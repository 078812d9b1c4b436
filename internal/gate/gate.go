// Package gate evaluates quality gates over issue counts.
package gate

import "github.com/dshills/issuegate/internal/issues"

// SeverityCounts breaks a count down by severity. High includes ERROR.
type SeverityCounts struct {
	All    int `json:"all"`
	High   int `json:"high"`
	Normal int `json:"normal"`
	Low    int `json:"low"`
}

// Counts are the inputs of a gate evaluation.
type Counts struct {
	Total SeverityCounts `json:"total"`
	New   SeverityCounts `json:"new"`
	Fixed int            `json:"fixed"`
}

// CountsFrom derives gate counts from the current set and the new issues.
func CountsFrom(total issues.Set, newIssues []issues.Issue, fixed int) Counts {
	return Counts{
		Total: countBySeverity(total.Issues()),
		New:   countBySeverity(newIssues),
		Fixed: fixed,
	}
}

func countBySeverity(list []issues.Issue) SeverityCounts {
	return SeverityCounts{
		All: len(list),
		High: issues.CountSeverity(list, issues.SeverityError) +
			issues.CountSeverity(list, issues.SeverityHigh),
		Normal: issues.CountSeverity(list, issues.SeverityNormal),
		Low:    issues.CountSeverity(list, issues.SeverityLow),
	}
}

// Gate is a configured quality gate. Enabled nil means "enabled when any
// threshold is set".
type Gate struct {
	Enabled    *bool      `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Thresholds Thresholds `yaml:"thresholds" json:"thresholds"`
}

// IsEnabled reports whether the gate takes part in the build result.
func (g Gate) IsEnabled() bool {
	if g.Enabled != nil {
		return *g.Enabled
	}
	return g.Thresholds.Any()
}

// Result is the outcome of Evaluate.
type Result struct {
	Enabled bool     `json:"enabled"`
	Verdict Verdict  `json:"verdict,omitempty"`
	Reached []string `json:"reached,omitempty"`
}

// Evaluate applies the gate thresholds to counts. Each reached threshold
// escalates the verdict to its configured level; unset thresholds are
// skipped. A disabled gate yields an inactive result, never SUCCESS.
func Evaluate(c Counts, g Gate) Result {
	if !g.IsEnabled() {
		return Result{}
	}
	res := Result{Enabled: true, Verdict: VerdictSuccess}
	for _, th := range g.Thresholds.all() {
		if th.limit == nil || *th.limit < 1 {
			continue
		}
		if th.count(c) >= *th.limit {
			res.Verdict = res.Verdict.Worse(th.verdict)
			res.Reached = append(res.Reached, th.name)
		}
	}
	return res
}
