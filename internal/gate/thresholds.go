package gate

import "fmt"

// Thresholds holds the optional limits of a quality gate. A nil limit is
// not checked. A limit is reached when the matching count is >= the limit.
type Thresholds struct {
	UnstableTotalAll    *int `yaml:"unstable_total_all,omitempty" json:"unstable_total_all,omitempty"`
	UnstableTotalHigh   *int `yaml:"unstable_total_high,omitempty" json:"unstable_total_high,omitempty"`
	UnstableTotalNormal *int `yaml:"unstable_total_normal,omitempty" json:"unstable_total_normal,omitempty"`
	UnstableTotalLow    *int `yaml:"unstable_total_low,omitempty" json:"unstable_total_low,omitempty"`
	UnstableNewAll      *int `yaml:"unstable_new_all,omitempty" json:"unstable_new_all,omitempty"`
	UnstableNewHigh     *int `yaml:"unstable_new_high,omitempty" json:"unstable_new_high,omitempty"`
	UnstableNewNormal   *int `yaml:"unstable_new_normal,omitempty" json:"unstable_new_normal,omitempty"`
	UnstableNewLow      *int `yaml:"unstable_new_low,omitempty" json:"unstable_new_low,omitempty"`
	FailedTotalAll      *int `yaml:"failed_total_all,omitempty" json:"failed_total_all,omitempty"`
	FailedTotalHigh     *int `yaml:"failed_total_high,omitempty" json:"failed_total_high,omitempty"`
	FailedTotalNormal   *int `yaml:"failed_total_normal,omitempty" json:"failed_total_normal,omitempty"`
	FailedTotalLow      *int `yaml:"failed_total_low,omitempty" json:"failed_total_low,omitempty"`
	FailedNewAll        *int `yaml:"failed_new_all,omitempty" json:"failed_new_all,omitempty"`
	FailedNewHigh       *int `yaml:"failed_new_high,omitempty" json:"failed_new_high,omitempty"`
	FailedNewNormal     *int `yaml:"failed_new_normal,omitempty" json:"failed_new_normal,omitempty"`
	FailedNewLow        *int `yaml:"failed_new_low,omitempty" json:"failed_new_low,omitempty"`
}

// Limit returns a pointer to n, for building Thresholds literals.
func Limit(n int) *int { return &n }

// threshold binds one configured limit to the count it guards.
type threshold struct {
	name    string
	limit   *int
	count   func(Counts) int
	verdict Verdict
}

func (t *Thresholds) all() []threshold {
	return []threshold{
		{"unstable_total_all", t.UnstableTotalAll, func(c Counts) int { return c.Total.All }, VerdictUnstable},
		{"unstable_total_high", t.UnstableTotalHigh, func(c Counts) int { return c.Total.High }, VerdictUnstable},
		{"unstable_total_normal", t.UnstableTotalNormal, func(c Counts) int { return c.Total.Normal }, VerdictUnstable},
		{"unstable_total_low", t.UnstableTotalLow, func(c Counts) int { return c.Total.Low }, VerdictUnstable},
		{"unstable_new_all", t.UnstableNewAll, func(c Counts) int { return c.New.All }, VerdictUnstable},
		{"unstable_new_high", t.UnstableNewHigh, func(c Counts) int { return c.New.High }, VerdictUnstable},
		{"unstable_new_normal", t.UnstableNewNormal, func(c Counts) int { return c.New.Normal }, VerdictUnstable},
		{"unstable_new_low", t.UnstableNewLow, func(c Counts) int { return c.New.Low }, VerdictUnstable},
		{"failed_total_all", t.FailedTotalAll, func(c Counts) int { return c.Total.All }, VerdictFailed},
		{"failed_total_high", t.FailedTotalHigh, func(c Counts) int { return c.Total.High }, VerdictFailed},
		{"failed_total_normal", t.FailedTotalNormal, func(c Counts) int { return c.Total.Normal }, VerdictFailed},
		{"failed_total_low", t.FailedTotalLow, func(c Counts) int { return c.Total.Low }, VerdictFailed},
		{"failed_new_all", t.FailedNewAll, func(c Counts) int { return c.New.All }, VerdictFailed},
		{"failed_new_high", t.FailedNewHigh, func(c Counts) int { return c.New.High }, VerdictFailed},
		{"failed_new_normal", t.FailedNewNormal, func(c Counts) int { return c.New.Normal }, VerdictFailed},
		{"failed_new_low", t.FailedNewLow, func(c Counts) int { return c.New.Low }, VerdictFailed},
	}
}

// Any reports whether at least one limit is configured.
func (t *Thresholds) Any() bool {
	if t == nil {
		return false
	}
	for _, th := range t.all() {
		if th.limit != nil {
			return true
		}
	}
	return false
}

// InvalidThresholdError describes a limit outside the allowed range.
type InvalidThresholdError struct {
	Name  string
	Value int
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("threshold %s: value %d must be at least 1 (omit it to disable)", e.Name, e.Value)
}

// Validate reports every configured limit below 1.
func (t *Thresholds) Validate() []*InvalidThresholdError {
	if t == nil {
		return nil
	}
	var errs []*InvalidThresholdError
	for _, th := range t.all() {
		if th.limit != nil && *th.limit < 1 {
			errs = append(errs, &InvalidThresholdError{Name: th.name, Value: *th.limit})
		}
	}
	return errs
}
