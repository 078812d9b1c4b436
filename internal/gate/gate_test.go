package gate

import (
	"testing"

	"github.com/dshills/issuegate/internal/issues"
)

func TestVerdictOrder(t *testing.T) {
	order := []Verdict{VerdictInactive, VerdictSuccess, VerdictUnstable, VerdictFailed}
	for i := 1; i < len(order); i++ {
		if order[i].Level() <= order[i-1].Level() {
			t.Errorf("%q should be worse than %q", order[i], order[i-1])
		}
	}
	if VerdictSuccess.Worse(VerdictFailed) != VerdictFailed {
		t.Error("Worse should pick FAILED")
	}
	if VerdictFailed.Worse(VerdictUnstable) != VerdictFailed {
		t.Error("Worse should keep FAILED")
	}
}

func TestVerdictPresentation(t *testing.T) {
	tests := []struct {
		v            Verdict
		color, label string
	}{
		{VerdictSuccess, "blue", "Success"},
		{VerdictUnstable, "yellow", "Unstable"},
		{VerdictFailed, "red", "Failed"},
	}
	for _, tt := range tests {
		if tt.v.Color() != tt.color || tt.v.Label() != tt.label {
			t.Errorf("%q: got %s/%s", tt.v, tt.v.Color(), tt.v.Label())
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		counts  Counts
		th      Thresholds
		want    Verdict
		reached int
	}{
		{"below unstable", Counts{Total: SeverityCounts{All: 4}}, Thresholds{UnstableTotalAll: Limit(5)}, VerdictSuccess, 0},
		{"reaches unstable", Counts{Total: SeverityCounts{All: 5}}, Thresholds{UnstableTotalAll: Limit(5)}, VerdictUnstable, 1},
		{"reaches failed", Counts{Total: SeverityCounts{All: 10}},
			Thresholds{UnstableTotalAll: Limit(5), FailedTotalAll: Limit(10)}, VerdictFailed, 2},
		{"new high only", Counts{New: SeverityCounts{All: 1, High: 1}},
			Thresholds{FailedNewHigh: Limit(1), UnstableTotalLow: Limit(1)}, VerdictFailed, 1},
		{"unset skipped", Counts{Total: SeverityCounts{All: 100}}, Thresholds{UnstableNewAll: Limit(1)}, VerdictSuccess, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Evaluate(tt.counts, Gate{Thresholds: tt.th})
			if !res.Enabled {
				t.Fatal("gate should be enabled")
			}
			if res.Verdict != tt.want {
				t.Errorf("verdict = %s, want %s", res.Verdict, tt.want)
			}
			if len(res.Reached) != tt.reached {
				t.Errorf("reached = %v, want %d entries", res.Reached, tt.reached)
			}
		})
	}
}

func TestEvaluateDisabled(t *testing.T) {
	res := Evaluate(Counts{Total: SeverityCounts{All: 50}}, Gate{})
	if res.Enabled || res.Verdict != VerdictInactive {
		t.Errorf("no thresholds: got %+v, want inactive", res)
	}

	off := false
	res = Evaluate(Counts{Total: SeverityCounts{All: 50}}, Gate{
		Enabled:    &off,
		Thresholds: Thresholds{FailedTotalAll: Limit(1)},
	})
	if res.Enabled || res.Verdict == VerdictSuccess || res.Verdict == VerdictFailed {
		t.Errorf("explicitly disabled: got %+v, want inactive", res)
	}
}

func TestEvaluateMonotonic(t *testing.T) {
	g := Gate{Thresholds: Thresholds{
		UnstableTotalAll: Limit(3),
		FailedTotalAll:   Limit(6),
		UnstableNewAll:   Limit(2),
		FailedNewHigh:    Limit(2),
	}}
	prev := 0
	for total := 0; total <= 8; total++ {
		for newAll := 0; newAll <= total; newAll++ {
			c := Counts{
				Total: SeverityCounts{All: total},
				New:   SeverityCounts{All: newAll, High: newAll / 2},
			}
			lvl := Evaluate(c, g).Verdict.Level()
			bigger := c
			bigger.Total.All++
			bigger.New.All++
			bigger.New.High++
			if Evaluate(bigger, g).Verdict.Level() < lvl {
				t.Fatalf("verdict dropped when counts grew from %+v", c)
			}
			if newAll == 0 && lvl < prev {
				t.Fatalf("verdict dropped as total grew to %d", total)
			}
			if newAll == 0 {
				prev = lvl
			}
		}
	}
}

func TestThresholdsValidate(t *testing.T) {
	th := Thresholds{UnstableTotalAll: Limit(0), FailedNewLow: Limit(-2), FailedTotalAll: Limit(3)}
	errs := th.Validate()
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", errs)
	}
	if errs[0].Name != "unstable_total_all" || errs[1].Name != "failed_new_low" {
		t.Errorf("unexpected names: %s, %s", errs[0].Name, errs[1].Name)
	}
	var nilTh *Thresholds
	if nilTh.Validate() != nil || nilTh.Any() {
		t.Error("nil thresholds should validate clean and be empty")
	}
}

func TestCountsFrom(t *testing.T) {
	set := issues.NewSet(
		issues.Issue{Origin: "a", File: "x", Line: 1, Severity: issues.SeverityError},
		issues.Issue{Origin: "a", File: "x", Line: 2, Severity: issues.SeverityHigh},
		issues.Issue{Origin: "a", File: "x", Line: 3, Severity: issues.SeverityLow},
	)
	c := CountsFrom(set, set.Issues()[2:], 4)
	if c.Total.All != 3 || c.Total.High != 2 || c.Total.Low != 1 {
		t.Errorf("total = %+v", c.Total)
	}
	if c.New.All != 1 || c.New.Low != 1 || c.Fixed != 4 {
		t.Errorf("new = %+v fixed = %d", c.New, c.Fixed)
	}
}
