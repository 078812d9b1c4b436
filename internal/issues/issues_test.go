package issues

import (
	"errors"
	"strconv"
	"testing"
)

// --- Enum tests ---

func TestSeverityValid(t *testing.T) {
	for _, s := range Severities() {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if Severity("BLOCKER").Valid() {
		t.Error("expected BLOCKER severity to be invalid")
	}
}

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		in   string
		want Severity
		ok   bool
	}{
		{"error", SeverityError, true},
		{"Major", SeverityHigh, true},
		{"", SeverityNormal, true},
		{"warning", SeverityNormal, true},
		{" info ", SeverityLow, true},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSeverity(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSeverity(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

// --- Set tests ---

func sampleIssues() []Issue {
	return []Issue{
		{Origin: "checkstyle", File: "A.java", Line: 3, Type: "FinalClass", Severity: SeverityNormal},
		{Origin: "checkstyle", File: "B.java", Line: 9, Type: "MagicNumber", Severity: SeverityLow},
		{Origin: "pmd", File: "A.java", Line: 3, Type: "UnusedImport", Severity: SeverityHigh},
	}
}

func TestNewSetSizes(t *testing.T) {
	s := NewSet(sampleIssues()...)
	if s.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", s.Size())
	}
	per := s.SizePerOrigin()
	if per["checkstyle"] != 2 || per["pmd"] != 1 {
		t.Errorf("SizePerOrigin() = %v", per)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	origins := s.Origins()
	if len(origins) != 2 || origins[0] != "checkstyle" || origins[1] != "pmd" {
		t.Errorf("Origins() = %v", origins)
	}
	if s.SizeOf(SeverityHigh) != 1 {
		t.Errorf("SizeOf(HIGH) = %d, want 1", s.SizeOf(SeverityHigh))
	}
}

func TestNewSetDeduplicatesFirstWins(t *testing.T) {
	first := Issue{Origin: "pmd", File: "A.java", Line: 1, Type: "X", Message: "first"}
	second := first
	second.Message = "second"
	s := NewSet(first, second)
	if s.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", s.Size())
	}
	if got := s.Issues()[0].Message; got != "first" {
		t.Errorf("kept message %q, want first", got)
	}
}

func TestSetIsImmutable(t *testing.T) {
	s := NewSet(sampleIssues()...)
	got := s.Issues()
	got[0].File = "changed"
	per := s.SizePerOrigin()
	per["pmd"] = 99
	if s.Issues()[0].File != "A.java" {
		t.Error("Issues() leaked internal slice")
	}
	if s.SizePerOrigin()["pmd"] != 1 {
		t.Error("SizePerOrigin() leaked internal map")
	}
}

func TestZeroSet(t *testing.T) {
	var s Set
	if !s.IsEmpty() || s.Size() != 0 {
		t.Error("zero set should be empty")
	}
	if s.Contains(Key{}) {
		t.Error("zero set should contain nothing")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSizeSumProperty(t *testing.T) {
	// For every prefix of a mixed list the per-origin counts must add up.
	all := append(sampleIssues(), sampleIssues()...)
	all = append(all, Issue{Origin: "spotbugs", File: "C.java", Line: 1})
	for n := 0; n <= len(all); n++ {
		s := NewSet(all[:n]...)
		sum := 0
		for _, c := range s.SizePerOrigin() {
			sum += c
		}
		if sum != s.Size() {
			t.Fatalf("prefix %d: sum %d != size %d", n, sum, s.Size())
		}
	}
}

func TestCheckSizes(t *testing.T) {
	if err := CheckSizes(map[string]int{"a": 1, "b": 2}, 3); err != nil {
		t.Errorf("CheckSizes() = %v", err)
	}
	err := CheckSizes(map[string]int{"a": 1}, 0)
	if !errors.Is(err, ErrInconsistent) {
		t.Errorf("CheckSizes() = %v, want ErrInconsistent", err)
	}
}

// --- Sort tests ---

func TestSort(t *testing.T) {
	list := []Issue{
		{File: "b.go", Line: 1, Severity: SeverityLow},
		{File: "a.go", Line: 9, Severity: SeverityError},
		{File: "a.go", Line: 2, Severity: SeverityNormal},
		{File: "a.go", Line: 1, Severity: SeverityNormal},
	}
	Sort(list)
	want := []string{"a.go:9", "a.go:1", "a.go:2", "b.go:1"}
	for i, iss := range list {
		got := iss.File + ":" + strconv.Itoa(iss.Line)
		if got != want[i] {
			t.Errorf("position %d: got %s, want %s", i, got, want[i])
		}
	}
}

