package issues

import "strings"

// Severity indicates the importance of an issue.
type Severity string

const (
	SeverityError  Severity = "ERROR"
	SeverityHigh   Severity = "HIGH"
	SeverityNormal Severity = "NORMAL"
	SeverityLow    Severity = "LOW"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityHigh, SeverityNormal, SeverityLow:
		return true
	}
	return false
}

// order returns a sort key (lower = higher priority).
func (s Severity) order() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityHigh:
		return 1
	case SeverityNormal:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// ParseSeverity maps tool spellings onto a Severity. Empty input is NORMAL.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR", "CRITICAL", "BLOCKER":
		return SeverityError, true
	case "HIGH", "MAJOR":
		return SeverityHigh, true
	case "", "NORMAL", "WARNING", "WARN", "MEDIUM":
		return SeverityNormal, true
	case "LOW", "MINOR", "INFO":
		return SeverityLow, true
	}
	return "", false
}

// Severities lists all severities, highest first.
func Severities() []Severity {
	return []Severity{SeverityError, SeverityHigh, SeverityNormal, SeverityLow}
}
