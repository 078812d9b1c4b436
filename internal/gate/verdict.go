package gate

// Verdict is the outcome of a quality gate evaluation.
type Verdict string

const (
	// VerdictInactive is the result of a disabled gate. Renderers suppress it.
	VerdictInactive Verdict = ""
	VerdictSuccess  Verdict = "SUCCESS"
	VerdictUnstable Verdict = "UNSTABLE"
	VerdictFailed   Verdict = "FAILED"
)

func (v Verdict) Valid() bool {
	switch v {
	case VerdictInactive, VerdictSuccess, VerdictUnstable, VerdictFailed:
		return true
	}
	return false
}

// Level orders verdicts by severity; higher is worse.
func (v Verdict) Level() int {
	switch v {
	case VerdictSuccess:
		return 1
	case VerdictUnstable:
		return 2
	case VerdictFailed:
		return 3
	default:
		return 0
	}
}

// Worse returns whichever of v and o is more severe.
func (v Verdict) Worse(o Verdict) Verdict {
	if o.Level() > v.Level() {
		return o
	}
	return v
}

// Color is the ball color used for the verdict icon.
func (v Verdict) Color() string {
	switch v {
	case VerdictSuccess:
		return "blue"
	case VerdictUnstable:
		return "yellow"
	case VerdictFailed:
		return "red"
	default:
		return "grey"
	}
}

// Label is the human readable verdict.
func (v Verdict) Label() string {
	switch v {
	case VerdictSuccess:
		return "Success"
	case VerdictUnstable:
		return "Unstable"
	case VerdictFailed:
		return "Failed"
	default:
		return "Inactive"
	}
}

// ParseVerdict accepts the verdict names used on the command line.
func ParseVerdict(s string) (Verdict, bool) {
	switch s {
	case "success", "SUCCESS":
		return VerdictSuccess, true
	case "unstable", "UNSTABLE":
		return VerdictUnstable, true
	case "failed", "FAILED", "failure", "FAILURE":
		return VerdictFailed, true
	}
	return VerdictInactive, false
}
