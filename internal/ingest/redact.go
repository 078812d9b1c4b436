package ingest

import "regexp"

// secretPatterns match credentials that tools sometimes echo into messages,
// e.g. hard-coded password findings.
var secretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`AKIA[0-9A-Z]{16}`),
	regexp.MustCompile(`Bearer\s+[A-Za-z0-9\-._~+/]+=*`),
	regexp.MustCompile(`gh[pousr]_[A-Za-z0-9]{36,}`),
	regexp.MustCompile(`(?i)(api[_-]?key|secret|token|password|passwd)(\s*[:=]\s*)("[^"]*"|'[^']*'|\S+)`),
}

// Redact replaces secrets in a message with [REDACTED], keeping the key
// name of key/value pairs so the finding stays readable.
func Redact(msg string) string {
	for i, p := range secretPatterns {
		if i == len(secretPatterns)-1 {
			msg = p.ReplaceAllString(msg, "${1}${2}[REDACTED]")
			continue
		}
		msg = p.ReplaceAllString(msg, "[REDACTED]")
	}
	return msg
}
