// Package schema validates analysis report documents before they are merged.
package schema

import (
	"fmt"

	"github.com/dshills/issuegate/internal/ingest"
	"github.com/dshills/issuegate/internal/issues"
)

// ValidationError describes a single schema violation.
type ValidationError struct {
	Path    string
	Message string
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a report document for structural validity.
func Validate(doc *ingest.Document) []ValidationError {
	var errs []ValidationError

	if doc.Tool == "" {
		errs = append(errs, ValidationError{"tool", "required"})
	}

	for i, e := range doc.Issues {
		prefix := fmt.Sprintf("issues[%d]", i)
		if e.File == "" {
			errs = append(errs, ValidationError{prefix + ".file", "required"})
		}
		if e.Line < 0 {
			errs = append(errs, ValidationError{prefix + ".line", fmt.Sprintf("must be >= 0, got %d", e.Line)})
		}
		if _, ok := issues.ParseSeverity(e.Severity); !ok {
			errs = append(errs, ValidationError{prefix + ".severity", fmt.Sprintf("invalid: %q", e.Severity)})
		}
		if e.Origin == "" && doc.Tool == "" {
			errs = append(errs, ValidationError{prefix + ".origin", "required when tool is empty"})
		}
	}

	for i, msg := range doc.Errors {
		if msg == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("errors[%d]", i), "empty message"})
		}
	}

	return errs
}
