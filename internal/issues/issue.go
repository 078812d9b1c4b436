// Package issues defines analysis findings and the per-build issue set.
package issues

import "fmt"

// Issue is a single finding reported by an analysis tool.
type Issue struct {
	Origin   string   `json:"origin" yaml:"origin"`
	File     string   `json:"file" yaml:"file"`
	Line     int      `json:"line" yaml:"line"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Severity Severity `json:"severity" yaml:"severity"`
	Message  string   `json:"message,omitempty" yaml:"message,omitempty"`
}

// Key identifies an issue across builds. Severity and message are not part
// of the identity, so rewording a message does not make an issue new.
type Key struct {
	Origin   string
	File     string
	Line     int
	Category string
	Type     string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%d:%s:%s", k.Origin, k.File, k.Line, k.Category, k.Type)
}

// Key returns the identity key of the issue.
func (i Issue) Key() Key {
	return Key{
		Origin:   i.Origin,
		File:     i.File,
		Line:     i.Line,
		Category: i.Category,
		Type:     i.Type,
	}
}
