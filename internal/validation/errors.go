// Package validation checks CV documents against the fixed document schema.
// It is the final authority on document shape for both direct JSON imports
// and AI-extracted output.
package validation

import "fmt"

// Error reports the first violated field and a human-readable reason.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Reason)
}
