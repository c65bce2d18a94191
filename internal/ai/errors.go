package ai

import "fmt"

// ServiceError represents a provider or post-processing failure inside the
// AI service. Callers map it to an upstream-failure response rather than a
// client error.
type ServiceError struct {
	Op    string
	Cause error
}

func (e *ServiceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ai service error: %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("ai service error: %s", e.Op)
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}
