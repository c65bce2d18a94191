package payment

import "errors"

var (
	// ErrAlreadyPaid is returned when a checkout is started for a session
	// that has already been paid.
	ErrAlreadyPaid = errors.New("session is already paid")

	// ErrNotCompleted is returned when verification finds the provider
	// intent in any state other than succeeded.
	ErrNotCompleted = errors.New("payment has not completed")
)
