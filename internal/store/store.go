// Package store provides session and payment persistence for the CV builder.
// The Store interface is constructed once at process start and injected into
// the HTTP server; nothing in the system reaches for ambient global state.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/types"
)

// Sentinel errors returned by Store implementations.
var (
	// ErrSessionNotFound is returned when no session matches the given
	// token or id. Token lookup is exact-match only.
	ErrSessionNotFound = errors.New("session not found")
	// ErrPaymentNotFound is returned when no payment record matches the
	// given provider intent id.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrConflict is returned by UpdateSession when the caller supplied an
	// ExpectedVersion that no longer matches the stored session.
	ErrConflict = errors.New("session version conflict")
)

// Store is the persistence boundary for wizard sessions and payments.
type Store interface {
	// CreateSession allocates a fresh session with an unguessable token,
	// the initial wizard position, and isPaid=false.
	CreateSession(ctx context.Context, cvData types.CvDocument) (*types.Session, error)
	// GetSession retrieves a session by id.
	GetSession(ctx context.Context, id uuid.UUID) (*types.Session, error)
	// GetSessionByToken retrieves a session by exact token match.
	GetSessionByToken(ctx context.Context, token string) (*types.Session, error)
	// UpdateSession applies a partial update as an atomic read-modify-write,
	// bumps the session version, and refreshes the update timestamp.
	// A paid session never becomes unpaid, regardless of the update.
	UpdateSession(ctx context.Context, id uuid.UUID, upd types.SessionUpdate) (*types.Session, error)
	// MarkSessionPaid flips the session's paid flag and records the
	// provider intent id. It is idempotent at the session level.
	MarkSessionPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) (*types.Session, error)

	// CreatePayment records one checkout attempt. Retries produce multiple
	// records per session; they are retained as an audit trail.
	CreatePayment(ctx context.Context, sessionID uuid.UUID, providerIntentID, amount, currency, status string) (*types.Payment, error)
	// GetPaymentByIntentID retrieves a payment record by provider intent id.
	GetPaymentByIntentID(ctx context.Context, providerIntentID string) (*types.Payment, error)
	// UpdatePaymentStatus updates the recorded status of a payment.
	UpdatePaymentStatus(ctx context.Context, providerIntentID, status string) error
}

// sessionTokenBytes is the entropy of a session token. 32 random bytes,
// hex-encoded, matching the original 64-character bearer tokens.
const sessionTokenBytes = 32

// NewSessionToken allocates an opaque, unguessable session token. An
// allocation failure means the platform's entropy source is broken and is
// treated as fatal by callers.
func NewSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
