package types

import (
	"time"

	"github.com/google/uuid"
)

// Session is the unit of wizard progress and entitlement. It is owned
// exclusively by the session store; clients hold only the opaque
// SessionToken and mutate the session through store updates.
type Session struct {
	ID              uuid.UUID  `json:"id"`
	SessionToken    string     `json:"sessionToken"`
	CvData          CvDocument `json:"cvData"`
	CurrentStep     string     `json:"currentStep"`
	CurrentSubStep  string     `json:"currentSubStep"`
	IsPaid          bool       `json:"isPaid"`
	PaymentIntentID *string    `json:"paymentIntentId"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// SessionUpdate is a partial update applied to a session. Nil fields are
// left untouched. A non-nil CvData replaces the whole document; the wizard
// always sends the full current document.
//
// ExpectedVersion, when non-nil, makes the update conditional: the store
// rejects it with ErrConflict if the stored session's version differs.
type SessionUpdate struct {
	CvData          *CvDocument
	CurrentStep     *string
	CurrentSubStep  *string
	IsPaid          *bool
	PaymentIntentID *string
	ExpectedVersion *int64
}

// Payment records one checkout attempt against a session. Many payments
// may reference one session (retries); only the session's own IsPaid and
// PaymentIntentID fields are authoritative for entitlement.
type Payment struct {
	ID               uuid.UUID `json:"id"`
	SessionID        uuid.UUID `json:"sessionId"`
	ProviderIntentID string    `json:"providerIntentId"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}
