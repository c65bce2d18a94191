package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/wizard"
)

// MemoryStore is the in-memory Store implementation. Sessions live for the
// process lifetime; there is no persistence and no eviction. All access goes
// through the mutex so the store is safe under Go's concurrent HTTP server,
// and each UpdateSession is an atomic read-modify-write.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*types.Session
	byToken  map[string]uuid.UUID
	payments map[uuid.UUID]*types.Payment
	byIntent map[string]uuid.UUID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*types.Session),
		byToken:  make(map[string]uuid.UUID),
		payments: make(map[uuid.UUID]*types.Payment),
		byIntent: make(map[string]uuid.UUID),
	}
}

// CreateSession allocates a fresh session with the initial wizard position.
func (m *MemoryStore) CreateSession(_ context.Context, cvData types.CvDocument) (*types.Session, error) {
	token, err := NewSessionToken()
	if err != nil {
		return nil, err
	}

	cvData.Normalize()
	pos := wizard.Initial()
	now := time.Now()
	session := &types.Session{
		ID:             uuid.New(),
		SessionToken:   token,
		CvData:         cvData,
		CurrentStep:    string(pos.Step),
		CurrentSubStep: string(pos.SubStep),
		IsPaid:         false,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.byToken[session.SessionToken] = session.ID
	m.mu.Unlock()

	copied := *session
	return &copied, nil
}

// GetSession retrieves a session by id.
func (m *MemoryStore) GetSession(_ context.Context, id uuid.UUID) (*types.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

// GetSessionByToken retrieves a session by exact token match.
func (m *MemoryStore) GetSessionByToken(_ context.Context, token string) (*types.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byToken[token]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *m.sessions[id]
	return &copied, nil
}

// UpdateSession merges the supplied fields into the session under the lock.
func (m *MemoryStore) UpdateSession(_ context.Context, id uuid.UUID, upd types.SessionUpdate) (*types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if upd.ExpectedVersion != nil && *upd.ExpectedVersion != session.Version {
		return nil, ErrConflict
	}

	if upd.CvData != nil {
		// Whole-document replacement; the wizard always sends the full
		// current document.
		doc := *upd.CvData
		doc.Normalize()
		session.CvData = doc
	}
	if upd.CurrentStep != nil {
		session.CurrentStep = *upd.CurrentStep
	}
	if upd.CurrentSubStep != nil {
		session.CurrentSubStep = *upd.CurrentSubStep
	}
	if upd.IsPaid != nil && *upd.IsPaid {
		// The paid flag is monotonic: it can be set, never cleared.
		session.IsPaid = true
	}
	if upd.PaymentIntentID != nil {
		intentID := *upd.PaymentIntentID
		session.PaymentIntentID = &intentID
	}

	session.Version++
	session.UpdatedAt = time.Now()

	copied := *session
	return &copied, nil
}

// MarkSessionPaid flips the paid flag and records the provider intent id.
func (m *MemoryStore) MarkSessionPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) (*types.Session, error) {
	paid := true
	return m.UpdateSession(ctx, id, types.SessionUpdate{
		IsPaid:          &paid,
		PaymentIntentID: &paymentIntentID,
	})
}

// CreatePayment records one checkout attempt.
func (m *MemoryStore) CreatePayment(_ context.Context, sessionID uuid.UUID, providerIntentID, amount, currency, status string) (*types.Payment, error) {
	payment := &types.Payment{
		ID:               uuid.New(),
		SessionID:        sessionID,
		ProviderIntentID: providerIntentID,
		Amount:           amount,
		Currency:         currency,
		Status:           status,
		CreatedAt:        time.Now(),
	}

	m.mu.Lock()
	m.payments[payment.ID] = payment
	m.byIntent[providerIntentID] = payment.ID
	m.mu.Unlock()

	copied := *payment
	return &copied, nil
}

// GetPaymentByIntentID retrieves a payment record by provider intent id.
func (m *MemoryStore) GetPaymentByIntentID(_ context.Context, providerIntentID string) (*types.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byIntent[providerIntentID]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	copied := *m.payments[id]
	return &copied, nil
}

// UpdatePaymentStatus updates the recorded status of a payment.
func (m *MemoryStore) UpdatePaymentStatus(_ context.Context, providerIntentID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byIntent[providerIntentID]
	if !ok {
		return ErrPaymentNotFound
	}
	m.payments[id].Status = status
	return nil
}
