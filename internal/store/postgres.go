package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/wizard"
)

// PostgresStore is the Store implementation backed by PostgreSQL. Updates
// are single atomic statements, so concurrent writers to one session cannot
// interleave a read-modify-write.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and verifies it.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (p *PostgresStore) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// EnsureSchema creates the session and payment tables if they do not exist.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cv_sessions (
			id UUID PRIMARY KEY,
			session_token TEXT NOT NULL UNIQUE,
			cv_data JSONB NOT NULL,
			current_step TEXT NOT NULL,
			current_sub_step TEXT NOT NULL,
			is_paid BOOLEAN NOT NULL DEFAULT FALSE,
			payment_intent_id TEXT,
			version BIGINT NOT NULL DEFAULT 1,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			session_id UUID REFERENCES cv_sessions(id),
			provider_intent_id TEXT NOT NULL,
			amount TEXT NOT NULL,
			currency TEXT NOT NULL DEFAULT 'usd',
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_payments_intent ON payments (provider_intent_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

const sessionColumns = `id, session_token, cv_data, current_step, current_sub_step,
	is_paid, payment_intent_id, version, created_at, updated_at`

func scanSession(row pgx.Row) (*types.Session, error) {
	var session types.Session
	var cvData []byte
	err := row.Scan(&session.ID, &session.SessionToken, &cvData, &session.CurrentStep,
		&session.CurrentSubStep, &session.IsPaid, &session.PaymentIntentID,
		&session.Version, &session.CreatedAt, &session.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(cvData, &session.CvData); err != nil {
		return nil, fmt.Errorf("failed to decode cv data: %w", err)
	}
	session.CvData.Normalize()
	return &session, nil
}

// CreateSession allocates a fresh session with the initial wizard position.
func (p *PostgresStore) CreateSession(ctx context.Context, cvData types.CvDocument) (*types.Session, error) {
	token, err := NewSessionToken()
	if err != nil {
		return nil, err
	}

	cvData.Normalize()
	cvJSON, err := json.Marshal(cvData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cv data: %w", err)
	}

	pos := wizard.Initial()
	row := p.pool.QueryRow(ctx,
		`INSERT INTO cv_sessions (id, session_token, cv_data, current_step, current_sub_step)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+sessionColumns,
		uuid.New(), token, cvJSON, string(pos.Step), string(pos.SubStep),
	)
	session, err := scanSession(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession retrieves a session by id.
func (p *PostgresStore) GetSession(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM cv_sessions WHERE id = $1`, id)
	session, err := scanSession(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// GetSessionByToken retrieves a session by exact token match.
func (p *PostgresStore) GetSessionByToken(ctx context.Context, token string) (*types.Session, error) {
	row := p.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM cv_sessions WHERE session_token = $1`, token)
	session, err := scanSession(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}
	return session, nil
}

// UpdateSession merges the supplied fields in a single atomic statement.
// The paid flag is monotonic at the SQL level: is_paid can only go true.
func (p *PostgresStore) UpdateSession(ctx context.Context, id uuid.UUID, upd types.SessionUpdate) (*types.Session, error) {
	var cvJSON []byte
	if upd.CvData != nil {
		doc := *upd.CvData
		doc.Normalize()
		encoded, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cv data: %w", err)
		}
		cvJSON = encoded
	}

	var setPaid *bool
	if upd.IsPaid != nil && *upd.IsPaid {
		setPaid = upd.IsPaid
	}

	query := `UPDATE cv_sessions SET
			cv_data = COALESCE($2, cv_data),
			current_step = COALESCE($3, current_step),
			current_sub_step = COALESCE($4, current_sub_step),
			is_paid = is_paid OR COALESCE($5, FALSE),
			payment_intent_id = COALESCE($6, payment_intent_id),
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1`
	args := []any{id, cvJSON, upd.CurrentStep, upd.CurrentSubStep, setPaid, upd.PaymentIntentID}

	if upd.ExpectedVersion != nil {
		query += ` AND version = $7`
		args = append(args, *upd.ExpectedVersion)
	}
	query += ` RETURNING ` + sessionColumns

	session, err := scanSession(p.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			// Either the id is unknown or the version check failed;
			// disambiguate so callers can map the right error.
			if _, getErr := p.GetSession(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return session, nil
}

// MarkSessionPaid flips the paid flag and records the provider intent id.
func (p *PostgresStore) MarkSessionPaid(ctx context.Context, id uuid.UUID, paymentIntentID string) (*types.Session, error) {
	paid := true
	return p.UpdateSession(ctx, id, types.SessionUpdate{
		IsPaid:          &paid,
		PaymentIntentID: &paymentIntentID,
	})
}

// CreatePayment records one checkout attempt.
func (p *PostgresStore) CreatePayment(ctx context.Context, sessionID uuid.UUID, providerIntentID, amount, currency, status string) (*types.Payment, error) {
	var payment types.Payment
	err := p.pool.QueryRow(ctx,
		`INSERT INTO payments (id, session_id, provider_intent_id, amount, currency, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, session_id, provider_intent_id, amount, currency, status, created_at`,
		uuid.New(), sessionID, providerIntentID, amount, currency, status,
	).Scan(&payment.ID, &payment.SessionID, &payment.ProviderIntentID,
		&payment.Amount, &payment.Currency, &payment.Status, &payment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return &payment, nil
}

// GetPaymentByIntentID retrieves the latest payment record for an intent id.
func (p *PostgresStore) GetPaymentByIntentID(ctx context.Context, providerIntentID string) (*types.Payment, error) {
	var payment types.Payment
	err := p.pool.QueryRow(ctx,
		`SELECT id, session_id, provider_intent_id, amount, currency, status, created_at
		 FROM payments WHERE provider_intent_id = $1
		 ORDER BY created_at DESC LIMIT 1`,
		providerIntentID,
	).Scan(&payment.ID, &payment.SessionID, &payment.ProviderIntentID,
		&payment.Amount, &payment.Currency, &payment.Status, &payment.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

// UpdatePaymentStatus updates the recorded status of a payment.
func (p *PostgresStore) UpdatePaymentStatus(ctx context.Context, providerIntentID, status string) error {
	result, err := p.pool.Exec(ctx,
		`UPDATE payments SET status = $1 WHERE provider_intent_id = $2`,
		status, providerIntentID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
