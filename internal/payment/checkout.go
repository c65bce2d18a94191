package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/cv-builder/internal/store"
	"github.com/jonathan/cv-builder/internal/types"
)

// Pricing for the single product: unlocking PDF export for one session.
const (
	PriceCents   = 999
	PriceDisplay = "9.99"
	Currency     = "usd"
)

// IntentResult is what a client needs to complete payment in the browser.
type IntentResult struct {
	PaymentIntentID string
	ClientSecret    string
	AmountCents     int64
	Currency        string
}

// Checkout coordinates the payment provider and the session store.
type Checkout struct {
	store   store.Store
	gateway Gateway
}

// NewCheckout creates a checkout service.
func NewCheckout(st store.Store, gw Gateway) *Checkout {
	return &Checkout{store: st, gateway: gw}
}

// CreatePaymentIntent opens a payment intent for the session identified by
// token and records the attempt. Starting checkout twice before completion
// yields independent intents; each attempt gets its own payment record.
func (c *Checkout) CreatePaymentIntent(ctx context.Context, sessionToken string) (*IntentResult, error) {
	session, err := c.store.GetSessionByToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if session.IsPaid {
		return nil, ErrAlreadyPaid
	}

	intent, err := c.gateway.CreateIntent(ctx, PriceCents, Currency, map[string]string{
		"sessionId": session.ID.String(),
	})
	if err != nil {
		return nil, err
	}

	if _, err := c.store.CreatePayment(ctx, session.ID, intent.ID, PriceDisplay, Currency, intent.Status); err != nil {
		return nil, fmt.Errorf("failed to record payment attempt: %w", err)
	}

	return &IntentResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     intent.Amount,
		Currency:        intent.Currency,
	}, nil
}

// VerifyPayment checks the intent with the provider and, if it succeeded,
// marks the session paid. Verifying an already-verified payment is a no-op
// that reports success again.
func (c *Checkout) VerifyPayment(ctx context.Context, sessionToken, paymentIntentID string) (*types.Session, error) {
	session, err := c.store.GetSessionByToken(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	intent, err := c.gateway.GetIntent(ctx, paymentIntentID)
	if err != nil {
		return nil, err
	}
	if intent.Status != StatusSucceeded {
		return nil, ErrNotCompleted
	}

	paid, err := c.store.MarkSessionPaid(ctx, session.ID, paymentIntentID)
	if err != nil {
		return nil, err
	}

	// Keep the audit record in step with the provider. A missing record
	// (intent created outside this service) is not an error.
	if err := c.store.UpdatePaymentStatus(ctx, paymentIntentID, intent.Status); err != nil &&
		!errors.Is(err, store.ErrPaymentNotFound) {
		return nil, err
	}

	return paid, nil
}
