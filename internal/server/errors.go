// Package server provides the HTTP REST API for the CV builder.
package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/cv-builder/internal/ai"
	"github.com/jonathan/cv-builder/internal/payment"
	"github.com/jonathan/cv-builder/internal/pdfio"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/store"
	"github.com/jonathan/cv-builder/internal/validation"
)

// ErrNotPaid guards the PDF export: the session exists but has not been
// unlocked by a completed payment.
var ErrNotPaid = errors.New("session has not been paid")

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var aiErr *ai.ServiceError
	var fieldErr *validation.Error
	var schemaErr *schemas.ValidationError
	var requestErrs validator.ValidationErrors

	switch {
	// AI failures first: they may wrap validation errors from checking
	// model output, and those are upstream faults, not client faults.
	case errors.As(err, &aiErr):
		return http.StatusBadGateway
	case errors.As(err, &fieldErr),
		errors.As(err, &schemaErr),
		errors.As(err, &requestErrs),
		errors.Is(err, pdfio.ErrNotPDF),
		errors.Is(err, pdfio.ErrNoText),
		errors.Is(err, payment.ErrNotCompleted),
		errors.Is(err, payment.ErrAlreadyPaid):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotPaid):
		return http.StatusForbidden
	case errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, store.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
