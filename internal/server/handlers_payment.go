package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
)

// handleCreatePaymentIntent starts a checkout for a session.
func (s *Server) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req types.CreatePaymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, &validation.Error{Field: "(root)", Reason: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	result, err := s.checkout.CreatePaymentIntent(r.Context(), req.SessionToken)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"paymentIntentId": result.PaymentIntentID,
		"clientSecret":    result.ClientSecret,
		"amount":          result.AmountCents,
		"currency":        result.Currency,
	})
}

// handleVerifyPayment confirms a checkout after the client-side widget
// reports success. Only a succeeded provider intent unlocks the session.
func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req types.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, &validation.Error{Field: "(root)", Reason: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	if _, err := s.checkout.VerifyPayment(r.Context(), req.SessionToken, req.PaymentIntentID); err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "payment verified",
	})
}
