package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
)

// handleEnhanceDescription rewrites one experience description through the
// AI bridge.
func (s *Server) handleEnhanceDescription(w http.ResponseWriter, r *http.Request) {
	var req types.EnhanceDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, &validation.Error{Field: "(root)", Reason: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	enhanced, err := s.ai.EnhanceDescription(r.Context(), req.JobTitle, req.Company, req.Description)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"enhancedDescription": enhanced})
}

// handleGenerateSummary produces a professional summary over the supplied
// CV fragments.
func (s *Server) handleGenerateSummary(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, &validation.Error{Field: "(root)", Reason: "invalid JSON: " + err.Error()})
		return
	}

	doc := types.CvDocument{
		PersonalInfo: req.PersonalInfo,
		Experiences:  req.Experiences,
		Education:    req.Education,
		Skills:       req.Skills,
	}
	doc.Normalize()

	summary, err := s.ai.GenerateSummary(r.Context(), doc)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"summary": summary})
}
