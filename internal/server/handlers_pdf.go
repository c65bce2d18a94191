package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
)

// handleGeneratePDF authorizes the final export for a paid session and hands
// the client the download location. Rendering happens on download.
func (s *Server) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	var req types.GeneratePdfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, &validation.Error{Field: "(root)", Reason: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	session, err := s.store.GetSessionByToken(r.Context(), req.SessionToken)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if !session.IsPaid {
		s.respondError(w, ErrNotPaid)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":     true,
		"downloadUrl": "/api/download-pdf/" + session.SessionToken,
	})
}

// handleDownloadPDF renders and streams the CV of a paid session.
func (s *Server) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetSessionByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	if !session.IsPaid {
		s.respondError(w, ErrNotPaid)
		return
	}

	pdf, err := s.renderer.RenderPDF(r.Context(), session.CvData)
	if err != nil {
		s.respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="cv.pdf"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		// Client went away mid-download; nothing to recover.
		return
	}
}
