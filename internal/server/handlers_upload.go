package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/cv-builder/internal/pdfio"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
)

// uploadSessionResponse returns the fresh session seeded from an upload,
// including the imported document so the client can populate the form.
type uploadSessionResponse struct {
	SessionToken string           `json:"sessionToken"`
	SessionID    string           `json:"sessionId"`
	CvData       types.CvDocument `json:"cvData"`
}

// readUpload pulls the uploaded file out of a multipart form, enforcing the
// size cap before any bytes are buffered.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, errUploadTooLarge
		}
		return nil, &validation.Error{Field: "file", Reason: "expected a multipart form upload"}
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, &validation.Error{Field: "file", Reason: "missing file field"}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, &validation.Error{Field: "file", Reason: "failed to read upload"}
	}
	return data, nil
}

var errUploadTooLarge = errors.New("upload exceeds size limit")

// handleUploadJSON imports a CV document from a JSON file and opens a new
// session seeded with it. The payload is schema-checked, then validated.
func (s *Server) handleUploadJSON(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(w, r)
	if err != nil {
		s.respondUploadError(w, err)
		return
	}

	if !json.Valid(data) {
		s.respondError(w, &validation.Error{Field: "(root)", Reason: "file is not valid JSON"})
		return
	}
	if err := schemas.ValidateCvData(data); err != nil {
		s.respondError(w, err)
		return
	}
	doc, err := validation.Document(data)
	if err != nil {
		s.respondError(w, err)
		return
	}

	session, err := s.store.CreateSession(r.Context(), *doc)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, uploadSessionResponse{
		SessionToken: session.SessionToken,
		SessionID:    session.ID.String(),
		CvData:       session.CvData,
	})
}

// handleUploadPDF imports a resume PDF: sniff the magic bytes, extract the
// text, and have the AI bridge build a structured document from it.
func (s *Server) handleUploadPDF(w http.ResponseWriter, r *http.Request) {
	data, err := readUpload(w, r)
	if err != nil {
		s.respondUploadError(w, err)
		return
	}

	text, err := pdfio.ExtractText(data)
	if err != nil {
		s.respondError(w, err)
		return
	}

	doc, err := s.ai.ExtractFromText(r.Context(), text)
	if err != nil {
		s.respondError(w, err)
		return
	}

	session, err := s.store.CreateSession(r.Context(), *doc)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, uploadSessionResponse{
		SessionToken: session.SessionToken,
		SessionID:    session.ID.String(),
		CvData:       session.CvData,
	})
}

func (s *Server) respondUploadError(w http.ResponseWriter, err error) {
	if errors.Is(err, errUploadTooLarge) {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	s.respondError(w, err)
}
