package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/cv-builder/internal/types"
	"github.com/jonathan/cv-builder/internal/validation"
	"github.com/jonathan/cv-builder/internal/wizard"
)

// createSessionRequest optionally seeds a new session with a document.
type createSessionRequest struct {
	CvData *types.CvDocument `json:"cvData,omitempty"`
}

// handleCreateSession opens a new wizard session. The body is optional; when
// present, a supplied cvData seeds the session after validation.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	doc := types.EmptyCvDocument()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBytes))
	if err != nil {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	if len(body) > 0 {
		var req createSessionRequest
		if err := json.Unmarshal(body, &req); err != nil {
			s.respondError(w, &validation.Error{Field: "(root)", Reason: "invalid JSON: " + err.Error()})
			return
		}
		if req.CvData != nil {
			if err := validation.Struct(req.CvData); err != nil {
				s.respondError(w, err)
				return
			}
			doc = *req.CvData
		}
	}

	session, err := s.store.CreateSession(r.Context(), doc)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, types.CreateSessionResponse{
		SessionToken: session.SessionToken,
		SessionID:    session.ID.String(),
	})
}

// handleGetSession returns the full session state for a token.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetSessionByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, session)
}

// handleUpdateSession applies a partial update: document content, wizard
// position, or both. Entering the processing step arms the auto-advance
// timer; leaving it by hand disarms the timer.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.GetSessionByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	var req types.UpdateSessionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxUploadBytes)).Decode(&req); err != nil {
		s.respondError(w, &validation.Error{Field: "(root)", Reason: "invalid JSON: " + err.Error()})
		return
	}

	upd := types.SessionUpdate{ExpectedVersion: req.Version}

	if req.CvData != nil {
		if err := validation.Struct(req.CvData); err != nil {
			s.respondError(w, err)
			return
		}
		upd.CvData = req.CvData
	}

	var targetStep *wizard.Step
	if req.CurrentStep != nil {
		step, err := wizard.ParseStep(*req.CurrentStep)
		if err != nil {
			s.respondError(w, &validation.Error{Field: "currentStep", Reason: err.Error()})
			return
		}
		targetStep = &step
		value := string(step)
		upd.CurrentStep = &value
	}
	if req.CurrentSubStep != nil {
		subStep, err := wizard.ParseSubStep(*req.CurrentSubStep)
		if err != nil {
			s.respondError(w, &validation.Error{Field: "currentSubStep", Reason: err.Error()})
			return
		}
		value := string(subStep)
		upd.CurrentSubStep = &value
	}

	updated, err := s.store.UpdateSession(r.Context(), session.ID, upd)
	if err != nil {
		s.respondError(w, err)
		return
	}

	if targetStep != nil {
		switch *targetStep {
		case wizard.StepProcessing:
			s.scheduler.Schedule(session.ID)
		default:
			s.scheduler.Cancel(session.ID)
		}
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleAdvanceSession moves the wizard one state forward.
func (s *Server) handleAdvanceSession(w http.ResponseWriter, r *http.Request) {
	s.moveSession(w, r, wizard.Next)
}

// handleBackSession moves the wizard one state back.
func (s *Server) handleBackSession(w http.ResponseWriter, r *http.Request) {
	s.moveSession(w, r, wizard.Previous)
}

func (s *Server) moveSession(w http.ResponseWriter, r *http.Request, move func(wizard.Position) wizard.Position) {
	session, err := s.store.GetSessionByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		s.respondError(w, err)
		return
	}

	pos, err := sessionPosition(session)
	if err != nil {
		s.respondError(w, err)
		return
	}

	next := move(pos)
	if next == pos {
		s.jsonResponse(w, http.StatusOK, session)
		return
	}

	step := string(next.Step)
	subStep := string(next.SubStep)
	updated, err := s.store.UpdateSession(r.Context(), session.ID, types.SessionUpdate{
		CurrentStep:     &step,
		CurrentSubStep:  &subStep,
		ExpectedVersion: &session.Version,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}

	if next.Step == wizard.StepProcessing {
		s.scheduler.Schedule(session.ID)
	} else {
		s.scheduler.Cancel(session.ID)
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// sessionPosition rebuilds the wizard position from stored state.
func sessionPosition(session *types.Session) (wizard.Position, error) {
	step, err := wizard.ParseStep(session.CurrentStep)
	if err != nil {
		return wizard.Position{}, errors.New("session has corrupt wizard state: " + err.Error())
	}
	subStep, err := wizard.ParseSubStep(session.CurrentSubStep)
	if err != nil {
		return wizard.Position{}, errors.New("session has corrupt wizard state: " + err.Error())
	}
	return wizard.Position{Step: step, SubStep: subStep}, nil
}
