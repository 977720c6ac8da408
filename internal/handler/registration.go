package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/motorfair/backend/internal/domain"
)

// listResponse wraps a registration list for the operator dashboard.
type listResponse struct {
	Data []domain.Registration `json:"data"`
}

// passResponse carries a registration's credential rendered as a QR data URL,
// ready for an <img> src attribute.
type passResponse struct {
	QR string `json:"qr"`
}

// ListRegistrations handles GET /registrations?event_id={uuid}.
func (s *Server) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	eventID, err := uuid.Parse(r.URL.Query().Get("event_id"))
	if err != nil {
		badRequest(w, "event_id query parameter must be a UUID")
		return
	}

	regs, err := s.registrations.ListByEvent(r.Context(), eventID)
	if err != nil {
		s.log.ErrorContext(r.Context(), "registration listing failed", "event_id", eventID, "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{Data: regs})
}

// GetRegistrationPass handles GET /registrations/{registrationID}/pass.
func (s *Server) GetRegistrationPass(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "registrationID"))
	if err != nil {
		badRequest(w, "registration id must be a UUID")
		return
	}

	qr, err := s.registrations.Pass(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "registration not found")
			return
		}
		s.log.ErrorContext(r.Context(), "pass rendering failed", "registration_id", id, "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, passResponse{QR: qr})
}
