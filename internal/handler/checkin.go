package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/motorfair/backend/internal/domain"
)

// validateRequest is the body for POST /checkin/validate.
// The scanning device decodes the QR image client-side and posts the
// resulting token string.
type validateRequest struct {
	Token string `json:"token"`
}

// checkinResponse reports the outcome of a committed check-in.
// AlreadyCheckedIn distinguishes a fresh admit from a re-presented pass so
// gate staff can flag a possible duplicate ticket.
type checkinResponse struct {
	RegistrationID   uuid.UUID `json:"registration_id"`
	AlreadyCheckedIn bool      `json:"already_checked_in"`
}

// PostValidate handles POST /checkin/validate.
// A pure read: the operator sees the registration details on a confirmation
// screen before committing the admit with PostCheckIn.
func (s *Server) PostValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Token == "" {
		badRequest(w, "token is required")
		return
	}

	details, err := s.checkins.Validate(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "credential not found")
			return
		}
		s.log.ErrorContext(r.Context(), "credential validation failed", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, details)
}

// PostCheckIn handles POST /checkin/{registrationID}.
// Safe under concurrent invocation from multiple gate devices: the store's
// conditional update decides who gets the fresh admit.
func (s *Server) PostCheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "registrationID"))
	if err != nil {
		badRequest(w, "registration id must be a UUID")
		return
	}

	already, err := s.checkins.CheckIn(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			notFound(w, "registration not found")
			return
		}
		s.log.ErrorContext(r.Context(), "check-in failed", "registration_id", id, "error", err)
		internalError(w)
		return
	}

	s.log.InfoContext(r.Context(), "check-in committed",
		"registration_id", id, "already_checked_in", already)
	writeJSON(w, http.StatusOK, checkinResponse{RegistrationID: id, AlreadyCheckedIn: already})
}
