package handler

import (
	"net/http"

	"github.com/motorfair/backend/internal/domain"
)

// eventListResponse wraps the event schedule for the operator dashboard.
type eventListResponse struct {
	Data []domain.Event `json:"data"`
}

// ListEvents handles GET /events, returning the event schedule soonest first.
func (s *Server) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.List(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "event listing failed", "error", err)
		internalError(w)
		return
	}

	writeJSON(w, http.StatusOK, eventListResponse{Data: events})
}
