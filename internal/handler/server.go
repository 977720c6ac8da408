// Package handler implements the HTTP handlers for the Motorfair API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (webhook.go, checkin.go, registration.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/motorfair/backend/internal/domain"
	"github.com/motorfair/backend/internal/payment"
	"github.com/motorfair/backend/spec"
)

// RegistrationServicer defines the business operations the webhook and
// operator-listing handlers depend on. Defining the interface here (in the
// consumer package) follows the Go convention: "accept interfaces, return
// concrete types". It lets handler tests inject a mock without touching the
// database or service layer.
type RegistrationServicer interface {
	ProcessCompletion(ctx context.Context, adm payment.Admission) (reg domain.Registration, created bool, err error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Registration, error)
	Pass(ctx context.Context, id uuid.UUID) (string, error)
}

// CheckinServicer defines the gate operations the check-in handlers depend on.
type CheckinServicer interface {
	Validate(ctx context.Context, token string) (domain.CheckinDetails, error)
	CheckIn(ctx context.Context, registrationID uuid.UUID) (alreadyCheckedIn bool, err error)
}

// EventServicer defines the event schedule operations the operator
// dashboard depends on.
type EventServicer interface {
	List(ctx context.Context) ([]domain.Event, error)
}

// Server implements all API endpoints.
type Server struct {
	registrations RegistrationServicer
	checkins      CheckinServicer
	events        EventServicer
	log           *slog.Logger

	// webhookSecret verifies payment processor deliveries; tolerance bounds
	// the signature timestamp age. now is swappable for tests.
	webhookSecret string
	tolerance     time.Duration
	now           func() time.Time
}

// NewServer constructs the Server with all its dependencies.
func NewServer(registrations RegistrationServicer, checkins CheckinServicer, events EventServicer, webhookSecret string, log *slog.Logger) *Server {
	return &Server{
		registrations: registrations,
		checkins:      checkins,
		events:        events,
		log:           log,
		webhookSecret: webhookSecret,
		tolerance:     payment.DefaultTolerance,
		now:           time.Now,
	}
}

// Routes returns the chi router for all Server endpoints. Middleware is
// applied by the caller (main.go); only the webhook body limit lives here
// because it is endpoint-specific.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Post("/webhooks/payment", s.PostPaymentWebhook)

	r.Post("/checkin/validate", s.PostValidate)
	r.Post("/checkin/{registrationID}", s.PostCheckIn)

	r.Get("/events", s.ListEvents)

	r.Get("/registrations", s.ListRegistrations)
	r.Get("/registrations/{registrationID}/pass", s.GetRegistrationPass)

	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetOpenAPI handles GET /openapi.yaml, serving the embedded API spec.
// Serving it from the binary means the spec and the running code are always in sync.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(spec.OpenAPI)
}
