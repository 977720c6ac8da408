package handler

import (
	"io"
	"net/http"

	"github.com/motorfair/backend/internal/payment"
)

// webhookResponse acknowledges a processed delivery. The processor only cares
// about the HTTP status; received is for humans reading delivery logs.
type webhookResponse struct {
	Received bool `json:"received"`
}

// PostPaymentWebhook handles POST /webhooks/payment.
//
// Order matters: the signature is verified over the raw body before a single
// payload field is parsed. After that the flow is: discriminate event type,
// parse metadata, and hand off to the service, whose idempotent creation
// absorbs redeliveries.
//
// Status contract with the processor:
//   - 200: processed (created, duplicate, or ignorable event type) — do not redeliver
//   - 400: signature or payload is permanently bad — do not redeliver
//   - 500: transient failure — redeliver later
func (s *Server) PostPaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		badRequest(w, "unable to read request body")
		return
	}

	if err := payment.VerifySignature(body, r.Header.Get(payment.SignatureHeader), s.webhookSecret, s.tolerance, s.now()); err != nil {
		s.log.WarnContext(r.Context(), "webhook signature rejected", "error", err)
		writeError(w, http.StatusBadRequest, "invalid_signature", "webhook signature verification failed")
		return
	}

	evt, err := payment.ParseEvent(body)
	if err != nil {
		s.log.WarnContext(r.Context(), "webhook payload unparseable", "error", err)
		badRequest(w, "malformed event payload")
		return
	}

	if evt.Type != payment.EventTypeCheckoutCompleted {
		// Many event types arrive here; only completions matter. Acknowledge
		// so the processor does not redeliver.
		writeJSON(w, http.StatusOK, webhookResponse{Received: true})
		return
	}

	adm, err := payment.ParseMetadata(evt)
	if err != nil {
		// Permanent failure: a redelivery would carry the same broken
		// metadata. Log loudly for operator attention.
		s.log.ErrorContext(r.Context(), "completion event with malformed metadata",
			"payment_event_id", evt.ID, "error", err)
		badRequest(w, "completion event missing required metadata")
		return
	}

	reg, created, err := s.registrations.ProcessCompletion(r.Context(), adm)
	if err != nil {
		// Transient store failure: 500 tells the processor to redeliver,
		// and the idempotent create makes the retry safe.
		s.log.ErrorContext(r.Context(), "registration creation failed",
			"payment_session_id", adm.SessionID, "error", err)
		internalError(w)
		return
	}

	if created {
		s.log.InfoContext(r.Context(), "registration created",
			"registration_id", reg.ID, "payment_session_id", adm.SessionID)
	} else {
		s.log.InfoContext(r.Context(), "duplicate webhook delivery acknowledged",
			"registration_id", reg.ID, "payment_session_id", adm.SessionID)
	}
	writeJSON(w, http.StatusOK, webhookResponse{Received: true})
}
