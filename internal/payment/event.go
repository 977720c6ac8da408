// Package payment defines the wire contract with the external payment
// processor: the webhook event envelope and the signature scheme protecting
// it. Nothing here touches the database.
package payment

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/motorfair/backend/internal/domain"
)

// EventTypeCheckoutCompleted is the only event type that drives registration
// creation. The processor sends many other types (session created, payment
// failed, refunds); all of them are acknowledged and ignored.
const EventTypeCheckoutCompleted = "checkout.completed"

// Event is the webhook envelope delivered by the payment processor.
// The checkout session identifier lives on the inner object; the admission
// metadata is attached by us when the session is created and echoed back.
type Event struct {
	ID   string    `json:"id"`
	Type string    `json:"type"`
	Data EventData `json:"data"`
}

// EventData wraps the object the event is about.
type EventData struct {
	Object CheckoutSession `json:"object"`
}

// CheckoutSession is the subset of the processor's session object the
// admission pipeline cares about.
type CheckoutSession struct {
	ID       string          `json:"id"`
	Metadata SessionMetadata `json:"metadata"`
}

// SessionMetadata carries the admission identifiers attached to the checkout
// session at creation time. Fields are strings on the wire; ParseMetadata
// validates them into UUIDs.
type SessionMetadata struct {
	UserID    string `json:"user_id"`
	EventID   string `json:"event_id"`
	VehicleID string `json:"vehicle_id"`
}

// Admission is the validated form of SessionMetadata plus the session ID.
type Admission struct {
	SessionID string
	UserID    uuid.UUID
	EventID   uuid.UUID
	VehicleID uuid.UUID
}

// ParseEvent unmarshals a raw webhook body into an Event.
// Call VerifySignature on the raw body BEFORE parsing: unauthenticated bytes
// should never reach the JSON decoder's error paths, let alone the store.
func ParseEvent(body []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return Event{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return evt, nil
}

// ParseMetadata validates the admission metadata of a completion event.
// A missing or unparseable identifier is a permanent failure: the processor
// will never redeliver a corrected payload, so this wraps domain.ErrValidation
// for the handler to map to a non-retryable 400.
func ParseMetadata(evt Event) (Admission, error) {
	if evt.Data.Object.ID == "" {
		return Admission{}, fmt.Errorf("%w: missing checkout session id", domain.ErrValidation)
	}

	m := evt.Data.Object.Metadata
	userID, err := uuid.Parse(m.UserID)
	if err != nil {
		return Admission{}, fmt.Errorf("%w: metadata user_id: %v", domain.ErrValidation, err)
	}
	eventID, err := uuid.Parse(m.EventID)
	if err != nil {
		return Admission{}, fmt.Errorf("%w: metadata event_id: %v", domain.ErrValidation, err)
	}
	vehicleID, err := uuid.Parse(m.VehicleID)
	if err != nil {
		return Admission{}, fmt.Errorf("%w: metadata vehicle_id: %v", domain.ErrValidation, err)
	}

	return Admission{
		SessionID: evt.Data.Object.ID,
		UserID:    userID,
		EventID:   eventID,
		VehicleID: vehicleID,
	}, nil
}
