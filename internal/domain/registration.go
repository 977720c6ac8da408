// Package domain contains the core data types for the Motorfair vendor
// marketplace. This package has zero external dependencies beyond uuid and is
// imported by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus tracks the state of the payment session that backs a
// registration. A registration row only ever exists for a completed session,
// but the status is persisted so an audit can distinguish a normal record
// from one created through an administrative backfill.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// Registration is the central entity of the admission pipeline: it links a
// vendor (user), a vehicle, and an event to a completed payment session and
// a check-in state.
//
// Invariants enforced by the store:
//   - at most one registration per PaymentSessionID (webhooks redeliver),
//   - Credential is unique across all registrations,
//   - CheckedIn transitions false→true exactly once and never reverts.
type Registration struct {
	ID               uuid.UUID     `json:"id"`
	EventID          uuid.UUID     `json:"event_id"`
	VehicleID        uuid.UUID     `json:"vehicle_id"`
	UserID           uuid.UUID     `json:"user_id"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	PaymentSessionID string        `json:"payment_session_id"`
	Credential       string        `json:"credential"`
	CheckedIn        bool          `json:"checked_in"`
	CreatedAt        time.Time     `json:"created_at"`
}

// CheckinDetails bundles a registration with its associated records.
// The gate operator sees all four on the confirmation screen before
// committing the admit.
type CheckinDetails struct {
	Registration Registration `json:"registration"`
	Event        Event        `json:"event"`
	Vehicle      Vehicle      `json:"vehicle"`
	User         User         `json:"user"`
}
