package domain

import (
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the moderation state of a vehicle listing.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Vehicle is a seller's listed vehicle. A vehicle may be registered as a
// vendor slot at an event once its listing has been approved. The store does
// not enforce one-active-registration-per-event for a vehicle.
type Vehicle struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Make        string         `json:"make"`
	Model       string         `json:"model"`
	Year        int            `json:"year"`
	Description string         `json:"description,omitempty"`
	Status      ApprovalStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}
