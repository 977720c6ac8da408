package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a physical pop-up event with a fixed number of vendor
// slots. Capacity is informational at registration time: the pipeline does
// not reject paid registrations for a full event (overbooking is resolved
// on-site by staff). Capacity must never be negative.
type Event struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location"`
	Address     string    `json:"address"`
	Capacity    int       `json:"capacity"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
