package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account. The admission pipeline only needs identity
// and display fields; authentication lives outside this service.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
