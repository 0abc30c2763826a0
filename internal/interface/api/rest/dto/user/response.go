package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UUID          uuid.UUID `json:"uuid"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	FullName      string    `json:"full_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
