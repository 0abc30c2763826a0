package user

import (
	"time"
)

type User struct {
	UUID            string
	Email           string
	PasswordHash    string
	FullName        string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
}
