package user

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmailAlreadyExists       = errors.New("email already registered")
	ErrInvalidVerificationToken = errors.New("invalid or already used verification token")
)

type (
	UUID = uuid.UUID
	User struct {
		UUID         UUID
		Email        string
		PasswordHash string
		FullName     string

		EmailVerifiedAt *time.Time
		CreatedAt       time.Time
	}
)

func (u *User) EmailVerified() bool {
	return u != nil && u.EmailVerifiedAt != nil
}
