package identity

import (
	"strings"

	"github.com/google/uuid"
)

// Identity is the authenticated requester. A nil *Identity means anonymous.
// Email grants only match an identity whose email has been confirmed.
type Identity struct {
	ID            uuid.UUID
	Email         string
	EmailVerified bool
}

func New(id uuid.UUID, email string, emailVerified bool) *Identity {
	return &Identity{ID: id, Email: NormalizeEmail(email), EmailVerified: emailVerified}
}

// VerifiedEmail is the normalized email usable for grant matching, or "".
func (i *Identity) VerifiedEmail() string {
	if i == nil || !i.EmailVerified {
		return ""
	}
	return i.Email
}

// NormalizeEmail is applied on every grant write and every grant lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
