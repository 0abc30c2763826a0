package user

import (
	"fileshare-api/internal/domain/user"
)

// ToResponseUser never exposes the password hash.
func ToResponseUser(uDomain user.User) User {
	return User{
		UUID:          uDomain.UUID,
		Email:         uDomain.Email,
		EmailVerified: uDomain.EmailVerified(),
		FullName:      uDomain.FullName,
		CreatedAt:     uDomain.CreatedAt,
	}
}
