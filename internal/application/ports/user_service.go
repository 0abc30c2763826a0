package ports

import (
	"context"

	"fileshare-api/internal/domain/user"
)

type UserService interface {
	Register(ctx context.Context, email, password, fullName string) (*user.User, error)
	Verify(ctx context.Context, token string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id user.UUID) (*user.User, error)
}
