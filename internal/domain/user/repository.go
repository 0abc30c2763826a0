package user

import (
	"context"
)

type Repository interface {
	FetchUserByID(ctx context.Context, uuid UUID) (*User, error)
	FetchUserByEmail(ctx context.Context, email string) (*User, error)
	// CreateUser stores an unconfirmed account together with the hash of its
	// one-time verification token.
	CreateUser(ctx context.Context, req User, verifyTokenHash string) (*User, error)
	// VerifyEmail confirms the account holding tokenHash and burns the token.
	// It returns (nil, nil) when no unconfirmed account holds it.
	VerifyEmail(ctx context.Context, tokenHash string) (*User, error)
}
