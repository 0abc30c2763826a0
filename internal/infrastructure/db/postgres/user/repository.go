package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"fileshare-api/internal/domain/user"
	"fileshare-api/internal/infrastructure/db/postgres"
)

type Repository struct {
	db postgres.DB
}

func NewRepository(db postgres.DB) user.Repository {
	return &Repository{db: db}
}

func (r *Repository) FetchUserByID(ctx context.Context, uuid user.UUID) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByID, uuid.String())
}

func (r *Repository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.fetchOne(ctx, SelectUserByEmail, email)
}

func (r *Repository) CreateUser(ctx context.Context, req user.User, verifyTokenHash string) (*user.User, error) {
	u, err := r.fetchOne(ctx, InsertUser, req.Email, req.PasswordHash, req.FullName, verifyTokenHash)
	if err != nil {
		if postgres.IsPgUniqueViolation(err) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, err
	}

	return u, nil
}

func (r *Repository) VerifyEmail(ctx context.Context, tokenHash string) (*user.User, error) {
	return r.fetchOne(ctx, VerifyUserEmail, tokenHash)
}

func (r *Repository) fetchOne(ctx context.Context, query string, args ...any) (*user.User, error) {
	u := new(User)
	err := r.db.QueryRow(ctx, query, args...).Scan(
		&u.UUID,
		&u.Email,
		&u.PasswordHash,
		&u.FullName,
		&u.EmailVerifiedAt,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return fromDBModel(u)
}
