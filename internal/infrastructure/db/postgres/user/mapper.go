package user

import (
	"fmt"

	"github.com/google/uuid"

	domain "fileshare-api/internal/domain/user"
)

func fromDBModel(model *User) (*domain.User, error) {
	id, err := uuid.Parse(model.UUID)
	if err != nil {
		return nil, fmt.Errorf("user uuid %q: %w", model.UUID, err)
	}

	return &domain.User{
		UUID:            id,
		Email:           model.Email,
		PasswordHash:    model.PasswordHash,
		FullName:        model.FullName,
		EmailVerifiedAt: model.EmailVerifiedAt,
		CreatedAt:       model.CreatedAt,
	}, nil
}
