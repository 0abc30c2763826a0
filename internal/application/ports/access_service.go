package ports

import (
	"context"

	"github.com/google/uuid"

	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/identity"
)

type AccessService interface {
	ResolveByID(ctx context.Context, who *identity.Identity, fileID uuid.UUID, kind access.Kind) (*access.Resolution, error)
	ResolveByToken(ctx context.Context, token string, kind access.Kind) (*access.Resolution, error)
	SignedURLByID(ctx context.Context, who *identity.Identity, fileID uuid.UUID, kind access.Kind) (*access.SignedURL, error)
	SignedURLByToken(ctx context.Context, token string, kind access.Kind) (*access.SignedURL, error)
}
