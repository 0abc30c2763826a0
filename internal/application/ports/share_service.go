package ports

import (
	"context"

	"github.com/google/uuid"

	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/grant"
	"fileshare-api/internal/domain/identity"
)

type ShareService interface {
	EnablePublicLink(ctx context.Context, who *identity.Identity, fileID uuid.UUID) (*file.File, error)
	DisablePublicLink(ctx context.Context, who *identity.Identity, fileID uuid.UUID) (*file.File, error)
	RotatePublicLinkToken(ctx context.Context, who *identity.Identity, fileID uuid.UUID) (*file.File, error)
	PublicLinkURL(ctx context.Context, who *identity.Identity, fileID uuid.UUID) (string, error)
	LinkURL(f *file.File) string

	ShareWithEmail(ctx context.Context, who *identity.Identity, fileID uuid.UUID, email string) (*grant.Grant, error)
	RemoveAccess(ctx context.Context, who *identity.Identity, fileID uuid.UUID, email string) error
	SharedUsers(ctx context.Context, who *identity.Identity, fileID uuid.UUID) (grant.Grants, error)
}
