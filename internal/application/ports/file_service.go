package ports

import (
	"context"
	"mime/multipart"

	"github.com/google/uuid"

	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/identity"
)

type FileService interface {
	Upload(ctx context.Context, who *identity.Identity, in *multipart.FileHeader) (*file.File, error)
	UploadURL(ctx context.Context, who *identity.Identity, name, contentType string) (*file.UploadTarget, error)
	CreateRecord(ctx context.Context, who *identity.Identity, req file.File) (*file.File, error)
	List(ctx context.Context, who *identity.Identity, f file.ListFilter) (file.Listings, error)
	SharedWithMe(ctx context.Context, who *identity.Identity) (file.Listings, error)
	Rename(ctx context.Context, who *identity.Identity, fileID uuid.UUID, name string) (*file.File, error)
	Delete(ctx context.Context, who *identity.Identity, fileID uuid.UUID) error
	Usage(ctx context.Context, who *identity.Identity) (*file.Usage, error)
}
