package file

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the record store for files. Lookups return (nil, nil) when
// nothing matches. Every mutation is a single conditional statement keyed by
// both id and owner; (nil, nil) or false means the caller does not own the row.
type Repository interface {
	FetchByID(ctx context.Context, id uuid.UUID) (*File, error)
	FetchByOwnerAndID(ctx context.Context, ownerID, id uuid.UUID) (*File, error)
	FetchPublicByID(ctx context.Context, id uuid.UUID) (*File, error)
	FetchByPublicToken(ctx context.Context, token string) (*File, error)
	FetchByOwnerAndPath(ctx context.Context, ownerID uuid.UUID, path string) (*File, error)
	FetchOwnerFiles(ctx context.Context, ownerID uuid.UUID, f ListFilter) (Files, error)
	FetchSharedWith(ctx context.Context, email string) (Files, error)
	TotalSize(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// CreateFile fails with ErrQuotaExceeded when a positive quota would be
	// exceeded; the check and the insert are atomic per owner.
	CreateFile(ctx context.Context, req *File, quota int64) (*File, error)
	RenameFile(ctx context.Context, ownerID, id uuid.UUID, name string) (*File, error)
	DeleteFile(ctx context.Context, ownerID, id uuid.UUID) (bool, error)

	EnablePublicLink(ctx context.Context, ownerID, id uuid.UUID, candidateToken string) (*File, error)
	DisablePublicLink(ctx context.Context, ownerID, id uuid.UUID) (*File, error)
	RotateShareToken(ctx context.Context, ownerID, id uuid.UUID, token string) (*File, error)
}
