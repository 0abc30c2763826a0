package grant

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// FetchGrant returns (nil, nil) when no grant matches.
	FetchGrant(ctx context.Context, fileID uuid.UUID, email string) (*Grant, error)
	FetchFileGrants(ctx context.Context, fileID, grantedBy uuid.UUID) (Grants, error)
	// CreateGrant inserts only when req.GrantedBy owns req.FileID.
	// Returns ErrFileNotOwned or ErrAlreadyExists otherwise.
	CreateGrant(ctx context.Context, req *Grant) (*Grant, error)
	DeleteGrant(ctx context.Context, fileID uuid.UUID, email string, grantedBy uuid.UUID) (bool, error)
}
