package ports

import (
	"context"
	"io"
	"time"

	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/file"
)

type ObjectStorage interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration, disp access.Disposition, filename string) (string, error)
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
	Delete(ctx context.Context, key string) error
	// Stat fails with file.ErrObjectMissing when nothing is stored at key.
	Stat(ctx context.Context, key string) (*file.ObjectInfo, error)
}

// TokenGenerator must draw from a cryptographically secure source.
type TokenGenerator interface {
	Generate() string
}
