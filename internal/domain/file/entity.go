package file

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPathExists     = errors.New("storage path already recorded")
	ErrTokenCollision = errors.New("share token already in use")
	ErrQuotaExceeded  = errors.New("storage quota exceeded")
	ErrInvalidPath    = errors.New("storage path outside of owner prefix")
	ErrEmptyName      = errors.New("file name is empty")
	ErrObjectMissing  = errors.New("no uploaded object at storage path")
)

type (
	File struct {
		ID          uuid.UUID
		OwnerID     uuid.UUID
		Name        string
		StoragePath string
		ContentType string
		SizeBytes   int64

		IsPublic   bool
		ShareToken *string

		CreatedAt time.Time
	}
	Files []*File

	// ObjectInfo is what object storage reports about a stored object.
	ObjectInfo struct {
		Size        int64
		ContentType string
	}

	// ListFilter narrows an owner's listing. Zero values mean "no filter".
	ListFilter struct {
		Type   string // content type prefix, e.g. "image" or "application/pdf"
		Search string // case-insensitive substring of the name
		Limit  int
	}
)

// HasLiveLink reports whether the record currently answers to its share token.
func (f *File) HasLiveLink() bool {
	return f.IsPublic && f.ShareToken != nil && *f.ShareToken != ""
}
