package file

import (
	"time"
)

type (
	File struct {
		ID          string
		OwnerID     string
		Name        string
		StoragePath string
		ContentType string
		SizeBytes   int64
		IsPublic    bool
		ShareToken  *string
		CreatedAt   time.Time
	}
	Files []*File
)
