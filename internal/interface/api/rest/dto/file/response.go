package file

import (
	"time"

	"github.com/google/uuid"
)

type (
	File struct {
		ID          uuid.UUID `json:"id"`
		Name        string    `json:"name"`
		ContentType string    `json:"content_type"`
		SizeBytes   int64     `json:"size_bytes"`
		IsPublic    bool      `json:"is_public"`
		CreatedAt   time.Time `json:"created_at"`
	}
	// Listing is a file with a short-lived preview URL; the URL is null
	// when it could not be minted.
	Listing struct {
		File
		PreviewURL       *string    `json:"preview_url"`
		PreviewExpiresAt *time.Time `json:"preview_expires_at"`
	}
	Listings     []Listing
	ResponseData struct {
		Data Listings `json:"data"`
	}

	UploadTarget struct {
		Path      string    `json:"path"`
		URL       string    `json:"url"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	Usage struct {
		Used int64 `json:"used"`
		All  int64 `json:"all"`
	}
	// SignedURL never carries the owner id or the share token.
	SignedURL struct {
		URL         string    `json:"url"`
		ExpiresAt   time.Time `json:"expires_at"`
		Name        string    `json:"name"`
		SizeBytes   int64     `json:"size_bytes"`
		ContentType string    `json:"content_type"`
	}
)
