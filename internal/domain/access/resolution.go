package access

import (
	"time"

	"fileshare-api/internal/domain/file"
)

// Via names the rule that granted access. Server-side only.
type Via string

const (
	ViaOwner  Via = "owner"
	ViaGrant  Via = "grant"
	ViaPublic Via = "public"
	ViaToken  Via = "token"
)

type (
	Resolution struct {
		File        *file.File
		Path        string
		TTL         time.Duration
		Disposition Disposition
		Via         Via
	}

	SignedURL struct {
		URL       string
		ExpiresAt time.Time
		File      *file.File
	}
)
