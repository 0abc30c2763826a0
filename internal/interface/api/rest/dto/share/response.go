package share

import (
	"time"

	"github.com/google/uuid"
)

type (
	// PublicLink is the owner's view of a file's link state. URL is set only
	// while the link is live.
	PublicLink struct {
		FileID   uuid.UUID `json:"file_id"`
		IsPublic bool      `json:"is_public"`
		URL      string    `json:"url,omitempty"`
	}
	Grant struct {
		Email     string    `json:"email"`
		CreatedAt time.Time `json:"created_at"`
	}
	Grants       []Grant
	ResponseData struct {
		Data Grants `json:"data"`
	}
)
