package grant

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyExists = errors.New("file already shared with this email")
	ErrFileNotOwned  = errors.New("file not owned by granter")
)

type (
	Grant struct {
		FileID    uuid.UUID
		Email     string
		GrantedBy uuid.UUID
		CreatedAt time.Time
	}
	Grants []*Grant
)
