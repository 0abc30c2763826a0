package grant

import (
	"time"
)

type (
	Grant struct {
		FileID    string
		Email     string
		GrantedBy string
		CreatedAt time.Time
	}
	Grants []*Grant

	// createResult is the row of InsertGrantIfOwner; the grant columns are
	// NULL when nothing was inserted.
	createResult struct {
		Owned     bool
		FileID    *string
		Email     *string
		GrantedBy *string
		CreatedAt *time.Time
	}
)
