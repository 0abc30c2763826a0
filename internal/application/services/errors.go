package services

import (
	"errors"
	"fmt"

	"fileshare-api/internal/domain/access"
)

// upstream marks a record store or object storage failure. The cause stays
// reachable through errors.Is/As.
func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", access.ErrUpstream, op, err)
}

var errEmptyURL = errors.New("object storage returned an empty url")
