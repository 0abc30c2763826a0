package access

import "errors"

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("access denied")
	ErrInvalidLink     = errors.New("invalid or expired link")
	ErrNotFound        = errors.New("not found")
	ErrUpstream        = errors.New("upstream failure")
	ErrInvalidKind     = errors.New("invalid access kind")
)
