package rest

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/grant"
	"fileshare-api/internal/domain/user"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{access.ErrUnauthenticated, http.StatusUnauthorized},
		{access.ErrForbidden, http.StatusForbidden},
		{access.ErrNotFound, http.StatusNotFound},
		{access.ErrInvalidLink, http.StatusNotFound},
		{fmt.Errorf("%w: %q", access.ErrInvalidKind, "zip"), http.StatusBadRequest},
		{fmt.Errorf("%w: presign: %w", access.ErrUpstream, errors.New("timeout")), http.StatusBadGateway},
		{file.ErrQuotaExceeded, http.StatusRequestEntityTooLarge},
		{file.ErrInvalidPath, http.StatusBadRequest},
		{file.ErrObjectMissing, http.StatusBadRequest},
		{user.ErrInvalidVerificationToken, http.StatusBadRequest},
		{file.ErrEmptyName, http.StatusBadRequest},
		{grant.ErrAlreadyExists, http.StatusConflict},
		{user.ErrEmailAlreadyExists, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusOf(tt.err))
		})
	}
}
