package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/grant"
	"fileshare-api/internal/domain/user"
)

// statusOf maps domain errors to HTTP statuses. Unknown errors are 500.
func statusOf(err error) int {
	switch {
	case errors.Is(err, access.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, access.ErrNotFound),
		errors.Is(err, access.ErrInvalidLink):
		return http.StatusNotFound
	case errors.Is(err, access.ErrInvalidKind),
		errors.Is(err, file.ErrInvalidPath),
		errors.Is(err, file.ErrObjectMissing),
		errors.Is(err, file.ErrEmptyName),
		errors.Is(err, user.ErrInvalidVerificationToken):
		return http.StatusBadRequest
	case errors.Is(err, file.ErrQuotaExceeded):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, grant.ErrAlreadyExists),
		errors.Is(err, user.ErrEmailAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, access.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the error body. Server-side failures are logged
// with their cause and answered with a generic message.
func abortWithError(c *gin.Context, logger *zap.Logger, op string, err error) {
	code := statusOf(err)

	msg := err.Error()
	switch code {
	case http.StatusBadGateway:
		msg = "storage temporarily unavailable"
		logger.Error(op+" error", zap.Error(err))
	case http.StatusInternalServerError:
		msg = "internal error"
		logger.Error(op+" error", zap.Error(err))
	}

	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
