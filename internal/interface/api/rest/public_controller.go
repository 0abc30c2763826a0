package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fileshare-api/internal/application/ports"
	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/interface/api/rest/dto/file"
)

// PublicController serves anonymous share-token links.
type PublicController struct {
	accessService ports.AccessService
	logger        *zap.Logger
}

func NewPublicController(
	r *gin.Engine,
	accessService ports.AccessService,
	logger *zap.Logger,
	limiter gin.HandlerFunc,
) *PublicController {
	pc := &PublicController{
		accessService: accessService,
		logger:        logger,
	}

	r.GET(RouteShare, limiter, pc.ShareHandler)

	return pc
}

// ShareHandler answers every failure other than a storage outage with the
// same 404, so a caller cannot tell an unknown token from a disabled one.
func (pc *PublicController) ShareHandler(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Referrer-Policy", "no-referrer")

	kind, err := access.ParseKind(c.Query("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	su, err := pc.accessService.SignedURLByToken(c.Request.Context(), c.Param("token"), kind)
	if err != nil {
		if errors.Is(err, access.ErrUpstream) {
			abortWithError(c, pc.logger, "SignedURLByToken()", err)
			return
		}
		if errors.Is(err, access.ErrInvalidKind) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": access.ErrInvalidLink.Error()})
		return
	}

	c.JSON(http.StatusOK, file.ToResponseSignedURL(*su))
}
