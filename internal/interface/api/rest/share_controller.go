package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"fileshare-api/internal/application/ports"
	"fileshare-api/internal/infrastructure/jwt"
	"fileshare-api/internal/interface/api/rest/dto/share"
	"fileshare-api/internal/interface/api/rest/middleware"
	"fileshare-api/internal/interface/api/rest/validator"
)

const qrSize = 256

type ShareController struct {
	shareService ports.ShareService
	logger       *zap.Logger
}

func NewShareController(
	r *gin.Engine,
	shareService ports.ShareService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *ShareController {
	sc := &ShareController{
		shareService: shareService,
		logger:       logger,
	}

	authed := middleware.AuthMiddleware(jwtService)

	r.POST(RoutePublicLink, authed, sc.EnablePublicLinkHandler)
	r.DELETE(RoutePublicLink, authed, sc.DisablePublicLinkHandler)
	r.POST(RoutePublicLinkRotate, authed, sc.RotatePublicLinkHandler)
	r.GET(RoutePublicLinkQR, authed, sc.PublicLinkQRHandler)
	r.GET(RouteGrants, authed, sc.GetGrantsHandler)
	r.POST(RouteGrants, authed, sc.CreateGrantHandler)
	r.DELETE(RouteGrant, authed, sc.DeleteGrantHandler)

	return sc
}

func (sc *ShareController) EnablePublicLinkHandler(c *gin.Context) {
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a valid UUID"})
		return
	}

	f, err := sc.shareService.EnablePublicLink(c.Request.Context(), middleware.IdentityFrom(c), fileID)
	if err != nil {
		abortWithError(c, sc.logger, "EnablePublicLink()", err)
		return
	}

	c.JSON(http.StatusOK, share.PublicLink{
		FileID:   f.ID,
		IsPublic: f.IsPublic,
		URL:      sc.shareService.LinkURL(f),
	})
}

func (sc *ShareController) DisablePublicLinkHandler(c *gin.Context) {
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a valid UUID"})
		return
	}

	f, err := sc.shareService.DisablePublicLink(c.Request.Context(), middleware.IdentityFrom(c), fileID)
	if err != nil {
		abortWithError(c, sc.logger, "DisablePublicLink()", err)
		return
	}

	c.JSON(http.StatusOK, share.PublicLink{FileID: f.ID, IsPublic: f.IsPublic})
}

func (sc *ShareController) RotatePublicLinkHandler(c *gin.Context) {
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a valid UUID"})
		return
	}

	f, err := sc.shareService.RotatePublicLinkToken(c.Request.Context(), middleware.IdentityFrom(c), fileID)
	if err != nil {
		abortWithError(c, sc.logger, "RotatePublicLinkToken()", err)
		return
	}

	// a dormant token on a private file is not shown
	c.JSON(http.StatusOK, share.PublicLink{
		FileID:   f.ID,
		IsPublic: f.IsPublic,
		URL:      sc.shareService.LinkURL(f),
	})
}

func (sc *ShareController) PublicLinkQRHandler(c *gin.Context) {
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a valid UUID"})
		return
	}

	link, err := sc.shareService.PublicLinkURL(c.Request.Context(), middleware.IdentityFrom(c), fileID)
	if err != nil {
		abortWithError(c, sc.logger, "PublicLinkURL()", err)
		return
	}

	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render qr code"})
		sc.logger.Error("qrcode.Encode() error", zap.Error(err))
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func (sc *ShareController) GetGrantsHandler(c *gin.Context) {
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a valid UUID"})
		return
	}

	gs, err := sc.shareService.SharedUsers(c.Request.Context(), middleware.IdentityFrom(c), fileID)
	if err != nil {
		abortWithError(c, sc.logger, "SharedUsers()", err)
		return
	}

	c.JSON(http.StatusOK, share.ResponseData{
		Data: share.ToResponseGrants(gs),
	})
}

func (sc *ShareController) CreateGrantHandler(c *gin.Context) {
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a valid UUID"})
		return
	}

	var req share.GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if !validator.IsEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format"})
		return
	}

	g, err := sc.shareService.ShareWithEmail(c.Request.Context(), middleware.IdentityFrom(c), fileID, req.Email)
	if err != nil {
		abortWithError(c, sc.logger, "ShareWithEmail()", err)
		return
	}

	c.JSON(http.StatusCreated, share.ToResponseGrant(*g))
}

func (sc *ShareController) DeleteGrantHandler(c *gin.Context) {
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a valid UUID"})
		return
	}
	email := c.Param("email")
	if !validator.IsEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email format"})
		return
	}

	if err := sc.shareService.RemoveAccess(c.Request.Context(), middleware.IdentityFrom(c), fileID, email); err != nil {
		abortWithError(c, sc.logger, "RemoveAccess()", err)
		return
	}

	c.Status(http.StatusNoContent)
}
