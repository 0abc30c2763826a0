package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fileshare-api/internal/application/ports"
	"fileshare-api/internal/domain/access"
	domain "fileshare-api/internal/domain/file"
	"fileshare-api/internal/infrastructure/jwt"
	"fileshare-api/internal/interface/api/rest/dto/file"
	"fileshare-api/internal/interface/api/rest/middleware"
	"fileshare-api/internal/interface/api/rest/validator"
)

// multipart framing on top of the file itself
const multipartOverhead = 1 << 20

type FileController struct {
	fileService   ports.FileService
	accessService ports.AccessService
	logger        *zap.Logger
	maxUploadSize int64
}

func NewFileController(
	r *gin.Engine,
	fileService ports.FileService,
	accessService ports.AccessService,
	logger *zap.Logger,
	jwtService *jwt.Service,
	maxUploadSize int64,
) *FileController {
	fc := &FileController{
		fileService:   fileService,
		accessService: accessService,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}

	authed := middleware.AuthMiddleware(jwtService)

	r.GET(RouteFiles, authed, fc.ListHandler)
	r.POST(RouteFiles, authed, fc.CreateHandler)
	r.POST(RouteFilesUpload, authed, fc.UploadHandler)
	r.POST(RouteFilesUploadURL, authed, fc.UploadURLHandler)
	r.GET(RouteFilesUsage, authed, fc.UsageHandler)
	r.GET(RouteFilesShared, authed, fc.SharedHandler)
	r.PATCH(RouteFile, authed, fc.RenameHandler)
	r.DELETE(RouteFile, authed, fc.DeleteHandler)
	r.GET(RouteFileURL, middleware.OptionalAuthMiddleware(jwtService), fc.URLHandler)

	return fc
}

func (fc *FileController) ListHandler(c *gin.Context) {
	limit, errs := validator.ValidateLimit(c.Query("limit"))
	if errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid query",
			"details": errs,
		})
		return
	}

	files, err := fc.fileService.List(c.Request.Context(), middleware.IdentityFrom(c), domain.ListFilter{
		Type:   c.Query("type"),
		Search: c.Query("search"),
		Limit:  limit,
	})
	if err != nil {
		abortWithError(c, fc.logger, "List()", err)
		return
	}

	c.JSON(http.StatusOK, file.ResponseData{
		Data: file.ToResponseListings(files),
	})
}

func (fc *FileController) SharedHandler(c *gin.Context) {
	files, err := fc.fileService.SharedWithMe(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		abortWithError(c, fc.logger, "SharedWithMe()", err)
		return
	}

	c.JSON(http.StatusOK, file.ResponseData{
		Data: file.ToResponseListings(files),
	})
}

func (fc *FileController) UploadHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, fc.maxUploadSize+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size <= 0 || fh.Size > fc.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large or empty"})
		return
	}

	f, err := fc.fileService.Upload(c.Request.Context(), middleware.IdentityFrom(c), fh)
	if err != nil {
		abortWithError(c, fc.logger, "Upload()", err)
		return
	}

	c.JSON(http.StatusCreated, file.ToResponseFile(*f))
}

func (fc *FileController) UploadURLHandler(c *gin.Context) {
	var req file.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errs := validator.ValidateUploadURL(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	t, err := fc.fileService.UploadURL(c.Request.Context(), middleware.IdentityFrom(c), req.Name, req.ContentType)
	if err != nil {
		abortWithError(c, fc.logger, "UploadURL()", err)
		return
	}

	c.JSON(http.StatusOK, file.ToResponseUploadTarget(*t))
}

func (fc *FileController) CreateHandler(c *gin.Context) {
	var req file.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errs := validator.ValidateCreate(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}
	if req.Size > fc.maxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	f, err := fc.fileService.CreateRecord(c.Request.Context(), middleware.IdentityFrom(c), file.ToDomainFile(req))
	if err != nil {
		abortWithError(c, fc.logger, "CreateRecord()", err)
		return
	}

	c.JSON(http.StatusCreated, file.ToResponseFile(*f))
}

func (fc *FileController) UsageHandler(c *gin.Context) {
	u, err := fc.fileService.Usage(c.Request.Context(), middleware.IdentityFrom(c))
	if err != nil {
		abortWithError(c, fc.logger, "Usage()", err)
		return
	}

	c.JSON(http.StatusOK, file.ToResponseUsage(*u))
}

func (fc *FileController) RenameHandler(c *gin.Context) {
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a valid UUID"})
		return
	}

	var req file.RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errs := validator.ValidateRename(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	f, err := fc.fileService.Rename(c.Request.Context(), middleware.IdentityFrom(c), fileID, req.Name)
	if err != nil {
		abortWithError(c, fc.logger, "Rename()", err)
		return
	}

	c.JSON(http.StatusOK, file.ToResponseFile(*f))
}

func (fc *FileController) DeleteHandler(c *gin.Context) {
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a valid UUID"})
		return
	}

	if err := fc.fileService.Delete(c.Request.Context(), middleware.IdentityFrom(c), fileID); err != nil {
		abortWithError(c, fc.logger, "Delete()", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// URLHandler mints a signed URL for an owned, shared or public file.
func (fc *FileController) URLHandler(c *gin.Context) {
	ok, fileID := validator.IsUUID(c.Param("file_id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_id must be a valid UUID"})
		return
	}
	kind, err := access.ParseKind(c.Query("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	su, err := fc.accessService.SignedURLByID(c.Request.Context(), middleware.IdentityFrom(c), fileID, kind)
	if err != nil {
		abortWithError(c, fc.logger, "SignedURLByID()", err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, file.ToResponseSignedURL(*su))
}
