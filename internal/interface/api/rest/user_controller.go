package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fileshare-api/internal/application/ports"
	domain "fileshare-api/internal/domain/user"
	"fileshare-api/internal/infrastructure/jwt"
	"fileshare-api/internal/interface/api/rest/dto/auth"
	"fileshare-api/internal/interface/api/rest/dto/user"
	"fileshare-api/internal/interface/api/rest/middleware"
	"fileshare-api/internal/interface/api/rest/validator"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	jwtService *jwt.Service,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	r.POST(RouteRegister, uc.RegisterHandler)
	r.POST(RouteVerifyEmail, uc.VerifyEmailHandler)
	r.GET(RouteMe, middleware.AuthMiddleware(jwtService), uc.MeHandler)

	return uc
}

func (uc *UserController) RegisterHandler(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.ValidateRegister(req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": errs,
		})
		return
	}

	u, err := uc.userService.Register(c.Request.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, domain.ErrEmailAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to create a user"},
		)
		uc.logger.Error("Register() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusCreated, user.ToResponseUser(*u))
}

// VerifyEmailHandler confirms the account the token was mailed to. Tokens
// issued before confirmation keep email_verified=false until the next login.
func (uc *UserController) VerifyEmailHandler(c *gin.Context) {
	var req auth.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	u, err := uc.userService.Verify(c.Request.Context(), req.Token)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVerificationToken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to verify email"},
		)
		uc.logger.Error("Verify() error", zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}

func (uc *UserController) MeHandler(c *gin.Context) {
	who := middleware.IdentityFrom(c)
	if who == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	u, err := uc.userService.FindByID(c.Request.Context(), who.ID)
	if err != nil {
		c.JSON(
			http.StatusInternalServerError,
			gin.H{"error": "failed to get a user"},
		)
		uc.logger.Error("FindByID() error", zap.Error(err))
		return
	}
	if u == nil {
		c.JSON(
			http.StatusNotFound,
			gin.H{"error": "user not found"},
		)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}
