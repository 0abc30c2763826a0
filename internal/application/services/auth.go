package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"fileshare-api/internal/application/ports"
	"fileshare-api/internal/domain/user"
	"fileshare-api/internal/infrastructure/jwt"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrFailedToGenerateToken = errors.New("failed to generate token")
)

type AuthService struct {
	jwtService *jwt.Service
	cost       int
	// compared against for unknown accounts; every login costs one bcrypt comparison
	dummyHash []byte
	compare   func(hash, password []byte) error
}

func NewAuthService(jwtService *jwt.Service) ports.Auth {
	dummy, err := bcrypt.GenerateFromPassword([]byte("fileshare-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}

	return &AuthService{
		jwtService: jwtService,
		cost:       bcrypt.DefaultCost,
		dummyHash:  dummy,
		compare:    bcrypt.CompareHashAndPassword,
	}
}

func (as *AuthService) HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), as.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (as *AuthService) GenerateToken(u *user.User, requestPassword string) (string, error) {
	if u == nil || u.PasswordHash == "" {
		_ = as.compare(as.dummyHash, []byte(requestPassword))
		return "", ErrInvalidCredentials
	}
	if err := as.compare([]byte(u.PasswordHash), []byte(requestPassword)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := as.jwtService.GenerateJWT(u.UUID.String(), u.Email, u.EmailVerified())
	if err != nil {
		return "", ErrFailedToGenerateToken
	}

	return token, nil
}
