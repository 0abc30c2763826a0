package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"fileshare-api/internal/application/ports"
	"fileshare-api/internal/domain/identity"
	domain "fileshare-api/internal/domain/user"
	"fileshare-api/internal/infrastructure/mq"
	"fileshare-api/internal/infrastructure/sharetoken"
)

type UserService struct {
	userRepository domain.Repository
	auth           ports.Auth
	tokens         ports.TokenGenerator
	mq             ports.EventPublisher
	mCounter       *prometheus.CounterVec
}

func NewUserService(
	userRepository domain.Repository,
	auth ports.Auth,
	tokens ports.TokenGenerator,
	mq ports.EventPublisher,
	mCounter *prometheus.CounterVec,
) ports.UserService {
	return &UserService{
		userRepository: userRepository,
		auth:           auth,
		tokens:         tokens,
		mq:             mq,
		mCounter:       mCounter,
	}
}

// Register creates an unconfirmed account and sends the confirmation token
// to its email. Grants addressed to that email stay out of reach until Verify.
func (us *UserService) Register(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	hash, err := us.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	token := us.tokens.Generate()
	u, err := us.userRepository.CreateUser(ctx, domain.User{
		Email:        identity.NormalizeEmail(email),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
	}, hashVerifyToken(token))
	if err != nil {
		return nil, err
	}

	us.mCounter.WithLabelValues("user_created_total").Inc()
	us.mq.Publish(mq.NewVerificationEvent(u.UUID, u.Email, token))

	return u, nil
}

// Verify confirms the account that was sent token. A token works once.
func (us *UserService) Verify(ctx context.Context, token string) (*domain.User, error) {
	if !sharetoken.WellFormed(token) {
		return nil, domain.ErrInvalidVerificationToken
	}

	u, err := us.userRepository.VerifyEmail(ctx, hashVerifyToken(token))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrInvalidVerificationToken
	}

	us.mCounter.WithLabelValues("user_email_verified_total").Inc()

	return u, nil
}

func (us *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return us.userRepository.FetchUserByEmail(ctx, identity.NormalizeEmail(email))
}

func (us *UserService) FindByID(ctx context.Context, id domain.UUID) (*domain.User, error) {
	return us.userRepository.FetchUserByID(ctx, id)
}

// the users table holds only this digest
func hashVerifyToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
