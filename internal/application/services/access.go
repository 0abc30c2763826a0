package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"fileshare-api/internal/application/ports"
	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/grant"
	"fileshare-api/internal/domain/identity"
	"fileshare-api/internal/infrastructure/sharetoken"
)

// AccessService decides whether a requester may read a file and mints the
// temporary URL for it. It holds no mutable state.
type AccessService struct {
	logger   *zap.Logger
	files    file.Repository
	grants   grant.Repository
	storage  ports.ObjectStorage
	policy   access.TTLPolicy
	mCounter *prometheus.CounterVec
	now      func() time.Time
}

func NewAccessService(
	logger *zap.Logger,
	files file.Repository,
	grants grant.Repository,
	storage ports.ObjectStorage,
	policy access.TTLPolicy,
	mCounter *prometheus.CounterVec,
) ports.AccessService {
	return &AccessService{
		logger:   logger,
		files:    files,
		grants:   grants,
		storage:  storage,
		policy:   policy,
		mCounter: mCounter,
		now:      time.Now,
	}
}

// ResolveByID checks owner, then email grant, then the public flag, in that
// order. Grants only match a confirmed email. A missing file and a file the
// caller may not read both yield ErrForbidden.
func (as *AccessService) ResolveByID(
	ctx context.Context,
	who *identity.Identity,
	fileID uuid.UUID,
	kind access.Kind,
) (*access.Resolution, error) {
	if who == nil {
		as.deny("no identity", zap.Stringer("file_id", fileID))
		return nil, access.ErrUnauthenticated
	}
	ttl, err := as.policy.ForIdentity(kind)
	if err != nil {
		return nil, err
	}

	f, err := as.files.FetchByOwnerAndID(ctx, who.ID, fileID)
	if err != nil {
		return nil, as.fail("owner lookup", err)
	}
	if f != nil {
		return as.allow(f, ttl, access.DispositionInline, access.ViaOwner), nil
	}

	if email := who.VerifiedEmail(); email != "" {
		g, err := as.grants.FetchGrant(ctx, fileID, email)
		if err != nil {
			return nil, as.fail("grant lookup", err)
		}
		if g != nil {
			f, err = as.files.FetchByID(ctx, fileID)
			if err != nil {
				return nil, as.fail("granted file lookup", err)
			}
			if f != nil {
				return as.allow(f, ttl, access.DispositionInline, access.ViaGrant), nil
			}
		}
	}

	f, err = as.files.FetchPublicByID(ctx, fileID)
	if err != nil {
		return nil, as.fail("public lookup", err)
	}
	if f != nil && f.IsPublic {
		return as.allow(f, ttl, access.DispositionInline, access.ViaPublic), nil
	}

	as.deny("not owner, grantee or public",
		zap.Stringer("file_id", fileID),
		zap.Stringer("user_id", who.ID),
	)
	return nil, access.ErrForbidden
}

// ResolveByToken grants anonymous access to the file whose live share token
// equals token. Unknown, malformed and disabled tokens are indistinguishable.
func (as *AccessService) ResolveByToken(ctx context.Context, token string, kind access.Kind) (*access.Resolution, error) {
	ttl, disp, err := as.policy.ForToken(kind)
	if err != nil {
		return nil, err
	}
	if !sharetoken.WellFormed(token) {
		as.deny("malformed token")
		return nil, access.ErrInvalidLink
	}

	f, err := as.files.FetchByPublicToken(ctx, token)
	if err != nil {
		return nil, as.fail("token lookup", err)
	}
	if f == nil || !f.HasLiveLink() || *f.ShareToken != token {
		as.deny("no live link for token")
		return nil, access.ErrInvalidLink
	}

	return as.allow(f, ttl, disp, access.ViaToken), nil
}

func (as *AccessService) SignedURLByID(
	ctx context.Context,
	who *identity.Identity,
	fileID uuid.UUID,
	kind access.Kind,
) (*access.SignedURL, error) {
	res, err := as.ResolveByID(ctx, who, fileID, kind)
	if err != nil {
		return nil, err
	}

	return as.mint(ctx, res)
}

func (as *AccessService) SignedURLByToken(ctx context.Context, token string, kind access.Kind) (*access.SignedURL, error) {
	res, err := as.ResolveByToken(ctx, token, kind)
	if err != nil {
		return nil, err
	}

	return as.mint(ctx, res)
}

func (as *AccessService) mint(ctx context.Context, res *access.Resolution) (*access.SignedURL, error) {
	now := as.now()
	u, err := as.storage.PresignGet(ctx, res.Path, res.TTL, res.Disposition, res.File.Name)
	if err != nil {
		return nil, as.fail("presign", err)
	}
	if u == "" {
		return nil, as.fail("presign", errEmptyURL)
	}

	as.mCounter.WithLabelValues("access_url_minted_total").Inc()

	return &access.SignedURL{
		URL:       u,
		ExpiresAt: now.Add(res.TTL),
		File:      res.File,
	}, nil
}

func (as *AccessService) allow(f *file.File, ttl time.Duration, disp access.Disposition, via access.Via) *access.Resolution {
	as.mCounter.WithLabelValues("access_granted_" + string(via) + "_total").Inc()

	return &access.Resolution{
		File:        f,
		Path:        f.StoragePath,
		TTL:         ttl,
		Disposition: disp,
		Via:         via,
	}
}

func (as *AccessService) deny(reason string, fields ...zap.Field) {
	as.mCounter.WithLabelValues("access_denied_total").Inc()
	as.logger.Debug("access denied", append(fields, zap.String("reason", reason))...)
}

func (as *AccessService) fail(op string, err error) error {
	as.mCounter.WithLabelValues("access_upstream_error_total").Inc()
	as.logger.Error("access resolution failed", zap.String("op", op), zap.Error(err))
	return upstream(op, err)
}
