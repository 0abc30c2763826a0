package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"fileshare-api/internal/application/ports"
	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/grant"
	"fileshare-api/internal/domain/identity"
	"fileshare-api/internal/infrastructure/mq"
)

// a fresh 122-bit token colliding twice in a row means something is broken
const maxTokenAttempts = 3

// ShareService manages public share tokens and email grants. Every mutation
// is one conditional write keyed by file id and owner.
type ShareService struct {
	logger        *zap.Logger
	files         file.Repository
	grants        grant.Repository
	tokens        ports.TokenGenerator
	mq            ports.EventPublisher
	mCounter      *prometheus.CounterVec
	publicBaseURL string
}

func NewShareService(
	logger *zap.Logger,
	files file.Repository,
	grants grant.Repository,
	tokens ports.TokenGenerator,
	mq ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	publicBaseURL string,
) ports.ShareService {
	return &ShareService{
		logger:        logger,
		files:         files,
		grants:        grants,
		tokens:        tokens,
		mq:            mq,
		mCounter:      mCounter,
		publicBaseURL: publicBaseURL,
	}
}

// EnablePublicLink turns the link on. A file that already has a token keeps
// it, so enabling twice returns the same link.
func (ss *ShareService) EnablePublicLink(ctx context.Context, who *identity.Identity, fileID uuid.UUID) (*file.File, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}

	f, err := ss.withFreshToken(func(token string) (*file.File, error) {
		return ss.files.EnablePublicLink(ctx, who.ID, fileID, token)
	})
	if err != nil {
		return nil, upstream("enable public link", err)
	}
	if f == nil {
		return nil, ss.notOwner("enable public link", who, fileID)
	}

	ss.emit(mq.ActionLinkEnabled, who, fileID, "")
	return f, nil
}

// DisablePublicLink turns the link off and discards its token; a later enable
// issues a new one.
func (ss *ShareService) DisablePublicLink(ctx context.Context, who *identity.Identity, fileID uuid.UUID) (*file.File, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}

	f, err := ss.files.DisablePublicLink(ctx, who.ID, fileID)
	if err != nil {
		return nil, upstream("disable public link", err)
	}
	if f == nil {
		return nil, ss.notOwner("disable public link", who, fileID)
	}

	ss.emit(mq.ActionLinkDisabled, who, fileID, "")
	return f, nil
}

// RotatePublicLinkToken replaces the token in place. The previous token stops
// resolving in the same statement. On a disabled file the new token stays
// dormant until the link is enabled.
func (ss *ShareService) RotatePublicLinkToken(ctx context.Context, who *identity.Identity, fileID uuid.UUID) (*file.File, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}

	f, err := ss.withFreshToken(func(token string) (*file.File, error) {
		return ss.files.RotateShareToken(ctx, who.ID, fileID, token)
	})
	if err != nil {
		return nil, upstream("rotate share token", err)
	}
	if f == nil {
		return nil, ss.notOwner("rotate share token", who, fileID)
	}

	ss.emit(mq.ActionLinkRotated, who, fileID, "")
	return f, nil
}

// PublicLinkURL is the human-facing share URL of an owned, public file.
func (ss *ShareService) PublicLinkURL(ctx context.Context, who *identity.Identity, fileID uuid.UUID) (string, error) {
	if who == nil {
		return "", access.ErrUnauthenticated
	}

	f, err := ss.files.FetchByOwnerAndID(ctx, who.ID, fileID)
	if err != nil {
		return "", upstream("owner lookup", err)
	}
	if f == nil {
		return "", ss.notOwner("public link url", who, fileID)
	}
	if !f.HasLiveLink() {
		return "", access.ErrNotFound
	}

	return ss.LinkURL(f), nil
}

// LinkURL renders the share URL of f, or "" when its link is not live.
func (ss *ShareService) LinkURL(f *file.File) string {
	if f == nil || !f.HasLiveLink() {
		return ""
	}
	return ss.publicBaseURL + "/share/" + url.PathEscape(*f.ShareToken)
}

func (ss *ShareService) ShareWithEmail(
	ctx context.Context,
	who *identity.Identity,
	fileID uuid.UUID,
	email string,
) (*grant.Grant, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}

	email = identity.NormalizeEmail(email)
	g, err := ss.grants.CreateGrant(ctx, &grant.Grant{
		FileID:    fileID,
		Email:     email,
		GrantedBy: who.ID,
	})
	switch {
	case errors.Is(err, grant.ErrFileNotOwned):
		return nil, ss.notOwner("share with email", who, fileID)
	case errors.Is(err, grant.ErrAlreadyExists):
		return nil, err
	case err != nil:
		return nil, upstream("create grant", err)
	}

	ss.emit(mq.ActionGrantAdded, who, fileID, email)
	return g, nil
}

// RemoveAccess revokes one grantee. Nothing to delete, including a file the
// caller does not own, is ErrNotFound.
func (ss *ShareService) RemoveAccess(ctx context.Context, who *identity.Identity, fileID uuid.UUID, email string) error {
	if who == nil {
		return access.ErrUnauthenticated
	}

	email = identity.NormalizeEmail(email)
	ok, err := ss.grants.DeleteGrant(ctx, fileID, email, who.ID)
	if err != nil {
		return upstream("delete grant", err)
	}
	if !ok {
		return access.ErrNotFound
	}

	ss.emit(mq.ActionGrantRemoved, who, fileID, email)
	return nil
}

func (ss *ShareService) SharedUsers(ctx context.Context, who *identity.Identity, fileID uuid.UUID) (grant.Grants, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}

	f, err := ss.files.FetchByOwnerAndID(ctx, who.ID, fileID)
	if err != nil {
		return nil, upstream("owner lookup", err)
	}
	if f == nil {
		return nil, ss.notOwner("list grants", who, fileID)
	}

	gs, err := ss.grants.FetchFileGrants(ctx, fileID, who.ID)
	if err != nil {
		return nil, upstream("list grants", err)
	}
	if gs == nil {
		gs = grant.Grants{}
	}

	return gs, nil
}

func (ss *ShareService) withFreshToken(write func(token string) (*file.File, error)) (*file.File, error) {
	var err error
	for range maxTokenAttempts {
		var f *file.File
		f, err = write(ss.tokens.Generate())
		if !errors.Is(err, file.ErrTokenCollision) {
			return f, err
		}
		ss.logger.Warn("share token collision, regenerating")
	}
	return nil, err
}

func (ss *ShareService) notOwner(op string, who *identity.Identity, fileID uuid.UUID) error {
	ss.mCounter.WithLabelValues("share_denied_total").Inc()
	ss.logger.Debug("share operation denied",
		zap.String("op", op),
		zap.Stringer("file_id", fileID),
		zap.Stringer("user_id", who.ID),
	)
	return access.ErrForbidden
}

func (ss *ShareService) emit(action string, who *identity.Identity, fileID uuid.UUID, email string) {
	ss.mCounter.WithLabelValues(strings.ReplaceAll(action, ".", "_") + "_total").Inc()
	ss.mq.Publish(mq.NewEvent(action, who.ID, fileID, email))
}
