package rest

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/grant"
	"fileshare-api/internal/domain/identity"
	jwtSvc "fileshare-api/internal/infrastructure/jwt"
)

func setupShareRouter(t *testing.T, ss *FakeShareService) *gin.Engine {
	t.Helper()
	r := newTestRouter(t)
	NewShareController(r, ss, zap.NewNop(), jwtSvc.New(testSecret, time.Hour))
	return r
}

func TestShareController_PublicLink(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	token := "4fJ8kQ2mXv9pLr7TzW3nBc"
	h := bearer(t, owner, "o@example.com")

	owned := func(fid uuid.UUID) error {
		if fid != id {
			return access.ErrForbidden
		}
		return nil
	}
	r := setupShareRouter(t, &FakeShareService{
		EnableFunc: func(ctx context.Context, who *identity.Identity, fid uuid.UUID) (*file.File, error) {
			if err := owned(fid); err != nil {
				return nil, err
			}
			return &file.File{ID: fid, IsPublic: true, ShareToken: &token}, nil
		},
		DisableFunc: func(ctx context.Context, who *identity.Identity, fid uuid.UUID) (*file.File, error) {
			if err := owned(fid); err != nil {
				return nil, err
			}
			return &file.File{ID: fid}, nil
		},
		RotateFunc: func(ctx context.Context, who *identity.Identity, fid uuid.UUID) (*file.File, error) {
			if err := owned(fid); err != nil {
				return nil, err
			}
			dormant := "dormantTokenValue0000"
			return &file.File{ID: fid, ShareToken: &dormant}, nil
		},
	})
	base := "/api/v1/files/" + id.String() + "/public-link"

	rr := doReq(t, r, http.MethodPost, base, nil, h)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr)
	assert.Equal(t, true, resp["is_public"])
	assert.Equal(t, "https://files.example/share/"+token, resp["url"])

	rr = doReq(t, r, http.MethodPost, base+"/rotate", nil, h)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "dormantTokenValue0000")

	rr = doReq(t, r, http.MethodDelete, base, nil, h)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, false, decode(t, rr)["is_public"])

	rr = doReq(t, r, http.MethodPost, "/api/v1/files/"+uuid.NewString()+"/public-link", nil, h)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = doReq(t, r, http.MethodPost, base, nil, nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestShareController_QR(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	h := bearer(t, owner, "o@example.com")

	r := setupShareRouter(t, &FakeShareService{
		PublicLinkURLFunc: func(ctx context.Context, who *identity.Identity, fid uuid.UUID) (string, error) {
			if fid != id {
				return "", access.ErrNotFound
			}
			return "https://files.example/share/abc", nil
		},
	})

	rr := doReq(t, r, http.MethodGet, "/api/v1/files/"+id.String()+"/public-link/qr", nil, h)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, qrSize, img.Bounds().Dx())

	rr = doReq(t, r, http.MethodGet, "/api/v1/files/"+uuid.NewString()+"/public-link/qr", nil, h)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestShareController_Grants(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	h := bearer(t, owner, "o@example.com")

	var removed string
	r := setupShareRouter(t, &FakeShareService{
		SharedUsersFunc: func(ctx context.Context, who *identity.Identity, fid uuid.UUID) (grant.Grants, error) {
			return grant.Grants{{FileID: fid, Email: "b@example.com", GrantedBy: who.ID}}, nil
		},
		ShareFunc: func(ctx context.Context, who *identity.Identity, fid uuid.UUID, email string) (*grant.Grant, error) {
			if email == "dup@example.com" {
				return nil, grant.ErrAlreadyExists
			}
			return &grant.Grant{FileID: fid, Email: identity.NormalizeEmail(email), GrantedBy: who.ID}, nil
		},
		RemoveFunc: func(ctx context.Context, who *identity.Identity, fid uuid.UUID, email string) error {
			if email != "b@example.com" {
				return access.ErrNotFound
			}
			removed = email
			return nil
		},
	})
	base := "/api/v1/files/" + id.String() + "/grants"

	rr := doReq(t, r, http.MethodGet, base, nil, h)
	require.Equal(t, http.StatusOK, rr.Code)
	data := decode(t, rr)["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "b@example.com", data[0].(map[string]any)["email"])

	rr = doReq(t, r, http.MethodPost, base, map[string]any{"email": "C@Example.com"}, h)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "c@example.com", decode(t, rr)["email"])

	rr = doReq(t, r, http.MethodPost, base, map[string]any{"email": "dup@example.com"}, h)
	require.Equal(t, http.StatusConflict, rr.Code)

	rr = doReq(t, r, http.MethodPost, base, map[string]any{"email": "nope"}, h)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doReq(t, r, http.MethodDelete, base+"/b@example.com", nil, h)
	require.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "b@example.com", removed)

	rr = doReq(t, r, http.MethodDelete, base+"/z@example.com", nil, h)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
