package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/grant"
	"fileshare-api/internal/domain/identity"
	domainUser "fileshare-api/internal/domain/user"
)

const testSecret = "test-secret"

type FakeUserService struct {
	RegisterFunc    func(ctx context.Context, email, password, fullName string) (*domainUser.User, error)
	VerifyFunc      func(ctx context.Context, token string) (*domainUser.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domainUser.User, error)
	FindByIDFunc    func(ctx context.Context, id domainUser.UUID) (*domainUser.User, error)
}

func (f *FakeUserService) Register(ctx context.Context, email, password, fullName string) (*domainUser.User, error) {
	if f.RegisterFunc == nil {
		return nil, errors.New("not used")
	}
	return f.RegisterFunc(ctx, email, password, fullName)
}
func (f *FakeUserService) Verify(ctx context.Context, token string) (*domainUser.User, error) {
	if f.VerifyFunc == nil {
		return nil, errors.New("not used")
	}
	return f.VerifyFunc(ctx, token)
}
func (f *FakeUserService) FindByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	if f.FindByEmailFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FindByEmailFunc(ctx, email)
}
func (f *FakeUserService) FindByID(ctx context.Context, id domainUser.UUID) (*domainUser.User, error) {
	if f.FindByIDFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FindByIDFunc(ctx, id)
}

type fakeAuthService struct {
	GenerateTokenFunc func(u *domainUser.User, password string) (string, error)
}

func (f *fakeAuthService) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}
func (f *fakeAuthService) GenerateToken(u *domainUser.User, password string) (string, error) {
	return f.GenerateTokenFunc(u, password)
}

type FakeFileService struct {
	UploadFunc       func(ctx context.Context, who *identity.Identity, fh *multipart.FileHeader) (*file.File, error)
	UploadURLFunc    func(ctx context.Context, who *identity.Identity, name, contentType string) (*file.UploadTarget, error)
	CreateRecordFunc func(ctx context.Context, who *identity.Identity, req file.File) (*file.File, error)
	ListFunc         func(ctx context.Context, who *identity.Identity, f file.ListFilter) (file.Listings, error)
	SharedWithMeFunc func(ctx context.Context, who *identity.Identity) (file.Listings, error)
	RenameFunc       func(ctx context.Context, who *identity.Identity, id uuid.UUID, name string) (*file.File, error)
	DeleteFunc       func(ctx context.Context, who *identity.Identity, id uuid.UUID) error
	UsageFunc        func(ctx context.Context, who *identity.Identity) (*file.Usage, error)
}

func (f *FakeFileService) Upload(ctx context.Context, who *identity.Identity, fh *multipart.FileHeader) (*file.File, error) {
	if f.UploadFunc == nil {
		return nil, errors.New("not used")
	}
	return f.UploadFunc(ctx, who, fh)
}
func (f *FakeFileService) UploadURL(ctx context.Context, who *identity.Identity, name, contentType string) (*file.UploadTarget, error) {
	if f.UploadURLFunc == nil {
		return nil, errors.New("not used")
	}
	return f.UploadURLFunc(ctx, who, name, contentType)
}
func (f *FakeFileService) CreateRecord(ctx context.Context, who *identity.Identity, req file.File) (*file.File, error) {
	if f.CreateRecordFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateRecordFunc(ctx, who, req)
}
func (f *FakeFileService) List(ctx context.Context, who *identity.Identity, lf file.ListFilter) (file.Listings, error) {
	if f.ListFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ListFunc(ctx, who, lf)
}
func (f *FakeFileService) SharedWithMe(ctx context.Context, who *identity.Identity) (file.Listings, error) {
	if f.SharedWithMeFunc == nil {
		return nil, errors.New("not used")
	}
	return f.SharedWithMeFunc(ctx, who)
}
func (f *FakeFileService) Rename(ctx context.Context, who *identity.Identity, id uuid.UUID, name string) (*file.File, error) {
	if f.RenameFunc == nil {
		return nil, errors.New("not used")
	}
	return f.RenameFunc(ctx, who, id, name)
}
func (f *FakeFileService) Delete(ctx context.Context, who *identity.Identity, id uuid.UUID) error {
	if f.DeleteFunc == nil {
		return errors.New("not used")
	}
	return f.DeleteFunc(ctx, who, id)
}
func (f *FakeFileService) Usage(ctx context.Context, who *identity.Identity) (*file.Usage, error) {
	if f.UsageFunc == nil {
		return nil, errors.New("not used")
	}
	return f.UsageFunc(ctx, who)
}

type FakeAccessService struct {
	SignedURLByIDFunc    func(ctx context.Context, who *identity.Identity, id uuid.UUID, kind access.Kind) (*access.SignedURL, error)
	SignedURLByTokenFunc func(ctx context.Context, token string, kind access.Kind) (*access.SignedURL, error)
}

func (f *FakeAccessService) ResolveByID(context.Context, *identity.Identity, uuid.UUID, access.Kind) (*access.Resolution, error) {
	return nil, errors.New("not used")
}
func (f *FakeAccessService) ResolveByToken(context.Context, string, access.Kind) (*access.Resolution, error) {
	return nil, errors.New("not used")
}
func (f *FakeAccessService) SignedURLByID(ctx context.Context, who *identity.Identity, id uuid.UUID, kind access.Kind) (*access.SignedURL, error) {
	if f.SignedURLByIDFunc == nil {
		return nil, errors.New("not used")
	}
	return f.SignedURLByIDFunc(ctx, who, id, kind)
}
func (f *FakeAccessService) SignedURLByToken(ctx context.Context, token string, kind access.Kind) (*access.SignedURL, error) {
	if f.SignedURLByTokenFunc == nil {
		return nil, errors.New("not used")
	}
	return f.SignedURLByTokenFunc(ctx, token, kind)
}

type FakeShareService struct {
	EnableFunc        func(ctx context.Context, who *identity.Identity, id uuid.UUID) (*file.File, error)
	DisableFunc       func(ctx context.Context, who *identity.Identity, id uuid.UUID) (*file.File, error)
	RotateFunc        func(ctx context.Context, who *identity.Identity, id uuid.UUID) (*file.File, error)
	PublicLinkURLFunc func(ctx context.Context, who *identity.Identity, id uuid.UUID) (string, error)
	ShareFunc         func(ctx context.Context, who *identity.Identity, id uuid.UUID, email string) (*grant.Grant, error)
	RemoveFunc        func(ctx context.Context, who *identity.Identity, id uuid.UUID, email string) error
	SharedUsersFunc   func(ctx context.Context, who *identity.Identity, id uuid.UUID) (grant.Grants, error)
}

func (f *FakeShareService) EnablePublicLink(ctx context.Context, who *identity.Identity, id uuid.UUID) (*file.File, error) {
	if f.EnableFunc == nil {
		return nil, errors.New("not used")
	}
	return f.EnableFunc(ctx, who, id)
}
func (f *FakeShareService) DisablePublicLink(ctx context.Context, who *identity.Identity, id uuid.UUID) (*file.File, error) {
	if f.DisableFunc == nil {
		return nil, errors.New("not used")
	}
	return f.DisableFunc(ctx, who, id)
}
func (f *FakeShareService) RotatePublicLinkToken(ctx context.Context, who *identity.Identity, id uuid.UUID) (*file.File, error) {
	if f.RotateFunc == nil {
		return nil, errors.New("not used")
	}
	return f.RotateFunc(ctx, who, id)
}
func (f *FakeShareService) PublicLinkURL(ctx context.Context, who *identity.Identity, id uuid.UUID) (string, error) {
	if f.PublicLinkURLFunc == nil {
		return "", errors.New("not used")
	}
	return f.PublicLinkURLFunc(ctx, who, id)
}
func (f *FakeShareService) LinkURL(fl *file.File) string {
	if fl == nil || !fl.HasLiveLink() {
		return ""
	}
	return "https://files.example/share/" + *fl.ShareToken
}
func (f *FakeShareService) ShareWithEmail(ctx context.Context, who *identity.Identity, id uuid.UUID, email string) (*grant.Grant, error) {
	if f.ShareFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ShareFunc(ctx, who, id, email)
}
func (f *FakeShareService) RemoveAccess(ctx context.Context, who *identity.Identity, id uuid.UUID, email string) error {
	if f.RemoveFunc == nil {
		return errors.New("not used")
	}
	return f.RemoveFunc(ctx, who, id, email)
}
func (f *FakeShareService) SharedUsers(ctx context.Context, who *identity.Identity, id uuid.UUID) (grant.Grants, error) {
	if f.SharedUsersFunc == nil {
		return nil, errors.New("not used")
	}
	return f.SharedUsersFunc(ctx, who, id)
}

func SignJWT(secret, userID, email string, exp time.Duration) (string, error) {
	type Claims struct {
		UserID        string `json:"user_id"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		jwtv5.RegisteredClaims
	}
	claims := Claims{
		UserID:        userID,
		Email:         email,
		EmailVerified: true,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(exp)),
		},
	}
	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func bearer(t *testing.T, userID uuid.UUID, email string) map[string]string {
	t.Helper()
	tok, err := SignJWT(testSecret, userID.String(), email, time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func doMultipartReq(t *testing.T, r *gin.Engine, path, fileName string, fileContent []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	if fileName != "" {
		fw, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, _ = fw.Write(fileContent)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, path, &b)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}
