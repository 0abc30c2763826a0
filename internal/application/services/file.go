package services

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"fileshare-api/internal/application/ports"
	"fileshare-api/internal/domain/access"
	domain "fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/identity"
	"fileshare-api/internal/infrastructure/mq"
)

const (
	maxBaseNameLen    = 100
	maxDisplayNameLen = 255
	defaultMimeType   = "application/octet-stream"
	// parallel presign calls per listing
	previewWorkers = 8
)

var windowsReserved = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

type FileService struct {
	logger       *zap.Logger
	files        domain.Repository
	storage      ports.ObjectStorage
	mq           ports.EventPublisher
	mCounter     *prometheus.CounterVec
	previewTTL   time.Duration
	uploadURLTTL time.Duration
	quota        int64
	now          func() time.Time
}

func NewFileService(
	logger *zap.Logger,
	files domain.Repository,
	storage ports.ObjectStorage,
	mq ports.EventPublisher,
	mCounter *prometheus.CounterVec,
	previewTTL, uploadURLTTL time.Duration,
	quota int64,
) ports.FileService {
	return &FileService{
		logger:       logger,
		files:        files,
		storage:      storage,
		mq:           mq,
		mCounter:     mCounter,
		previewTTL:   previewTTL,
		uploadURLTTL: uploadURLTTL,
		quota:        quota,
		now:          time.Now,
	}
}

// Upload streams the multipart file into object storage and records it. The
// quota is checked early to skip hopeless uploads and again, atomically, by
// the insert. The object is removed again when the record cannot be written.
func (fs *FileService) Upload(ctx context.Context, who *identity.Identity, in *multipart.FileHeader) (*domain.File, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}
	if err := fs.checkQuota(ctx, who.ID, in.Size); err != nil {
		return nil, err
	}

	contentType := detectContentType(in.Header.Get("Content-Type"), in.Filename)
	key := fs.storageKey(who.ID, in.Filename, contentType)

	src, err := in.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	if err = fs.storage.Put(ctx, key, src, contentType); err != nil {
		return nil, upstream("put object", err)
	}

	f, err := fs.files.CreateFile(ctx, &domain.File{
		OwnerID:     who.ID,
		Name:        displayName(in.Filename),
		StoragePath: key,
		ContentType: contentType,
		SizeBytes:   in.Size,
	}, fs.quota)
	if err != nil {
		fs.removeObject(ctx, key)
		if errors.Is(err, domain.ErrQuotaExceeded) {
			return nil, err
		}
		return nil, upstream("insert file", err)
	}

	fs.mCounter.WithLabelValues("files_uploaded_total").Inc()

	return f, nil
}

// UploadURL reserves a key under the caller's prefix and presigns a PUT to it.
func (fs *FileService) UploadURL(ctx context.Context, who *identity.Identity, name, contentType string) (*domain.UploadTarget, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}

	contentType = detectContentType(contentType, name)
	key := fs.storageKey(who.ID, name, contentType)
	now := fs.now()

	u, err := fs.storage.PresignPut(ctx, key, contentType, fs.uploadURLTTL)
	if err != nil {
		return nil, upstream("presign put", err)
	}

	return &domain.UploadTarget{
		Path:      key,
		URL:       u,
		ExpiresAt: now.Add(fs.uploadURLTTL),
	}, nil
}

// CreateRecord records an object the client uploaded directly. Size comes
// from object storage, never from the client. Recording the same path twice
// returns the existing record.
func (fs *FileService) CreateRecord(ctx context.Context, who *identity.Identity, req domain.File) (*domain.File, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}
	if !ownsPath(who.ID, req.StoragePath) {
		return nil, domain.ErrInvalidPath
	}

	existing, err := fs.files.FetchByOwnerAndPath(ctx, who.ID, req.StoragePath)
	if err != nil {
		return nil, upstream("path lookup", err)
	}
	if existing != nil {
		return existing, nil
	}

	obj, err := fs.storage.Stat(ctx, req.StoragePath)
	if err != nil {
		if errors.Is(err, domain.ErrObjectMissing) {
			return nil, err
		}
		return nil, upstream("stat object", err)
	}

	name := displayName(req.Name)
	if strings.TrimSpace(req.Name) == "" {
		name = displayName(path.Base(req.StoragePath))
	}
	declared := req.ContentType
	if strings.TrimSpace(declared) == "" {
		declared = obj.ContentType
	}

	f, err := fs.files.CreateFile(ctx, &domain.File{
		OwnerID:     who.ID,
		Name:        name,
		StoragePath: req.StoragePath,
		ContentType: detectContentType(declared, name),
		SizeBytes:   obj.Size,
	}, fs.quota)
	if errors.Is(err, domain.ErrQuotaExceeded) {
		fs.removeObject(ctx, req.StoragePath)
		return nil, err
	}
	if errors.Is(err, domain.ErrPathExists) {
		// lost a race with a concurrent record of the same path
		existing, ferr := fs.files.FetchByOwnerAndPath(ctx, who.ID, req.StoragePath)
		if ferr != nil {
			return nil, upstream("path lookup", ferr)
		}
		if existing != nil {
			return existing, nil
		}
	}
	if err != nil {
		return nil, upstream("insert file", err)
	}

	fs.mCounter.WithLabelValues("files_recorded_total").Inc()

	return f, nil
}

func (fs *FileService) List(ctx context.Context, who *identity.Identity, filter domain.ListFilter) (domain.Listings, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}

	files, err := fs.files.FetchOwnerFiles(ctx, who.ID, filter)
	if err != nil {
		return nil, upstream("list files", err)
	}

	return fs.withPreviews(ctx, files), nil
}

// SharedWithMe is empty until the caller's email is confirmed.
func (fs *FileService) SharedWithMe(ctx context.Context, who *identity.Identity) (domain.Listings, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}
	email := who.VerifiedEmail()
	if email == "" {
		return domain.Listings{}, nil
	}

	files, err := fs.files.FetchSharedWith(ctx, email)
	if err != nil {
		return nil, upstream("list shared files", err)
	}

	return fs.withPreviews(ctx, files), nil
}

func (fs *FileService) Rename(ctx context.Context, who *identity.Identity, fileID uuid.UUID, name string) (*domain.File, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrEmptyName
	}

	f, err := fs.files.RenameFile(ctx, who.ID, fileID, displayName(name))
	if err != nil {
		return nil, upstream("rename file", err)
	}
	if f == nil {
		return nil, access.ErrForbidden
	}

	return f, nil
}

// Delete removes the stored object first and the record second, so a failed
// object delete leaves the record visible and retryable.
func (fs *FileService) Delete(ctx context.Context, who *identity.Identity, fileID uuid.UUID) error {
	if who == nil {
		return access.ErrUnauthenticated
	}

	f, err := fs.files.FetchByOwnerAndID(ctx, who.ID, fileID)
	if err != nil {
		return upstream("owner lookup", err)
	}
	if f == nil {
		return access.ErrForbidden
	}

	if err = fs.storage.Delete(ctx, f.StoragePath); err != nil {
		return upstream("delete object", err)
	}

	ok, err := fs.files.DeleteFile(ctx, who.ID, fileID)
	if err != nil {
		return upstream("delete file", err)
	}
	if !ok {
		return access.ErrNotFound
	}

	fs.mCounter.WithLabelValues("files_deleted_total").Inc()
	fs.mq.Publish(mq.NewEvent(mq.ActionFileDeleted, who.ID, fileID, ""))

	return nil
}

func (fs *FileService) Usage(ctx context.Context, who *identity.Identity) (*domain.Usage, error) {
	if who == nil {
		return nil, access.ErrUnauthenticated
	}

	used, err := fs.files.TotalSize(ctx, who.ID)
	if err != nil {
		return nil, upstream("total size", err)
	}

	return &domain.Usage{Used: used, All: fs.quota}, nil
}

func (fs *FileService) removeObject(ctx context.Context, key string) {
	if err := fs.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
		fs.logger.Error("orphaned object after failed insert", zap.String("key", key), zap.Error(err))
	}
}

func (fs *FileService) checkQuota(ctx context.Context, ownerID uuid.UUID, size int64) error {
	if fs.quota <= 0 {
		return nil
	}
	used, err := fs.files.TotalSize(ctx, ownerID)
	if err != nil {
		return upstream("total size", err)
	}
	if used+size > fs.quota {
		return domain.ErrQuotaExceeded
	}
	return nil
}

// withPreviews mints preview URLs in parallel. A failed mint leaves the
// item without a URL instead of failing the listing.
func (fs *FileService) withPreviews(ctx context.Context, files domain.Files) domain.Listings {
	out := make(domain.Listings, len(files))
	now := fs.now()

	var g errgroup.Group
	g.SetLimit(previewWorkers)
	for i, f := range files {
		out[i] = &domain.Listing{File: f}
		g.Go(func() error {
			u, err := fs.storage.PresignGet(ctx, f.StoragePath, fs.previewTTL, access.DispositionInline, f.Name)
			if err != nil {
				fs.logger.Warn("preview url failed", zap.Stringer("file_id", f.ID), zap.Error(err))
				return nil
			}
			out[i].PreviewURL = u
			out[i].PreviewExpiresAt = now.Add(fs.previewTTL)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// storageKey: "<owner uuid>/<unix millis>-<sanitized name>"
func (fs *FileService) storageKey(ownerID uuid.UUID, name, contentType string) string {
	safe := sanitizeFileName(name)
	if path.Ext(safe) == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			safe += exts[0]
		}
	}

	return fmt.Sprintf("%s/%d-%s", ownerID, fs.now().UnixMilli(), safe)
}

func ownsPath(ownerID uuid.UUID, p string) bool {
	prefix := ownerID.String() + "/"
	if !strings.HasPrefix(p, prefix) || len(p) == len(prefix) {
		return false
	}
	return path.Clean(p) == p && !strings.Contains(p, "..")
}

func detectContentType(declared, name string) string {
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "" {
		return mt
	}
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(name))); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	return defaultMimeType
}

// displayName keeps the user's name readable, minus path parts and control
// characters.
func displayName(original string) string {
	s := strings.ReplaceAll(strings.TrimSpace(original), "\\", "/")
	s = path.Base(s)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if s == "." || s == "/" || s == "" {
		return "file"
	}
	for utf8.RuneCountInString(s) > maxDisplayNameLen {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s
}

// sanitizeFileName make file name ASCII standard
func sanitizeFileName(original string) string {
	if original == "" {
		return "file"
	}

	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)

	if s == "." || s == ".." || s == "" || s == "/" {
		return "file"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)

	ext := strings.ToLower(path.Ext(s))
	base := strings.TrimSuffix(s, path.Ext(s))
	if !isSafeExt(ext) {
		ext = ""
	}

	//  [a-z0-9], '-' и '_', dot/space → '-'
	var b strings.Builder
	b.Grow(len(base))
	prevDash := false
	for _, r := range base {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		default:
		}
	}
	base = strings.Trim(b.String(), "-")

	if base == "" {
		base = "file"
	}
	if _, bad := windowsReserved[base]; bad {
		base = "_" + base
	}

	for len(base)+len(ext) > maxBaseNameLen {
		base = base[:len(base)-1]
	}

	return base + ext
}

func isSafeExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 10 {
		return false
	}
	for _, r := range ext[1:] {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }
