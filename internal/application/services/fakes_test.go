package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/grant"
	"fileshare-api/internal/infrastructure/mq"
)

// memStore is a record store with the same conditional-write semantics as
// the Postgres repositories: every mutation checks owner and applies under
// one lock.
type memStore struct {
	mu     sync.Mutex
	files  map[uuid.UUID]*file.File
	grants map[uuid.UUID]map[string]*grant.Grant
	err    error
}

func newMemStore() *memStore {
	return &memStore{
		files:  make(map[uuid.UUID]*file.File),
		grants: make(map[uuid.UUID]map[string]*grant.Grant),
	}
}

func (m *memStore) put(f *file.File) *file.File {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	m.files[f.ID] = f
	return clone(f)
}

func clone(f *file.File) *file.File {
	if f == nil {
		return nil
	}
	c := *f
	if f.ShareToken != nil {
		t := *f.ShareToken
		c.ShareToken = &t
	}
	return &c
}

func (m *memStore) FetchByID(_ context.Context, id uuid.UUID) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return clone(m.files[id]), nil
}

func (m *memStore) FetchByOwnerAndID(_ context.Context, ownerID, id uuid.UUID) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if f := m.files[id]; f != nil && f.OwnerID == ownerID {
		return clone(f), nil
	}
	return nil, nil
}

func (m *memStore) FetchPublicByID(_ context.Context, id uuid.UUID) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if f := m.files[id]; f != nil && f.IsPublic {
		return clone(f), nil
	}
	return nil, nil
}

func (m *memStore) FetchByPublicToken(_ context.Context, token string) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, f := range m.files {
		if f.IsPublic && f.ShareToken != nil && *f.ShareToken == token {
			return clone(f), nil
		}
	}
	return nil, nil
}

func (m *memStore) FetchByOwnerAndPath(_ context.Context, ownerID uuid.UUID, p string) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, f := range m.files {
		if f.OwnerID == ownerID && f.StoragePath == p {
			return clone(f), nil
		}
	}
	return nil, nil
}

func (m *memStore) FetchOwnerFiles(_ context.Context, ownerID uuid.UUID, lf file.ListFilter) (file.Files, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out file.Files
	for _, f := range m.files {
		if f.OwnerID != ownerID {
			continue
		}
		if lf.Type != "" && !strings.HasPrefix(strings.ToLower(f.ContentType), strings.ToLower(lf.Type)) {
			continue
		}
		if lf.Search != "" && !strings.Contains(strings.ToLower(f.Name), strings.ToLower(lf.Search)) {
			continue
		}
		out = append(out, clone(f))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if lf.Limit > 0 && len(out) > lf.Limit {
		out = out[:lf.Limit]
	}
	return out, nil
}

func (m *memStore) FetchSharedWith(_ context.Context, email string) (file.Files, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out file.Files
	for fileID, gs := range m.grants {
		if _, ok := gs[email]; ok && m.files[fileID] != nil {
			out = append(out, clone(m.files[fileID]))
		}
	}
	return out, nil
}

func (m *memStore) TotalSize(_ context.Context, ownerID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var total int64
	for _, f := range m.files {
		if f.OwnerID == ownerID {
			total += f.SizeBytes
		}
	}
	return total, nil
}

func (m *memStore) CreateFile(_ context.Context, req *file.File, quota int64) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var used int64
	for _, f := range m.files {
		if f.StoragePath == req.StoragePath {
			return nil, file.ErrPathExists
		}
		if f.OwnerID == req.OwnerID {
			used += f.SizeBytes
		}
	}
	if quota > 0 && used+req.SizeBytes > quota {
		return nil, file.ErrQuotaExceeded
	}
	f := clone(req)
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	m.files[f.ID] = f
	return clone(f), nil
}

func (m *memStore) RenameFile(_ context.Context, ownerID, id uuid.UUID, name string) (*file.File, error) {
	return m.update(ownerID, id, func(f *file.File) { f.Name = name })
}

func (m *memStore) DeleteFile(_ context.Context, ownerID, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	f := m.files[id]
	if f == nil || f.OwnerID != ownerID {
		return false, nil
	}
	delete(m.files, id)
	delete(m.grants, id)
	return true, nil
}

func (m *memStore) EnablePublicLink(_ context.Context, ownerID, id uuid.UUID, candidate string) (*file.File, error) {
	return m.update(ownerID, id, func(f *file.File) {
		f.IsPublic = true
		if f.ShareToken == nil {
			f.ShareToken = &candidate
		}
	})
}

func (m *memStore) DisablePublicLink(_ context.Context, ownerID, id uuid.UUID) (*file.File, error) {
	return m.update(ownerID, id, func(f *file.File) {
		f.IsPublic = false
		f.ShareToken = nil
	})
}

func (m *memStore) RotateShareToken(_ context.Context, ownerID, id uuid.UUID, token string) (*file.File, error) {
	return m.update(ownerID, id, func(f *file.File) { f.ShareToken = &token })
}

func (m *memStore) update(ownerID, id uuid.UUID, apply func(f *file.File)) (*file.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	f := m.files[id]
	if f == nil || f.OwnerID != ownerID {
		return nil, nil
	}
	apply(f)
	return clone(f), nil
}

func (m *memStore) FetchGrant(_ context.Context, fileID uuid.UUID, email string) (*grant.Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if g := m.grants[fileID][email]; g != nil {
		c := *g
		return &c, nil
	}
	return nil, nil
}

func (m *memStore) FetchFileGrants(_ context.Context, fileID, grantedBy uuid.UUID) (grant.Grants, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out grant.Grants
	for _, g := range m.grants[fileID] {
		if g.GrantedBy == grantedBy {
			c := *g
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memStore) CreateGrant(_ context.Context, req *grant.Grant) (*grant.Grant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	f := m.files[req.FileID]
	if f == nil || f.OwnerID != req.GrantedBy {
		return nil, grant.ErrFileNotOwned
	}
	if m.grants[req.FileID] == nil {
		m.grants[req.FileID] = make(map[string]*grant.Grant)
	}
	if _, dup := m.grants[req.FileID][req.Email]; dup {
		return nil, grant.ErrAlreadyExists
	}
	g := *req
	g.CreatedAt = time.Now()
	m.grants[req.FileID][req.Email] = &g
	c := g
	return &c, nil
}

func (m *memStore) DeleteGrant(_ context.Context, fileID uuid.UUID, email string, grantedBy uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	g := m.grants[fileID][email]
	if g == nil || g.GrantedBy != grantedBy {
		return false, nil
	}
	delete(m.grants[fileID], email)
	return true, nil
}

type presignCall struct {
	Key  string
	TTL  time.Duration
	Disp access.Disposition
}

// fakeStorage records calls and fails keys listed in failKeys.
type fakeStorage struct {
	mu       sync.Mutex
	presigns []presignCall
	objects  map[string][]byte
	deleted  []string
	failKeys map[string]bool
	err      error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte), failKeys: make(map[string]bool)}
}

func (s *fakeStorage) PresignGet(_ context.Context, key string, ttl time.Duration, disp access.Disposition, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil || s.failKeys[key] {
		return "", errors.New("s3 unavailable")
	}
	s.presigns = append(s.presigns, presignCall{Key: key, TTL: ttl, Disp: disp})
	return "https://s3.test/" + key + "?sig=1", nil
}

func (s *fakeStorage) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://s3.test/" + key + "?put=1", nil
}

func (s *fakeStorage) Put(_ context.Context, key string, body io.Reader, _ string) error {
	if s.err != nil {
		return s.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) Stat(_ context.Context, key string) (*file.ObjectInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[key]
	if !ok {
		return nil, file.ErrObjectMissing
	}
	return &file.ObjectInfo{Size: int64(len(b))}, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []mq.Event
}

func (p *fakePublisher) Publish(e mq.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *fakePublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Action
	}
	return out
}

// seqTokens hands out pre-set tokens, then falls back to next.
type seqTokens struct {
	mu   sync.Mutex
	seq  []string
	next func() string
}

func (s *seqTokens) Generate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.seq) > 0 {
		t := s.seq[0]
		s.seq = s.seq[1:]
		return t
	}
	return s.next()
}
