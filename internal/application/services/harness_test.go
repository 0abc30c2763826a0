package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"fileshare-api/internal/application/ports"
	"fileshare-api/internal/domain/access"
	"fileshare-api/internal/domain/file"
	"fileshare-api/internal/domain/identity"
	"fileshare-api/internal/infrastructure/metrics"
	"fileshare-api/internal/infrastructure/sharetoken"
)

type harness struct {
	store   *memStore
	storage *fakeStorage
	pub     *fakePublisher
	tokens  *seqTokens
	counter *prometheus.CounterVec

	access ports.AccessService
	share  ports.ShareService
	files  ports.FileService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		store:   newMemStore(),
		storage: newFakeStorage(),
		pub:     &fakePublisher{},
		tokens:  &seqTokens{next: sharetoken.New().Generate},
		counter: metrics.NewUnregisteredCounter(),
	}
	logger := zap.NewNop()

	h.access = NewAccessService(logger, h.store, h.store, h.storage, access.DefaultTTLPolicy(), h.counter)
	h.share = NewShareService(logger, h.store, h.store, h.tokens, h.pub, h.counter, "https://files.example")
	h.files = NewFileService(logger, h.store, h.storage, h.pub, h.counter, 10*time.Minute, 15*time.Minute, 1<<20)

	return h
}

func (h *harness) upload(owner *identity.Identity, name string) *file.File {
	return h.store.put(&file.File{
		OwnerID:     owner.ID,
		Name:        name,
		StoragePath: owner.ID.String() + "/1-" + name,
		ContentType: "application/pdf",
		SizeBytes:   1024,
	})
}

func newUser(email string) *identity.Identity {
	return identity.New(uuid.New(), email, true)
}

func newUnverifiedUser(email string) *identity.Identity {
	return identity.New(uuid.New(), email, false)
}

func zapNop() *zap.Logger { return zap.NewNop() }
