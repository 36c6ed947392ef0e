package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var owner = Owner{Kind: "OpenstackProject", Namespace: "tenants", Name: "alpha", UID: "uid-alpha"}

func fixedClock() func() time.Time {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return t0.Add(time.Duration(n) * time.Second)
	}
}

func TestDocumentStore_PutGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore(WithClock(fixedClock()))

	rec := owner.NewRecord(KindNetwork, "internal", "net-1")
	rec.Attributes = map[string]string{"projectID": "p-1"}
	require.NoError(t, s.Put(ctx, rec))

	got, ok, err := s.Get(ctx, owner.UID, KindNetwork, "internal")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "net-1", got.ExternalID)
	assert.Equal(t, "p-1", got.Attr("projectID"))
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, owner, got.Owner())

	require.NoError(t, s.Delete(ctx, got))
	_, ok, err = s.Get(ctx, owner.UID, KindNetwork, "internal")
	require.NoError(t, err)
	assert.False(t, ok)

	// deleting twice is a no-op
	require.NoError(t, s.Delete(ctx, got))
}

func TestDocumentStore_PutReplaceKeepsCreatedAt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore(WithClock(fixedClock()))

	require.NoError(t, s.Put(ctx, owner.NewRecord(KindImage, "ubuntu", "img-1")))
	first, _, _ := s.Get(ctx, owner.UID, KindImage, "ubuntu")

	updated := owner.NewRecord(KindImage, "ubuntu", "img-1")
	updated.Attributes = map[string]string{"status": "active"}
	require.NoError(t, s.Put(ctx, updated))

	second, _, _ := s.Get(ctx, owner.UID, KindImage, "ubuntu")
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, "active", second.Attr("status"))
}

func TestDocumentStore_ListOrdering(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore(WithClock(fixedClock()))
	other := Owner{Kind: "OpenstackFlavor", Name: "m1", UID: "uid-m1"}

	require.NoError(t, s.Put(ctx, owner.NewRecord(KindProject, "project", "p-1")))
	require.NoError(t, s.Put(ctx, other.NewRecord(KindFlavor, "flavor", "f-1")))
	require.NoError(t, s.Put(ctx, owner.NewRecord(KindGroup, "group", "g-1")))

	mine, err := s.ListByOwner(ctx, owner.UID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, KindProject, mine[0].ExternalKind)
	assert.Equal(t, KindGroup, mine[1].ExternalKind)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := s.ListByOwner(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDocumentStore_RejectsDuplicateExternalID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, owner.NewRecord(KindNetwork, "a", "net-1")))
	err := s.Put(ctx, owner.NewRecord(KindNetwork, "b", "net-1"))

	var dup *DuplicateIDError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "net-1", dup.ExternalID)

	// same ID under another kind is fine
	require.NoError(t, s.Put(ctx, owner.NewRecord(KindSubnet, "a", "net-1")))
}

func TestDocumentStore_RejectsIncompleteKey(t *testing.T) {
	t.Parallel()
	err := NewMemoryStore().Put(context.Background(), Record{ExternalKind: KindDomain, ExternalID: "d"})
	assert.ErrorContains(t, err, "missing key fields")
}

// racingBackend lets another writer slip in before the first few saves.
type racingBackend struct {
	*MemoryBackend
	mu       sync.Mutex
	races    int
	saves    int
	failWith error
}

func (b *racingBackend) Save(ctx context.Context, doc *Document, version string) error {
	b.mu.Lock()
	b.saves++
	race := b.races > 0
	if race {
		b.races--
	}
	b.mu.Unlock()

	if b.failWith != nil {
		return b.failWith
	}
	if race {
		intruder, v, err := b.MemoryBackend.Load(ctx)
		if err != nil {
			return err
		}
		rec := Owner{Kind: "OpenstackDomain", Name: "x", UID: "uid-x"}.NewRecord(KindDomain, fmt.Sprintf("d%d", b.saves), fmt.Sprintf("dom-%d", b.saves))
		intruder.Records[rec.Key().String()] = rec
		if err := b.MemoryBackend.Save(ctx, intruder, v); err != nil {
			return err
		}
	}
	return b.MemoryBackend.Save(ctx, doc, version)
}

func TestDocumentStore_RetriesConflictsImmediately(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backend := &racingBackend{MemoryBackend: &MemoryBackend{}, races: 3}
	s := NewDocumentStore(backend)

	start := time.Now()
	require.NoError(t, s.Put(ctx, owner.NewRecord(KindProject, "project", "p-1")))
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 4, backend.saves)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4, "intruding writes must survive alongside ours")
}

func TestDocumentStore_GivesUpAfterMaxConflicts(t *testing.T) {
	t.Parallel()
	backend := &racingBackend{MemoryBackend: &MemoryBackend{}, races: 100}
	s := NewDocumentStore(backend, WithMaxConflictRetries(2))

	err := s.Put(context.Background(), owner.NewRecord(KindProject, "project", "p-1"))
	assert.True(t, IsConflict(err))
	assert.Equal(t, 3, backend.saves)
}

func TestDocumentStore_BackendErrorIsNotRetried(t *testing.T) {
	t.Parallel()
	boom := errors.New("etcd unavailable")
	backend := &racingBackend{MemoryBackend: &MemoryBackend{}, failWith: boom}
	s := NewDocumentStore(backend)

	err := s.Put(context.Background(), owner.NewRecord(KindProject, "project", "p-1"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, backend.saves)
}

func TestDocumentStore_ConcurrentOwnersDoNotClobber(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore(WithMaxConflictRetries(100))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := Owner{Kind: "OpenstackFlavor", Name: fmt.Sprintf("f%d", i), UID: fmt.Sprintf("uid-%d", i)}
			errs <- s.Put(ctx, o.NewRecord(KindFlavor, "flavor", fmt.Sprintf("flv-%d", i)))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}

func TestMemoryBackend_IsolatesCallers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewMemoryStore()

	rec := owner.NewRecord(KindRouter, "internal", "r-1")
	rec.Attributes = map[string]string{"subnetID": "s-1"}
	require.NoError(t, s.Put(ctx, rec))
	rec.Attributes["subnetID"] = "mutated"

	got, _, err := s.Get(ctx, owner.UID, KindRouter, "internal")
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.Attr("subnetID"))
}
