package tracking

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunet/openstack-operator/internal/platform/s3"
)

type fakeObjects struct {
	mu   sync.Mutex
	data []byte
	etag string
	n    int
	puts int
}

func (f *fakeObjects) GetObject(_ context.Context, _, _ string) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.etag == "" {
		return nil, "", s3.ErrNotFound
	}
	return append([]byte(nil), f.data...), f.etag, nil
}

func (f *fakeObjects) PutObjectIf(_ context.Context, _, _ string, data []byte, etag string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if etag != f.etag {
		return "", s3.ErrPreconditionFailed
	}
	f.n++
	f.data = append([]byte(nil), data...)
	f.etag = fmt.Sprintf("etag-%d", f.n)
	return f.etag, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	objects := &fakeObjects{}
	s := NewS3Store(objects, "state", "records.json")

	require.NoError(t, s.Put(ctx, owner.NewRecord(KindProject, "project", "p-1")))
	require.NoError(t, s.Put(ctx, owner.NewRecord(KindGroup, "group", "g-1")))

	recs, err := s.ListByOwner(ctx, owner.UID)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, "etag-2", objects.etag)
}

func TestS3Backend_PreconditionFailedIsConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	objects := &fakeObjects{}
	b := NewS3Backend(objects, "state", "records.json")

	require.NoError(t, b.Save(ctx, NewDocument(), ""))
	err := b.Save(ctx, NewDocument(), "")
	assert.True(t, IsConflict(err))

	_, etag, err := b.Load(ctx)
	require.NoError(t, err)
	assert.NoError(t, b.Save(ctx, NewDocument(), etag))
	assert.True(t, IsConflict(b.Save(ctx, NewDocument(), etag)))
}
