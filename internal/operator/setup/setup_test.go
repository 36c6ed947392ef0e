package setup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/config"
	"github.com/sunet/openstack-operator/internal/tracking"
)

type mockBuckets struct {
	exists    bool
	existsErr error
	created   []string
}

func (m *mockBuckets) BucketExists(context.Context, string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockBuckets) CreateBucket(_ context.Context, bucket string) error {
	m.created = append(m.created, bucket)
	return nil
}

func TestStore_ConfigMap(t *testing.T) {
	ctx := context.Background()
	c := fake.NewClientBuilder().WithScheme(v1alpha1.Scheme).Build()
	cfg := config.Default()

	store, err := Store(ctx, cfg, c, c)
	require.NoError(t, err)

	owner := tracking.Owner{Kind: "OpenstackFlavor", Name: "m1", UID: "uid-1"}
	require.NoError(t, store.Put(ctx, owner.NewRecord(tracking.KindFlavor, "m1", "flavor-1")))

	var cm corev1.ConfigMap
	require.NoError(t, c.Get(ctx, types.NamespacedName{Namespace: cfg.Namespace, Name: config.RegistryConfigMapName}, &cm))
}

func TestStore_Memory(t *testing.T) {
	cfg := config.Default()
	cfg.Registry.Backend = config.RegistryMemory
	store, err := Store(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &tracking.DocumentStore{}, store)
}

func TestStore_UnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.Registry.Backend = "etcd"
	_, err := Store(context.Background(), cfg, nil, nil)
	assert.ErrorContains(t, err, "etcd")
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("existing bucket", func(t *testing.T) {
		m := &mockBuckets{exists: true}
		require.NoError(t, ensureBucket(ctx, m, config.S3Config{Bucket: "b"}))
		assert.Empty(t, m.created)
	})

	t.Run("missing bucket fails", func(t *testing.T) {
		m := &mockBuckets{}
		err := ensureBucket(ctx, m, config.S3Config{Bucket: "b"})
		assert.ErrorContains(t, err, "does not exist")
		assert.Empty(t, m.created)
	})

	t.Run("missing bucket is created when allowed", func(t *testing.T) {
		m := &mockBuckets{}
		require.NoError(t, ensureBucket(ctx, m, config.S3Config{Bucket: "b", CreateBucket: true}))
		assert.Equal(t, []string{"b"}, m.created)
	})

	t.Run("lookup error", func(t *testing.T) {
		m := &mockBuckets{existsErr: errors.New("access denied")}
		assert.ErrorContains(t, ensureBucket(ctx, m, config.S3Config{Bucket: "b"}), "access denied")
	})
}
