// Package setup builds the OpenStack client and the tracking store from
// the operator configuration. It is shared by the operator and osoctl.
package setup

import (
	"context"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/internal/config"
	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/platform/s3"
	"github.com/sunet/openstack-operator/internal/tracking"
)

// Cloud authenticates against the configured cloud. Every call goes through
// one limiter sized from the rate limit settings.
func Cloud(ctx context.Context, cfg *config.Operator) (*openstack.Client, error) {
	limiter := openstack.NewLimiter(cfg.RateLimit.MaxConcurrentCalls, cfg.RateLimit.RequestsPerSecond)
	return openstack.NewClient(ctx, cfg.Cloud.Name, cfg.Cloud.ConfigFile,
		openstack.WithLimiter(limiter),
		openstack.WithCallTimeout(cfg.Timeouts.Call),
	)
}

// Store opens the configured tracking store. The ConfigMap backend reads
// through reader and writes through writer; reader should bypass the cache.
func Store(ctx context.Context, cfg *config.Operator, reader client.Reader, writer client.Writer) (tracking.Store, error) {
	switch cfg.Registry.Backend {
	case config.RegistryConfigMap:
		return tracking.NewConfigMapStore(reader, writer, cfg.Namespace, config.RegistryConfigMapName), nil
	case config.RegistryS3:
		s3cfg := cfg.Registry.S3
		c, err := s3.NewClient(ctx, s3.Options{
			Endpoint:     s3cfg.Endpoint,
			Region:       s3cfg.Region,
			AccessKey:    s3cfg.AccessKey,
			SecretKey:    s3cfg.SecretKey,
			UsePathStyle: s3cfg.Endpoint != "",
		})
		if err != nil {
			return nil, err
		}
		if err := ensureBucket(ctx, c, s3cfg); err != nil {
			return nil, err
		}
		return tracking.NewS3Store(c, s3cfg.Bucket, s3cfg.Key), nil
	case config.RegistryMemory:
		log.FromContext(ctx).Info("Using the in-memory registry, tracked resources are lost on restart")
		return tracking.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown registry backend %q", cfg.Registry.Backend)
}

// bucketClient is the part of the S3 client used at startup.
type bucketClient interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	CreateBucket(ctx context.Context, bucket string) error
}

func ensureBucket(ctx context.Context, c bucketClient, cfg config.S3Config) error {
	ok, err := c.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if !cfg.CreateBucket {
		return fmt.Errorf("registry bucket %q does not exist", cfg.Bucket)
	}
	log.FromContext(ctx).Info("Creating registry bucket", "bucket", cfg.Bucket)
	return c.CreateBucket(ctx, cfg.Bucket)
}
