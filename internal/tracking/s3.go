package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sunet/openstack-operator/internal/platform/s3"
)

// ObjectClient is the subset of the S3 client the backend needs.
type ObjectClient interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, string, error)
	PutObjectIf(ctx context.Context, bucket, key string, data []byte, etag string) (string, error)
}

// S3Backend stores the document in one object. The ETag is the version token.
type S3Backend struct {
	client ObjectClient
	bucket string
	key    string
}

// NewS3Backend returns a backend for bucket/key.
func NewS3Backend(client ObjectClient, bucket, key string) *S3Backend {
	return &S3Backend{client: client, bucket: bucket, key: key}
}

// NewS3Store returns a DocumentStore backed by an S3 object.
func NewS3Store(client ObjectClient, bucket, key string, opts ...Option) *DocumentStore {
	return NewDocumentStore(NewS3Backend(client, bucket, key), opts...)
}

func (b *S3Backend) Load(ctx context.Context) (*Document, string, error) {
	data, etag, err := b.client.GetObject(ctx, b.bucket, b.key)
	if errors.Is(err, s3.ErrNotFound) {
		return NewDocument(), "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read tracking object s3://%s/%s: %w", b.bucket, b.key, err)
	}

	doc := NewDocument()
	if len(data) > 0 {
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, "", fmt.Errorf("failed to decode tracking object s3://%s/%s: %w", b.bucket, b.key, err)
		}
	}
	if doc.Records == nil {
		doc.Records = map[string]Record{}
	}
	return doc, etag, nil
}

func (b *S3Backend) Save(ctx context.Context, doc *Document, version string) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode tracking document: %w", err)
	}

	_, err = b.client.PutObjectIf(ctx, b.bucket, b.key, data, version)
	if errors.Is(err, s3.ErrPreconditionFailed) {
		return &ConflictError{Version: version, Err: err}
	}
	if err != nil {
		return fmt.Errorf("failed to write tracking object s3://%s/%s: %w", b.bucket, b.key, err)
	}
	return nil
}
