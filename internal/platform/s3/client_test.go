package s3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient creates a Client backed by a test HTTP server.
// The handler receives real S3 XML-protocol requests.
func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(server.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test-key", "test-secret", ""),
		HTTPClient: &http.Client{
			Transport: &http.Transport{},
		},
	})

	return &Client{s3: client, region: "us-east-1"}
}

// xmlResponse is a helper to write S3-style XML responses.
func xmlResponse(w http.ResponseWriter, statusCode int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(statusCode)
	_, _ = fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<Error>
  <Code>%s</Code>
  <Message>%s</Message>
</Error>`, code, code)
}

// conditionalStore emulates a single-object bucket honoring If-Match and If-None-Match.
type conditionalStore struct {
	mu      sync.Mutex
	body    []byte
	etag    string
	version int
}

func (s *conditionalStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch r.Method {
	case http.MethodGet:
		if s.etag == "" {
			xmlResponse(w, http.StatusNotFound, "NoSuchKey")
			return
		}
		w.Header().Set("ETag", s.etag)
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(s.body)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(s.body)
	case http.MethodPut:
		if r.Header.Get("If-None-Match") == "*" && s.etag != "" {
			xmlResponse(w, http.StatusPreconditionFailed, "PreconditionFailed")
			return
		}
		if m := r.Header.Get("If-Match"); m != "" && m != s.etag {
			xmlResponse(w, http.StatusPreconditionFailed, "PreconditionFailed")
			return
		}
		body, _ := io.ReadAll(r.Body)
		s.body = body
		s.version++
		s.etag = fmt.Sprintf("\"v%d\"", s.version)
		w.Header().Set("ETag", s.etag)
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	client, err := NewClient(context.Background(), Options{
		Endpoint:  "https://s3.example.com",
		Region:    "us-east-1",
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
	})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", client.region)
}

func TestGetObject_NotFound(t *testing.T) {
	t.Parallel()
	client := testClient(t, &conditionalStore{})

	_, _, err := client.GetObject(context.Background(), "state", "records.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPutObjectIf_CreateThenUpdate(t *testing.T) {
	t.Parallel()
	store := &conditionalStore{}
	client := testClient(t, store)
	ctx := context.Background()

	etag, err := client.PutObjectIf(ctx, "state", "records.json", []byte(`{"a":1}`), "")
	require.NoError(t, err)
	assert.Equal(t, `"v1"`, etag)

	body, got, err := client.GetObject(ctx, "state", "records.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(body))
	assert.Equal(t, etag, got)

	etag2, err := client.PutObjectIf(ctx, "state", "records.json", []byte(`{"a":2}`), got)
	require.NoError(t, err)
	assert.Equal(t, `"v2"`, etag2)
}

func TestPutObjectIf_LostRace(t *testing.T) {
	t.Parallel()
	client := testClient(t, &conditionalStore{})
	ctx := context.Background()

	first, err := client.PutObjectIf(ctx, "state", "records.json", []byte("{}"), "")
	require.NoError(t, err)

	_, err = client.PutObjectIf(ctx, "state", "records.json", []byte("{}"), "")
	assert.ErrorIs(t, err, ErrPreconditionFailed, "create must fail once the object exists")

	_, err = client.PutObjectIf(ctx, "state", "records.json", []byte("{}"), first)
	require.NoError(t, err)

	_, err = client.PutObjectIf(ctx, "state", "records.json", []byte("{}"), first)
	assert.ErrorIs(t, err, ErrPreconditionFailed, "stale etag must be rejected")
}

func TestPutObjectIf_ServerError(t *testing.T) {
	t.Parallel()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusForbidden, "AccessDenied")
	}))

	_, err := client.PutObjectIf(context.Background(), "state", "records.json", []byte("{}"), "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPreconditionFailed)
	assert.True(t, strings.Contains(err.Error(), "failed to put object records.json in bucket state"))
}

func TestBucketExists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"exists", http.StatusOK, true},
		{"missing", http.StatusNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				w.WriteHeader(tt.status)
			}))
			got, err := client.BucketExists(context.Background(), "state")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateBucket_AlreadyOwned(t *testing.T) {
	t.Parallel()
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		xmlResponse(w, http.StatusConflict, "BucketAlreadyOwnedByYou")
	}))

	assert.NoError(t, client.CreateBucket(context.Background(), "state"))
}
