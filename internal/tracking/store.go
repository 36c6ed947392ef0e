package tracking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sunet/openstack-operator/internal/util/retry"
)

// Store is the tracking store contract.
type Store interface {
	Put(ctx context.Context, rec Record) error
	Get(ctx context.Context, ownerUID string, kind ExternalKind, logicalName string) (Record, bool, error)
	ListByOwner(ctx context.Context, ownerUID string) ([]Record, error)
	ListAll(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, rec Record) error
}

// Document is the persisted form of all records.
type Document struct {
	Records map[string]Record `json:"records"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Records: map[string]Record{}}
}

// Backend loads and saves the whole document.
type Backend interface {
	// Load returns the document and its version token. A missing document
	// is returned empty with version "".
	Load(ctx context.Context) (*Document, string, error)
	// Save writes doc if the stored version still equals version, and
	// returns a *ConflictError otherwise.
	Save(ctx context.Context, doc *Document, version string) error
}

// DocumentStore implements Store on top of a Backend.
type DocumentStore struct {
	backend    Backend
	maxRetries int
	now        func() time.Time
}

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithMaxConflictRetries bounds immediate retries after a conflict.
func WithMaxConflictRetries(n int) Option {
	return func(s *DocumentStore) { s.maxRetries = n }
}

// WithClock overrides the timestamp source for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *DocumentStore) { s.now = now }
}

// NewDocumentStore wraps backend.
func NewDocumentStore(backend Backend, opts ...Option) *DocumentStore {
	s := &DocumentStore{backend: backend, maxRetries: 10, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Store = (*DocumentStore)(nil)

// Put inserts or replaces the record with the same key. CreatedAt is set
// when zero, and kept from the stored record on replace.
func (s *DocumentStore) Put(ctx context.Context, rec Record) error {
	if rec.OwnerUID == "" || rec.ExternalKind == "" || rec.LogicalName == "" {
		return fmt.Errorf("record %s is missing key fields", rec.Key())
	}
	return s.mutate(ctx, func(doc *Document) (bool, error) {
		key := rec.Key().String()
		for k, other := range doc.Records {
			if k != key && other.ExternalKind == rec.ExternalKind && other.ExternalID == rec.ExternalID {
				return false, &DuplicateIDError{Kind: rec.ExternalKind, ExternalID: rec.ExternalID, Existing: other.Key()}
			}
		}
		if existing, ok := doc.Records[key]; ok && rec.CreatedAt.IsZero() {
			rec.CreatedAt = existing.CreatedAt
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = s.now().UTC()
		}
		doc.Records[key] = rec
		return true, nil
	})
}

// Get returns the record for the key, if present.
func (s *DocumentStore) Get(ctx context.Context, ownerUID string, kind ExternalKind, logicalName string) (Record, bool, error) {
	doc, _, err := s.backend.Load(ctx)
	if err != nil {
		return Record{}, false, err
	}
	rec, ok := doc.Records[Key{OwnerUID: ownerUID, ExternalKind: kind, LogicalName: logicalName}.String()]
	return rec, ok, nil
}

// ListByOwner returns the records of one owner ordered by creation time.
func (s *DocumentStore) ListByOwner(ctx context.Context, ownerUID string) ([]Record, error) {
	doc, _, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, rec := range doc.Records {
		if rec.OwnerUID == ownerUID {
			out = append(out, rec)
		}
	}
	sortRecords(out)
	return out, nil
}

// ListAll returns every record ordered by creation time.
func (s *DocumentStore) ListAll(ctx context.Context) ([]Record, error) {
	doc, _, err := s.backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(doc.Records))
	for _, rec := range doc.Records {
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}

// Delete removes the record with the same key. Deleting an absent record is a no-op.
func (s *DocumentStore) Delete(ctx context.Context, rec Record) error {
	return s.mutate(ctx, func(doc *Document) (bool, error) {
		key := rec.Key().String()
		if _, ok := doc.Records[key]; !ok {
			return false, nil
		}
		delete(doc.Records, key)
		return true, nil
	})
}

// mutate runs one read-modify-write cycle, retrying immediately on conflict.
func (s *DocumentStore) mutate(ctx context.Context, fn func(*Document) (bool, error)) error {
	return retry.Do(ctx, func(ctx context.Context) error {
		doc, version, err := s.backend.Load(ctx)
		if err != nil {
			return retry.Fatal(err)
		}
		if doc.Records == nil {
			doc.Records = map[string]Record{}
		}
		changed, err := fn(doc)
		if err != nil {
			return retry.Fatal(err)
		}
		if !changed {
			return nil
		}
		err = s.backend.Save(ctx, doc, version)
		if IsConflict(err) {
			conflictsTotal.Inc()
			return err
		}
		return retry.Fatal(err)
	}, retry.Attempts(s.maxRetries+1))
}

func sortRecords(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		}
		return recs[i].Key().String() < recs[j].Key().String()
	})
}
