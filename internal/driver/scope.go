package driver

import (
	"context"
	"maps"

	"github.com/sunet/openstack-operator/internal/tracking"
)

// Scope is the view of the tracking store for one pass over one owner.
// It caches the owner's records, writes new ones through, and remembers
// which records the pass confirmed so the rest can be pruned.
type Scope struct {
	Owner tracking.Owner

	store   tracking.Store
	records map[tracking.Key]tracking.Record
	touched map[tracking.Key]bool
}

// OpenScope loads the records of owner.
func OpenScope(ctx context.Context, store tracking.Store, owner tracking.Owner) (*Scope, error) {
	recs, err := store.ListByOwner(ctx, owner.UID)
	if err != nil {
		return nil, classify("list records", err)
	}
	s := &Scope{
		Owner:   owner,
		store:   store,
		records: make(map[tracking.Key]tracking.Record, len(recs)),
		touched: map[tracking.Key]bool{},
	}
	for _, r := range recs {
		s.records[r.Key()] = r
	}
	return s, nil
}

func (s *Scope) key(kind tracking.ExternalKind, logical string) tracking.Key {
	return tracking.Key{OwnerUID: s.Owner.UID, ExternalKind: kind, LogicalName: logical}
}

// Record returns the cached record for a child, if any.
func (s *Scope) Record(kind tracking.ExternalKind, logical string) (tracking.Record, bool) {
	r, ok := s.records[s.key(kind, logical)]
	return r, ok
}

// Records returns all records of the owner known to the pass.
func (s *Scope) Records() []tracking.Record {
	out := make([]tracking.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	return out
}

// OfKind returns the records of one kind.
func (s *Scope) OfKind(kind tracking.ExternalKind) []tracking.Record {
	var out []tracking.Record
	for _, r := range s.records {
		if r.ExternalKind == kind {
			out = append(out, r)
		}
	}
	return out
}

// New returns a record owned by the scope's owner.
func (s *Scope) New(kind tracking.ExternalKind, logical, externalID string) tracking.Record {
	return s.Owner.NewRecord(kind, logical, externalID)
}

// Track stores rec and marks it confirmed. An unchanged record is not
// written again.
func (s *Scope) Track(ctx context.Context, rec tracking.Record) error {
	key := rec.Key()
	if old, ok := s.records[key]; ok && sameRecord(old, rec) {
		s.touched[key] = true
		return nil
	}
	if err := s.store.Put(ctx, rec); err != nil {
		return classify("record "+key.String(), err)
	}
	if old, ok := s.records[key]; ok {
		rec.CreatedAt = old.CreatedAt
	}
	s.records[key] = rec
	s.touched[key] = true
	return nil
}

// Touch marks an existing record confirmed without writing it.
func (s *Scope) Touch(kind tracking.ExternalKind, logical string) {
	key := s.key(kind, logical)
	if _, ok := s.records[key]; ok {
		s.touched[key] = true
	}
}

// Forget removes a record from the store and the cache.
func (s *Scope) Forget(ctx context.Context, rec tracking.Record) error {
	if err := s.store.Delete(ctx, rec); err != nil {
		return classify("forget "+rec.Key().String(), err)
	}
	delete(s.records, rec.Key())
	delete(s.touched, rec.Key())
	return nil
}

// Stale returns the records the pass did not confirm.
func (s *Scope) Stale() []tracking.Record {
	var out []tracking.Record
	for k, r := range s.records {
		if !s.touched[k] {
			out = append(out, r)
		}
	}
	return out
}

func sameRecord(a, b tracking.Record) bool {
	return a.ExternalID == b.ExternalID &&
		a.Parent == b.Parent &&
		a.OwnerName == b.OwnerName &&
		a.OwnerNamespace == b.OwnerNamespace &&
		maps.Equal(a.Attributes, b.Attributes)
}
