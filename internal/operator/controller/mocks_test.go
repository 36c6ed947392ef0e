package controller

import (
	"context"
	"sync"

	"github.com/sunet/openstack-operator/internal/tracking"
)

// MockReaper is a mock implementation of reaper for testing.
type MockReaper struct {
	mu sync.Mutex

	// Configurable responses
	ReapAllFunc func(ctx context.Context, records []tracking.Record) (int, error)

	// Call tracking
	ReapAllCalls [][]tracking.Record
}

func (m *MockReaper) ReapAll(ctx context.Context, records []tracking.Record) (int, error) {
	m.mu.Lock()
	m.ReapAllCalls = append(m.ReapAllCalls, records)
	m.mu.Unlock()

	if m.ReapAllFunc != nil {
		return m.ReapAllFunc(ctx, records)
	}
	return len(records), nil
}

// Calls returns how many times ReapAll was called.
func (m *MockReaper) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ReapAllCalls)
}

// failingStore wraps a store and fails ListAll.
type failingStore struct {
	tracking.Store
	err error
}

func (s *failingStore) ListAll(context.Context) ([]tracking.Record, error) {
	return nil, s.err
}
