package tracking

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// MemoryBackend keeps the document in process memory. It serializes like the
// persistent backends so callers never share maps with the stored copy.
type MemoryBackend struct {
	mu      sync.Mutex
	data    []byte
	version int
}

// NewMemoryStore returns a DocumentStore backed by memory.
func NewMemoryStore(opts ...Option) *DocumentStore {
	return NewDocumentStore(&MemoryBackend{}, opts...)
}

func (m *MemoryBackend) Load(_ context.Context) (*Document, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return NewDocument(), "", nil
	}
	doc := NewDocument()
	if err := json.Unmarshal(m.data, doc); err != nil {
		return nil, "", fmt.Errorf("failed to decode tracking document: %w", err)
	}
	return doc, strconv.Itoa(m.version), nil
}

func (m *MemoryBackend) Save(_ context.Context, doc *Document, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := ""
	if m.data != nil {
		current = strconv.Itoa(m.version)
	}
	if current != version {
		return &ConflictError{Version: version}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode tracking document: %w", err)
	}
	m.data = data
	m.version++
	return nil
}
