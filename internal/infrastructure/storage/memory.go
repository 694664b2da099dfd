package storage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/purchase-invoice/backend/internal/domain/notification"
)

// MemoryArchive keeps archived records in process. It backs local runs
// without object storage and the dispatcher tests.
type MemoryArchive struct {
	mu      sync.Mutex
	prefix  string
	objects map[string][]byte
}

// NewMemoryArchive creates an empty archive
func NewMemoryArchive(prefix string) *MemoryArchive {
	return &MemoryArchive{prefix: prefix, objects: make(map[string][]byte)}
}

// Archive stores the record as JSON under ObjectKey
func (a *MemoryArchive) Archive(_ context.Context, event *notification.Event) error {
	body, err := json.Marshal(newArchivedRecord(event))
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[ObjectKey(a.prefix, event)] = body
	return nil
}

// Keys lists stored object keys in order
func (a *MemoryArchive) Keys() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	keys := make([]string, 0, len(a.objects))
	for k := range a.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the stored JSON for key
func (a *MemoryArchive) Get(key string) ([]byte, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	body, ok := a.objects[key]
	return body, ok
}
