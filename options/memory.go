package options

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-notices/pkg/types"
)

// MemoryStore keeps options in process memory. It suits tests and single
// process hosts that do not need dismissals to survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]any
}

// NewMemoryStore provisions an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]any),
	}
}

var _ types.OptionStore = (*MemoryStore)(nil)

// GetOption implements types.OptionStore.
func (s *MemoryStore) GetOption(_ context.Context, key types.StoreKey, name string) (any, error) {
	id, err := memoryKey(key, name)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[id], nil
}

// SetOption implements types.OptionStore.
func (s *MemoryStore) SetOption(_ context.Context, key types.StoreKey, name string, value any) error {
	id, err := memoryKey(key, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records == nil {
		s.records = make(map[string]any)
	}
	s.records[id] = value
	return nil
}

// DeleteOption implements types.OptionStore.
func (s *MemoryStore) DeleteOption(_ context.Context, key types.StoreKey, name string) error {
	id, err := memoryKey(key, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func memoryKey(key types.StoreKey, name string) (string, error) {
	key, err := types.KeyFor(key.Scope, key.UserID)
	if err != nil {
		return "", err
	}
	return key.String() + ":" + strings.ToLower(strings.TrimSpace(name)), nil
}
