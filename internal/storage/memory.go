package storage

import "sync"

// MemoryStore is an in-memory Store used in tests and as a fallback when no
// durable medium is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailSet, when set, is returned from every Set call. Tests use it to
	// simulate persistence failures.
	FailSet error
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (s *MemoryStore) Set(key string, value []byte) error {
	if s.FailSet != nil {
		return s.FailSet
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key] = stored
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

var _ Store = (*MemoryStore)(nil)
