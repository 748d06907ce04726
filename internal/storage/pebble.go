package storage

import (
	"errors"
	"fmt"
	"log"

	"github.com/cockroachdb/pebble"
)

// PebbleStore is the default embedded implementation of Store.
type PebbleStore struct {
	db *pebble.DB
}

// OpenPebble opens (or creates) a pebble database at path.
func OpenPebble(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", path, err)
	}
	log.Printf("pebble store opened path=%s", path)
	return &PebbleStore{db: db}, nil
}

func (s *PebbleStore) Get(key string) ([]byte, bool, error) {
	value, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	out := make([]byte, len(value))
	copy(out, value)
	if err := closer.Close(); err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func (s *PebbleStore) Set(key string, value []byte) error {
	return s.db.Set([]byte(key), value, pebble.Sync)
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}

var _ Store = (*PebbleStore)(nil)
