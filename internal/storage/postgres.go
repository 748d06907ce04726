package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// PostgresStore implements Store on a single key-value table, for deployments
// that already run Postgres and prefer it over the embedded store.
type PostgresStore struct {
	db *sqlx.DB
}

// ConnectPostgres opens the database and ensures the kv table exists.
func ConnectPostgres(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
        key TEXT PRIMARY KEY,
        value BYTEA NOT NULL,
        updated_at TIMESTAMPTZ DEFAULT NOW()
    );`); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	log.Println("postgres store ready")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Get(key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.Get(&value, `SELECT value FROM kv WHERE key=$1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *PostgresStore) Set(key string, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value, updated_at) VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`, key, value)
	return err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var _ Store = (*PostgresStore)(nil)
