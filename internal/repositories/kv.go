package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KV is a string key-value store.
type KV interface {
	// Get returns the value at key and whether it exists.
	Get(key string) (string, bool, error)
	// Set overwrites the value at key.
	Set(key, value string) error
}

// Restorer is a [KV] that can bring back the value a key held before its last write.
type Restorer interface {
	// Restore reports false when there is no earlier value.
	Restore(key string) (bool, error)
}

// KVRepository implements [KV] on the kv_store table.
//
// Every write that changes a key copies the previous value into kv_history so it can be
// restored. A key written for the first time records an empty value.
type KVRepository struct {
	db *sql.DB
}

// NewKVRepository creates a new [KVRepository] with the given database connection.
// Migrations must already have been applied.
func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db}
}

func (r *KVRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query key %s: %w", key, err)
	}
	return value, true, nil
}

func (r *KVRepository) Set(key, value string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var previous string
	err = tx.QueryRow(`SELECT value FROM kv_store WHERE key = ?`, key).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to query key %s: %w", key, err)
	}
	if previous != value {
		if _, err := tx.Exec(`INSERT INTO kv_history (key, value) VALUES (?, ?)`, key, previous); err != nil {
			return fmt.Errorf("failed to record history: %w", err)
		}
	}

	if err := upsert(tx, key, value); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Restore writes back the most recent history entry of key and removes it from the history.
func (r *KVRepository) Restore(key string) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		id    int64
		value string
	)
	err = tx.QueryRow(`
		SELECT id, value FROM kv_history WHERE key = ? ORDER BY id DESC LIMIT 1
	`, key).Scan(&id, &value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query history: %w", err)
	}

	if err := upsert(tx, key, value); err != nil {
		return false, err
	}
	if _, err := tx.Exec(`DELETE FROM kv_history WHERE id = ?`, id); err != nil {
		return false, fmt.Errorf("failed to delete history entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// HistoryLen returns how many earlier values of key are kept.
func (r *KVRepository) HistoryLen(key string) (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM kv_history WHERE key = ?`, key).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

func upsert(tx *sql.Tx, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := tx.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}
