package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// KV is a durable string-keyed blob store. It stands in for the browser's
// local storage: one value per key, whole-value reads and writes.
type KV interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// sqliteKV implements KV on the kv_entries table.
type sqliteKV struct {
	drv *entsql.Driver
}

func (kv *sqliteKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(kvColumnValue).
		From(entsql.Table(kvTable)).
		Where(entsql.EQ(kvColumnKey, key)).
		Query()

	rows := &entsql.Rows{}
	if err := kv.drv.Query(ctx, query, args, rows); err != nil {
		return nil, false, fmt.Errorf("query %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, false, fmt.Errorf("query %q: %w", key, err)
		}
		return nil, false, nil
	}
	var value []byte
	if err := rows.Scan(&value); err != nil {
		return nil, false, fmt.Errorf("scan %q: %w", key, err)
	}
	return value, true, nil
}

func (kv *sqliteKV) Put(ctx context.Context, key string, value []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(kvTable).
		Columns(kvColumnKey, kvColumnValue, kvColumnUpdated).
		Values(key, value, time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns(kvColumnKey),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if err := kv.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (kv *sqliteKV) Delete(ctx context.Context, key string) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(kvTable).
		Where(entsql.EQ(kvColumnKey, key)).
		Query()

	if err := kv.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// MemoryKV is an in-process KV. Nothing survives the process.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ KV = (*MemoryKV)(nil)

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)
	m.mu.Lock()
	m.data[key] = v
	m.mu.Unlock()
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}
