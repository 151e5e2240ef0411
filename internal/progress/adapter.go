package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/abhisek/academy/internal/store"
)

// StorageKey is the fixed key the record is stored under. It matches the
// browser build's local storage key so exported progress stays readable.
const StorageKey = "financeAcademyProgress"

// Migration rewrites a stored document in place before it is decoded.
// Migrations run in registration order on every load.
type Migration func(doc map[string]json.RawMessage) error

// Adapter loads and saves the progress record in a KV store.
// Persistence is best-effort: failures are logged, never returned.
type Adapter struct {
	kv         store.KV
	key        string
	log        *slog.Logger
	migrations []Migration
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithStorageKey overrides StorageKey.
func WithStorageKey(key string) AdapterOption {
	return func(a *Adapter) { a.key = key }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(l *slog.Logger) AdapterOption {
	return func(a *Adapter) { a.log = l }
}

// WithMigrations registers document migrations.
func WithMigrations(m ...Migration) AdapterOption {
	return func(a *Adapter) { a.migrations = append(a.migrations, m...) }
}

// NewAdapter creates an Adapter over kv.
func NewAdapter(kv store.KV, opts ...AdapterOption) *Adapter {
	a := &Adapter{
		kv:  kv,
		key: StorageKey,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Load reads the stored record. A missing key, unreadable store or
// malformed document yields an empty record. Individually invalid entries
// are dropped and the rest is kept.
func (a *Adapter) Load(ctx context.Context) Record {
	raw, ok, err := a.kv.Get(ctx, a.key)
	if err != nil {
		a.log.Warn("progress load failed, starting empty", "key", a.key, "error", err)
		return NewRecord()
	}
	if !ok {
		return NewRecord()
	}

	rec, err := a.decode(raw)
	if err != nil {
		a.log.Warn("stored progress is corrupt, starting empty", "key", a.key, "error", err)
		return NewRecord()
	}
	return rec
}

// Save writes the whole record. Failures are logged and swallowed; the
// caller's in-memory state stays authoritative.
func (a *Adapter) Save(ctx context.Context, rec Record) {
	raw, err := encodeRecord(rec)
	if err != nil {
		a.log.Warn("progress encode failed", "error", err)
		return
	}
	if err := a.kv.Put(ctx, a.key, raw); err != nil {
		a.log.Warn("progress save failed", "key", a.key, "error", err)
	}
}

// wireQuizResult mirrors QuizResult with a string timestamp so one bad
// timestamp drops a single entry instead of the whole map.
type wireQuizResult struct {
	Score          int    `json:"score"`
	TotalQuestions int    `json:"totalQuestions"`
	Completed      bool   `json:"completed"`
	Timestamp      string `json:"timestamp"`
}

func (a *Adapter) decode(raw []byte) (Record, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Record{}, fmt.Errorf("parse: %w", err)
	}
	if doc == nil {
		doc = make(map[string]json.RawMessage)
	}
	for i, m := range a.migrations {
		if err := m(doc); err != nil {
			return Record{}, fmt.Errorf("migration %d: %w", i, err)
		}
	}

	var modules map[string]bool
	if v, ok := doc["modules"]; ok {
		if err := json.Unmarshal(v, &modules); err != nil {
			return Record{}, fmt.Errorf("modules: %w", err)
		}
	}
	var quizzes map[string]wireQuizResult
	if v, ok := doc["quizzes"]; ok {
		if err := json.Unmarshal(v, &quizzes); err != nil {
			return Record{}, fmt.Errorf("quizzes: %w", err)
		}
	}

	rec := NewRecord()
	for s, done := range modules {
		k, err := ParseModuleKey(s)
		if err != nil {
			a.log.Warn("dropping module entry", "key", s, "error", err)
			continue
		}
		rec.Modules[k] = done
	}
	for s, w := range quizzes {
		k, err := ParseModuleKey(s)
		if err != nil {
			a.log.Warn("dropping quiz entry", "key", s, "error", err)
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, w.Timestamp)
		if err != nil {
			a.log.Warn("dropping quiz entry", "key", s, "error", err)
			continue
		}
		qr := QuizResult{
			Score:          w.Score,
			TotalQuestions: w.TotalQuestions,
			Completed:      true,
			Timestamp:      ts.UTC(),
		}
		if !qr.valid() {
			a.log.Warn("dropping quiz entry", "key", s,
				"score", w.Score, "totalQuestions", w.TotalQuestions)
			continue
		}
		rec.Quizzes[k] = qr
	}
	return rec, nil
}

func encodeRecord(rec Record) ([]byte, error) {
	if rec.Modules == nil || rec.Quizzes == nil {
		rec = rec.Clone()
	}
	return json.Marshal(rec)
}
