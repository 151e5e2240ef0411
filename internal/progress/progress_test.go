package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/academy/internal/store"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 589_793_238, time.UTC)

func fixedClock() time.Time { return fixedNow }

// failingKV fails every operation.
type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingKV) Put(context.Context, string, []byte) error         { return f.err }
func (f failingKV) Delete(context.Context, string) error              { return f.err }

func newTracker(t *testing.T, kv store.KV) *Tracker {
	t.Helper()
	return NewTracker(context.Background(), NewAdapter(kv), WithClock(fixedClock))
}

func storedJSON(t *testing.T, kv store.KV) string {
	t.Helper()
	raw, ok, err := kv.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	require.True(t, ok, "record should be persisted")
	return string(raw)
}

// --- ModuleKey ---

func TestParseModuleKey(t *testing.T) {
	tests := []struct {
		in      string
		want    ModuleKey
		wantErr bool
	}{
		{"1-0", Key(1, 0), false},
		{"12-34", Key(12, 34), false},
		{"0-1", ModuleKey{}, true},
		{"1--1", ModuleKey{}, true},
		{"01-2", ModuleKey{}, true},
		{"1-02", ModuleKey{}, true},
		{"+1-2", ModuleKey{}, true},
		{"1-", ModuleKey{}, true},
		{"-1", ModuleKey{}, true},
		{"12", ModuleKey{}, true},
		{"a-b", ModuleKey{}, true},
		{"1-2-3", ModuleKey{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseModuleKey(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidModuleKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestRecordJSONShape(t *testing.T) {
	rec := NewRecord()
	rec.Modules[Key(1, 0)] = true
	rec.Modules[Key(1, 2)] = false
	rec.Quizzes[Key(2, 3)] = QuizResult{Score: 4, TotalQuestions: 5, Completed: true, Timestamp: fixedNow.Truncate(time.Millisecond)}

	raw, err := encodeRecord(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"modules": {"1-0": true, "1-2": false},
		"quizzes": {"2-3": {"score": 4, "totalQuestions": 5, "completed": true, "timestamp": "2025-03-14T09:26:53.589Z"}}
	}`, string(raw))
}

func TestEmptyRecordEncodesEmptyMaps(t *testing.T) {
	raw, err := encodeRecord(Record{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"modules":{},"quizzes":{}}`, string(raw))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 67, Percent(2, 3))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 100, Percent(5, 5))
	assert.Equal(t, 0, Percent(0, 4))
	assert.Equal(t, 0, Percent(1, 0))
	assert.Equal(t, 50, Percent(1, 2))
}

func TestQuizResultPassed(t *testing.T) {
	assert.True(t, QuizResult{Score: 7, TotalQuestions: 10}.Passed())
	assert.False(t, QuizResult{Score: 2, TotalQuestions: 3}.Passed())
}

// --- Adapter ---

func TestAdapterLoadMissingKey(t *testing.T) {
	rec := NewAdapter(store.NewMemoryKV()).Load(context.Background())
	assert.Empty(t, rec.Modules)
	assert.Empty(t, rec.Quizzes)
	assert.NotNil(t, rec.Modules)
	assert.NotNil(t, rec.Quizzes)
}

func TestAdapterLoadRecoversFromCorruption(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{"modules":`},
		{"array document", `[1,2,3]`},
		{"modules not an object", `{"modules": [true], "quizzes": {}}`},
		{"module flag not bool", `{"modules": {"1-0": "yes"}, "quizzes": {}}`},
		{"quizzes not an object", `{"modules": {"1-0": true}, "quizzes": 5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryKV()
			require.NoError(t, kv.Put(context.Background(), StorageKey, []byte(tt.raw)))

			var logs bytes.Buffer
			a := NewAdapter(kv, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
			rec := a.Load(context.Background())

			assert.Empty(t, rec.Modules)
			assert.Empty(t, rec.Quizzes)
			assert.Contains(t, logs.String(), "corrupt")
		})
	}
}

func TestAdapterLoadNullDocument(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Put(context.Background(), StorageKey, []byte(`null`)))
	rec := NewAdapter(kv).Load(context.Background())
	assert.Empty(t, rec.Modules)
}

func TestAdapterLoadDropsInvalidEntries(t *testing.T) {
	kv := store.NewMemoryKV()
	raw := `{
		"modules": {"1-0": true, "0-1": true, "bogus": false, "2-1": false},
		"quizzes": {
			"1-0": {"score": 2, "totalQuestions": 3, "completed": true, "timestamp": "2024-05-01T10:00:00.000Z"},
			"1-1": {"score": 4, "totalQuestions": 3, "completed": true, "timestamp": "2024-05-01T10:00:00.000Z"},
			"1-2": {"score": 1, "totalQuestions": 0, "completed": true, "timestamp": "2024-05-01T10:00:00.000Z"},
			"1-3": {"score": 1, "totalQuestions": 2, "completed": true, "timestamp": "yesterday"},
			"x-3": {"score": 1, "totalQuestions": 2, "completed": true, "timestamp": "2024-05-01T10:00:00.000Z"}
		}
	}`
	require.NoError(t, kv.Put(context.Background(), StorageKey, []byte(raw)))

	rec := NewAdapter(kv, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))).Load(context.Background())

	assert.Equal(t, map[ModuleKey]bool{Key(1, 0): true, Key(2, 1): false}, rec.Modules)
	require.Len(t, rec.Quizzes, 1)
	qr := rec.Quizzes[Key(1, 0)]
	assert.Equal(t, 2, qr.Score)
	assert.Equal(t, 3, qr.TotalQuestions)
	assert.True(t, qr.Completed)
	assert.True(t, qr.Timestamp.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
}

func TestAdapterLoadStoreError(t *testing.T) {
	var logs bytes.Buffer
	a := NewAdapter(failingKV{err: errors.New("disk gone")},
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	rec := a.Load(context.Background())
	assert.Empty(t, rec.Modules)
	assert.Contains(t, logs.String(), "disk gone")
}

func TestAdapterSaveFailureIsSwallowed(t *testing.T) {
	var logs bytes.Buffer
	a := NewAdapter(failingKV{err: errors.New("quota exceeded")},
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	assert.NotPanics(t, func() { a.Save(context.Background(), NewRecord()) })
	assert.Contains(t, logs.String(), "quota exceeded")
}

func TestAdapterRoundTrip(t *testing.T) {
	kv := store.NewMemoryKV()
	rec := NewRecord()
	rec.Modules[Key(1, 0)] = true
	rec.Modules[Key(1, 1)] = false
	rec.Modules[Key(3, 12)] = true
	rec.Quizzes[Key(1, 0)] = QuizResult{Score: 3, TotalQuestions: 3, Completed: true, Timestamp: fixedNow.Truncate(time.Millisecond)}
	rec.Quizzes[Key(2, 5)] = QuizResult{Score: 0, TotalQuestions: 10, Completed: true, Timestamp: fixedNow.Add(-time.Hour).Truncate(time.Millisecond)}

	NewAdapter(kv).Save(context.Background(), rec)
	got := NewAdapter(kv).Load(context.Background())

	assert.Equal(t, rec, got)
}

func TestAdapterSQLiteRoundTrip(t *testing.T) {
	s, err := store.Open("file:progress_roundtrip?mode=memory&cache=shared")
	require.NoError(t, err)
	defer s.Close()

	rec := NewRecord()
	rec.Modules[Key(2, 4)] = true
	rec.Quizzes[Key(2, 4)] = QuizResult{Score: 1, TotalQuestions: 2, Completed: true, Timestamp: fixedNow.Truncate(time.Millisecond)}

	NewAdapter(s.KV()).Save(context.Background(), rec)
	assert.Equal(t, rec, NewAdapter(s.KV()).Load(context.Background()))
}

func TestAdapterCustomKeyAndMigrations(t *testing.T) {
	kv := store.NewMemoryKV()
	// An older layout kept flags under "completed".
	require.NoError(t, kv.Put(context.Background(), "legacy", []byte(`{"completed": {"1-0": true}}`)))

	renameCompleted := func(doc map[string]json.RawMessage) error {
		if v, ok := doc["completed"]; ok {
			doc["modules"] = v
			delete(doc, "completed")
		}
		return nil
	}

	a := NewAdapter(kv, WithStorageKey("legacy"), WithMigrations(renameCompleted))
	rec := a.Load(context.Background())
	assert.True(t, rec.Modules[Key(1, 0)])
}

func TestAdapterFailingMigrationFallsBackToEmpty(t *testing.T) {
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Put(context.Background(), StorageKey, []byte(`{"modules": {"1-0": true}}`)))

	a := NewAdapter(kv,
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
		WithMigrations(func(map[string]json.RawMessage) error { return errors.New("unknown version") }))
	assert.Empty(t, a.Load(context.Background()).Modules)
}

// --- Tracker ---

func TestTrackerEmptyRecord(t *testing.T) {
	tr := newTracker(t, store.NewMemoryKV())
	assert.Equal(t, 0.0, tr.TotalProgress())
	assert.Equal(t, 0.0, tr.YearProgress(1))
	assert.False(t, tr.IsModuleComplete(1, 0))
	_, ok := tr.QuizScore(1, 0)
	assert.False(t, ok)
}

func TestTrackerLatestCallWins(t *testing.T) {
	tr := newTracker(t, store.NewMemoryKV())

	steps := []struct {
		complete bool
	}{{true}, {false}, {false}, {true}, {true}, {false}}
	for i, s := range steps {
		if s.complete {
			require.NoError(t, tr.MarkModuleComplete(2, 1))
		} else {
			require.NoError(t, tr.MarkModuleIncomplete(2, 1))
		}
		assert.Equal(t, s.complete, tr.IsModuleComplete(2, 1), "after step %d", i)
	}
}

func TestTrackerIncompleteKeepsKey(t *testing.T) {
	kv := store.NewMemoryKV()
	tr := newTracker(t, kv)
	require.NoError(t, tr.MarkModuleComplete(1, 0))
	require.NoError(t, tr.MarkModuleIncomplete(1, 0))

	flag, present := tr.Snapshot().Modules[Key(1, 0)]
	assert.True(t, present)
	assert.False(t, flag)
	assert.JSONEq(t, `{"modules":{"1-0":false},"quizzes":{}}`, storedJSON(t, kv))
}

func TestTrackerYearProgressCountsRecordedKeys(t *testing.T) {
	tr := newTracker(t, store.NewMemoryKV())
	require.NoError(t, tr.MarkModuleComplete(1, 0))
	require.NoError(t, tr.MarkModuleComplete(1, 1))
	require.NoError(t, tr.MarkModuleIncomplete(1, 2))

	assert.InDelta(t, 200.0/3.0, tr.YearProgress(1), 1e-9)
	assert.Equal(t, 0.0, tr.YearProgress(2))
}

func TestTrackerExplicitFalseVersusAbsent(t *testing.T) {
	// Explicit false is part of the denominator.
	withFalse := newTracker(t, store.NewMemoryKV())
	require.NoError(t, withFalse.MarkModuleComplete(1, 0))
	require.NoError(t, withFalse.MarkModuleIncomplete(1, 1))
	assert.Equal(t, 50.0, withFalse.YearProgress(1))
	assert.Equal(t, 50.0, withFalse.TotalProgress())

	// An untouched module is not.
	absent := newTracker(t, store.NewMemoryKV())
	require.NoError(t, absent.MarkModuleComplete(1, 0))
	assert.Equal(t, 100.0, absent.YearProgress(1))
	assert.Equal(t, 100.0, absent.TotalProgress())

	// Catalog-aware completion treats both the same.
	assert.Equal(t, 50.0, withFalse.YearCompletion(1, 2))
	assert.Equal(t, 50.0, absent.YearCompletion(1, 2))
}

func TestTrackerTotalProgress(t *testing.T) {
	tr := newTracker(t, store.NewMemoryKV())
	require.NoError(t, tr.MarkModuleComplete(1, 0))
	require.NoError(t, tr.MarkModuleIncomplete(1, 1))
	require.NoError(t, tr.MarkModuleComplete(2, 0))
	require.NoError(t, tr.MarkModuleComplete(3, 5))

	assert.Equal(t, 75.0, tr.TotalProgress())
}

func TestTrackerYearCompletion(t *testing.T) {
	tr := newTracker(t, store.NewMemoryKV())
	require.NoError(t, tr.MarkModuleComplete(1, 0))
	require.NoError(t, tr.MarkModuleComplete(1, 1))
	require.NoError(t, tr.MarkModuleComplete(1, 9)) // beyond catalog
	require.NoError(t, tr.MarkModuleComplete(2, 0))

	assert.InDelta(t, 200.0/7.0, tr.YearCompletion(1, 7), 1e-9)
	assert.Equal(t, 0.0, tr.YearCompletion(1, 0))
	assert.Equal(t, 0.0, tr.YearCompletion(3, 4))

	counts := map[int]int{1: 7, 2: 3}
	assert.InDelta(t, 300.0/10.0, tr.CatalogCompletion(counts), 1e-9)
	assert.Equal(t, 0.0, tr.CatalogCompletion(nil))
}

func TestTrackerMarkTwiceIsIdempotent(t *testing.T) {
	once := store.NewMemoryKV()
	twice := store.NewMemoryKV()

	t1 := newTracker(t, once)
	require.NoError(t, t1.MarkModuleComplete(1, 3))

	t2 := newTracker(t, twice)
	require.NoError(t, t2.MarkModuleComplete(1, 3))
	require.NoError(t, t2.MarkModuleComplete(1, 3))

	assert.Equal(t, storedJSON(t, once), storedJSON(t, twice))
}

func TestTrackerRejectsInvalidKeys(t *testing.T) {
	kv := store.NewMemoryKV()
	tr := newTracker(t, kv)

	assert.ErrorIs(t, tr.MarkModuleComplete(0, 1), ErrInvalidModuleKey)
	assert.ErrorIs(t, tr.MarkModuleIncomplete(1, -1), ErrInvalidModuleKey)
	assert.ErrorIs(t, tr.SaveQuizScore(-2, 0, 1, 1), ErrInvalidModuleKey)
	assert.Empty(t, tr.Snapshot().Modules)

	_, ok, _ := kv.Get(context.Background(), StorageKey)
	assert.False(t, ok, "rejected mutation must not persist")
}

func TestTrackerSaveQuizScore(t *testing.T) {
	kv := store.NewMemoryKV()
	tr := newTracker(t, kv)

	require.NoError(t, tr.SaveQuizScore(1, 2, 2, 3))
	qr, ok := tr.QuizScore(1, 2)
	require.True(t, ok)
	assert.Equal(t, 2, qr.Score)
	assert.Equal(t, 3, qr.TotalQuestions)
	assert.True(t, qr.Completed)
	assert.Equal(t, fixedNow.Truncate(time.Millisecond), qr.Timestamp)

	// Retake overwrites.
	require.NoError(t, tr.SaveQuizScore(1, 2, 3, 3))
	qr, _ = tr.QuizScore(1, 2)
	assert.Equal(t, 3, qr.Score)

	reloaded := newTracker(t, kv)
	qr, ok = reloaded.QuizScore(1, 2)
	require.True(t, ok)
	assert.Equal(t, 3, qr.Score)
}

func TestTrackerSaveQuizScoreValidation(t *testing.T) {
	tr := newTracker(t, store.NewMemoryKV())
	assert.ErrorIs(t, tr.SaveQuizScore(1, 0, 4, 3), ErrInvalidScore)
	assert.ErrorIs(t, tr.SaveQuizScore(1, 0, -1, 3), ErrInvalidScore)
	assert.ErrorIs(t, tr.SaveQuizScore(1, 0, 0, 0), ErrInvalidScore)
	_, ok := tr.QuizScore(1, 0)
	assert.False(t, ok)
}

func TestTrackerPersistsEveryMutation(t *testing.T) {
	kv := store.NewMemoryKV()
	tr := newTracker(t, kv)

	require.NoError(t, tr.MarkModuleComplete(1, 0))
	assert.JSONEq(t, `{"modules":{"1-0":true},"quizzes":{}}`, storedJSON(t, kv))

	require.NoError(t, tr.SaveQuizScore(1, 0, 1, 2))
	reloaded := newTracker(t, kv)
	assert.Equal(t, tr.Snapshot(), reloaded.Snapshot())
}

func TestTrackerSurvivesSaveFailure(t *testing.T) {
	a := NewAdapter(failingKV{err: errors.New("read-only")},
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	tr := NewTracker(context.Background(), a)

	require.NoError(t, tr.MarkModuleComplete(1, 0))
	assert.True(t, tr.IsModuleComplete(1, 0), "in-memory state stays authoritative")
}

func TestTrackerSnapshotIsACopy(t *testing.T) {
	tr := newTracker(t, store.NewMemoryKV())
	require.NoError(t, tr.MarkModuleComplete(1, 0))

	snap := tr.Snapshot()
	snap.Modules[Key(1, 0)] = false
	snap.Modules[Key(9, 9)] = true

	assert.True(t, tr.IsModuleComplete(1, 0))
	assert.False(t, tr.IsModuleComplete(9, 9))
}

func TestTrackerSummary(t *testing.T) {
	tr := newTracker(t, store.NewMemoryKV())
	require.NoError(t, tr.MarkModuleComplete(1, 0))
	require.NoError(t, tr.MarkModuleComplete(1, 1))
	require.NoError(t, tr.MarkModuleIncomplete(2, 0))
	require.NoError(t, tr.SaveQuizScore(1, 0, 3, 3)) // 100
	require.NoError(t, tr.SaveQuizScore(1, 1, 1, 3)) // 33

	s := tr.Summary(map[int]int{1: 3, 2: 2})
	assert.Equal(t, 5, s.TotalModules)
	assert.Equal(t, 2, s.CompletedModules)
	assert.Equal(t, 3, s.RecordedModules)
	assert.Equal(t, 2, s.QuizzesTaken)
	assert.Equal(t, 1, s.QuizzesPassed)
	assert.InDelta(t, 66.5, s.AverageQuizScore, 1e-9)
	assert.InDelta(t, 200.0/3.0, s.RecordedProgress, 1e-9)
	assert.InDelta(t, 40.0, s.CatalogCompletion, 1e-9)
}

func TestTrackerReset(t *testing.T) {
	kv := store.NewMemoryKV()
	tr := newTracker(t, kv)
	require.NoError(t, tr.MarkModuleComplete(1, 0))
	require.NoError(t, tr.SaveQuizScore(1, 0, 1, 1))

	tr.Reset()
	assert.False(t, tr.IsModuleComplete(1, 0))
	assert.JSONEq(t, `{"modules":{},"quizzes":{}}`, storedJSON(t, kv))
}

func TestTrackerPassThreshold(t *testing.T) {
	tr := NewTracker(context.Background(), NewAdapter(store.NewMemoryKV()),
		WithClock(fixedClock), WithPassThreshold(80))
	require.NoError(t, tr.SaveQuizScore(1, 0, 3, 4)) // 75
	require.NoError(t, tr.SaveQuizScore(1, 1, 4, 5)) // 80

	assert.Equal(t, 80, tr.PassThreshold())
	assert.False(t, tr.Passed(75))
	assert.True(t, tr.Passed(80))

	s := tr.Summary(map[int]int{1: 2})
	assert.Equal(t, 2, s.QuizzesTaken)
	assert.Equal(t, 1, s.QuizzesPassed)

	assert.Equal(t, PassPercentage, newTracker(t, store.NewMemoryKV()).PassThreshold())
}

type ctxKey struct{}

// ctxKV records the context value seen by Put.
type ctxKV struct {
	*store.MemoryKV
	seen []any
}

func (c *ctxKV) Put(ctx context.Context, key string, value []byte) error {
	c.seen = append(c.seen, ctx.Value(ctxKey{}))
	return c.MemoryKV.Put(ctx, key, value)
}

func TestTrackerSavesWithItsContext(t *testing.T) {
	kv := &ctxKV{MemoryKV: store.NewMemoryKV()}
	ctx := context.WithValue(context.Background(), ctxKey{}, "run")
	tr := NewTracker(ctx, NewAdapter(kv))

	require.NoError(t, tr.MarkModuleComplete(1, 0))
	require.NoError(t, tr.SaveQuizScore(1, 0, 1, 1))
	tr.Reset()

	assert.Equal(t, []any{"run", "run", "run"}, kv.seen)
}

func TestQuizTimestampKeepsMilliseconds(t *testing.T) {
	rec := NewRecord()
	whole := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rec.Quizzes[Key(1, 0)] = QuizResult{Score: 1, TotalQuestions: 2, Completed: true, Timestamp: whole}
	local := time.Date(2024, 1, 2, 4, 4, 5, 120_000_000, time.FixedZone("CET", 3600))
	rec.Quizzes[Key(1, 1)] = QuizResult{Score: 1, TotalQuestions: 2, Completed: true, Timestamp: local}

	raw, err := encodeRecord(rec)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"timestamp":"2024-01-02T03:04:05.000Z"`)
	assert.Contains(t, string(raw), `"timestamp":"2024-01-02T03:04:05.120Z"`)

	kv := store.NewMemoryKV()
	require.NoError(t, kv.Put(context.Background(), StorageKey, raw))
	got := NewAdapter(kv).Load(context.Background())
	assert.True(t, whole.Equal(got.Quizzes[Key(1, 0)].Timestamp))
	assert.True(t, local.Equal(got.Quizzes[Key(1, 1)].Timestamp))
}
