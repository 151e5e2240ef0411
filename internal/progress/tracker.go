package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidScore is returned when a quiz score falls outside [0, total]
// or total is not positive.
var ErrInvalidScore = errors.New("invalid quiz score")

// Tracker owns the learner's progress record. Every mutation is applied in
// memory and then persisted whole through the Adapter before returning.
type Tracker struct {
	mu      sync.RWMutex
	rec     Record
	adapter *Adapter
	ctx     context.Context
	now     func() time.Time
	passPct int
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides time.Now for quiz timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithPassThreshold sets the percentage at or above which a stored quiz
// result counts as passed. It defaults to PassPercentage.
func WithPassThreshold(pct int) Option {
	return func(t *Tracker) { t.passPct = pct }
}

// NewTracker loads the stored record through adapter. ctx is kept for the
// saves that follow every mutation.
func NewTracker(ctx context.Context, adapter *Adapter, opts ...Option) *Tracker {
	t := &Tracker{
		adapter: adapter,
		ctx:     ctx,
		now:     time.Now,
		passPct: PassPercentage,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.rec = adapter.Load(ctx)
	return t
}

// MarkModuleComplete records the module as complete.
func (t *Tracker) MarkModuleComplete(year, index int) error {
	return t.setModule(Key(year, index), true)
}

// MarkModuleIncomplete records the module as not complete. The key stays
// in the record with a false flag.
func (t *Tracker) MarkModuleIncomplete(year, index int) error {
	return t.setModule(Key(year, index), false)
}

func (t *Tracker) setModule(k ModuleKey, done bool) error {
	if !k.Valid() {
		return fmt.Errorf("%w: year %d index %d", ErrInvalidModuleKey, k.Year, k.Index)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rec.Modules[k] = done
	t.persistLocked()
	return nil
}

// IsModuleComplete returns the stored flag, false if never recorded.
func (t *Tracker) IsModuleComplete(year, index int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rec.Modules[Key(year, index)]
}

// SaveQuizScore stores a quiz result stamped with the current time,
// replacing any earlier result for the module.
func (t *Tracker) SaveQuizScore(year, index, score, total int) error {
	k := Key(year, index)
	if !k.Valid() {
		return fmt.Errorf("%w: year %d index %d", ErrInvalidModuleKey, year, index)
	}
	qr := QuizResult{
		Score:          score,
		TotalQuestions: total,
		Completed:      true,
		Timestamp:      t.now().UTC().Truncate(time.Millisecond),
	}
	if !qr.valid() {
		return fmt.Errorf("%w: %d of %d", ErrInvalidScore, score, total)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.rec.Quizzes[k] = qr
	t.persistLocked()
	return nil
}

// QuizScore returns the stored result for a module's quiz.
func (t *Tracker) QuizScore(year, index int) (QuizResult, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	qr, ok := t.rec.Quizzes[Key(year, index)]
	return qr, ok
}

// PassThreshold returns the passing percentage.
func (t *Tracker) PassThreshold() int { return t.passPct }

// Passed reports whether pct meets the passing percentage.
func (t *Tracker) Passed(pct int) bool { return pct >= t.passPct }

// YearProgress returns the percentage of recorded modules of a year that
// are complete. Only keys present in the record count, including ones
// explicitly marked incomplete; the catalog is not consulted. It returns 0
// when nothing is recorded for the year.
func (t *Tracker) YearProgress(year int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var recorded, done int
	for k, v := range t.rec.Modules {
		if k.Year != year {
			continue
		}
		recorded++
		if v {
			done++
		}
	}
	return ratio(done, recorded)
}

// TotalProgress is YearProgress over every recorded module.
func (t *Tracker) TotalProgress() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var done int
	for _, v := range t.rec.Modules {
		if v {
			done++
		}
	}
	return ratio(done, len(t.rec.Modules))
}

// YearCompletion returns the percentage of a year's moduleCount modules
// that are complete. Flags for indexes at or past moduleCount are ignored.
func (t *Tracker) YearCompletion(year, moduleCount int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return ratio(t.completedLocked(year, moduleCount), moduleCount)
}

// CatalogCompletion returns the percentage of all catalog modules that are
// complete, given the module count per year.
func (t *Tracker) CatalogCompletion(counts map[int]int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var done, total int
	for year, n := range counts {
		if n <= 0 {
			continue
		}
		done += t.completedLocked(year, n)
		total += n
	}
	return ratio(done, total)
}

func (t *Tracker) completedLocked(year, moduleCount int) int {
	n := 0
	for k, v := range t.rec.Modules {
		if v && k.Year == year && k.Index < moduleCount {
			n++
		}
	}
	return n
}

// Summary aggregates the dashboard figures.
type Summary struct {
	TotalModules      int     // modules defined by the catalog
	CompletedModules  int     // modules flagged complete
	RecordedModules   int     // modules with any flag
	QuizzesTaken      int     // modules with a stored quiz result
	QuizzesPassed     int     // stored results at or above PassThreshold
	AverageQuizScore  float64 // mean percentage across stored results
	RecordedProgress  float64 // TotalProgress
	CatalogCompletion float64 // CatalogCompletion over the same counts
}

// Summary computes dashboard figures against the catalog's module counts.
func (t *Tracker) Summary(counts map[int]int) Summary {
	s := Summary{
		RecordedProgress:  t.TotalProgress(),
		CatalogCompletion: t.CatalogCompletion(counts),
	}
	for _, n := range counts {
		s.TotalModules += n
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	s.RecordedModules = len(t.rec.Modules)
	for _, v := range t.rec.Modules {
		if v {
			s.CompletedModules++
		}
	}
	var pctSum int
	for _, qr := range t.rec.Quizzes {
		s.QuizzesTaken++
		pctSum += qr.Percentage()
		if t.Passed(qr.Percentage()) {
			s.QuizzesPassed++
		}
	}
	if s.QuizzesTaken > 0 {
		s.AverageQuizScore = float64(pctSum) / float64(s.QuizzesTaken)
	}
	return s
}

// Snapshot returns a copy of the current record.
func (t *Tracker) Snapshot() Record {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.rec.Clone()
}

// Reset clears all progress and persists the empty record.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rec = NewRecord()
	t.persistLocked()
}

func (t *Tracker) persistLocked() {
	t.adapter.Save(t.ctx, t.rec)
}

func ratio(done, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(done) / float64(total) * 100
}
