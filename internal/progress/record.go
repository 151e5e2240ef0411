package progress

import (
	"encoding/json"
	"math"
	"time"
)

// PassPercentage is the default quiz score, in percent, at or above which
// an attempt counts as passed. It is never persisted.
const PassPercentage = 70

// Record is the learner's persisted progress aggregate.
//
// A module absent from Modules was never marked. A module mapped to false
// was marked complete and later unmarked. Both mean "not complete", but they
// are distinct persisted states and both count as recorded.
type Record struct {
	Modules map[ModuleKey]bool       `json:"modules"`
	Quizzes map[ModuleKey]QuizResult `json:"quizzes"`
}

// QuizResult is the stored outcome of the most recent submitted attempt.
type QuizResult struct {
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	Completed      bool      `json:"completed"`
	Timestamp      time.Time `json:"timestamp"`
}

// TimestampLayout is the stored timestamp format. The fraction is always
// three digits, as written by the browser build.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// MarshalJSON writes the timestamp in UTC with TimestampLayout.
func (r QuizResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireQuizResult{
		Score:          r.Score,
		TotalQuestions: r.TotalQuestions,
		Completed:      r.Completed,
		Timestamp:      r.Timestamp.UTC().Format(TimestampLayout),
	})
}

// Percentage returns the rounded score percentage.
func (r QuizResult) Percentage() int {
	return Percent(r.Score, r.TotalQuestions)
}

// Passed reports whether the result meets the default PassPercentage.
func (r QuizResult) Passed() bool {
	return r.Percentage() >= PassPercentage
}

func (r QuizResult) valid() bool {
	return r.TotalQuestions > 0 && r.Score >= 0 && r.Score <= r.TotalQuestions
}

// Percent returns score/total as a percentage rounded half away from zero.
// It returns 0 when total is not positive.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{
		Modules: make(map[ModuleKey]bool),
		Quizzes: make(map[ModuleKey]QuizResult),
	}
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := Record{
		Modules: make(map[ModuleKey]bool, len(r.Modules)),
		Quizzes: make(map[ModuleKey]QuizResult, len(r.Quizzes)),
	}
	for k, v := range r.Modules {
		out.Modules[k] = v
	}
	for k, v := range r.Quizzes {
		out.Quizzes[k] = v
	}
	return out
}
