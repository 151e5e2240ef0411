package quiz

import (
	"fmt"
	"time"

	"github.com/abhisek/academy/internal/progress"
)

// Result is the outcome of a graded attempt.
type Result struct {
	Score   int
	Total   int
	Elapsed time.Duration
	Review  []QuestionReview
}

// QuestionReview explains the grading of one question.
type QuestionReview struct {
	Index      int
	Question   string
	ChosenKey  string
	ChosenText string
	AnswerKey  string
	AnswerText string
	Correct    bool
}

// Percentage returns the score as a rounded percentage.
func (r *Result) Percentage() int {
	return progress.Percent(r.Score, r.Total)
}

// Passed reports whether the score reaches progress.PassPercentage.
func (r *Result) Passed() bool {
	return r.Percentage() >= progress.PassPercentage
}

// Missed returns the reviews of questions answered incorrectly.
func (r *Result) Missed() []QuestionReview {
	var out []QuestionReview
	for _, q := range r.Review {
		if !q.Correct {
			out = append(out, q)
		}
	}
	return out
}

// FormatElapsed renders a duration as m:ss.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
