package quiz

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/academy/internal/content"
	"github.com/abhisek/academy/internal/progress"
)

var (
	// ErrEmptyQuiz is returned when a quiz has no questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
	// ErrNotInProgress is returned for attempt operations after grading.
	ErrNotInProgress = errors.New("quiz attempt already graded")
	// ErrQuestionOutOfRange is returned for a question index outside the quiz.
	ErrQuestionOutOfRange = errors.New("question index out of range")
	// ErrUnknownOption is returned when an answer key matches no option.
	ErrUnknownOption = errors.New("unknown option key")
	// ErrIncompleteSubmission is returned by Submit while questions are unanswered.
	ErrIncompleteSubmission = errors.New("not all questions answered")
)

// IncompleteError lists the unanswered questions of a rejected submission.
// It matches ErrIncompleteSubmission with errors.Is.
type IncompleteError struct {
	Unanswered []int // zero-based question indexes
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%d question(s) unanswered", len(e.Unanswered))
}

func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncompleteSubmission
}

// ScoreRecorder persists a graded attempt. *progress.Tracker satisfies it.
type ScoreRecorder interface {
	SaveQuizScore(year, index, score, total int) error
}

// Phase is the attempt's position in its lifecycle.
type Phase int

const (
	PhaseInProgress Phase = iota // answering questions
	PhaseGraded                  // submitted and scored
)

func (p Phase) String() string {
	if p == PhaseGraded {
		return "graded"
	}
	return "in-progress"
}

// Session is one attempt at a quiz. It is not persisted; only the graded
// score reaches the recorder. Leaving or resetting an ungraded session
// leaves no trace.
type Session struct {
	def      *content.QuizDefinition
	module   progress.ModuleKey
	recorder ScoreRecorder
	now      func() time.Time
	log      *slog.Logger

	attemptID string
	phase     Phase
	current   int
	selected  map[int]string
	startedAt time.Time
	elapsed   time.Duration // frozen at submit
	result    *Result
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger used for recorder failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New starts an attempt at def for the module at key.
func New(def *content.QuizDefinition, key progress.ModuleKey, recorder ScoreRecorder, opts ...Option) (*Session, error) {
	if def == nil || len(def.Questions) == 0 {
		return nil, ErrEmptyQuiz
	}
	if !key.Valid() {
		return nil, fmt.Errorf("%w: %s", progress.ErrInvalidModuleKey, key)
	}
	s := &Session{
		def:      def,
		module:   key,
		recorder: recorder,
		now:      time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.begin()
	return s, nil
}

func (s *Session) begin() {
	s.attemptID = uuid.New().String()
	s.phase = PhaseInProgress
	s.current = 0
	s.selected = make(map[int]string)
	s.startedAt = s.now()
	s.elapsed = 0
	s.result = nil
}

// Definition returns the quiz being attempted.
func (s *Session) Definition() *content.QuizDefinition { return s.def }

// Module returns the module the quiz belongs to.
func (s *Session) Module() progress.ModuleKey { return s.module }

// AttemptID identifies the current attempt; it changes on Reset.
func (s *Session) AttemptID() string { return s.attemptID }

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// QuestionCount returns the number of questions.
func (s *Session) QuestionCount() int { return len(s.def.Questions) }

// CurrentIndex returns the zero-based index of the displayed question.
func (s *Session) CurrentIndex() int { return s.current }

// CurrentQuestion returns the displayed question.
func (s *Session) CurrentQuestion() content.Question { return s.def.Questions[s.current] }

// StartedAt returns when the attempt began.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Selected returns the answer chosen for question i.
func (s *Session) Selected(i int) (string, bool) {
	k, ok := s.selected[i]
	return k, ok
}

// Selections returns a copy of all chosen answers by question index.
func (s *Session) Selections() map[int]string {
	out := make(map[int]string, len(s.selected))
	for k, v := range s.selected {
		out[k] = v
	}
	return out
}

// AnsweredCount returns how many questions have an answer.
func (s *Session) AnsweredCount() int { return len(s.selected) }

// Unanswered returns the indexes of questions without an answer, ascending.
func (s *Session) Unanswered() []int {
	var out []int
	for i := range s.def.Questions {
		if _, ok := s.selected[i]; !ok {
			out = append(out, i)
		}
	}
	return out
}

// SelectAnswer records key as the answer to question i, replacing any
// earlier choice.
func (s *Session) SelectAnswer(i int, key string) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if i < 0 || i >= len(s.def.Questions) {
		return fmt.Errorf("%w: %d", ErrQuestionOutOfRange, i)
	}
	if _, ok := s.def.Questions[i].Option(key); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, key)
	}
	s.selected[i] = key
	return nil
}

// GoToQuestion moves to question i, clamped to the quiz's range.
func (s *Session) GoToQuestion(i int) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	s.current = max(0, min(i, len(s.def.Questions)-1))
	return nil
}

// Next moves to the following question, staying on the last one.
func (s *Session) Next() error { return s.GoToQuestion(s.current + 1) }

// Prev moves to the preceding question, staying on the first one.
func (s *Session) Prev() error { return s.GoToQuestion(s.current - 1) }

// IsLast reports whether the current question is the final one.
func (s *Session) IsLast() bool { return s.current == len(s.def.Questions)-1 }

// CanAdvance reports whether the current question has been answered.
func (s *Session) CanAdvance() bool {
	_, ok := s.selected[s.current]
	return ok
}

// Elapsed returns time spent on the attempt, frozen once graded.
func (s *Session) Elapsed() time.Duration {
	if s.phase == PhaseGraded {
		return s.elapsed
	}
	return s.now().Sub(s.startedAt)
}

// Submit grades the attempt and records the score. It is rejected with an
// *IncompleteError, and nothing changes, while any question is unanswered.
func (s *Session) Submit() (*Result, error) {
	if s.phase != PhaseInProgress {
		return nil, ErrNotInProgress
	}
	if missing := s.Unanswered(); len(missing) > 0 {
		return nil, &IncompleteError{Unanswered: missing}
	}

	res := grade(s.def, s.selected)
	s.elapsed = s.now().Sub(s.startedAt)
	res.Elapsed = s.elapsed
	s.phase = PhaseGraded
	s.result = res

	if s.recorder != nil {
		if err := s.recorder.SaveQuizScore(s.module.Year, s.module.Index, res.Score, res.Total); err != nil {
			s.log.Warn("quiz score not recorded", "module", s.module.String(),
				"attempt", s.attemptID, "error", err)
		}
	}
	return res, nil
}

// Result returns the graded result, nil while in progress.
func (s *Session) Result() *Result { return s.result }

// Reset discards the attempt and starts a fresh one. Previously recorded
// scores are untouched.
func (s *Session) Reset() {
	s.begin()
}

// grade scores selections against the quiz's answer keys.
func grade(def *content.QuizDefinition, selected map[int]string) *Result {
	res := &Result{
		Total:  len(def.Questions),
		Review: make([]QuestionReview, 0, len(def.Questions)),
	}
	for i, q := range def.Questions {
		chosen := selected[i]
		r := QuestionReview{
			Index:     i,
			Question:  q.Text,
			ChosenKey: chosen,
			AnswerKey: q.Answer,
			Correct:   chosen == q.Answer,
		}
		if o, ok := q.Option(chosen); ok {
			r.ChosenText = o.Text
		}
		if o, ok := q.CorrectOption(); ok {
			r.AnswerText = o.Text
		}
		if r.Correct {
			res.Score++
		}
		res.Review = append(res.Review, r)
	}
	return res
}
