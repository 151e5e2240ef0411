package quiz

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/academy/internal/content"
	"github.com/abhisek/academy/internal/progress"
	attempt "github.com/abhisek/academy/internal/quiz"
	"github.com/abhisek/academy/internal/router"
	"github.com/abhisek/academy/internal/screen"
	"github.com/abhisek/academy/internal/ui/components"
	"github.com/abhisek/academy/internal/ui/layout"
	"github.com/abhisek/academy/internal/ui/theme"
)

// tickMsg redraws the timer. It carries the attempt it was scheduled for so
// ticks from a discarded attempt stop instead of doubling up.
type tickMsg struct {
	attemptID string
	at        time.Time
}

// QuizScreen runs one quiz attempt and shows its graded review.
type QuizScreen struct {
	deps    screen.Deps
	session *attempt.Session
	options components.OptionList

	previous    progress.QuizResult
	hasPrevious bool

	message      string
	reviewOffset int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New starts an attempt at def for the module at key. Scores are recorded
// through deps.Tracker.
func New(deps screen.Deps, key progress.ModuleKey, def *content.QuizDefinition, opts ...attempt.Option) (*QuizScreen, error) {
	opts = append([]attempt.Option{attempt.WithLogger(slog.Default())}, opts...)
	sess, err := attempt.New(def, key, deps.Tracker, opts...)
	if err != nil {
		return nil, fmt.Errorf("start quiz: %w", err)
	}
	q := &QuizScreen{deps: deps, session: sess}
	q.loadPrevious()
	q.syncOptions()
	return q, nil
}

// Session exposes the underlying attempt.
func (q *QuizScreen) Session() *attempt.Session { return q.session }

func (q *QuizScreen) loadPrevious() {
	k := q.session.Module()
	q.previous, q.hasPrevious = q.deps.Tracker.QuizScore(k.Year, k.Index)
}

// syncOptions rebuilds the option list for the current question.
func (q *QuizScreen) syncOptions() {
	question := q.session.CurrentQuestion()
	choices := make([]components.Choice, len(question.Options))
	for i, o := range question.Options {
		choices[i] = components.Choice{Key: o.Key, Text: o.Text}
	}
	chosen, _ := q.session.Selected(q.session.CurrentIndex())
	q.options = components.NewOptionList(choices, chosen)
}

func (q *QuizScreen) tick() tea.Cmd {
	id := q.session.AttemptID()
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{attemptID: id, at: t}
	})
}

func (q *QuizScreen) Init() tea.Cmd {
	return q.tick()
}

func (q *QuizScreen) Title() string {
	return q.session.Definition().Name
}

func (q *QuizScreen) KeyHints() []layout.KeyHint {
	esc := layout.KeyHint{Key: "Esc", Description: "Leave"}
	if q.session.Phase() == attempt.PhaseGraded {
		return append(layout.Hints(keyScrollUp, keyRetake, keyDone), esc)
	}
	hints := layout.Hints(components.KeyUp, keyAnswer, keyPrev, keyNext, keySubmit)
	hints = append(hints, layout.KeyHint{Key: "1-9", Description: "Jump"})
	return append(hints, esc)
}

func (q *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if msg.attemptID != q.session.AttemptID() || q.session.Phase() != attempt.PhaseInProgress {
			return q, nil
		}
		return q, q.tick()
	case tea.KeyMsg:
		if q.session.Phase() == attempt.PhaseGraded {
			return q.updateGraded(msg)
		}
		return q.updateInProgress(msg)
	}
	return q, nil
}

func (q *QuizScreen) updateInProgress(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, components.KeyUp, components.KeyDown):
		q.options, _ = q.options.Update(msg)
	case key.Matches(msg, keyAnswer):
		q.answer(q.options.Highlighted())
	case key.Matches(msg, keyPrev):
		q.move(q.session.CurrentIndex() - 1)
	case key.Matches(msg, keyNext):
		q.move(q.session.CurrentIndex() + 1)
	case key.Matches(msg, keySubmit):
		q.submit()
	default:
		// Option keys take precedence over question jumps.
		s := msg.String()
		if _, ok := q.session.CurrentQuestion().Option(s); ok {
			q.answer(s)
			break
		}
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 9 {
			q.move(n - 1)
		}
	}
	return q, nil
}

func (q *QuizScreen) updateGraded(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, keyScrollUp):
		q.reviewOffset = max(q.reviewOffset-1, 0)
	case key.Matches(msg, keyScrollDown):
		q.reviewOffset = min(q.reviewOffset+1, q.session.QuestionCount()-1)
	case key.Matches(msg, keyRetake):
		q.session.Reset()
		q.loadPrevious()
		q.syncOptions()
		q.message = ""
		q.reviewOffset = 0
		return q, q.tick()
	case key.Matches(msg, keyDone):
		return q, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return q, nil
}

func (q *QuizScreen) answer(k string) {
	if err := q.session.SelectAnswer(q.session.CurrentIndex(), k); err != nil {
		q.message = err.Error()
		return
	}
	q.message = ""
	q.options.Chosen = k
}

func (q *QuizScreen) move(i int) {
	if err := q.session.GoToQuestion(i); err != nil {
		q.message = err.Error()
		return
	}
	q.syncOptions()
}

func (q *QuizScreen) submit() {
	_, err := q.session.Submit()
	var inc *attempt.IncompleteError
	switch {
	case errors.As(err, &inc):
		nums := make([]string, len(inc.Unanswered))
		for i, n := range inc.Unanswered {
			nums[i] = strconv.Itoa(n + 1)
		}
		q.message = fmt.Sprintf("Answer every question before submitting. Unanswered: %s",
			strings.Join(nums, ", "))
	case err != nil:
		q.message = err.Error()
	default:
		q.message = ""
	}
}

func (q *QuizScreen) View(width, height int) string {
	if q.session.Phase() == attempt.PhaseGraded {
		return q.viewResult(width, height)
	}
	return q.viewQuestion(width)
}

func (q *QuizScreen) viewQuestion(width int) string {
	s := q.session
	var b strings.Builder

	header := fmt.Sprintf("  Question %d of %d    Answered %d/%d",
		s.CurrentIndex()+1, s.QuestionCount(), s.AnsweredCount(), s.QuestionCount())
	timer := "⏱ " + attempt.FormatElapsed(s.Elapsed())
	gap := max(width-len([]rune(header))-len([]rune(timer))-2, 1)
	b.WriteString(theme.Subtitle.Render(header + strings.Repeat(" ", gap) + timer))
	b.WriteString("\n")

	if q.hasPrevious {
		p := q.previous
		banner := fmt.Sprintf("Previous attempt: %d/%d (%d%%) on %s",
			p.Score, p.TotalQuestions, p.Percentage(), p.Timestamp.Local().Format("Jan 2, 2006"))
		b.WriteString("  " + theme.Banner.Render(banner))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(theme.Body.Bold(true).Width(max(width-4, 10)).Render("  " + s.CurrentQuestion().Text))
	b.WriteString("\n\n")
	b.WriteString(q.options.View())
	b.WriteString("\n")
	b.WriteString("  " + q.jumpStrip())
	b.WriteString("\n")

	if q.message != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render("  " + q.message))
		b.WriteString("\n")
	}
	return b.String()
}

// jumpStrip renders one cell per question: answered, current or open.
func (q *QuizScreen) jumpStrip() string {
	s := q.session
	cells := make([]string, s.QuestionCount())
	for i := range cells {
		_, answered := s.Selected(i)
		label := strconv.Itoa(i + 1)
		switch {
		case i == s.CurrentIndex():
			cells[i] = theme.Selected.Render("[" + label + "]")
		case answered:
			cells[i] = theme.Complete.Render(" " + label + "✓")
		default:
			cells[i] = theme.Subtitle.Render(" " + label + " ")
		}
	}
	return strings.Join(cells, " ")
}

func (q *QuizScreen) viewResult(width, height int) string {
	res := q.session.Result()
	var b strings.Builder

	b.WriteString(theme.Title.Render("  Quiz complete"))
	b.WriteString("\n\n")

	pct := res.Percentage()
	score := fmt.Sprintf("  Score: %d/%d (%d%%)    Time: %s", res.Score, res.Total, pct,
		attempt.FormatElapsed(res.Elapsed))
	b.WriteString(theme.Body.Render(score))
	b.WriteString("\n")
	if q.deps.Passed(pct) {
		b.WriteString(theme.Correct.Render("  Passed"))
	} else {
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("  Not passed. %d%% needed", q.deps.Tracker.PassThreshold())))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Section.Render("  Review"))
	b.WriteString("\n")
	b.WriteString("  " + layout.Divider(width))
	b.WriteString("\n")

	// Each review entry takes up to four lines.
	rows := max((height-8)/4, 1)
	end := min(q.reviewOffset+rows, len(res.Review))
	for _, r := range res.Review[q.reviewOffset:end] {
		mark := theme.Correct.Render("✓")
		if !r.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		b.WriteString(fmt.Sprintf("  %s %d. %s\n", mark, r.Index+1, theme.Body.Render(r.Question)))
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("      Your answer: %s) %s",
			strings.ToUpper(r.ChosenKey), r.ChosenText)))
		b.WriteString("\n")
		if !r.Correct {
			b.WriteString(theme.Correct.Render(fmt.Sprintf("      Correct: %s) %s",
				strings.ToUpper(r.AnswerKey), r.AnswerText)))
			b.WriteString("\n")
		}
	}
	if end < len(res.Review) {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("  %d more below", len(res.Review)-end)))
		b.WriteString("\n")
	}
	return b.String()
}
