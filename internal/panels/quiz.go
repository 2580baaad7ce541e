package panels

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"lovestory/internal/nav"
	"lovestory/internal/schedule"
)

const (
	pulseCorrect   = 100 * time.Millisecond
	pulseWrong     = 200 * time.Millisecond
	confettiLength = 2 * time.Second
)

// Result messages by score band.
const (
	ResultPerfect = "Perfect! You know our love story so well! 💕🎵"
	ResultGood    = "Great job! Our playlist tells our story perfectly! ✨"
	ResultOther   = "Every song in our playlist has a special meaning for us! 😘🎶"
)

// Quiz asks the story's questions one at a time, each answerable once.
type Quiz struct {
	deps Deps
	gen  int

	current   int
	cursor    int
	answered  bool
	chosen    int
	score     int
	completed bool
	confetti  int // seq of the running celebration, 0 when idle
	seq       int

	keys quizKeys
}

type quizKeys struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
	Replay key.Binding
}

type confettiDoneMsg struct{ gen, seq int }

func NewQuiz(d Deps) *Quiz {
	d = d.fill()
	return &Quiz{
		deps: d,
		keys: quizKeys{
			Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "answer / next")),
			Replay: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "play again")),
		},
	}
}

func (q *Quiz) ID() string    { return "quiz" }
func (q *Quiz) Title() string { return "Quiz Time" }

func (q *Quiz) Mount(gen int) tea.Cmd {
	q.gen = gen
	q.Reset()
	return nil
}

func (q *Quiz) Unmount() tea.Cmd {
	q.confetti = 0
	return nil
}

// Reset starts the quiz over.
func (q *Quiz) Reset() {
	q.current = 0
	q.cursor = 0
	q.answered = false
	q.chosen = -1
	q.score = 0
	q.completed = false
	q.confetti = 0
}

func (q *Quiz) Update(msg tea.Msg) tea.Cmd {
	questions := q.deps.Story.Quiz
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if q.completed {
			switch {
			case key.Matches(msg, q.keys.Replay):
				q.Reset()
			case key.Matches(msg, q.keys.Choose):
				return nav.AdvanceCmd
			}
			return nil
		}
		switch {
		case key.Matches(msg, q.keys.Up):
			if !q.answered {
				n := len(questions[q.current].Options)
				q.cursor = (q.cursor - 1 + n) % n
			}
		case key.Matches(msg, q.keys.Down):
			if !q.answered {
				q.cursor = (q.cursor + 1) % len(questions[q.current].Options)
			}
		case key.Matches(msg, q.keys.Choose):
			if q.answered {
				q.Next()
				return nil
			}
			return q.Answer(q.cursor)
		}

	case ClickMsg:
		var idx int
		if _, err := fmt.Sscanf(msg.Zone, "option-%d", &idx); err == nil {
			q.cursor = idx
			return q.Answer(idx)
		}
		switch msg.Zone {
		case "next":
			q.Next()
		case "replay":
			q.Reset()
		case "claim":
			return nav.AdvanceCmd
		}

	case confettiDoneMsg:
		if msg.gen == q.gen && msg.seq == q.confetti {
			q.confetti = 0
		}
	}
	return nil
}

// Answer records choice for the current question. A question can only be
// answered once; later calls are ignored.
func (q *Quiz) Answer(choice int) tea.Cmd {
	if q.completed || q.answered {
		return nil
	}
	question := q.deps.Story.Quiz[q.current]
	if choice < 0 || choice >= len(question.Options) {
		return nil
	}
	q.answered = true
	q.chosen = choice
	if choice != question.Answer {
		q.deps.Caps.Haptics.Pulse(pulseWrong)
		return nil
	}
	q.score++
	q.deps.Caps.Haptics.Pulse(pulseCorrect)
	q.seq++
	q.confetti = q.seq
	return schedule.Once(confettiLength, confettiDoneMsg{gen: q.gen, seq: q.seq})
}

// Next moves past an answered question, completing the quiz after the last.
func (q *Quiz) Next() {
	if !q.answered || q.completed {
		return
	}
	if q.current < len(q.deps.Story.Quiz)-1 {
		q.current++
		q.cursor = 0
		q.answered = false
		q.chosen = -1
		return
	}
	q.completed = true
}

func (q *Quiz) Score() int      { return q.score }
func (q *Quiz) Completed() bool { return q.completed }
func (q *Quiz) Current() int    { return q.current }

// ResultMessage picks the closing line for score out of total.
func ResultMessage(score, total int) string {
	switch {
	case score == total:
		return ResultPerfect
	case score*2 >= total:
		return ResultGood
	default:
		return ResultOther
	}
}

func (q *Quiz) View(f Frame) string {
	t := f.Theme
	questions := q.deps.Story.Quiz
	width := f.ContentWidth()

	if q.completed {
		return lipgloss.JoinVertical(lipgloss.Center,
			t.Star().Render("🏆"),
			t.Title().Render("Quiz Complete! 🎉"),
			t.Card().Width(width).Align(lipgloss.Center).Render(lipgloss.JoinVertical(lipgloss.Center,
				t.Title().Render(fmt.Sprintf("%d/%d", q.score, len(questions))),
				t.Body().Render(wordwrap.String(ResultMessage(q.score, len(questions)), width-6)),
			)),
			lipgloss.JoinHorizontal(lipgloss.Center,
				f.Mark("replay", t.GhostButton().Render("↺ play again")),
				"  ",
				f.Mark("claim", t.Button().Render("🎁 Claim your gifts")),
			),
		)
	}

	question := questions[q.current]
	header := t.Subtitle().Render(fmt.Sprintf("Question %d of %d   •   Score %d", q.current+1, len(questions), q.score))

	opts := make([]string, len(question.Options))
	for i, o := range question.Options {
		label := fmt.Sprintf("%c. %s", 'A'+i, o)
		style := t.Body().Padding(0, 1)
		switch {
		case q.answered && i == question.Answer:
			style = t.Good().Padding(0, 1)
			label += " ✓"
		case q.answered && i == q.chosen:
			style = t.Bad().Padding(0, 1)
			label += " ✗"
		case !q.answered && i == q.cursor:
			style = t.Selected()
		}
		opts[i] = f.Mark(fmt.Sprintf("option-%d", i), style.Width(width-6).Render(label))
	}

	parts := []string{
		t.Body().Bold(true).Render(wordwrap.String(question.Question, width-6)),
		"",
		lipgloss.JoinVertical(lipgloss.Left, opts...),
	}
	if q.answered {
		verdict := t.Bad().Render("Not quite!")
		if q.chosen == question.Answer {
			verdict = t.Good().Render("Correct! " + strings.Repeat("🎉", 3))
		}
		parts = append(parts, "", verdict, t.Subtitle().Render(wordwrap.String(question.Explanation, width-6)))
	}

	view := []string{
		t.Title().Render("How Well Do You Know Us? 💭"),
		header,
		t.Card().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...)),
	}
	if q.confetti != 0 {
		view = append(view, t.Star().Render("✨ 🎊 ✨ 🎊 ✨"))
	}
	if q.answered {
		label := "Next question"
		if q.current == len(questions)-1 {
			label = "See results"
		}
		view = append(view, f.Mark("next", t.Button().Render(label+" →")))
	}
	return lipgloss.JoinVertical(lipgloss.Center, view...)
}

func (q *Quiz) Zones() []string {
	z := []string{"next", "replay", "claim"}
	for i := 0; i < 8; i++ {
		z = append(z, fmt.Sprintf("option-%d", i))
	}
	return z
}

func (q *Quiz) Keys() []key.Binding {
	return []key.Binding{q.keys.Up, q.keys.Down, q.keys.Choose, q.keys.Replay}
}
