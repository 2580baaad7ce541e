package panels

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"lovestory/internal/nav"
	"lovestory/internal/playlist"
	"lovestory/internal/schedule"
)

const (
	scratchStep    = 15
	scratchUnlock  = 85
	holdToUnlock   = time.Second
	revealDelay    = time.Second
	pulseUnlock    = 100 * time.Millisecond
	scratchMaximum = 100
)

// Surprise hides a promise behind a scratch card. Scratching or holding the
// card unlocks it once; the video note is revealed shortly after.
type Surprise struct {
	deps     Deps
	gen      int
	scratch  int
	unlocked bool
	unlocks  int
	revealed bool
	bar      progress.Model
	keys     surpriseKeys
}

type surpriseKeys struct {
	Scratch key.Binding
	More    key.Binding
}

type revealMsg struct{ gen int }

func NewSurprise(d Deps) *Surprise {
	d = d.fill()
	return &Surprise{
		deps: d,
		bar:  progress.New(progress.WithGradient("#FF6B9D", "#FFD166"), progress.WithoutPercentage()),
		keys: surpriseKeys{
			Scratch: key.NewBinding(key.WithKeys("s", "x"), key.WithHelp("s", "scratch")),
			More:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "see more love")),
		},
	}
}

func (s *Surprise) ID() string    { return "surprise" }
func (s *Surprise) Title() string { return "Surprise" }

func (s *Surprise) Mount(gen int) tea.Cmd {
	s.gen = gen
	s.scratch = 0
	s.unlocked = false
	s.unlocks = 0
	s.revealed = false
	return nil
}

func (s *Surprise) Unmount() tea.Cmd { return nil }

func (s *Surprise) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, s.keys.Scratch):
			return s.Scratch()
		case key.Matches(msg, s.keys.More):
			if s.unlocked {
				return nav.AdvanceCmd
			}
		}
	case ClickMsg:
		switch msg.Zone {
		case "card":
			if msg.Held > holdToUnlock {
				s.deps.Caps.Haptics.Pulse(pulseUnlock)
				return s.unlock()
			}
			return s.Scratch()
		case "more":
			return nav.AdvanceCmd
		}
	case revealMsg:
		if msg.gen == s.gen && s.unlocked {
			s.revealed = true
		}
	}
	return nil
}

// Scratch rubs away part of the card. Progress clamps at 100 and the card
// unlocks when scratched past the threshold.
func (s *Surprise) Scratch() tea.Cmd {
	if s.unlocked || s.scratch >= scratchMaximum {
		return nil
	}
	prev := s.scratch
	s.scratch = min(prev+scratchStep, scratchMaximum)
	s.deps.Caps.Haptics.Pulse(playlist.PulseTrack)
	if prev >= scratchUnlock {
		return s.unlock()
	}
	return nil
}

func (s *Surprise) unlock() tea.Cmd {
	if s.unlocked {
		return nil
	}
	s.unlocked = true
	s.unlocks++
	s.deps.logger().Debug("surprise unlocked", zap.Int("scratch", s.scratch))
	return schedule.Once(revealDelay, revealMsg{gen: s.gen})
}

func (s *Surprise) Progress() int  { return s.scratch }
func (s *Surprise) Unlocked() bool { return s.unlocked }
func (s *Surprise) Unlocks() int   { return s.unlocks }
func (s *Surprise) Revealed() bool { return s.revealed }

func (s *Surprise) View(f Frame) string {
	t := f.Theme
	width := f.ContentWidth()
	sp := s.deps.Story.Surprise

	if !s.unlocked {
		s.bar.Width = width - 6
		cover := t.Card().Width(width).Align(lipgloss.Center).Render(lipgloss.JoinVertical(lipgloss.Center,
			t.Star().Render(scratchCover(s.scratch)),
			"",
			s.bar.ViewAs(float64(s.scratch)/scratchMaximum),
			t.Hint().Render(fmt.Sprintf("Progress: %d%%", s.scratch)),
		))
		return lipgloss.JoinVertical(lipgloss.Center,
			t.Title().Render("A Hidden Surprise 🔒"),
			t.Subtitle().Render(wordwrap.String(sp.Hint, width)),
			f.Mark("card", cover),
		)
	}

	parts := []string{
		t.Heart().Render("🔓 💝"),
		t.Title().Render(sp.Title),
		t.Body().Render(wordwrap.String(sp.Promise, width-6)),
	}
	if s.revealed {
		parts = append(parts, "", t.Subtitle().Render(wordwrap.String(sp.Video, width-6)))
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		t.Card().Width(width).Align(lipgloss.Center).Render(lipgloss.JoinVertical(lipgloss.Center, parts...)),
		"",
		f.Mark("more", t.Button().Render("See more reasons I love you →")),
	)
}

// scratchCover thins out the silver foil as progress grows.
func scratchCover(progress int) string {
	const rows, cols = 3, 18
	cleared := progress * rows * cols / scratchMaximum
	var b []rune
	for r := 0; r < rows; r++ {
		if r > 0 {
			b = append(b, '\n')
		}
		for c := 0; c < cols; c++ {
			if r*cols+c < cleared {
				b = append(b, '·')
			} else {
				b = append(b, '▓')
			}
		}
	}
	return string(b)
}

func (s *Surprise) Zones() []string { return []string{"card", "more"} }

func (s *Surprise) Keys() []key.Binding { return []key.Binding{s.keys.Scratch, s.keys.More} }
