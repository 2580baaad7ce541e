package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"lovestory/internal/nav"
	"lovestory/internal/playlist"
)

// Timeline steps through the relationship's milestones one event at a time
// and counts heart reactions per event.
type Timeline struct {
	deps      Deps
	gen       int
	current   int
	reactions map[int]int
	keys      timelineKeys
}

type timelineKeys struct {
	Prev  key.Binding
	Next  key.Binding
	React key.Binding
	On    key.Binding
}

func NewTimeline(d Deps) *Timeline {
	d = d.fill()
	return &Timeline{
		deps: d,
		keys: timelineKeys{
			Prev:  key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "earlier")),
			Next:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "later")),
			React: key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "send a heart")),
			On:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue")),
		},
	}
}

func (tl *Timeline) ID() string    { return "timeline" }
func (tl *Timeline) Title() string { return "Our Story" }

func (tl *Timeline) Mount(gen int) tea.Cmd {
	tl.gen = gen
	tl.current = 0
	tl.reactions = map[int]int{}
	return nil
}

func (tl *Timeline) Unmount() tea.Cmd { return nil }

func (tl *Timeline) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, tl.keys.Prev):
			tl.step(-1)
		case key.Matches(msg, tl.keys.Next):
			tl.step(1)
		case key.Matches(msg, tl.keys.React):
			tl.React()
		case key.Matches(msg, tl.keys.On):
			return nav.AdvanceCmd
		}
	case ClickMsg:
		switch msg.Zone {
		case "prev":
			tl.step(-1)
		case "next":
			tl.step(1)
		case "react":
			tl.React()
		case "continue":
			return nav.AdvanceCmd
		}
	}
	return nil
}

func (tl *Timeline) step(delta int) {
	n := len(tl.deps.Story.Timeline)
	tl.current = (tl.current + delta + n) % n
	tl.deps.Caps.Haptics.Pulse(playlist.PulseTrack)
}

// React adds a heart to the current event and returns its new count.
func (tl *Timeline) React() int {
	id := tl.deps.Story.Timeline[tl.current].ID
	tl.reactions[id]++
	return tl.reactions[id]
}

func (tl *Timeline) Current() int         { return tl.current }
func (tl *Timeline) Reactions(id int) int { return tl.reactions[id] }

func (tl *Timeline) View(f Frame) string {
	t := f.Theme
	events := tl.deps.Story.Timeline
	ev := events[tl.current]
	width := f.ContentWidth()

	dots := make([]string, len(events))
	for i := range events {
		if i == tl.current {
			dots[i] = t.Heart().Render("●")
		} else {
			dots[i] = t.Hint().UnsetMarginTop().Render("○")
		}
	}

	card := t.Card().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Star().Render("📅 "+ev.Date),
		t.Title().UnsetMarginBottom().Render(ev.Title),
		"",
		t.Body().Render(wordwrap.String(ev.Description, width-6)),
		"",
		t.Subtitle().Render("📍 "+ev.Location),
		"",
		f.Mark("react", t.GhostButton().Render(fmt.Sprintf("💕 %d", tl.reactions[ev.ID]))),
	))

	controls := lipgloss.JoinHorizontal(lipgloss.Center,
		f.Mark("prev", t.GhostButton().Render("◀ earlier")),
		"  ",
		strings.Join(dots, " "),
		"  ",
		f.Mark("next", t.GhostButton().Render("later ▶")),
	)

	return lipgloss.JoinVertical(lipgloss.Center,
		t.Title().Render("Our Love Story Timeline"),
		card,
		controls,
		"",
		f.Mark("continue", t.Button().Render("Continue our story")),
	)
}

func (tl *Timeline) Zones() []string { return []string{"prev", "next", "react", "continue"} }

func (tl *Timeline) Keys() []key.Binding {
	return []key.Binding{tl.keys.Prev, tl.keys.Next, tl.keys.React, tl.keys.On}
}
