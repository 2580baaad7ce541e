// Package panels implements the seven sections of the card. Each panel owns
// its ephemeral state, which is rebuilt on every Mount and dropped on
// Unmount. Panels never touch shell state; they return commands producing
// nav.RequestMsg, AdvisoryMsg or NoticeMsg and the shell applies them.
package panels

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"lovestory/internal/capability"
	"lovestory/internal/playlist"
	"lovestory/internal/story"
	"lovestory/internal/theme"
)

// Panel is one section of the card.
type Panel interface {
	ID() string
	Title() string
	// Mount resets the panel's state and starts its timers. gen identifies
	// this mount; async results tagged with another gen are dropped.
	Mount(gen int) tea.Cmd
	// Unmount stops timers and releases anything started while mounted.
	Unmount() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(f Frame) string
	// Zones lists the clickable zone ids the panel marks in View.
	Zones() []string
	Keys() []key.Binding
}

// Snapshot is the read-only slice of shell state panels may render.
type Snapshot struct {
	Section   int
	Total     int
	Dark      bool
	Playing   bool
	Track     playlist.Track
	Recipient string
	Sender    string
}

// Frame carries everything a panel needs to render once.
type Frame struct {
	Width  int
	Height int
	Theme  theme.Theme
	Snap   Snapshot
	Zones  *zone.Manager
	Prefix string
}

// Mark wraps s in a click zone named id, scoped to the panel.
func (f Frame) Mark(id, s string) string {
	if f.Zones == nil {
		return s
	}
	return f.Zones.Mark(f.Prefix+id, s)
}

// ContentWidth is the usable text width inside a card.
func (f Frame) ContentWidth() int {
	w := f.Width - 8
	switch {
	case w > 72:
		return 72
	case w < 24:
		return 24
	}
	return w
}

// Deps are the shared dependencies handed to every panel.
type Deps struct {
	Story *story.Story
	Caps  capability.Set
	Log   *zap.Logger
	// Clock is replaced in tests.
	Clock func() time.Time
	// CarouselInterval is the reasons autoplay period.
	CarouselInterval time.Duration
}

func (d Deps) fill() Deps {
	d.Caps = d.Caps.Fill()
	if d.Story == nil {
		d.Story = story.Default()
	}
	if d.CarouselInterval <= 0 {
		d.CarouselInterval = 3 * time.Second
	}
	return d
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

func (d Deps) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// ClickMsg is sent to the active panel when a tap lands on one of its
// zones. Held is how long the pointer stayed down.
type ClickMsg struct {
	Zone string
	Held time.Duration
}

// AdvisoryMsg asks the shell to show a blocking advisory.
type AdvisoryMsg struct {
	Text string
}

// NoticeMsg asks the shell to show a short-lived notice.
type NoticeMsg struct {
	Text string
}

// MicrophoneAdvisory is the only failure text the card ever shows.
const MicrophoneAdvisory = "Unable to access microphone. Please check permissions."

func advisory(text string) tea.Cmd {
	return func() tea.Msg { return AdvisoryMsg{Text: text} }
}

func notice(text string) tea.Cmd {
	return func() tea.Msg { return NoticeMsg{Text: text} }
}

// All builds the seven panels in section order.
func All(d Deps) []Panel {
	return []Panel{
		NewHero(d),
		NewTimeline(d),
		NewGallery(d),
		NewQuiz(d),
		NewGifts(d),
		NewSurprise(d),
		NewCarousel(d),
	}
}
