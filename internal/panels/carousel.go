package panels

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"lovestory/internal/nav"
	"lovestory/internal/schedule"
)

// Carousel closes the card: reasons rotate on a timer until the reader
// takes over, with a second row of quotes underneath.
type Carousel struct {
	deps   Deps
	gen    int
	reason int
	quote  int
	auto   schedule.Task
	keys   carouselKeys
}

type carouselKeys struct {
	Prev      key.Binding
	Next      key.Binding
	Auto      key.Binding
	PrevQuote key.Binding
	NextQuote key.Binding
	Home      key.Binding
}

func NewCarousel(d Deps) *Carousel {
	d = d.fill()
	return &Carousel{
		deps: d,
		auto: schedule.New(d.CarouselInterval),
		keys: carouselKeys{
			Prev:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous reason")),
			Next:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next reason")),
			Auto:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto play")),
			PrevQuote: key.NewBinding(key.WithKeys(","), key.WithHelp(",", "previous quote")),
			NextQuote: key.NewBinding(key.WithKeys("."), key.WithHelp(".", "next quote")),
			Home:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start over")),
		},
	}
}

func (c *Carousel) ID() string    { return "carousel" }
func (c *Carousel) Title() string { return "Love Notes" }

func (c *Carousel) Mount(gen int) tea.Cmd {
	c.gen = gen
	c.reason = 0
	c.quote = 0
	var cmd tea.Cmd
	c.auto, cmd = c.auto.Start()
	return cmd
}

func (c *Carousel) Unmount() tea.Cmd {
	c.auto = c.auto.Stop()
	return nil
}

func (c *Carousel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case schedule.TickMsg:
		if !c.auto.Owns(msg) {
			return nil
		}
		c.reason = (c.reason + 1) % len(c.deps.Story.Reasons)
		return c.auto.Next()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, c.keys.Prev):
			c.StepReason(-1)
		case key.Matches(msg, c.keys.Next):
			c.StepReason(1)
		case key.Matches(msg, c.keys.Auto):
			return c.ToggleAuto()
		case key.Matches(msg, c.keys.PrevQuote):
			c.StepQuote(-1)
		case key.Matches(msg, c.keys.NextQuote):
			c.StepQuote(1)
		case key.Matches(msg, c.keys.Home):
			return nav.AdvanceCmd
		}

	case ClickMsg:
		switch msg.Zone {
		case "prev":
			c.StepReason(-1)
		case "next":
			c.StepReason(1)
		case "auto":
			return c.ToggleAuto()
		case "quote-prev":
			c.StepQuote(-1)
		case "quote-next":
			c.StepQuote(1)
		case "home":
			return nav.AdvanceCmd
		}
	}
	return nil
}

// StepReason moves the reason by delta and stops autoplay.
func (c *Carousel) StepReason(delta int) {
	n := len(c.deps.Story.Reasons)
	c.reason = (c.reason + delta + n) % n
	c.auto = c.auto.Stop()
}

// StepQuote moves the quote by delta. Without quotes it does nothing.
func (c *Carousel) StepQuote(delta int) {
	n := len(c.deps.Story.Quotes)
	if n == 0 {
		return
	}
	c.quote = (c.quote + delta + n) % n
}

// ToggleAuto pauses or resumes the reasons rotation.
func (c *Carousel) ToggleAuto() tea.Cmd {
	if c.auto.Running() {
		c.auto = c.auto.Stop()
		return nil
	}
	var cmd tea.Cmd
	c.auto, cmd = c.auto.Start()
	return cmd
}

func (c *Carousel) Reason() int    { return c.reason }
func (c *Carousel) Quote() int     { return c.quote }
func (c *Carousel) Autoplay() bool { return c.auto.Running() }

func (c *Carousel) View(f Frame) string {
	t := f.Theme
	width := f.ContentWidth()
	reasons := c.deps.Story.Reasons
	quotes := c.deps.Story.Quotes

	autoLabel := "▶ auto play"
	if c.auto.Running() {
		autoLabel = "⏸ pause"
	}

	reasonCard := t.Card().Width(width).Align(lipgloss.Center).Render(lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Center,
			f.Mark("prev", t.GhostButton().Render("◀")),
			"  ",
			t.Heart().Render(fmt.Sprintf("♥ %d of %d", c.reason+1, len(reasons))),
			"  ",
			f.Mark("next", t.GhostButton().Render("▶")),
		),
		"",
		t.Body().Bold(true).Render(wordwrap.String(reasons[c.reason], width-6)),
		"",
		f.Mark("auto", t.Hint().UnsetMarginTop().Render(autoLabel)),
	))

	parts := []string{t.Title().Render("Reasons I Love You 💕"), reasonCard}
	if len(quotes) > 0 {
		parts = append(parts, t.Card().Width(width).Align(lipgloss.Center).Render(lipgloss.JoinVertical(lipgloss.Center,
			t.Subtitle().Render("Beautiful Love Quotes"),
			t.Body().Italic(true).Render(wordwrap.String("“"+quotes[c.quote]+"”", width-6)),
			lipgloss.JoinHorizontal(lipgloss.Center,
				f.Mark("quote-prev", t.GhostButton().Render("‹")),
				"  ",
				f.Mark("quote-next", t.GhostButton().Render("›")),
			),
		)))
	}
	parts = append(parts, "", f.Mark("home", t.Button().Render("⌂ Back to the beginning")))

	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (c *Carousel) Zones() []string {
	return []string{"prev", "next", "auto", "quote-prev", "quote-next", "home"}
}

func (c *Carousel) Keys() []key.Binding {
	return []key.Binding{c.keys.Prev, c.keys.Next, c.keys.Auto, c.keys.PrevQuote, c.keys.NextQuote, c.keys.Home}
}
