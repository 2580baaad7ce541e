package panels

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"lovestory/internal/nav"
)

// Hero is the welcome screen: a typed-out greeting and a begin button.
type Hero struct {
	deps  Deps
	gen   int
	typer typewriter
	keys  heroKeys
}

type heroKeys struct {
	Begin key.Binding
	Skip  key.Binding
}

func NewHero(d Deps) *Hero {
	d = d.fill()
	return &Hero{
		deps:  d,
		typer: newTypewriter(),
		keys: heroKeys{
			Begin: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "begin")),
			Skip:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip typing")),
		},
	}
}

func (h *Hero) ID() string    { return "hero" }
func (h *Hero) Title() string { return "Welcome" }

func (h *Hero) Mount(gen int) tea.Cmd {
	h.gen = gen
	return h.typer.start(h.deps.Story.Greeting.Body)
}

func (h *Hero) Unmount() tea.Cmd {
	h.typer.stop()
	return nil
}

func (h *Hero) Update(msg tea.Msg) tea.Cmd {
	if cmd, ok := h.typer.handle(msg); ok {
		return cmd
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, h.keys.Begin):
			return nav.AdvanceCmd
		case key.Matches(msg, h.keys.Skip):
			h.typer.skip()
		}
	case ClickMsg:
		switch msg.Zone {
		case "begin":
			return nav.AdvanceCmd
		case "letter":
			h.typer.skip()
		}
	}
	return nil
}

// Typed returns the greeting body revealed so far.
func (h *Hero) Typed() string { return h.typer.String() }

func (h *Hero) View(f Frame) string {
	t := f.Theme
	g := h.deps.Story.Greeting
	width := f.ContentWidth()

	heart := t.Heart().Bold(true).Render(bigHeart)
	title := t.Title().Render(g.Title)

	body := h.typer.String()
	if !h.typer.done() {
		body += t.Heart().Render("▌")
	}
	letter := t.Card().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Body().Bold(true).Render(g.Salutation),
		"",
		t.Body().Render(wordwrap.String(body, width-6)),
	))

	begin := g.Begin
	if begin == "" {
		begin = "Begin"
	}
	button := f.Mark("begin", t.Button().Render("✨ "+begin))

	return lipgloss.JoinVertical(lipgloss.Center,
		heart,
		title,
		f.Mark("letter", letter),
		"",
		button,
	)
}

func (h *Hero) Zones() []string { return []string{"begin", "letter"} }

func (h *Hero) Keys() []key.Binding { return []key.Binding{h.keys.Begin, h.keys.Skip} }

const bigHeart = ` ▄▄   ▄▄
█████████
 ▀█████▀
   ▀█▀`
