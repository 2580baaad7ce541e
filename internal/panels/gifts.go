package panels

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"lovestory/internal/nav"
	"lovestory/internal/playlist"
	"lovestory/internal/story"
)

const giftViewHeight = 10

var giftIcons = map[string]string{
	"letter":   "💌",
	"playlist": "🎵",
	"voucher":  "🎟",
	"bouquet":  "💐",
}

// Gifts is a basket of wrapped gifts. Opening one shows its content; a
// letter is typed out.
type Gifts struct {
	deps     Deps
	gen      int
	selected int
	open     int // index of the gift on display, -1 when closed
	opened   map[int]bool
	typer    typewriter
	view     viewport.Model
	keys     giftKeys
}

type giftKeys struct {
	Up    key.Binding
	Down  key.Binding
	Open  key.Binding
	Close key.Binding
	On    key.Binding
}

func NewGifts(d Deps) *Gifts {
	d = d.fill()
	return &Gifts{
		deps:  d,
		open:  -1,
		typer: newTypewriter(),
		view:  viewport.New(40, giftViewHeight),
		keys: giftKeys{
			Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
			Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
			Open:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "unwrap")),
			Close: key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "close")),
			On:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "continue")),
		},
	}
}

func (g *Gifts) ID() string    { return "gifts" }
func (g *Gifts) Title() string { return "Gifts" }

func (g *Gifts) Mount(gen int) tea.Cmd {
	g.gen = gen
	g.selected = 0
	g.open = -1
	g.opened = map[int]bool{}
	g.typer.stop()
	return nil
}

func (g *Gifts) Unmount() tea.Cmd {
	g.typer.stop()
	g.open = -1
	return nil
}

func (g *Gifts) Update(msg tea.Msg) tea.Cmd {
	if cmd, ok := g.typer.handle(msg); ok {
		g.refresh()
		return cmd
	}
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if g.open >= 0 {
			if key.Matches(msg, g.keys.Close) {
				g.Close()
				return nil
			}
			var cmd tea.Cmd
			g.view, cmd = g.view.Update(msg)
			return cmd
		}
		n := len(g.deps.Story.Gifts)
		switch {
		case key.Matches(msg, g.keys.Up):
			g.selected = (g.selected - 1 + n) % n
		case key.Matches(msg, g.keys.Down):
			g.selected = (g.selected + 1) % n
		case key.Matches(msg, g.keys.Open):
			return g.Open(g.selected)
		case key.Matches(msg, g.keys.On):
			return nav.AdvanceCmd
		}

	case tea.MouseMsg:
		if g.open >= 0 {
			var cmd tea.Cmd
			g.view, cmd = g.view.Update(msg)
			return cmd
		}

	case ClickMsg:
		var idx int
		if _, err := fmt.Sscanf(msg.Zone, "gift-%d", &idx); err == nil {
			g.selected = idx
			return g.Open(idx)
		}
		switch msg.Zone {
		case "close":
			g.Close()
		case "continue":
			return nav.AdvanceCmd
		}
	}
	return nil
}

// Open unwraps gift i and shows it.
func (g *Gifts) Open(i int) tea.Cmd {
	gifts := g.deps.Story.Gifts
	if i < 0 || i >= len(gifts) {
		return nil
	}
	g.open = i
	g.opened[gifts[i].ID] = true
	g.deps.Caps.Haptics.Pulse(playlist.PulseTrack)
	g.view.GotoTop()

	var cmd tea.Cmd
	if gifts[i].Kind == "letter" {
		cmd = g.typer.start(gifts[i].Content)
	} else {
		g.typer.stop()
	}
	g.refresh()
	return cmd
}

// Close puts the open gift away. It stays unwrapped.
func (g *Gifts) Close() {
	g.open = -1
	g.typer.stop()
}

func (g *Gifts) gift() story.Gift { return g.deps.Story.Gifts[g.open] }

func (g *Gifts) refresh() {
	if g.open < 0 {
		return
	}
	body := g.gift().Content
	if g.gift().Kind == "letter" {
		body = g.typer.String()
	}
	g.view.SetContent(wordwrap.String(body, g.view.Width))
}

func (g *Gifts) Opened(id int) bool { return g.opened[id] }
func (g *Gifts) OpenIndex() int     { return g.open }

// Content is the gift text currently visible, typed out for letters.
func (g *Gifts) Content() string {
	if g.open < 0 {
		return ""
	}
	if g.gift().Kind == "letter" {
		return g.typer.String()
	}
	return g.gift().Content
}

func (g *Gifts) View(f Frame) string {
	t := f.Theme
	width := f.ContentWidth()
	gifts := g.deps.Story.Gifts

	if g.open >= 0 {
		gift := g.gift()
		if w := width - 6; g.view.Width != w {
			g.view.Width = w
			g.refresh()
		}
		card := t.Card().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left,
			t.Title().UnsetMarginBottom().Render(giftIcons[gift.Kind]+" "+gift.Title),
			t.Subtitle().Render(gift.Description),
			"",
			g.view.View(),
		))
		return lipgloss.JoinVertical(lipgloss.Center,
			card,
			t.Hint().Render(fmt.Sprintf("%3.f%%", g.view.ScrollPercent()*100)),
			f.Mark("close", t.GhostButton().Render("✕ close")),
		)
	}

	rows := make([]string, len(gifts))
	for i, gift := range gifts {
		icon := "🎁"
		if g.opened[gift.ID] {
			icon = giftIcons[gift.Kind]
		}
		style := t.Body().Padding(0, 1)
		if i == g.selected {
			style = t.Selected()
		}
		rows[i] = f.Mark(fmt.Sprintf("gift-%d", i), style.Width(width-6).Render(icon+"  "+gift.Title))
	}

	count := 0
	for _, gift := range gifts {
		if g.opened[gift.ID] {
			count++
		}
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		t.Title().Render("Your Gift Basket 🧺"),
		t.Subtitle().Render(wordwrap.String("Each one was wrapped with love. Unwrap them all!", width)),
		t.Card().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...)),
		t.Hint().Render(fmt.Sprintf("%d of %d unwrapped", count, len(gifts))),
		f.Mark("continue", t.Button().Render("Something hidden awaits →")),
	)
}

func (g *Gifts) Zones() []string {
	z := []string{"close", "continue"}
	for i := range g.deps.Story.Gifts {
		z = append(z, fmt.Sprintf("gift-%d", i))
	}
	return z
}

func (g *Gifts) Keys() []key.Binding {
	if g.open >= 0 {
		return []key.Binding{g.view.KeyMap.Up, g.view.KeyMap.Down, g.keys.Close}
	}
	return []key.Binding{g.keys.Up, g.keys.Down, g.keys.Open, g.keys.On}
}
