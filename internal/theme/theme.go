// Package theme holds the card's light and dark palettes and the lipgloss
// styles derived from them.
package theme

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is one palette. Edit Light and Dark to restyle the card.
type Theme struct {
	Name       string
	Accent     lipgloss.Color // headings, hearts, active dot
	Soft       lipgloss.Color // secondary accent, borders
	Muted      lipgloss.Color // hints, inactive dots
	Text       lipgloss.Color
	Background lipgloss.Color
	Surface    lipgloss.Color // cards and modals
	SelectedBg lipgloss.Color
	Success    lipgloss.Color
	Error      lipgloss.Color
	Gold       lipgloss.Color
}

var Light = Theme{
	Name:       "light",
	Accent:     lipgloss.Color("#db2777"),
	Soft:       lipgloss.Color("#f9a8d4"),
	Muted:      lipgloss.Color("#9d7a8c"),
	Text:       lipgloss.Color("#3f2a36"),
	Background: lipgloss.Color("#fff1f5"),
	Surface:    lipgloss.Color("#ffffff"),
	SelectedBg: lipgloss.Color("#fce7f3"),
	Success:    lipgloss.Color("#15803d"),
	Error:      lipgloss.Color("#b91c1c"),
	Gold:       lipgloss.Color("#ca8a04"),
}

var Dark = Theme{
	Name:       "dark",
	Accent:     lipgloss.Color("#f472b6"),
	Soft:       lipgloss.Color("#9d174d"),
	Muted:      lipgloss.Color("#8b7380"),
	Text:       lipgloss.Color("#f5e8ee"),
	Background: lipgloss.Color("#1c1117"),
	Surface:    lipgloss.Color("#2a1a22"),
	SelectedBg: lipgloss.Color("#4a1d33"),
	Success:    lipgloss.Color("#4ade80"),
	Error:      lipgloss.Color("#f87171"),
	Gold:       lipgloss.Color("#facc15"),
}

// For returns the dark or light palette.
func For(dark bool) Theme {
	if dark {
		return Dark
	}
	return Light
}

// DetectDark resolves a configured mode ("light", "dark" or "auto") to the
// initial dark flag. Auto asks the terminal for its background colour.
func DetectDark(mode string) bool {
	switch mode {
	case "dark":
		return true
	case "light":
		return false
	}
	return termenv.HasDarkBackground()
}

func (t Theme) Base() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text).Background(t.Background)
}

func (t Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1)
}

func (t Theme) Subtitle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted).Italic(true)
}

func (t Theme) Body() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text)
}

func (t Theme) Hint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1)
}

// Card is a rounded bordered box, the terminal stand-in for the polaroid
// and glass cards.
func (t Theme) Card() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Soft).
		Padding(1, 2)
}

func (t Theme) Selected() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Text).Background(t.SelectedBg).Bold(true).Padding(0, 1)
}

func (t Theme) Button() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Surface).Background(t.Accent).Bold(true).Padding(0, 2)
}

func (t Theme) GhostButton() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Accent).Border(lipgloss.RoundedBorder()).BorderForeground(t.Soft).Padding(0, 1)
}

func (t Theme) Good() lipgloss.Style  { return lipgloss.NewStyle().Foreground(t.Success).Bold(true) }
func (t Theme) Bad() lipgloss.Style   { return lipgloss.NewStyle().Foreground(t.Error).Bold(true) }
func (t Theme) Heart() lipgloss.Style { return lipgloss.NewStyle().Foreground(t.Accent) }
func (t Theme) Star() lipgloss.Style  { return lipgloss.NewStyle().Foreground(t.Gold) }
