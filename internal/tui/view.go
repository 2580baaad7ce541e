package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/truncate"

	"lovestory/internal/panels"
	"lovestory/internal/theme"
)

const (
	headerHeight    = 3
	statusBarHeight = 2
	panelPrefix     = "p-"
)

// Shell zone ids.
const (
	zonePrev          = "ls-prev"
	zoneNext          = "ls-next"
	zoneTheme         = "ls-theme"
	zoneMusic         = "ls-music"
	zoneSongPrev      = "ls-song-prev"
	zoneSongNext      = "ls-song-next"
	zoneMenu          = "ls-menu"
	zoneDot           = "ls-dot-"
	zoneItem          = "ls-item-"
	zoneInstall       = "ls-install"
	zoneInstallLater  = "ls-install-later"
	zoneNotifyAllow   = "ls-notify-allow"
	zoneNotifyLater   = "ls-notify-later"
	zoneAdvisoryClose = "ls-advisory-ok"
)

func (s *Shell) frame(t theme.Theme) panels.Frame {
	p := s.active()
	return panels.Frame{
		Width:  s.width,
		Height: s.bodyHeight(),
		Theme:  t,
		Zones:  s.zones,
		Prefix: panelPrefix + p.ID() + "-",
		Snap: panels.Snapshot{
			Section:   s.nav.Current(),
			Total:     s.nav.Len(),
			Dark:      s.dark,
			Playing:   s.playlist.Playing(),
			Track:     s.playlist.Current(),
			Recipient: s.cfg.Card.Recipient,
			Sender:    s.cfg.Card.Sender,
		},
	}
}

func (s *Shell) bodyHeight() int {
	h := s.height - headerHeight - statusBarHeight - len(s.bannerLines()) - 1
	return max(h, 1)
}

func (s *Shell) View() string {
	t := theme.For(s.dark)
	if s.width == 0 || s.height == 0 {
		return t.Title().Render(s.cfg.Card.Title) + "\nloading..."
	}

	body := s.active().View(s.frame(t))
	body = lipgloss.Place(s.width, s.bodyHeight(), lipgloss.Center, lipgloss.Center, body)
	body = clip(body, s.bodyHeight())
	body = shift(body, int(s.slidePos), s.width)

	sections := []string{s.renderHeader(t), body}
	sections = append(sections, s.bannerLines()...)
	sections = append(sections, s.renderNotice(t), s.renderStatusBar(t))

	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	view = t.Base().Width(s.width).Height(s.height).Render(view)
	view = s.drawHearts(view, t)
	view = s.drawSparkles(view, t)

	switch {
	case s.advisory != "":
		view = centerOverlay(view, s.renderAdvisory(t), s.width, s.height)
	case s.showHelp:
		view = centerOverlay(view, s.renderHelp(t), s.width, s.height)
	case s.menuOpen:
		view = centerOverlay(view, s.renderMenu(t), s.width, s.height)
	}
	return s.zones.Scan(view)
}

func (s *Shell) renderHeader(t theme.Theme) string {
	title := t.Title().UnsetMarginBottom().Render("💕 " + s.cfg.Card.Title)

	count := s.remaining.Format()
	if s.remaining.Arrived {
		count = "Happy Girlfriend Day! 🎉"
	}
	countdown := t.Star().Render("⏳ " + count)
	if s.cfg.Countdown.Label != "" && !s.remaining.Arrived {
		countdown += t.Subtitle().Render("  " + s.cfg.Countdown.Label)
	}

	themeGlyph := "☾"
	if s.dark {
		themeGlyph = "☀"
	}
	musicGlyph := "♪"
	if s.playlist.Playing() {
		musicGlyph = "⏸"
	}
	controls := lipgloss.JoinHorizontal(lipgloss.Center,
		s.zones.Mark(zoneTheme, t.Heart().Render(" "+themeGlyph+" ")),
		s.zones.Mark(zoneMusic, t.Heart().Render(" "+musicGlyph+" ")),
		s.zones.Mark(zoneMenu, t.Heart().Render(" ☰ ")),
	)

	gap := s.width - lipgloss.Width(title) - lipgloss.Width(controls) - 2
	top := title + strings.Repeat(" ", max(gap, 1)) + controls

	dots := make([]string, s.nav.Len())
	for i := range dots {
		dot := t.Hint().UnsetMarginTop().Render("○")
		if i == s.nav.Current() {
			dot = t.Heart().Render("●")
		}
		dots[i] = s.zones.Mark(fmt.Sprintf("%s%d", zoneDot, i), dot)
	}
	s.navBar.Width = max(s.width/4, 10)
	navLine := lipgloss.JoinHorizontal(lipgloss.Center,
		s.zones.Mark(zonePrev, t.Heart().Render("◀ ")),
		strings.Join(dots, " "),
		s.zones.Mark(zoneNext, t.Heart().Render(" ▶")),
		"  ",
		t.Body().Render(s.nav.Section().Name),
		"  ",
		s.navBar.ViewAs(s.nav.Progress()),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		" "+top,
		" "+countdown,
		lipgloss.PlaceHorizontal(s.width, lipgloss.Center, navLine),
	)
}

func (s *Shell) bannerLines() []string {
	t := theme.For(s.dark)
	var lines []string
	if !s.online {
		lines = append(lines, lipgloss.PlaceHorizontal(s.width, lipgloss.Center,
			t.Bad().Render("⚠ You're offline. Cached memories still work.")))
	}
	if s.installBanner {
		lines = append(lines, lipgloss.PlaceHorizontal(s.width, lipgloss.Center, lipgloss.JoinHorizontal(lipgloss.Center,
			t.Body().Render("⬇ Install Love Story for quick access  "),
			s.zones.Mark(zoneInstallLater, t.Hint().UnsetMarginTop().Render("later")),
			"  ",
			s.zones.Mark(zoneInstall, t.Button().Render("i install")),
		)))
	}
	if s.notifyPrompt {
		lines = append(lines, lipgloss.PlaceHorizontal(s.width, lipgloss.Center, lipgloss.JoinHorizontal(lipgloss.Center,
			t.Body().Render("🔔 Gentle reminders about special dates?  "),
			s.zones.Mark(zoneNotifyLater, t.Hint().UnsetMarginTop().Render("maybe later")),
			"  ",
			s.zones.Mark(zoneNotifyAllow, t.Button().Render("n allow")),
		)))
	}
	return lines
}

func (s *Shell) renderNotice(t theme.Theme) string {
	if s.notice == "" {
		return ""
	}
	return lipgloss.PlaceHorizontal(s.width, lipgloss.Center, t.Star().Render(s.notice))
}

func (s *Shell) renderStatusBar(t theme.Theme) string {
	frames := spinnerFrames(s.dark)
	spin := spinnerIdle(s.dark)
	state := lipgloss.NewStyle().Foreground(t.Muted).Render("PAUSED")
	if s.playlist.Playing() {
		spin = frames[s.spin%len(frames)]
		state = lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render("PLAYING")
	}

	track := s.playlist.Current()
	label := truncate.StringWithTail(track.Title+" · "+track.Artist, uint(max(s.width/3, 12)), "…")
	s.trackBar.Width = max(s.width/5, 8)

	bar := lipgloss.JoinHorizontal(lipgloss.Center,
		spin,
		" ",
		state,
		"  ",
		s.zones.Mark(zoneSongPrev, t.Heart().Render("⏮")),
		" ",
		t.Body().Render(label),
		" ",
		s.zones.Mark(zoneSongNext, t.Heart().Render("⏭")),
		"  ",
		s.trackBar.ViewAs(s.playlist.Progress()),
		"  ",
		t.Hint().UnsetMarginTop().Render(fmt.Sprintf("%d/%d", s.playlist.Index()+1, s.playlist.Len())),
	)
	hints := s.help.View(helpKeys{shell: s.keys})
	return lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.PlaceHorizontal(s.width, lipgloss.Center, bar),
		lipgloss.PlaceHorizontal(s.width, lipgloss.Center, hints),
	)
}

func (s *Shell) renderAdvisory(t theme.Theme) string {
	return modalStyle(t).Render(lipgloss.JoinVertical(lipgloss.Center,
		t.Bad().Render("🎙 "+s.advisory),
		"",
		s.zones.Mark(zoneAdvisoryClose, t.Button().Render("OK")),
	))
}

func (s *Shell) renderHelp(t theme.Theme) string {
	h := s.help
	h.ShowAll = true
	return modalStyle(t).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Title().Render("Keys"),
		h.View(helpKeys{shell: s.keys, panel: s.active().Keys()}),
	))
}

func (s *Shell) renderMenu(t theme.Theme) string {
	rows := make([]string, s.nav.Len())
	for i, name := range s.nav.Names() {
		label := fmt.Sprintf("%d  %s", i+1, name)
		style := t.Body().Padding(0, 1)
		if i == s.menuCursor {
			style = t.Selected()
		}
		if i == s.nav.Current() {
			label += " ♥"
		}
		rows[i] = s.zones.Mark(fmt.Sprintf("%s%d", zoneItem, i), style.Width(22).Render(label))
	}
	return modalStyle(t).Render(lipgloss.JoinVertical(lipgloss.Left,
		t.Title().Render("Sections"),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	))
}

// clip drops lines past height so a tall panel cannot push the status bar
// off screen.
func clip(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= height {
		return s
	}
	return strings.Join(lines[:height], "\n")
}

func modalStyle(t theme.Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Accent).
		Background(t.Surface).
		Foreground(t.Text).
		Padding(1, 3)
}

// drawHearts paints the drifting hearts onto blank cells of the body.
func (s *Shell) drawHearts(view string, t theme.Theme) string {
	if len(s.hearts) == 0 {
		return view
	}
	lines := strings.Split(view, "\n")
	style := lipgloss.NewStyle().Foreground(t.Soft).Background(t.Background)
	for _, h := range s.hearts {
		y := headerHeight + int(h.y)
		if y < headerHeight || y >= len(lines) {
			continue
		}
		cell := xansi.Strip(xansi.Cut(lines[y], h.x, h.x+1))
		if cell != " " {
			continue
		}
		lines[y] = strings.Split(overlay(lines[y], style.Render(h.glyph), s.width, h.x, 0), "\n")[0]
	}
	return strings.Join(lines, "\n")
}

func (s *Shell) drawSparkles(view string, t theme.Theme) string {
	style := lipgloss.NewStyle().Foreground(t.Gold).Background(t.Background)
	for _, sp := range s.sparkles {
		view = overlay(view, style.Render("✦"), s.width, sp.x, sp.y)
	}
	return view
}

type spinnerPalette struct {
	bright lipgloss.Color
	mid    lipgloss.Color
	dim    lipgloss.Color
}

func buildSpinnerFrames(palette spinnerPalette) []string {
	// A 2x2 grid with a bright block chasing a mid one.
	frames := make([]string, 4)
	for i := 0; i < 4; i++ {
		colors := [4]lipgloss.Color{
			palette.dim,
			palette.dim,
			palette.dim,
			palette.dim,
		}
		colors[i] = palette.bright
		colors[(i+1)%4] = palette.mid
		frames[i] = renderSpinnerGrid(colors)
	}
	return frames
}

func buildDimSpinnerFrame(dimColor lipgloss.Color) string {
	colors := [4]lipgloss.Color{dimColor, dimColor, dimColor, dimColor}
	return renderSpinnerGrid(colors)
}

func renderSpinnerGrid(colors [4]lipgloss.Color) string {
	left := lipgloss.NewStyle().
		Foreground(colors[0]).
		Background(colors[3]).
		Render("▀")
	right := lipgloss.NewStyle().
		Foreground(colors[1]).
		Background(colors[2]).
		Render("▀")
	return left + right
}

var (
	lightSpinner = buildSpinnerFrames(spinnerPalette{
		bright: theme.Light.Accent,
		mid:    theme.Light.Soft,
		dim:    lipgloss.Color("#f3d5e3"),
	})
	darkSpinner = buildSpinnerFrames(spinnerPalette{
		bright: theme.Dark.Accent,
		mid:    theme.Dark.Soft,
		dim:    lipgloss.Color("#3b2430"),
	})
	lightIdle = buildDimSpinnerFrame(lipgloss.Color("#e9c6d6"))
	darkIdle  = buildDimSpinnerFrame(lipgloss.Color("#3b2430"))
)

func spinnerFrames(dark bool) []string {
	if dark {
		return darkSpinner
	}
	return lightSpinner
}

func spinnerIdle(dark bool) string {
	if dark {
		return darkIdle
	}
	return lightIdle
}
