package tui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lovestory/internal/gesture"
	"lovestory/internal/nav"
	"lovestory/internal/panels"
	"lovestory/internal/schedule"
)

// handleMouse turns pointer events into swipes and taps. A drag past the
// swipe threshold navigates; anything shorter is a tap on whatever zone lies
// under the release point.
func (s *Shell) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if s.modal() {
			return nil
		}
		return s.active().Update(msg)
	}

	p := gesture.Point{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		s.swipe.Start(p)
		s.pressAt = s.clock()

	case tea.MouseActionMotion:
		s.swipe.Move(p)

	case tea.MouseActionRelease:
		if !s.swipe.Active() {
			return nil
		}
		s.swipe.Move(p)
		held := s.clock().Sub(s.pressAt)

		s.pending = nil
		if s.swipe.End() != gesture.None {
			cmd := s.pending
			s.pending = nil
			if s.modal() {
				return nil
			}
			return cmd
		}
		return tea.Batch(s.addSparkle(msg.X, msg.Y), s.click(s.zoneAt(msg), held))
	}
	return nil
}

func (s *Shell) modal() bool { return s.advisory != "" || s.menuOpen || s.showHelp }

// zoneAt finds the zone under msg, checking modal zones first, then the
// shell's chrome, then the active panel.
func (s *Shell) zoneAt(msg tea.MouseMsg) string {
	for _, id := range s.zoneIDs() {
		if z := s.zones.Get(id); z != nil && z.InBounds(msg) {
			return id
		}
	}
	return ""
}

func (s *Shell) zoneIDs() []string {
	switch {
	case s.advisory != "":
		return []string{zoneAdvisoryClose}
	case s.showHelp:
		return nil
	case s.menuOpen:
		ids := make([]string, s.nav.Len())
		for i := range ids {
			ids[i] = zoneItem + strconv.Itoa(i)
		}
		return ids
	}

	ids := []string{
		zonePrev, zoneNext, zoneTheme, zoneMusic, zoneSongPrev, zoneSongNext, zoneMenu,
		zoneInstall, zoneInstallLater, zoneNotifyAllow, zoneNotifyLater,
	}
	for i := 0; i < s.nav.Len(); i++ {
		ids = append(ids, zoneDot+strconv.Itoa(i))
	}
	prefix := panelPrefix + s.active().ID() + "-"
	for _, id := range s.active().Zones() {
		ids = append(ids, prefix+id)
	}
	return ids
}

// click runs the action behind zone id. An empty id is a tap on nothing,
// which closes an open menu or help.
func (s *Shell) click(id string, held time.Duration) tea.Cmd {
	switch {
	case id == "":
		s.menuOpen = false
		s.showHelp = false
		return nil
	case id == zoneAdvisoryClose:
		s.advisory = ""
		return nil
	case s.advisory != "":
		return nil
	case strings.HasPrefix(id, zoneItem):
		i, _ := strconv.Atoi(strings.TrimPrefix(id, zoneItem))
		s.menuOpen = false
		return nav.GoToCmd(i)
	case strings.HasPrefix(id, zoneDot):
		i, _ := strconv.Atoi(strings.TrimPrefix(id, zoneDot))
		return nav.GoToCmd(i)
	}

	switch id {
	case zonePrev:
		return nav.RetreatCmd
	case zoneNext:
		return nav.AdvanceCmd
	case zoneTheme:
		s.ToggleTheme()
	case zoneMusic:
		return s.TogglePlay()
	case zoneSongPrev:
		s.playlist.Prev()
	case zoneSongNext:
		s.playlist.Next()
	case zoneMenu:
		s.menuOpen = !s.menuOpen
		s.menuCursor = s.nav.Current()
	case zoneInstall:
		return s.install()
	case zoneInstallLater:
		s.installBanner = false
	case zoneNotifyAllow:
		return s.allowNotifications()
	case zoneNotifyLater:
		s.notifyPrompt = false
	default:
		prefix := panelPrefix + s.active().ID() + "-"
		if strings.HasPrefix(id, prefix) {
			return s.active().Update(panels.ClickMsg{Zone: strings.TrimPrefix(id, prefix), Held: held})
		}
	}
	return nil
}

func (s *Shell) addSparkle(x, y int) tea.Cmd {
	s.caps.Haptics.Pulse(pulseTap)
	s.sparkleID++
	s.sparkles = append(s.sparkles, sparkle{id: s.sparkleID, x: x, y: y})
	if n := len(s.sparkles); n > maxSparkles {
		s.sparkles = s.sparkles[n-maxSparkles:]
	}
	return schedule.Once(s.cfg.Ambient.Sparkle.Duration, sparkleDoneMsg{id: s.sparkleID})
}
