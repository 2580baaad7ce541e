package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovestory/internal/capability"
	"lovestory/internal/config"
	"lovestory/internal/countdown"
	"lovestory/internal/nav"
	"lovestory/internal/panels"
)

type recordingPulser struct{ pulses []time.Duration }

func (p *recordingPulser) Pulse(d time.Duration) { p.pulses = append(p.pulses, d) }

type fakeInstaller struct{ installed bool }

func (f *fakeInstaller) Available() bool { return !f.installed }
func (f *fakeInstaller) Install(context.Context) error {
	f.installed = true
	return nil
}

var fixedNow = time.Date(2025, time.August, 10, 12, 0, 0, 0, time.Local)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Theme.Mode = "light"
	cfg.Capabilities.InstallPath = ""
	return cfg
}

func newShell(t *testing.T, cfg *config.Config, caps capability.Set) *Shell {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	s := New(Options{
		Config: cfg,
		Caps:   caps,
		Clock:  func() time.Time { return fixedNow },
		Seed:   7,
	})
	t.Cleanup(s.Close)
	s.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return s
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func send(t *testing.T, s *Shell, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := s.Update(msg)
	return cmd
}

// request delivers msg and applies the navigation request it produces.
func request(t *testing.T, s *Shell, msg tea.Msg) {
	t.Helper()
	cmd := send(t, s, msg)
	require.NotNil(t, cmd)
	req, ok := cmd().(nav.RequestMsg)
	require.True(t, ok, "expected a navigation request")
	s.Update(req)
}

func TestKeyboardNavigation(t *testing.T) {
	p := &recordingPulser{}
	s := newShell(t, nil, capability.Set{Haptics: p})

	request(t, s, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, s.Section())

	request(t, s, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, 2, s.Section())

	request(t, s, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, s.Section())

	assert.Equal(t, []time.Duration{nav.PulseNavigate, nav.PulseNavigate, nav.PulseNavigate}, p.pulses)
}

func TestRetreatFromFirstWraps(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	request(t, s, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, len(nav.Sections)-1, s.Section())
}

func TestDigitJumps(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	request(t, s, runes("5"))
	assert.Equal(t, 4, s.Section())
}

func TestOutOfRangeRequestIgnored(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	cmd := send(t, s, nav.RequestMsg{Kind: nav.RequestGoTo, Index: 42})
	assert.Nil(t, cmd)
	assert.Equal(t, 0, s.Section())
}

func TestThemeToggle(t *testing.T) {
	p := &recordingPulser{}
	s := newShell(t, nil, capability.Set{Haptics: p})
	require.False(t, s.Dark())

	send(t, s, runes("d"))
	assert.True(t, s.Dark())
	send(t, s, runes("D"))
	assert.False(t, s.Dark())
	assert.Equal(t, []time.Duration{pulseTheme, pulseTheme}, p.pulses)
}

func TestHapticsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Navigation.Haptics = false
	p := &recordingPulser{}
	s := newShell(t, cfg, capability.Set{Haptics: p})

	request(t, s, tea.KeyMsg{Type: tea.KeyRight})
	send(t, s, runes("d"))
	send(t, s, runes("]"))
	send(t, s, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	send(t, s, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionRelease})
	assert.Empty(t, p.pulses)
}

func TestMusicControls(t *testing.T) {
	s := newShell(t, nil, capability.Set{})

	assert.NotNil(t, send(t, s, runes("m")))
	assert.True(t, s.Playing())
	assert.Nil(t, send(t, s, runes("M")))
	assert.False(t, s.Playing())

	send(t, s, runes("["))
	assert.Equal(t, s.playlist.Len()-1, s.Track())
	send(t, s, runes("]"))
	send(t, s, runes("]"))
	assert.Equal(t, 1, s.Track())
}

func TestPlaybackProgressAdvances(t *testing.T) {
	cfg := testConfig()
	cfg.Playback.Tick = config.Duration{Duration: time.Millisecond}
	cfg.Playback.TrackLength = config.Duration{Duration: 4 * time.Millisecond}
	s := newShell(t, cfg, capability.Set{})

	tick := send(t, s, runes("m"))
	require.NotNil(t, tick)
	next := send(t, s, tick())
	assert.NotNil(t, next)
	assert.InDelta(t, 0.25, s.playlist.Progress(), 1e-9)

	send(t, s, runes("m"))
	assert.Nil(t, send(t, s, next()), "tick after pause is dropped")
	assert.InDelta(t, 0.25, s.playlist.Progress(), 1e-9)
}

func TestAdvisoryBlocksUntilDismissed(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	send(t, s, panels.AdvisoryMsg{Text: panels.MicrophoneAdvisory})
	require.Equal(t, panels.MicrophoneAdvisory, s.Advisory())

	assert.Nil(t, send(t, s, tea.KeyMsg{Type: tea.KeyRight}))
	assert.Equal(t, 0, s.Section())

	send(t, s, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, s.Advisory())

	request(t, s, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, s.Section())
}

func TestMenuSelectsSection(t *testing.T) {
	s := newShell(t, nil, capability.Set{})

	send(t, s, tea.KeyMsg{Type: tea.KeyTab})
	require.True(t, s.MenuOpen())
	send(t, s, tea.KeyMsg{Type: tea.KeyDown})
	send(t, s, tea.KeyMsg{Type: tea.KeyDown})
	request(t, s, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, s.MenuOpen())
	assert.Equal(t, 2, s.Section())
}

func TestNoticeExpires(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	send(t, s, panels.NoticeMsg{Text: "one"})
	send(t, s, panels.NoticeMsg{Text: "two"})

	send(t, s, noticeDoneMsg{seq: 1})
	assert.Equal(t, "two", s.Notice(), "an older timer does not clear a newer notice")
	send(t, s, noticeDoneMsg{seq: 2})
	assert.Empty(t, s.Notice())
}

func TestOfflineBanner(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	before := s.bodyHeight()

	send(t, s, connectivityMsg{online: false})
	assert.False(t, s.Online())
	assert.Len(t, s.bannerLines(), 1)
	assert.Equal(t, before-1, s.bodyHeight())

	send(t, s, connectivityMsg{online: true})
	assert.Empty(t, s.bannerLines())
}

func TestInstallBanner(t *testing.T) {
	inst := &fakeInstaller{}
	precached := false
	s := New(Options{
		Config: testConfig(),
		Caps:   capability.Set{Installer: inst},
		Clock:  func() time.Time { return fixedNow },
		OnInstall: func(context.Context) error {
			precached = true
			return nil
		},
	})
	t.Cleanup(s.Close)
	require.True(t, s.installBanner)

	cmd := send(t, s, runes("i"))
	require.NotNil(t, cmd)
	send(t, s, cmd())

	assert.True(t, inst.installed)
	assert.True(t, precached)
	assert.False(t, s.installBanner)
	assert.Equal(t, "Installed 💕", s.Notice())
}

func TestCountdownComputedAtStart(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	target, err := s.cfg.TargetTime(fixedNow)
	require.NoError(t, err)
	assert.Equal(t, countdown.Compute(target, fixedNow), s.Remaining())
	assert.Equal(t, 6, s.Remaining().Days)
	assert.Equal(t, 12, s.Remaining().Hours)
}

func TestSwipeNavigates(t *testing.T) {
	s := newShell(t, nil, capability.Set{})

	send(t, s, tea.MouseMsg{X: 60, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	send(t, s, tea.MouseMsg{X: 45, Y: 11, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	cmd := send(t, s, tea.MouseMsg{X: 30, Y: 11, Action: tea.MouseActionRelease})
	require.NotNil(t, cmd)
	send(t, s, cmd())
	assert.Equal(t, 1, s.Section(), "swipe left advances")

	send(t, s, tea.MouseMsg{X: 30, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	cmd = send(t, s, tea.MouseMsg{X: 50, Y: 10, Action: tea.MouseActionRelease})
	require.NotNil(t, cmd)
	send(t, s, cmd())
	assert.Equal(t, 0, s.Section(), "swipe right retreats")
}

func TestTapLeavesSparkle(t *testing.T) {
	s := newShell(t, nil, capability.Set{})

	send(t, s, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	send(t, s, tea.MouseMsg{X: 12, Y: 10, Action: tea.MouseActionRelease})
	assert.Equal(t, 0, s.Section(), "a short drag is a tap")
	require.Len(t, s.sparkles, 1)

	send(t, s, sparkleDoneMsg{id: s.sparkles[0].id})
	assert.Empty(t, s.sparkles)
}

func TestTapPulses(t *testing.T) {
	p := &recordingPulser{}
	s := newShell(t, nil, capability.Set{Haptics: p})

	send(t, s, tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	send(t, s, tea.MouseMsg{X: 11, Y: 10, Action: tea.MouseActionRelease})
	require.NotEmpty(t, p.pulses)
	assert.Equal(t, pulseTap, p.pulses[0])
}

func TestSparklesCapped(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	for i := 0; i < maxSparkles+3; i++ {
		s.addSparkle(i, i)
	}
	assert.Len(t, s.sparkles, maxSparkles)
	assert.Equal(t, maxSparkles+3, s.sparkles[len(s.sparkles)-1].id)
}

func TestClickZones(t *testing.T) {
	s := newShell(t, nil, capability.Set{})

	s.click(zoneTheme, 0)
	assert.True(t, s.Dark())

	msg := s.click(zoneDot+"3", 0)()
	assert.Equal(t, nav.RequestMsg{Kind: nav.RequestGoTo, Index: 3}, msg)

	msg = s.click(panelPrefix+"hero-begin", 0)()
	assert.Equal(t, nav.RequestMsg{Kind: nav.RequestAdvance}, msg)

	s.click(zoneMenu, 0)
	assert.True(t, s.MenuOpen())
	s.click("", 0)
	assert.False(t, s.MenuOpen())
}

func TestLeavingSectionStopsItsTimers(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	request(t, s, runes("7"))

	carousel := s.panels[6].(*panels.Carousel)
	require.True(t, carousel.Autoplay())

	request(t, s, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 0, s.Section())
	assert.False(t, carousel.Autoplay())
}

func TestPanelKeysReachActivePanel(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	request(t, s, runes("2"))

	send(t, s, runes("h"))
	tl := s.panels[1].(*panels.Timeline)
	assert.Equal(t, 1, tl.Reactions(tl.Current()+1))
}

func TestView(t *testing.T) {
	s := newShell(t, nil, capability.Set{})
	out := s.View()
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "Our Love Story")

	send(t, s, panels.AdvisoryMsg{Text: panels.MicrophoneAdvisory})
	assert.Contains(t, s.View(), "Unable to access microphone")

	lines := strings.Split(s.View(), "\n")
	assert.LessOrEqual(t, len(lines), 40)
}

func TestViewBeforeSize(t *testing.T) {
	s := New(Options{Config: testConfig()})
	t.Cleanup(s.Close)
	assert.Contains(t, s.View(), "loading")
}
