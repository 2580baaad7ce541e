package tui

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"lovestory/internal/capability"
	"lovestory/internal/config"
	"lovestory/internal/countdown"
	"lovestory/internal/gesture"
	"lovestory/internal/nav"
	"lovestory/internal/panels"
	"lovestory/internal/playlist"
	"lovestory/internal/schedule"
	"lovestory/internal/story"
	"lovestory/internal/theme"
)

const (
	pulseTheme     = 30 * time.Millisecond
	pulseTap       = 25 * time.Millisecond
	noticeLength   = 3 * time.Second
	welcomeDelay   = 2 * time.Second
	probeTimeout   = 3 * time.Second
	installTimeout = time.Minute
	slideDistance  = 16.0
	frameRate      = time.Second / 60
)

const welcomeBody = "Thanks for allowing notifications! I'll remind you of special moments."

// Options configure a Shell.
type Options struct {
	Config *config.Config
	Story  *story.Story
	Caps   capability.Set
	Log    *zap.Logger
	// Clock is replaced in tests.
	Clock func() time.Time
	// Seed fixes the hearts' random drift; zero picks one from the clock.
	Seed uint64
	// OnInstall runs after a successful install from the banner, e.g. to
	// precache assets.
	OnInstall func(context.Context) error
}

// Shell is the card's root model. It owns the section index, the playlist,
// the theme flag and every ambient decoration, and hosts the active panel.
type Shell struct {
	cfg       *config.Config
	log       *zap.Logger
	clock     func() time.Time
	caps      capability.Set
	story     *story.Story
	onInstall func(context.Context) error

	nav      *nav.Navigator
	playlist *playlist.Playlist
	panels   []panels.Panel
	gen      int

	dark bool

	target    time.Time
	remaining countdown.Remaining

	clockTask  schedule.Task
	playTask   schedule.Task
	heartsTask schedule.Task
	connTask   schedule.Task
	slideTask  schedule.Task

	hearts    []heart
	sparkles  []sparkle
	sparkleID int
	rng       *rand.Rand

	spring   harmonica.Spring
	slidePos float64
	slideVel float64

	installBanner bool
	online        bool
	notifyPrompt  bool

	advisory  string
	notice    string
	noticeSeq int

	menuOpen   bool
	menuCursor int
	showHelp   bool

	keys     keyMap
	help     help.Model
	navBar   progress.Model
	trackBar progress.Model
	zones    *zone.Manager
	swipe    *gesture.Detector
	pending  tea.Cmd
	pressAt  time.Time
	spin     int

	width  int
	height int
}

type (
	connectivityMsg struct{ online bool }
	notifyPromptMsg struct{}
	welcomeMsg      struct{}
	installDoneMsg  struct{ err error }
	noticeDoneMsg   struct{ seq int }
	notifiedMsg     struct{ err error }
)

// New builds a shell positioned on the first section.
func New(opts Options) *Shell {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	st := opts.Story
	if st == nil {
		st = story.Default()
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(clock().UnixNano())
	}
	caps := opts.Caps.Fill()
	if !cfg.Navigation.Haptics {
		caps.Haptics = capability.NoHaptics{}
	}

	s := &Shell{
		cfg:       cfg,
		log:       log,
		clock:     clock,
		caps:      caps,
		story:     st,
		onInstall: opts.OnInstall,
		nav:       nav.New(nav.Sections, caps.Haptics),
		playlist:  playlist.New(st.Playlist, caps.Haptics),
		gen:       1,
		dark:      theme.DetectDark(cfg.Theme.Mode),
		online:    true,

		clockTask:  schedule.New(time.Second),
		playTask:   schedule.New(cfg.Playback.Tick.Duration),
		heartsTask: schedule.New(cfg.Ambient.HeartsInterval.Duration),
		connTask:   schedule.New(cfg.Capabilities.ConnectivityInterval.Duration),
		slideTask:  schedule.New(frameRate),

		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
		spring: harmonica.NewSpring(harmonica.FPS(60), 10.0, 0.8),

		installBanner: caps.Installer.Available(),

		keys:     defaultKeys(),
		help:     help.New(),
		navBar:   progress.New(progress.WithGradient("#f9a8d4", "#db2777"), progress.WithoutPercentage()),
		trackBar: progress.New(progress.WithSolidFill("#db2777"), progress.WithoutPercentage()),
		zones:    zone.New(),
	}
	s.swipe = gesture.New(cfg.Navigation.SwipeThreshold, gesture.Handlers{
		OnLeft:  func() { s.pending = nav.AdvanceCmd },
		OnRight: func() { s.pending = nav.RetreatCmd },
	})

	target, err := cfg.TargetTime(clock())
	if err != nil {
		log.Warn("countdown target", zap.Error(err))
		target = countdown.NextAnnual(clock(), time.August, 17)
	}
	s.target = target
	s.remaining = countdown.Compute(target, clock())

	s.panels = panels.All(panels.Deps{
		Story:            st,
		Caps:             caps,
		Log:              log.Named("panels"),
		Clock:            clock,
		CarouselInterval: cfg.Carousel.Interval.Duration,
	})
	return s
}

func (s *Shell) Init() tea.Cmd {
	cmds := []tea.Cmd{s.active().Mount(s.gen)}

	var cmd tea.Cmd
	s.clockTask, cmd = s.clockTask.Start()
	cmds = append(cmds, cmd)

	if s.cfg.Ambient.Hearts > 0 {
		s.heartsTask, cmd = s.heartsTask.Start()
		cmds = append(cmds, cmd)
	}
	if s.cfg.Capabilities.ConnectivityInterval.Duration > 0 {
		s.connTask, cmd = s.connTask.Start()
		cmds = append(cmds, cmd, s.probeOnline())
	}
	if s.caps.Notifier.Available() {
		cmds = append(cmds, schedule.Once(s.cfg.Capabilities.NotificationDelay.Duration, notifyPromptMsg{}))
	}
	return tea.Batch(cmds...)
}

func (s *Shell) active() panels.Panel { return s.panels[s.nav.Current()] }

func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		s.help.Width = msg.Width
		s.resetHearts()
		return s, nil

	case tea.KeyMsg:
		return s, s.handleKey(msg)

	case tea.MouseMsg:
		return s, s.handleMouse(msg)

	case nav.RequestMsg:
		tr, err := msg.Apply(s.nav)
		if err != nil {
			s.log.Warn("navigation rejected", zap.Int("index", msg.Index), zap.Error(err))
			return s, nil
		}
		return s, s.transition(tr)

	case panels.AdvisoryMsg:
		s.advisory = msg.Text
		return s, nil

	case panels.NoticeMsg:
		return s, s.showNotice(msg.Text)

	case noticeDoneMsg:
		if msg.seq == s.noticeSeq {
			s.notice = ""
		}
		return s, nil

	case sparkleDoneMsg:
		for i, sp := range s.sparkles {
			if sp.id == msg.id {
				s.sparkles = append(s.sparkles[:i], s.sparkles[i+1:]...)
				break
			}
		}
		return s, nil

	case connectivityMsg:
		if msg.online != s.online {
			s.log.Info("connectivity changed", zap.Bool("online", msg.online))
		}
		s.online = msg.online
		return s, nil

	case notifyPromptMsg:
		s.notifyPrompt = s.caps.Notifier.Available()
		return s, nil

	case welcomeMsg:
		return s, s.sendWelcome()

	case notifiedMsg:
		if msg.err != nil {
			s.log.Debug("welcome notification", zap.Error(msg.err))
		}
		return s, nil

	case installDoneMsg:
		s.installBanner = false
		if msg.err != nil {
			s.log.Warn("install failed", zap.Error(msg.err))
			return s, nil
		}
		return s, s.showNotice("Installed 💕")

	case schedule.TickMsg:
		if cmd, ok := s.handleTick(msg); ok {
			return s, cmd
		}
	}
	return s, s.broadcast(msg)
}

// broadcast hands msg to every panel. Inactive panels only react to their
// own stale async results, which they use to release resources.
func (s *Shell) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range s.panels {
		cmds = append(cmds, p.Update(msg))
	}
	return tea.Batch(cmds...)
}

func (s *Shell) handleTick(msg schedule.TickMsg) (tea.Cmd, bool) {
	switch {
	case s.clockTask.Owns(msg):
		s.remaining = countdown.Compute(s.target, s.clock())
		return s.clockTask.Next(), true

	case s.playTask.Owns(msg):
		s.spin = (s.spin + 1) % len(spinnerFrames(s.dark))
		delta := float64(s.cfg.Playback.Tick.Duration) / float64(s.cfg.Playback.TrackLength.Duration)
		if s.playlist.Advance(delta) {
			s.log.Debug("track finished", zap.String("next", s.playlist.Current().Title))
		}
		return s.playTask.Next(), true

	case s.heartsTask.Owns(msg):
		driftHearts(s.hearts, s.rng, s.width, s.bodyHeight())
		return s.heartsTask.Next(), true

	case s.connTask.Owns(msg):
		return tea.Batch(s.probeOnline(), s.connTask.Next()), true

	case s.slideTask.Owns(msg):
		s.slidePos, s.slideVel = s.spring.Update(s.slidePos, s.slideVel, 0)
		if abs(s.slidePos) < 0.5 && abs(s.slideVel) < 0.5 {
			s.slidePos, s.slideVel = 0, 0
			s.slideTask = s.slideTask.Stop()
			return nil, true
		}
		return s.slideTask.Next(), true
	}
	return nil, false
}

func (s *Shell) handleKey(msg tea.KeyMsg) tea.Cmd {
	k := s.keys
	if key.Matches(msg, k.Quit) {
		return tea.Quit
	}

	if s.advisory != "" {
		if key.Matches(msg, k.Close) || msg.Type == tea.KeyEnter {
			s.advisory = ""
		}
		return nil
	}

	if s.showHelp {
		if key.Matches(msg, k.Help, k.Close) {
			s.showHelp = false
		}
		return nil
	}

	if s.menuOpen {
		switch {
		case key.Matches(msg, k.Close, k.Menu):
			s.menuOpen = false
		case msg.String() == "up" || msg.String() == "k":
			s.menuCursor = (s.menuCursor - 1 + s.nav.Len()) % s.nav.Len()
		case msg.String() == "down" || msg.String() == "j":
			s.menuCursor = (s.menuCursor + 1) % s.nav.Len()
		case msg.Type == tea.KeyEnter:
			s.menuOpen = false
			return nav.GoToCmd(s.menuCursor)
		case key.Matches(msg, k.Jump):
			s.menuOpen = false
			return nav.GoToCmd(int(msg.Runes[0] - '1'))
		}
		return nil
	}

	switch {
	case key.Matches(msg, k.Next):
		return nav.AdvanceCmd
	case key.Matches(msg, k.Prev):
		return nav.RetreatCmd
	case key.Matches(msg, k.Jump):
		return nav.GoToCmd(int(msg.Runes[0] - '1'))
	case key.Matches(msg, k.Theme):
		s.ToggleTheme()
		return nil
	case key.Matches(msg, k.Music):
		return s.TogglePlay()
	case key.Matches(msg, k.NextSong):
		s.playlist.Next()
		return nil
	case key.Matches(msg, k.PrevSong):
		s.playlist.Prev()
		return nil
	case key.Matches(msg, k.Menu):
		s.menuOpen = true
		s.menuCursor = s.nav.Current()
		return nil
	case key.Matches(msg, k.Help):
		s.showHelp = true
		return nil
	case msg.String() == "i" && s.installBanner:
		return s.install()
	case msg.String() == "n" && s.notifyPrompt:
		return s.allowNotifications()
	}
	return s.active().Update(msg)
}

// transition swaps the visible panel after the navigator moved.
func (s *Shell) transition(tr nav.Transition) tea.Cmd {
	s.menuOpen = false
	if tr.Direction == nav.Stay {
		return nil
	}
	s.log.Debug("section changed",
		zap.Int("from", tr.From),
		zap.Int("to", tr.To),
		zap.Stringer("direction", tr.Direction),
	)

	leave := s.panels[tr.From].Unmount()
	s.gen++
	enter := s.panels[tr.To].Mount(s.gen)

	s.slidePos, s.slideVel = slideDistance, 0
	if tr.Direction == nav.Backward {
		s.slidePos = -slideDistance
	}
	var frame tea.Cmd
	s.slideTask, frame = s.slideTask.Start()
	return tea.Batch(leave, enter, frame)
}

// ToggleTheme flips between the light and dark palettes.
func (s *Shell) ToggleTheme() {
	s.dark = !s.dark
	s.caps.Haptics.Pulse(pulseTheme)
}

// TogglePlay starts or pauses the simulated music.
func (s *Shell) TogglePlay() tea.Cmd {
	s.caps.Haptics.Pulse(nav.PulseNavigate)
	if !s.playlist.TogglePlay() {
		s.playTask = s.playTask.Stop()
		return nil
	}
	var cmd tea.Cmd
	s.playTask, cmd = s.playTask.Start()
	return cmd
}

func (s *Shell) showNotice(text string) tea.Cmd {
	s.notice = text
	s.noticeSeq++
	return schedule.Once(noticeLength, noticeDoneMsg{seq: s.noticeSeq})
}

func (s *Shell) probeOnline() tea.Cmd {
	conn := s.caps.Connectivity
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		return connectivityMsg{online: conn.Online(ctx)}
	}
}

func (s *Shell) install() tea.Cmd {
	s.installBanner = false
	inst, after := s.caps.Installer, s.onInstall
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), installTimeout)
		defer cancel()
		if err := inst.Install(ctx); err != nil {
			return installDoneMsg{err: err}
		}
		if after != nil {
			return installDoneMsg{err: after(ctx)}
		}
		return installDoneMsg{}
	}
}

func (s *Shell) allowNotifications() tea.Cmd {
	s.notifyPrompt = false
	return schedule.Once(welcomeDelay, welcomeMsg{})
}

func (s *Shell) sendWelcome() tea.Cmd {
	n := s.caps.Notifier
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		_, err := n.Notify(ctx, capability.Notification{Title: "Love Story 💕", Body: welcomeBody})
		return notifiedMsg{err: err}
	}
}

func (s *Shell) resetHearts() {
	n := s.cfg.Ambient.Hearts
	if n == 0 || s.width == 0 {
		s.hearts = nil
		return
	}
	s.hearts = make([]heart, n)
	for i := range s.hearts {
		s.hearts[i] = spawnHeart(s.rng, s.width, s.bodyHeight(), true)
	}
}

// Close releases the zone manager's worker.
func (s *Shell) Close() { s.zones.Close() }

// Section reports the current section index.
func (s *Shell) Section() int { return s.nav.Current() }

func (s *Shell) Dark() bool       { return s.dark }
func (s *Shell) Playing() bool    { return s.playlist.Playing() }
func (s *Shell) Track() int       { return s.playlist.Index() }
func (s *Shell) Advisory() string { return s.advisory }
func (s *Shell) Notice() string   { return s.notice }
func (s *Shell) Online() bool     { return s.online }
func (s *Shell) MenuOpen() bool   { return s.menuOpen }

// Remaining is the countdown as of the last clock tick.
func (s *Shell) Remaining() countdown.Remaining { return s.remaining }

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
