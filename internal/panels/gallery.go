package panels

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"go.uber.org/zap"

	"lovestory/internal/capability"
	"lovestory/internal/nav"
	"lovestory/internal/schedule"
	"lovestory/internal/story"
)

const (
	voiceNoteLength   = 3 * time.Second
	maxRecording      = 60 * time.Second
	pulseLike         = 50 * time.Millisecond
	galleryColumns    = 3
	polaroidMinWidth  = 18
	polaroidMaxWidth  = 26
	shareTimeout      = 10 * time.Second
	recordStopTimeout = 5 * time.Second

	noPhoto = -1
)

// Gallery shows the photos as polaroids with likes, voice notes, sharing and
// voice recording.
type Gallery struct {
	deps Deps
	gen  int

	selected int
	detail   bool
	likes    map[int]int // by photo index

	playing int // photo index whose voice note is playing
	playSeq int

	recording  capability.Recording
	recStarted bool // a start request is in flight or recording is live
	recSeq     int
	recorded   map[int]string // by photo index

	keys galleryKeys
}

type galleryKeys struct {
	Prev   key.Binding
	Next   key.Binding
	Open   key.Binding
	Close  key.Binding
	Like   key.Binding
	Play   key.Binding
	Record key.Binding
	Share  key.Binding
}

type voiceNoteDoneMsg struct{ gen, seq int }

type recordStartedMsg struct {
	gen, seq int
	rec      capability.Recording
	err      error
}

type recordStoppedMsg struct {
	gen, photo int
	path       string
	err        error
}

type recordLimitMsg struct{ gen, seq int }

type shareDoneMsg struct {
	gen    int
	copied bool
	err    error
}

func NewGallery(d Deps) *Gallery {
	d = d.fill()
	g := &Gallery{
		deps: d,
		keys: galleryKeys{
			Prev:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous photo")),
			Next:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next photo")),
			Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
			Close:  key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "close")),
			Like:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "like")),
			Play:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "voice note")),
			Record: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "record")),
			Share:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "share")),
		},
	}
	g.playing = noPhoto
	return g
}

func (g *Gallery) ID() string    { return "gallery" }
func (g *Gallery) Title() string { return "Memories" }

func (g *Gallery) Mount(gen int) tea.Cmd {
	g.gen = gen
	g.selected = 0
	g.detail = false
	g.likes = map[int]int{}
	g.playing = noPhoto
	g.recording = nil
	g.recStarted = false
	g.recorded = map[int]string{}
	return nil
}

func (g *Gallery) Unmount() tea.Cmd {
	g.playing = noPhoto
	g.recStarted = false
	if g.recording == nil {
		return nil
	}
	rec := g.recording
	g.recording = nil
	return g.stopCmd(rec, noPhoto)
}

func (g *Gallery) photo() story.Photo { return g.deps.Story.Photos[g.selected] }

func (g *Gallery) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, g.keys.Prev):
			g.move(-1)
		case key.Matches(msg, g.keys.Next):
			g.move(1)
		case key.Matches(msg, g.keys.Open):
			g.detail = !g.detail
		case key.Matches(msg, g.keys.Close):
			g.detail = false
		case key.Matches(msg, g.keys.Like):
			g.Like()
		case key.Matches(msg, g.keys.Play):
			return g.TogglePlay()
		case key.Matches(msg, g.keys.Record):
			return g.ToggleRecord()
		case key.Matches(msg, g.keys.Share):
			return g.Share()
		}

	case ClickMsg:
		var idx int
		if _, err := fmt.Sscanf(msg.Zone, "photo-%d", &idx); err == nil {
			g.selected = idx
			g.detail = true
			return nil
		}
		switch msg.Zone {
		case "like":
			g.Like()
		case "play":
			return g.TogglePlay()
		case "record":
			return g.ToggleRecord()
		case "share":
			return g.Share()
		case "close":
			g.detail = false
		case "continue":
			return nav.AdvanceCmd
		}

	case voiceNoteDoneMsg:
		if msg.gen == g.gen && msg.seq == g.playSeq {
			g.playing = noPhoto
		}

	case recordStartedMsg:
		if msg.gen != g.gen || msg.seq != g.recSeq || !g.recStarted {
			if msg.rec != nil {
				return g.stopCmd(msg.rec, noPhoto)
			}
			return nil
		}
		if msg.err != nil {
			g.recStarted = false
			g.deps.logger().Warn("microphone unavailable", zap.Error(msg.err))
			return advisory(MicrophoneAdvisory)
		}
		g.recording = msg.rec
		seq := g.recSeq
		return schedule.Once(maxRecording, recordLimitMsg{gen: g.gen, seq: seq})

	case recordLimitMsg:
		if msg.gen == g.gen && msg.seq == g.recSeq && g.recording != nil {
			return g.ToggleRecord()
		}

	case recordStoppedMsg:
		if msg.gen != g.gen {
			return nil
		}
		if msg.err != nil {
			g.deps.logger().Warn("recording failed", zap.Error(msg.err))
			return nil
		}
		g.recorded[msg.photo] = msg.path
		return notice("Voice note saved 🎙")

	case shareDoneMsg:
		if msg.gen != g.gen {
			return nil
		}
		if msg.err != nil {
			g.deps.logger().Debug("share skipped", zap.Error(msg.err))
			return nil
		}
		if msg.copied {
			return notice("Copied to clipboard 📋")
		}
	}
	return nil
}

func (g *Gallery) move(delta int) {
	n := len(g.deps.Story.Photos)
	g.selected = (g.selected + delta + n) % n
}

// Like adds one like to the selected photo.
func (g *Gallery) Like() int {
	g.likes[g.selected]++
	g.deps.Caps.Haptics.Pulse(pulseLike)
	return g.likes[g.selected]
}

// TogglePlay starts the selected photo's simulated voice note, or stops it
// if it is already playing. Playback ends on its own after three seconds.
func (g *Gallery) TogglePlay() tea.Cmd {
	if g.photo().VoiceNote == "" && g.recorded[g.selected] == "" {
		return nil
	}
	g.playSeq++
	if g.playing == g.selected {
		g.playing = noPhoto
		return nil
	}
	g.playing = g.selected
	return schedule.Once(voiceNoteLength, voiceNoteDoneMsg{gen: g.gen, seq: g.playSeq})
}

// ToggleRecord starts or stops a voice recording for the selected photo.
func (g *Gallery) ToggleRecord() tea.Cmd {
	if g.recStarted {
		g.recStarted = false
		g.recSeq++
		rec := g.recording
		g.recording = nil
		if rec == nil {
			return nil
		}
		return g.stopCmd(rec, g.selected)
	}

	g.recStarted = true
	g.recSeq++
	gen, seq, recorder := g.gen, g.recSeq, g.deps.Caps.Recorder
	return func() tea.Msg {
		rec, err := recorder.Start(context.Background())
		return recordStartedMsg{gen: gen, seq: seq, rec: rec, err: err}
	}
}

// stopCmd stops rec and files the result under photo. Recordings stopped
// with noPhoto are discarded.
func (g *Gallery) stopCmd(rec capability.Recording, photo int) tea.Cmd {
	gen := g.gen
	if photo == noPhoto {
		gen = -1
	}
	return func() tea.Msg {
		path, err := rec.Stop()
		return recordStoppedMsg{gen: gen, photo: photo, path: path, err: err}
	}
}

// Share hands the selected photo to the platform sharer, or copies its
// caption to the clipboard when sharing is unavailable.
func (g *Gallery) Share() tea.Cmd {
	p := g.photo()
	gen, caps := g.gen, g.deps.Caps
	return func() tea.Msg {
		if caps.Sharer.Available() {
			ctx, cancel := context.WithTimeout(context.Background(), shareTimeout)
			defer cancel()
			err := caps.Sharer.Share(ctx, "Memory from "+p.Date, p.Caption)
			return shareDoneMsg{gen: gen, err: err}
		}
		err := caps.Clipboard.Write(p.Caption + " - " + p.Date)
		return shareDoneMsg{gen: gen, copied: err == nil, err: err}
	}
}

func (g *Gallery) Selected() int      { return g.selected }
func (g *Gallery) Likes(i int) int    { return g.likes[i] }
func (g *Gallery) PlayingNote() int   { return g.playing }
func (g *Gallery) Recording() bool    { return g.recStarted }
func (g *Gallery) DetailOpen() bool   { return g.detail }
func (g *Gallery) Recorded() []string { return mapValues(g.recorded) }

func (g *Gallery) View(f Frame) string {
	t := f.Theme
	title := t.Title().Render("Our Memories 📸")
	if g.detail {
		return lipgloss.JoinVertical(lipgloss.Center, title, g.viewDetail(f))
	}

	photos := g.deps.Story.Photos
	w := (f.ContentWidth() - galleryColumns*2) / galleryColumns
	w = max(polaroidMinWidth, min(polaroidMaxWidth, w))

	var rows []string
	for start := 0; start < len(photos); start += galleryColumns {
		var cells []string
		for i := start; i < start+galleryColumns && i < len(photos); i++ {
			cells = append(cells, f.Mark(fmt.Sprintf("photo-%d", i), g.polaroid(f, i, w)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Center,
		title,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		"",
		f.Mark("continue", t.Button().Render("See how well you know us")),
	)
}

func (g *Gallery) polaroid(f Frame, i, w int) string {
	t := f.Theme
	p := g.deps.Story.Photos[i]
	border := t.Soft
	if i == g.selected {
		border = t.Accent
	}
	frame := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(border).Width(w).Margin(0, 1)

	picture := lipgloss.NewStyle().Foreground(t.Muted).Width(w).Align(lipgloss.Center).Render("\n📷\n")
	caption := truncate.StringWithTail(p.Caption, uint(w), "…")
	meta := fmt.Sprintf("%s  💕%d", p.Date, g.likes[i])
	if g.playing == i {
		meta += " 🔊"
	}
	return frame.Render(lipgloss.JoinVertical(lipgloss.Left,
		picture,
		t.Body().Render(caption),
		t.Subtitle().Render(meta),
	))
}

func (g *Gallery) viewDetail(f Frame) string {
	t := f.Theme
	p := g.photo()
	width := f.ContentWidth()

	lines := []string{
		t.Body().Bold(true).Render(wordwrap.String(p.Caption, width-6)),
		"",
		t.Subtitle().Render(fmt.Sprintf("📅 %s   📍 %s", p.Date, p.Location)),
		t.Star().Render("✨ " + p.Mood),
	}
	if p.VoiceNote != "" {
		lines = append(lines, "", t.Body().Italic(true).Render(wordwrap.String("“"+p.VoiceNote+"”", width-6)))
	}

	play := "▶ voice note"
	if g.playing == g.selected {
		play = "⏸ playing…"
	}
	record := "🎙 record"
	if g.recStarted {
		record = "⏹ stop"
	}
	buttons := []string{
		f.Mark("like", t.GhostButton().Render(fmt.Sprintf("💕 %d", g.likes[g.selected]))),
	}
	if p.VoiceNote != "" || g.recorded[g.selected] != "" {
		buttons = append(buttons, f.Mark("play", t.GhostButton().Render(play)))
	}
	buttons = append(buttons,
		f.Mark("record", t.GhostButton().Render(record)),
		f.Mark("share", t.GhostButton().Render("↗ share")),
		f.Mark("close", t.GhostButton().Render("✕")),
	)

	return lipgloss.JoinVertical(lipgloss.Center,
		t.Card().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
		lipgloss.JoinHorizontal(lipgloss.Center, buttons...),
	)
}

func (g *Gallery) Zones() []string {
	z := []string{"like", "play", "record", "share", "close", "continue"}
	for i := range g.deps.Story.Photos {
		z = append(z, fmt.Sprintf("photo-%d", i))
	}
	return z
}

func (g *Gallery) Keys() []key.Binding {
	k := g.keys
	return []key.Binding{k.Prev, k.Next, k.Open, k.Close, k.Like, k.Play, k.Record, k.Share}
}

func mapValues(m map[int]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
