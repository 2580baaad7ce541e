package panels

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lovestory/internal/capability"
	"lovestory/internal/nav"
	"lovestory/internal/story"
	"lovestory/internal/theme"
)

type recordingPulser struct{ pulses []time.Duration }

func (p *recordingPulser) Pulse(d time.Duration) { p.pulses = append(p.pulses, d) }

type fakeRecorder struct {
	err  error
	path string
}

func (f fakeRecorder) Start(context.Context) (capability.Recording, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &fakeRecording{path: f.path}, nil
}

type fakeRecording struct {
	path    string
	stopped bool
}

func (r *fakeRecording) Stop() (string, error) {
	r.stopped = true
	return r.path, nil
}

type fakeClipboard struct{ text string }

func (c *fakeClipboard) Write(s string) error {
	c.text = s
	return nil
}

type fakeSharer struct{ title, text string }

func (s *fakeSharer) Available() bool { return true }
func (s *fakeSharer) Share(_ context.Context, title, text string) error {
	s.title, s.text = title, text
	return nil
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestAllFollowsSectionOrder(t *testing.T) {
	ps := All(Deps{})
	require.Len(t, ps, len(nav.Sections))
	for i, p := range ps {
		assert.Equal(t, nav.Sections[i].ID, p.ID())
		assert.Equal(t, nav.Sections[i].Name, p.Title())
	}
}

func TestPanelsRenderInBothThemes(t *testing.T) {
	for _, dark := range []bool{false, true} {
		for _, p := range All(Deps{}) {
			p.Mount(1)
			out := p.View(Frame{Width: 80, Height: 30, Theme: theme.For(dark)})
			assert.NotEmpty(t, out, p.ID())
			p.Unmount()
		}
	}
}

func TestHeroSkipShowsWholeGreeting(t *testing.T) {
	h := NewHero(Deps{})
	require.NotNil(t, h.Mount(1))
	assert.Empty(t, h.Typed())

	h.Update(runes("s"))
	assert.Equal(t, story.Default().Greeting.Body, h.Typed())
}

func TestHeroBeginAdvances(t *testing.T) {
	h := NewHero(Deps{})
	h.Mount(1)
	msg := run(t, h.Update(enter))
	assert.Equal(t, nav.RequestMsg{Kind: nav.RequestAdvance}, msg)
}

func TestTimelineReactionsPerEvent(t *testing.T) {
	tl := NewTimeline(Deps{})
	tl.Mount(1)

	assert.Equal(t, 1, tl.React())
	assert.Equal(t, 2, tl.React())

	tl.Update(runes("j"))
	assert.Equal(t, 1, tl.Current())
	assert.Equal(t, 1, tl.React())

	first := story.Default().Timeline[0].ID
	assert.Equal(t, 2, tl.Reactions(first))

	tl.Mount(2)
	assert.Zero(t, tl.Reactions(first))
	assert.Zero(t, tl.Current())
}

func TestTimelineWraps(t *testing.T) {
	tl := NewTimeline(Deps{})
	tl.Mount(1)
	tl.Update(runes("k"))
	assert.Equal(t, len(story.Default().Timeline)-1, tl.Current())
}

func TestQuizAllCorrect(t *testing.T) {
	p := &recordingPulser{}
	q := NewQuiz(Deps{Caps: capability.Set{Haptics: p}})
	q.Mount(1)

	questions := story.Default().Quiz
	for _, question := range questions {
		q.Answer(question.Answer)
		q.Next()
	}

	assert.True(t, q.Completed())
	assert.Equal(t, len(questions), q.Score())
	assert.Equal(t, ResultPerfect, ResultMessage(q.Score(), len(questions)))
	for _, d := range p.pulses {
		assert.Equal(t, pulseCorrect, d)
	}
	assert.Len(t, p.pulses, len(questions))
}

func TestQuizAllWrong(t *testing.T) {
	p := &recordingPulser{}
	q := NewQuiz(Deps{Caps: capability.Set{Haptics: p}})
	q.Mount(1)

	questions := story.Default().Quiz
	for _, question := range questions {
		wrong := (question.Answer + 1) % len(question.Options)
		assert.Nil(t, q.Answer(wrong))
		q.Next()
	}

	assert.True(t, q.Completed())
	assert.Zero(t, q.Score())
	assert.Equal(t, ResultOther, ResultMessage(q.Score(), len(questions)))
	for _, d := range p.pulses {
		assert.Equal(t, pulseWrong, d)
	}
}

func TestQuizAnswersOnce(t *testing.T) {
	q := NewQuiz(Deps{})
	q.Mount(1)
	answer := story.Default().Quiz[0].Answer

	q.Answer(answer)
	q.Answer(answer)
	assert.Equal(t, 1, q.Score())
	assert.Equal(t, 0, q.Current())
}

func TestQuizNextRequiresAnswer(t *testing.T) {
	q := NewQuiz(Deps{})
	q.Mount(1)
	q.Next()
	assert.Equal(t, 0, q.Current())
}

func TestQuizReplayResets(t *testing.T) {
	q := NewQuiz(Deps{})
	q.Mount(1)
	for _, question := range story.Default().Quiz {
		q.Answer(question.Answer)
		q.Next()
	}
	require.True(t, q.Completed())

	q.Update(ClickMsg{Zone: "replay"})
	assert.False(t, q.Completed())
	assert.Zero(t, q.Score())
}

func TestQuizClaimAdvances(t *testing.T) {
	q := NewQuiz(Deps{})
	q.Mount(1)
	msg := run(t, q.Update(ClickMsg{Zone: "claim"}))
	assert.Equal(t, nav.RequestMsg{Kind: nav.RequestAdvance}, msg)
}

func TestResultMessageBands(t *testing.T) {
	tests := []struct {
		score, total int
		want         string
	}{
		{4, 4, ResultPerfect},
		{3, 4, ResultGood},
		{2, 4, ResultGood},
		{1, 4, ResultOther},
		{0, 4, ResultOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ResultMessage(tt.score, tt.total), "%d/%d", tt.score, tt.total)
	}
}

func TestGiftsOpenAndClose(t *testing.T) {
	g := NewGifts(Deps{})
	g.Mount(1)
	gifts := story.Default().Gifts

	assert.Nil(t, g.Open(1))
	assert.Equal(t, gifts[1].Content, g.Content())
	assert.True(t, g.Opened(gifts[1].ID))

	g.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, -1, g.OpenIndex())
	assert.True(t, g.Opened(gifts[1].ID), "closing keeps the gift unwrapped")

	g.Mount(2)
	assert.False(t, g.Opened(gifts[1].ID))
}

func TestGiftsLetterIsTyped(t *testing.T) {
	g := NewGifts(Deps{})
	g.Mount(1)
	require.Equal(t, "letter", story.Default().Gifts[0].Kind)

	cmd := g.Open(0)
	assert.Empty(t, g.Content())

	g.Update(run(t, cmd))
	assert.Len(t, []rune(g.Content()), 1)
}

func TestSurpriseScratchClampsAndUnlocksOnce(t *testing.T) {
	p := &recordingPulser{}
	s := NewSurprise(Deps{Caps: capability.Set{Haptics: p}})
	s.Mount(1)

	for i := 0; i < 6; i++ {
		s.Scratch()
	}
	assert.Equal(t, 90, s.Progress())
	assert.False(t, s.Unlocked())

	assert.NotNil(t, s.Scratch())
	assert.Equal(t, 100, s.Progress())
	assert.True(t, s.Unlocked())

	for i := 0; i < 5; i++ {
		assert.Nil(t, s.Scratch())
	}
	assert.Equal(t, 100, s.Progress())
	assert.Equal(t, 1, s.Unlocks())
	assert.Len(t, p.pulses, 7)
}

func TestSurpriseHoldUnlocks(t *testing.T) {
	s := NewSurprise(Deps{})
	s.Mount(1)

	s.Update(ClickMsg{Zone: "card", Held: 200 * time.Millisecond})
	assert.Equal(t, 15, s.Progress())
	assert.False(t, s.Unlocked())

	s.Update(ClickMsg{Zone: "card", Held: 1500 * time.Millisecond})
	s.Update(ClickMsg{Zone: "card", Held: 1500 * time.Millisecond})
	assert.True(t, s.Unlocked())
	assert.Equal(t, 1, s.Unlocks())
}

func TestSurpriseRevealFromOldMountIgnored(t *testing.T) {
	s := NewSurprise(Deps{})
	s.Mount(1)
	s.Update(ClickMsg{Zone: "card", Held: 2 * time.Second})
	s.Unmount()
	s.Mount(2)
	s.Update(ClickMsg{Zone: "card", Held: 2 * time.Second})

	s.Update(revealMsg{gen: 1})
	assert.False(t, s.Revealed())

	s.Update(revealMsg{gen: 2})
	assert.True(t, s.Revealed())
}

func TestCarouselAutoplay(t *testing.T) {
	c := NewCarousel(Deps{CarouselInterval: time.Millisecond})
	cmd := c.Mount(1)
	require.True(t, c.Autoplay())

	next := c.Update(run(t, cmd))
	assert.Equal(t, 1, c.Reason())
	assert.NotNil(t, next)
}

func TestCarouselManualStepStopsAutoplay(t *testing.T) {
	c := NewCarousel(Deps{CarouselInterval: time.Millisecond})
	cmd := c.Mount(1)

	c.Update(runes("j"))
	assert.False(t, c.Autoplay())
	assert.Equal(t, 1, c.Reason())

	assert.Nil(t, c.Update(run(t, cmd)))
	assert.Equal(t, 1, c.Reason(), "tick from the stopped run is dropped")
}

func TestCarouselTickAfterUnmountDropped(t *testing.T) {
	c := NewCarousel(Deps{CarouselInterval: time.Millisecond})
	cmd := c.Mount(1)
	c.Unmount()

	assert.Nil(t, c.Update(run(t, cmd)))
	assert.Zero(t, c.Reason())
}

func TestCarouselQuotesWrap(t *testing.T) {
	c := NewCarousel(Deps{})
	c.Mount(1)
	c.Update(runes(","))
	assert.Equal(t, len(story.Default().Quotes)-1, c.Quote())
	assert.True(t, c.Autoplay(), "quotes do not stop the reasons")
	c.Unmount()
}

func TestCarouselWithoutQuotes(t *testing.T) {
	st := story.Default()
	st.Quotes = nil
	c := NewCarousel(Deps{Story: st})
	c.Mount(1)
	defer c.Unmount()

	out := c.View(Frame{Width: 80, Height: 30, Theme: theme.For(false)})
	assert.NotContains(t, out, "Beautiful Love Quotes")
	assert.Contains(t, out, "Reasons I Love You")

	c.Update(runes("."))
	c.Update(ClickMsg{Zone: "quote-prev"})
	assert.Zero(t, c.Quote())
}

func TestGalleryLikePulses(t *testing.T) {
	p := &recordingPulser{}
	g := NewGallery(Deps{Caps: capability.Set{Haptics: p}})
	g.Mount(1)

	g.Update(runes("l"))
	g.Update(runes("l"))
	assert.Equal(t, 2, g.Likes(0))
	assert.Equal(t, []time.Duration{pulseLike, pulseLike}, p.pulses)
}

func TestGalleryVoiceNoteOnlyWhenPresent(t *testing.T) {
	g := NewGallery(Deps{})
	g.Mount(1)

	assert.Equal(t, noPhoto, g.PlayingNote())
	require.NotNil(t, g.TogglePlay())
	assert.Zero(t, g.PlayingNote())

	g.Update(voiceNoteDoneMsg{gen: 1, seq: 1})
	assert.Equal(t, noPhoto, g.PlayingNote())

	g.Update(runes("j"))
	assert.Nil(t, g.TogglePlay(), "photo 2 has no voice note")
}

func TestGalleryPhotosWithoutIDs(t *testing.T) {
	st := story.Default()
	st.Photos = []story.Photo{
		{Caption: "Beach", VoiceNote: "hello"},
		{Caption: "Park"},
	}
	g := NewGallery(Deps{Story: st, Caps: capability.Set{Recorder: fakeRecorder{path: "/tmp/park.wav"}}})
	g.Mount(1)

	require.NotNil(t, g.TogglePlay())
	assert.Zero(t, g.PlayingNote())

	g.Like()
	assert.Equal(t, 1, g.Likes(0))
	assert.Zero(t, g.Likes(1))

	g.Update(runes("j"))
	started := run(t, g.ToggleRecord())
	g.Update(started)
	msg := run(t, g.Update(run(t, g.ToggleRecord())))
	assert.Equal(t, NoticeMsg{Text: "Voice note saved 🎙"}, msg)
	assert.Equal(t, []string{"/tmp/park.wav"}, g.Recorded())
	require.NotNil(t, g.TogglePlay(), "a recorded note plays back")
	assert.Equal(t, 1, g.PlayingNote())
}

func TestGalleryMicrophoneAdvisory(t *testing.T) {
	g := NewGallery(Deps{Caps: capability.Set{Recorder: fakeRecorder{err: errors.New("denied")}}})
	g.Mount(1)

	started := run(t, g.ToggleRecord())
	msg := run(t, g.Update(started))

	assert.Equal(t, AdvisoryMsg{Text: MicrophoneAdvisory}, msg)
	assert.False(t, g.Recording())
}

func TestGalleryRecordSavesNote(t *testing.T) {
	g := NewGallery(Deps{Caps: capability.Set{Recorder: fakeRecorder{path: "/tmp/note.wav"}}})
	g.Mount(1)

	started := run(t, g.ToggleRecord())
	assert.NotNil(t, g.Update(started))
	assert.True(t, g.Recording())

	stopped := run(t, g.ToggleRecord())
	msg := run(t, g.Update(stopped))

	assert.Equal(t, NoticeMsg{Text: "Voice note saved 🎙"}, msg)
	assert.Equal(t, []string{"/tmp/note.wav"}, g.Recorded())
}

func TestGalleryRecordingStoppedOnUnmount(t *testing.T) {
	g := NewGallery(Deps{Caps: capability.Set{Recorder: fakeRecorder{path: "x"}}})
	g.Mount(1)
	started := run(t, g.ToggleRecord()).(recordStartedMsg)
	g.Update(started)

	stopped := run(t, g.Unmount())
	assert.True(t, started.rec.(*fakeRecording).stopped)

	g.Mount(2)
	assert.Nil(t, g.Update(stopped))
	assert.Empty(t, g.Recorded())
}

func TestGalleryShareFallsBackToClipboard(t *testing.T) {
	clip := &fakeClipboard{}
	g := NewGallery(Deps{Caps: capability.Set{Clipboard: clip}})
	g.Mount(1)

	msg := run(t, g.Update(run(t, g.Share())))
	assert.Equal(t, NoticeMsg{Text: "Copied to clipboard 📋"}, msg)

	p := story.Default().Photos[0]
	assert.Equal(t, p.Caption+" - "+p.Date, clip.text)
}

func TestGalleryShareUsesSharer(t *testing.T) {
	sh := &fakeSharer{}
	clip := &fakeClipboard{}
	g := NewGallery(Deps{Caps: capability.Set{Sharer: sh, Clipboard: clip}})
	g.Mount(1)

	assert.Nil(t, g.Update(run(t, g.Share())))
	assert.True(t, strings.HasPrefix(sh.title, "Memory from "))
	assert.Empty(t, clip.text)
}
