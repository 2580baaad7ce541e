package panels

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"lovestory/internal/schedule"
)

const typeInterval = 35 * time.Millisecond

// typewriter reveals text one rune per tick.
type typewriter struct {
	text  []rune
	shown int
	task  schedule.Task
}

func newTypewriter() typewriter {
	return typewriter{task: schedule.New(typeInterval)}
}

func (t *typewriter) start(text string) tea.Cmd {
	t.text = []rune(text)
	t.shown = 0
	var cmd tea.Cmd
	t.task, cmd = t.task.Start()
	return cmd
}

func (t *typewriter) stop() {
	t.task = t.task.Stop()
}

// skip shows the whole text at once.
func (t *typewriter) skip() {
	t.shown = len(t.text)
	t.stop()
}

func (t *typewriter) done() bool { return t.shown >= len(t.text) }

func (t *typewriter) String() string { return string(t.text[:t.shown]) }

// handle consumes msg if it is this typewriter's tick.
func (t *typewriter) handle(msg tea.Msg) (tea.Cmd, bool) {
	tick, ok := msg.(schedule.TickMsg)
	if !ok || !t.task.Owns(tick) {
		return nil, false
	}
	if t.shown < len(t.text) {
		t.shown++
	}
	if t.done() {
		t.stop()
		return nil, true
	}
	return t.task.Next(), true
}
