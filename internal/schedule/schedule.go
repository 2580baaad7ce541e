// Package schedule provides cancellable periodic ticks for Bubble Tea
// models. Each Task stamps its ticks with an id and a tag; stopping or
// restarting the task bumps the tag so in-flight ticks are recognised as
// stale and dropped instead of rescheduled.
package schedule

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID int64

func nextID() int {
	return int(atomic.AddInt64(&lastID, 1))
}

// TickMsg is delivered for every period of a running task.
type TickMsg struct {
	ID   int
	Tag  int
	Time time.Time
}

// Task is a periodic timer. The zero value is not usable; use New.
type Task struct {
	id       int
	tag      int
	interval time.Duration
	running  bool
}

// New returns a stopped task with the given period.
func New(interval time.Duration) Task {
	return Task{id: nextID(), interval: interval}
}

func (t Task) ID() int                 { return t.id }
func (t Task) Running() bool           { return t.running }
func (t Task) Interval() time.Duration { return t.interval }

// Start marks the task running and schedules its first tick. Calling Start
// on a running task restarts it and invalidates any pending tick.
func (t Task) Start() (Task, tea.Cmd) {
	t.tag++
	t.running = true
	return t, t.tick()
}

// Stop cancels the task. A tick already in flight is ignored on arrival.
func (t Task) Stop() Task {
	t.tag++
	t.running = false
	return t
}

// Owns reports whether msg belongs to the current run of t.
func (t Task) Owns(msg TickMsg) bool {
	return t.running && msg.ID == t.id && msg.Tag == t.tag
}

// Next returns the command for the following tick. Call it only after Owns
// returned true for the message being handled.
func (t Task) Next() tea.Cmd {
	if !t.running {
		return nil
	}
	return t.tick()
}

func (t Task) tick() tea.Cmd {
	id, tag := t.id, t.tag
	return tea.Tick(t.interval, func(now time.Time) tea.Msg {
		return TickMsg{ID: id, Tag: tag, Time: now}
	})
}

// Once returns a one-shot delayed message, used for reveals and banners that
// fire after a fixed delay.
func Once(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}
