package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartOwnsItsTicks(t *testing.T) {
	task, cmd := New(10 * time.Millisecond).Start()
	require.NotNil(t, cmd)

	msg, ok := cmd().(TickMsg)
	require.True(t, ok)
	assert.True(t, task.Owns(msg))
	assert.NotNil(t, task.Next())
}

func TestStopDropsPendingTick(t *testing.T) {
	task, cmd := New(time.Millisecond).Start()
	pending := cmd().(TickMsg)

	task = task.Stop()
	assert.False(t, task.Owns(pending), "stale tick must be ignored")
	assert.Nil(t, task.Next(), "stopped task must not reschedule")
}

func TestRestartInvalidatesOldTick(t *testing.T) {
	task, cmd := New(time.Millisecond).Start()
	old := cmd().(TickMsg)

	task, cmd = task.Start()
	fresh := cmd().(TickMsg)

	assert.False(t, task.Owns(old))
	assert.True(t, task.Owns(fresh))
}

func TestTasksDoNotShareTicks(t *testing.T) {
	a, cmdA := New(time.Millisecond).Start()
	b, _ := New(time.Millisecond).Start()
	msg := cmdA().(TickMsg)

	assert.True(t, a.Owns(msg))
	assert.False(t, b.Owns(msg))
}

func TestOnce(t *testing.T) {
	type done struct{}
	msg := Once(time.Millisecond, done{})()
	assert.Equal(t, done{}, msg)
}
