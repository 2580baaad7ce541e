package nav

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPulser struct {
	pulses []time.Duration
}

func (c *countingPulser) Pulse(d time.Duration) { c.pulses = append(c.pulses, d) }

func TestAdvanceIsCyclic(t *testing.T) {
	for start := 0; start < len(Sections); start++ {
		n := New(Sections, nil)
		_, err := n.GoTo(start)
		require.NoError(t, err)

		for i := 0; i < n.Len(); i++ {
			n.Advance()
		}
		assert.Equal(t, start, n.Current(), "advance x%d from %d", n.Len(), start)
	}
}

func TestRetreatWrapsToLast(t *testing.T) {
	n := New(Sections, nil)
	tr := n.Retreat()

	assert.Equal(t, len(Sections)-1, n.Current())
	assert.Equal(t, Transition{From: 0, To: len(Sections) - 1, Direction: Backward}, tr)
}

func TestAdvanceWrapsFromLast(t *testing.T) {
	n := New(Sections, nil)
	_, err := n.GoTo(len(Sections) - 1)
	require.NoError(t, err)

	tr := n.Advance()
	assert.Equal(t, 0, n.Current())
	assert.Equal(t, Forward, tr.Direction)
}

func TestGoToValidIndex(t *testing.T) {
	n := New(Sections, nil)
	for i := range Sections {
		_, err := n.GoTo(i)
		require.NoError(t, err)
		assert.Equal(t, i, n.Current())
	}
}

func TestGoToRejectsOutOfRange(t *testing.T) {
	p := &countingPulser{}
	n := New(Sections, p)
	_, err := n.GoTo(3)
	require.NoError(t, err)

	for _, bad := range []int{-1, len(Sections), 99} {
		tr, err := n.GoTo(bad)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		assert.Equal(t, 3, n.Current(), "state must not change for %d", bad)
		assert.Equal(t, Stay, tr.Direction)
	}
	assert.Len(t, p.pulses, 1, "rejected jumps must not pulse")
}

func TestGoToDirection(t *testing.T) {
	n := New(Sections, nil)
	tr, _ := n.GoTo(4)
	assert.Equal(t, Forward, tr.Direction)
	tr, _ = n.GoTo(1)
	assert.Equal(t, Backward, tr.Direction)
	tr, _ = n.GoTo(1)
	assert.Equal(t, Stay, tr.Direction)
}

func TestEveryTransitionPulses(t *testing.T) {
	p := &countingPulser{}
	n := New(Sections, p)

	n.Advance()
	n.Retreat()
	_, _ = n.GoTo(5)

	require.Len(t, p.pulses, 3)
	for _, d := range p.pulses {
		assert.Equal(t, PulseNavigate, d)
	}
}

func TestProgressAndNames(t *testing.T) {
	n := New(nil, nil)
	assert.InDelta(t, 1.0/7.0, n.Progress(), 1e-9)
	n.Retreat()
	assert.InDelta(t, 1.0, n.Progress(), 1e-9)
	assert.Equal(t, "Love Notes", n.Names()[6])
	assert.Equal(t, "carousel", n.Section().ID)
}

func TestRequestApply(t *testing.T) {
	n := New(Sections, nil)

	_, err := RequestMsg{Kind: RequestAdvance}.Apply(n)
	require.NoError(t, err)
	assert.Equal(t, 1, n.Current())

	_, err = GoToCmd(6)().(RequestMsg).Apply(n)
	require.NoError(t, err)
	assert.Equal(t, 6, n.Current())

	_, err = RetreatCmd().(RequestMsg).Apply(n)
	require.NoError(t, err)
	assert.Equal(t, 5, n.Current())

	_, err = RequestMsg{Kind: RequestGoTo, Index: 7}.Apply(n)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
