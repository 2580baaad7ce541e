// Package nav holds the section state machine that decides which panel of the
// card is visible.
package nav

import (
	"errors"
	"fmt"
	"time"
)

// ErrOutOfRange is returned by GoTo for an index outside [0, N-1].
var ErrOutOfRange = errors.New("section index out of range")

const (
	// PulseNavigate is the haptic pulse issued on every section change.
	PulseNavigate = 50 * time.Millisecond
)

// Pulser is the slice of the haptics capability the navigator needs.
type Pulser interface {
	Pulse(d time.Duration)
}

// Direction is the slide direction of a transition.
type Direction int

const (
	Stay Direction = iota
	Forward
	Backward
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return "stay"
	}
}

// Transition describes a section change. It only drives the slide
// animation; the state has already changed when it is returned.
type Transition struct {
	From      int
	To        int
	Direction Direction
}

// Section is one fixed entry of the card.
type Section struct {
	ID   string
	Name string
}

// Sections is the fixed, ordered section list of the card.
var Sections = []Section{
	{ID: "hero", Name: "Welcome"},
	{ID: "timeline", Name: "Our Story"},
	{ID: "gallery", Name: "Memories"},
	{ID: "quiz", Name: "Quiz Time"},
	{ID: "gifts", Name: "Gifts"},
	{ID: "surprise", Name: "Surprise"},
	{ID: "carousel", Name: "Love Notes"},
}

// Navigator owns the current section index. It is cyclic: there is no
// terminal state, advancing from the last section wraps to the first.
type Navigator struct {
	sections []Section
	current  int
	haptics  Pulser
}

// New returns a navigator over sections starting at index 0. A nil pulser
// disables haptic feedback.
func New(sections []Section, haptics Pulser) *Navigator {
	if len(sections) == 0 {
		sections = Sections
	}
	return &Navigator{sections: sections, haptics: haptics}
}

// Len returns the number of sections.
func (n *Navigator) Len() int { return len(n.sections) }

// Current returns the active section index.
func (n *Navigator) Current() int { return n.current }

// Section returns the active section.
func (n *Navigator) Section() Section { return n.sections[n.current] }

// Names returns the display names in order.
func (n *Navigator) Names() []string {
	names := make([]string, len(n.sections))
	for i, s := range n.sections {
		names[i] = s.Name
	}
	return names
}

// Progress returns (current+1)/N.
func (n *Navigator) Progress() float64 {
	return float64(n.current+1) / float64(len(n.sections))
}

// GoTo jumps directly to index i. Menu and dots are expected to pass a valid
// index; anything else is rejected and the state is left untouched.
func (n *Navigator) GoTo(i int) (Transition, error) {
	if i < 0 || i >= len(n.sections) {
		return Transition{From: n.current, To: n.current}, fmt.Errorf("goto %d of %d: %w", i, len(n.sections), ErrOutOfRange)
	}
	dir := Stay
	switch {
	case i > n.current:
		dir = Forward
	case i < n.current:
		dir = Backward
	}
	return n.set(i, dir), nil
}

// Advance moves one section forward, wrapping N-1 to 0.
func (n *Navigator) Advance() Transition {
	return n.set((n.current+1)%len(n.sections), Forward)
}

// Retreat moves one section back, wrapping 0 to N-1.
func (n *Navigator) Retreat() Transition {
	return n.set((n.current-1+len(n.sections))%len(n.sections), Backward)
}

func (n *Navigator) set(i int, dir Direction) Transition {
	t := Transition{From: n.current, To: i, Direction: dir}
	n.current = i
	if n.haptics != nil {
		n.haptics.Pulse(PulseNavigate)
	}
	return t
}
