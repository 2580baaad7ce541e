// Package gesture turns a pointer drag into a single directional swipe.
package gesture

// DefaultThreshold is the minimum displacement on the winning axis.
const DefaultThreshold = 50

// Swipe is the classification of a finished drag.
type Swipe int

const (
	None Swipe = iota
	Left
	Right
	Up
	Down
)

func (s Swipe) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// Point is a pointer position.
type Point struct {
	X, Y int
}

// Handlers are the optional callbacks fired by End. Nil handlers are skipped.
type Handlers struct {
	OnLeft  func()
	OnRight func()
	OnUp    func()
	OnDown  func()
}

// Detector tracks one drag at a time. Nothing survives between gestures.
type Detector struct {
	Threshold int
	Handlers  Handlers

	start   *Point
	last    *Point
	tracked bool
}

// New returns a detector with the given threshold; values <= 0 use
// DefaultThreshold.
func New(threshold int, h Handlers) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{Threshold: threshold, Handlers: h}
}

// Active reports whether a drag is being tracked.
func (d *Detector) Active() bool { return d.tracked }

// Start begins a new gesture at p and forgets any previous one.
func (d *Detector) Start(p Point) {
	d.start = &p
	d.last = nil
	d.tracked = true
}

// Move records the latest pointer position.
func (d *Detector) Move(p Point) {
	if !d.tracked {
		return
	}
	d.last = &p
}

// End classifies the gesture, fires the matching handler and resets. A
// gesture without movement, or below the threshold, is a tap and returns
// None.
func (d *Detector) End() Swipe {
	start, last := d.start, d.last
	d.start, d.last, d.tracked = nil, nil, false
	if start == nil || last == nil {
		return None
	}

	s := Classify(start.X-last.X, start.Y-last.Y, d.threshold())
	switch s {
	case Left:
		call(d.Handlers.OnLeft)
	case Right:
		call(d.Handlers.OnRight)
	case Up:
		call(d.Handlers.OnUp)
	case Down:
		call(d.Handlers.OnDown)
	}
	return s
}

func (d *Detector) threshold() int {
	if d.Threshold <= 0 {
		return DefaultThreshold
	}
	return d.Threshold
}

// Classify maps a displacement measured as start minus end to a swipe.
// Positive dx means the pointer travelled left, positive dy means up. The
// axis with the larger magnitude wins; ties go to the vertical axis.
func Classify(dx, dy, threshold int) Swipe {
	if abs(dx) > abs(dy) {
		switch {
		case dx > threshold:
			return Left
		case dx < -threshold:
			return Right
		}
		return None
	}
	switch {
	case dy > threshold:
		return Up
	case dy < -threshold:
		return Down
	}
	return None
}

// Drag classifies a movement given as end minus start, the way a caller
// naturally describes "dragged 80 cells to the left" as (-80, 0).
func Drag(dx, dy, threshold int) Swipe {
	return Classify(-dx, -dy, threshold)
}

func call(f func()) {
	if f != nil {
		f()
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
