// Package capability wraps the optional platform features the card uses:
// haptics, connectivity, self-install, notifications, microphone capture,
// sharing and the clipboard. Each is an interface with a no-op default so
// callers never check for presence; Probe picks real implementations once at
// startup.
package capability

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned by no-op implementations of operations that
// have a result.
var ErrUnavailable = errors.New("capability unavailable")

// Haptics emits a short tactile pulse.
type Haptics interface {
	Pulse(d time.Duration)
}

// Connectivity reports whether the network is reachable.
type Connectivity interface {
	Online(ctx context.Context) bool
}

// Installer places the program where it can be launched like an app.
type Installer interface {
	// Available reports whether an install prompt makes sense.
	Available() bool
	Install(ctx context.Context) error
}

// Action is a notification button.
type Action struct {
	ID    string
	Label string
}

// Notification is a desktop notification request.
type Notification struct {
	Title   string
	Body    string
	Actions []Action
}

// Notifier delivers notifications. Notify returns the ID of the action the
// user picked, or "" when none was picked or actions are unsupported.
type Notifier interface {
	Available() bool
	Notify(ctx context.Context, n Notification) (string, error)
}

// Recorder captures audio from the microphone.
type Recorder interface {
	Start(ctx context.Context) (Recording, error)
}

// Recording is an in-progress capture.
type Recording interface {
	// Stop ends capture and returns the path of the recorded file.
	Stop() (string, error)
}

// Sharer hands content to the platform share mechanism.
type Sharer interface {
	Available() bool
	Share(ctx context.Context, subject, body string) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	Write(text string) error
}

// Set is the capability bundle handed to the shell.
type Set struct {
	Haptics      Haptics
	Connectivity Connectivity
	Installer    Installer
	Notifier     Notifier
	Recorder     Recorder
	Sharer       Sharer
	Clipboard    Clipboard
}

// Noop returns a set in which every capability is absent.
func Noop() Set {
	return Set{
		Haptics:      NoHaptics{},
		Connectivity: AlwaysOnline{},
		Installer:    NoInstaller{},
		Notifier:     NoNotifier{},
		Recorder:     NoRecorder{},
		Sharer:       NoSharer{},
		Clipboard:    NoClipboard{},
	}
}

// Fill replaces nil members with their no-op defaults.
func (s Set) Fill() Set {
	n := Noop()
	if s.Haptics == nil {
		s.Haptics = n.Haptics
	}
	if s.Connectivity == nil {
		s.Connectivity = n.Connectivity
	}
	if s.Installer == nil {
		s.Installer = n.Installer
	}
	if s.Notifier == nil {
		s.Notifier = n.Notifier
	}
	if s.Recorder == nil {
		s.Recorder = n.Recorder
	}
	if s.Sharer == nil {
		s.Sharer = n.Sharer
	}
	if s.Clipboard == nil {
		s.Clipboard = n.Clipboard
	}
	return s
}

type NoHaptics struct{}

func (NoHaptics) Pulse(time.Duration) {}

// AlwaysOnline never reports an outage, so the offline banner stays hidden.
type AlwaysOnline struct{}

func (AlwaysOnline) Online(context.Context) bool { return true }

type NoInstaller struct{}

func (NoInstaller) Available() bool               { return false }
func (NoInstaller) Install(context.Context) error { return ErrUnavailable }

type NoNotifier struct{}

func (NoNotifier) Available() bool { return false }
func (NoNotifier) Notify(context.Context, Notification) (string, error) {
	return "", ErrUnavailable
}

type NoRecorder struct{}

func (NoRecorder) Start(context.Context) (Recording, error) { return nil, ErrUnavailable }

type NoSharer struct{}

func (NoSharer) Available() bool                             { return false }
func (NoSharer) Share(context.Context, string, string) error { return ErrUnavailable }

type NoClipboard struct{}

func (NoClipboard) Write(string) error { return ErrUnavailable }
