package capability

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// Options configures Probe.
type Options struct {
	AppName          string
	Haptics          bool
	ConnectivityHost string
	InstallPath      string
	RecordingDir     string
	// Term receives bells, OSC 777 and OSC 52 sequences. Defaults to
	// os.Stderr, which keeps them out of the renderer's way.
	Term   io.Writer
	Logger *zap.Logger
}

// Probe detects what the platform supports and returns the matching set.
// Anything not found keeps its no-op default.
func Probe(opts Options) Set {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	term := opts.Term
	isTerm := false
	if term == nil {
		term = os.Stderr
		isTerm = isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	} else if f, ok := term.(*os.File); ok {
		isTerm = isatty.IsTerminal(f.Fd())
	}

	set := Noop()

	if opts.Haptics && isTerm {
		set.Haptics = NewBell(term)
	}
	if opts.ConnectivityHost != "" {
		set.Connectivity = NewDialProbe(opts.ConnectivityHost)
	}
	if opts.InstallPath != "" {
		set.Installer = NewSelfInstaller(opts.InstallPath)
	}

	if dn := NewDesktopNotifier(opts.AppName); dn.Available() {
		set.Notifier = dn
	} else if isTerm {
		set.Notifier = NewTerminalNotifier(term)
	}

	if r := NewExecRecorder(opts.RecordingDir); r != nil {
		set.Recorder = r
	}
	if s := NewMailSharer(); s != nil {
		set.Sharer = s
	}

	if !clipboard.Unsupported {
		set.Clipboard = SystemClipboard{}
	} else if isTerm {
		set.Clipboard = OSC52Clipboard{W: term}
	}

	log.Debug("capabilities probed",
		zap.Bool("tty", isTerm),
		zap.String("haptics", typeName(set.Haptics)),
		zap.String("notifier", typeName(set.Notifier)),
		zap.String("recorder", typeName(set.Recorder)),
		zap.String("sharer", typeName(set.Sharer)),
		zap.String("clipboard", typeName(set.Clipboard)),
	)
	return set
}

func typeName(v any) string {
	switch v.(type) {
	case NoHaptics, NoNotifier, NoRecorder, NoSharer, NoClipboard, NoInstaller:
		return "none"
	case *Bell:
		return "bell"
	case *DesktopNotifier:
		return "desktop"
	case *TerminalNotifier:
		return "osc777"
	case *ExecRecorder:
		return "exec"
	case *MailSharer:
		return "mailto"
	case SystemClipboard:
		return "system"
	case OSC52Clipboard:
		return "osc52"
	}
	return "custom"
}
