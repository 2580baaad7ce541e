package capability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/muesli/termenv"
)

// DesktopNotifier sends native notifications through notify-send on Linux
// and osascript on macOS. Actions are only supported by notify-send.
type DesktopNotifier struct {
	AppName string
	goos    string
	run     func(ctx context.Context, name string, args ...string) (string, error)
}

// NewDesktopNotifier returns a notifier for the running OS.
func NewDesktopNotifier(appName string) *DesktopNotifier {
	return &DesktopNotifier{AppName: appName, goos: runtime.GOOS, run: runCommand}
}

func (d *DesktopNotifier) Available() bool {
	switch d.goos {
	case "linux":
		_, err := lookPath("notify-send")
		return err == nil
	case "darwin":
		_, err := lookPath("osascript")
		return err == nil
	}
	return false
}

// Notify blocks until the notification is dismissed when it carries actions,
// so callers run it off the UI loop.
func (d *DesktopNotifier) Notify(ctx context.Context, n Notification) (string, error) {
	switch d.goos {
	case "darwin":
		script := `display notification "` + escapeQuotes(n.Body) + `" with title "` + escapeQuotes(n.Title) + `"`
		_, err := d.run(ctx, "osascript", "-e", script)
		return "", err
	case "linux":
		args := []string{"--app-name", d.AppName}
		for _, a := range n.Actions {
			args = append(args, "--action="+a.ID+"="+a.Label)
		}
		args = append(args, n.Title, n.Body)
		out, err := d.run(ctx, "notify-send", args...)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(out), nil
	}
	return "", ErrUnavailable
}

// TerminalNotifier emits an OSC 777 notification, understood by several
// terminal emulators. It has no actions.
type TerminalNotifier struct {
	out *termenv.Output
}

func NewTerminalNotifier(w io.Writer) *TerminalNotifier {
	return &TerminalNotifier{out: termenv.NewOutput(w)}
}

func (t *TerminalNotifier) Available() bool { return true }

func (t *TerminalNotifier) Notify(_ context.Context, n Notification) (string, error) {
	t.out.Notify(n.Title, n.Body)
	return "", nil
}

func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return stdout.String(), nil
}

func escapeQuotes(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == '"' {
			out = append(out, '\\', '"')
		} else {
			out = append(out, r)
		}
	}
	return string(out)
}
