package capability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

var lookPath = exec.LookPath

// Bell rings the terminal bell as a stand-in for vibration. Pulses closer
// together than MinGap collapse into one.
type Bell struct {
	W      io.Writer
	MinGap time.Duration

	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewBell(w io.Writer) *Bell {
	return &Bell{W: w, MinGap: 100 * time.Millisecond, now: time.Now}
}

func (b *Bell) Pulse(time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	if !b.last.IsZero() && now.Sub(b.last) < b.MinGap {
		return
	}
	b.last = now
	_, _ = io.WriteString(b.W, "\a")
}

// DialProbe checks connectivity by opening a TCP connection to Host.
type DialProbe struct {
	Host    string
	Timeout time.Duration
	Dial    func(ctx context.Context, network, addr string) (net.Conn, error)
}

func NewDialProbe(host string) *DialProbe {
	d := &net.Dialer{}
	return &DialProbe{Host: host, Timeout: 3 * time.Second, Dial: d.DialContext}
}

func (p *DialProbe) Online(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()
	conn, err := p.Dial(ctx, "tcp", p.Host)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// SelfInstaller copies the running binary to Target.
type SelfInstaller struct {
	Target     string
	Executable func() (string, error)
}

func NewSelfInstaller(target string) *SelfInstaller {
	return &SelfInstaller{Target: target, Executable: os.Executable}
}

// Available is true while the program runs from somewhere other than
// Target and nothing is installed there yet.
func (s *SelfInstaller) Available() bool {
	if s.Target == "" {
		return false
	}
	src, err := s.Executable()
	if err != nil {
		return false
	}
	if src == s.Target {
		return false
	}
	_, err = os.Stat(s.Target)
	return errors.Is(err, os.ErrNotExist)
}

func (s *SelfInstaller) Install(context.Context) error {
	src, err := s.Executable()
	if err != nil {
		return err
	}
	return CopyFile(src, s.Target)
}

// CopyFile copies src to dest as an executable, creating parent dirs.
func CopyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0o755)
}

// ExecRecorder records audio with an external command found on PATH,
// arecord on Linux or SoX's rec elsewhere.
type ExecRecorder struct {
	Bin string
	Dir string
}

// NewExecRecorder returns nil when no recorder binary is installed.
func NewExecRecorder(dir string) *ExecRecorder {
	for _, bin := range []string{"arecord", "rec"} {
		if p, err := lookPath(bin); err == nil {
			return &ExecRecorder{Bin: p, Dir: dir}
		}
	}
	return nil
}

func (r *ExecRecorder) Start(ctx context.Context) (Recording, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("recording dir: %w", err)
	}
	path := filepath.Join(r.Dir, fmt.Sprintf("voice-%d.wav", time.Now().UnixNano()))

	var args []string
	switch filepath.Base(r.Bin) {
	case "arecord":
		args = []string{"-q", "-f", "cd", path}
	default:
		args = []string{"-q", path}
	}
	cmd := exec.Command(r.Bin, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", filepath.Base(r.Bin), err)
	}
	rec := &execRecording{cmd: cmd, path: path, done: make(chan error, 1)}
	go func() { rec.done <- cmd.Wait() }()

	// A recorder that cannot open the device exits almost immediately.
	select {
	case err := <-rec.done:
		if err == nil {
			err = errors.New("recorder exited")
		}
		return nil, fmt.Errorf("microphone: %w", err)
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		return nil, ctx.Err()
	case <-time.After(300 * time.Millisecond):
	}
	return rec, nil
}

type execRecording struct {
	cmd  *exec.Cmd
	path string
	done chan error
}

func (r *execRecording) Stop() (string, error) {
	_ = r.cmd.Process.Signal(os.Interrupt)
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		_ = r.cmd.Process.Kill()
		<-r.done
	}
	if _, err := os.Stat(r.path); err != nil {
		return "", fmt.Errorf("recording not saved: %w", err)
	}
	return r.path, nil
}

// MailSharer shares by opening a mailto: link with the desktop opener.
type MailSharer struct {
	Opener string
	run    func(ctx context.Context, name string, args ...string) (string, error)
}

func NewMailSharer() *MailSharer {
	opener := "xdg-open"
	if runtime.GOOS == "darwin" {
		opener = "open"
	}
	if _, err := lookPath(opener); err != nil {
		return nil
	}
	return &MailSharer{Opener: opener, run: runCommand}
}

func (m *MailSharer) Available() bool { return m != nil }

func (m *MailSharer) Share(ctx context.Context, subject, body string) error {
	q := url.Values{}
	q.Set("subject", subject)
	q.Set("body", body)
	link := "mailto:?" + q.Encode()
	_, err := m.run(ctx, m.Opener, link)
	return err
}

// SystemClipboard uses the OS clipboard utilities.
type SystemClipboard struct{}

func (SystemClipboard) Write(text string) error { return clipboard.WriteAll(text) }

// OSC52Clipboard asks the terminal to set the clipboard, which also works
// over SSH.
type OSC52Clipboard struct {
	W io.Writer
}

func (c OSC52Clipboard) Write(text string) error {
	_, err := osc52.New(text).WriteTo(c.W)
	return err
}
