package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"lovestory/internal/logging"
	"lovestory/internal/tray"
)

const trayDetachedEnv = "LOVESTORY_TRAY_DETACHED"

var trayCmd = &cobra.Command{
	Use:   "tray",
	Short: "Launch the macOS/Linux tray countdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		if maybeDetachTray() {
			fmt.Fprintln(cmd.OutOrStdout(), "tray launched in background")
			return nil
		}
		st, err := loadStory(cmd.Context())
		if err != nil {
			return err
		}
		target, err := cfg.TargetTime(time.Now())
		if err != nil {
			return err
		}
		return tray.Run(tray.Options{
			Target:  target,
			Label:   cfg.Countdown.Label,
			Reasons: st.Reasons,
			Caps:    probe(),
			Log:     logging.Named(logger, "tray"),
			OnOpen:  openInTerminal,
		})
	},
}

func maybeDetachTray() bool {
	if os.Getenv(trayDetachedEnv) == "1" {
		return false
	}
	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Env = append(os.Environ(), trayDetachedEnv+"=1")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return false
	}
	return true
}

// openInTerminal starts "lovestory ui" in a new terminal window.
func openInTerminal() error {
	self, err := os.Executable()
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`tell application "Terminal" to do script "%s ui"`, self)
		cmd = exec.Command("osascript", "-e", script)
	default:
		for _, term := range []string{"x-terminal-emulator", "gnome-terminal", "konsole", "xterm"} {
			if p, err := exec.LookPath(term); err == nil {
				if term == "gnome-terminal" {
					cmd = exec.Command(p, "--", self, "ui")
				} else {
					cmd = exec.Command(p, "-e", self, "ui")
				}
				break
			}
		}
	}
	if cmd == nil {
		return errors.New("no terminal emulator found")
	}
	return cmd.Start()
}
