package tray

import (
	"context"
	"fmt"
	"time"

	"github.com/getlantern/systray"
	"go.uber.org/zap"

	"lovestory/internal/capability"
	"lovestory/internal/countdown"
	"lovestory/internal/push"
)

const (
	refreshInterval = time.Second
	remindTimeout   = time.Minute
)

// Options configures Run.
type Options struct {
	Target  time.Time
	Label   string
	Reasons []string
	Caps    capability.Set
	Log     *zap.Logger
	// OnOpen shows the card, usually in a new terminal window.
	OnOpen func() error
}

// Run starts a macOS/Linux system tray showing the countdown with quick
// actions. It blocks until Quit is picked.
func Run(opts Options) error {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	caps := opts.Caps.Fill()
	done := make(chan struct{})

	systray.Run(func() {
		title, tip := statusInfo(opts.Target, time.Now(), opts.Label)
		systray.SetTitle(title)
		systray.SetTooltip(tip)

		mOpen := systray.AddMenuItem("Open card", "Open the love story")
		mCopy := systray.AddMenuItem("Copy a reason", "Copy a reason I love you")
		mRemind := systray.AddMenuItem("Remind me", "Send a love story notification")
		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Quit Love Story tray")

		reasons := newRotation(opts.Reasons)

		go func() {
			// reminded is nil unless a reminder is out, so its case never
			// fires while idle.
			var reminded <-chan push.Outcome
			ticker := time.NewTicker(refreshInterval)
			defer ticker.Stop()
			for {
				select {
				case now := <-ticker.C:
					title, tip := statusInfo(opts.Target, now, opts.Label)
					systray.SetTitle(title)
					systray.SetTooltip(tip)
				case <-mOpen.ClickedCh:
					open(opts.OnOpen, log)
				case <-mCopy.ClickedCh:
					r, ok := reasons.next()
					if !ok {
						continue
					}
					if err := caps.Clipboard.Write(r); err != nil {
						log.Warn("tray copy failed", zap.Error(err))
						continue
					}
					systray.SetTooltip("Copied: " + r)
				case <-mRemind.ClickedCh:
					if reminded == nil {
						reminded = remind(caps.Notifier, remindTimeout, log)
					}
				case out := <-reminded:
					reminded = nil
					if out == push.OpenCard {
						open(opts.OnOpen, log)
					}
				case <-mQuit.ClickedCh:
					systray.Quit()
					return
				}
			}
		}()
	}, func() {
		close(done)
	})

	<-done
	return nil
}

// remind delivers a reminder in the background and reports the outcome on
// the returned channel. Failed deliveries report push.Dismissed.
func remind(n capability.Notifier, timeout time.Duration, log *zap.Logger) <-chan push.Outcome {
	out := make(chan push.Outcome, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		o, err := push.Deliver(ctx, n, push.Payload{}, log)
		if err != nil {
			log.Warn("tray reminder failed", zap.Error(err))
			o = push.Dismissed
		}
		out <- o
	}()
	return out
}

func open(fn func() error, log *zap.Logger) {
	if fn == nil {
		return
	}
	if err := fn(); err != nil {
		log.Warn("tray open failed", zap.Error(err))
	}
}

// statusInfo builds the tray title and tooltip for now.
func statusInfo(target, now time.Time, label string) (string, string) {
	r := countdown.Compute(target, now)
	title := fmt.Sprintf("%s %s", closenessGlyph(target.Sub(now)), r.Format())
	if label == "" {
		label = "Until our special day"
	}
	tip := fmt.Sprintf("%s | %s", label, target.Format("Mon 2 Jan 2006"))
	if r.Arrived {
		tip = "Happy Girlfriend Day! 🎉"
	}
	return title, tip
}

// closenessGlyph fills up as the day approaches.
func closenessGlyph(left time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case left <= 0:
		return "💕"
	case left <= day:
		return "●"
	case left <= 7*day:
		return "◕"
	case left <= 30*day:
		return "◑"
	case left <= 90*day:
		return "◔"
	case left <= 180*day:
		return "○"
	default:
		return "◌"
	}
}

// rotation hands out reasons in order, wrapping at the end.
type rotation struct {
	items []string
	i     int
}

func newRotation(items []string) *rotation { return &rotation{items: items} }

func (r *rotation) next() (string, bool) {
	if len(r.items) == 0 {
		return "", false
	}
	s := r.items[r.i%len(r.items)]
	r.i++
	return s, true
}
