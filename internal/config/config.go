package config

import (
	"fmt"
	"strings"
	"time"

	"lovestory/internal/countdown"
)

// Config is the full lovestory configuration.
type Config struct {
	Card         CardConfig         `toml:"card"`
	Countdown    CountdownConfig    `toml:"countdown"`
	Theme        ThemeConfig        `toml:"theme"`
	Navigation   NavigationConfig   `toml:"navigation"`
	Ambient      AmbientConfig      `toml:"ambient"`
	Carousel     CarouselConfig     `toml:"carousel"`
	Playback     PlaybackConfig     `toml:"playback"`
	Capabilities CapabilitiesConfig `toml:"capabilities"`
	Cache        CacheConfig        `toml:"cache"`
	Log          LogConfig          `toml:"log"`
}

// CardConfig personalises the card. Content is a path or URL to a TOML or
// YAML story file; empty uses the built-in story.
type CardConfig struct {
	Recipient string `toml:"recipient"`
	Sender    string `toml:"sender"`
	Title     string `toml:"title"`
	Content   string `toml:"content"`
}

// CountdownConfig sets the countdown target. Target is either "MM-DD", which
// recurs every year at local midnight, or an absolute "2006-01-02" /
// RFC 3339 timestamp.
type CountdownConfig struct {
	Target string `toml:"target"`
	Label  string `toml:"label"`
}

// ThemeConfig selects the initial theme: light, dark or auto.
type ThemeConfig struct {
	Mode string `toml:"mode"`
}

type NavigationConfig struct {
	SwipeThreshold int  `toml:"swipe_threshold"`
	Haptics        bool `toml:"haptics"`
}

type AmbientConfig struct {
	Hearts         int      `toml:"hearts"`
	HeartsInterval Duration `toml:"hearts_interval"`
	Sparkle        Duration `toml:"sparkle"`
}

type CarouselConfig struct {
	Interval Duration `toml:"interval"`
}

// PlaybackConfig drives the simulated music progress.
type PlaybackConfig struct {
	TrackLength Duration `toml:"track_length"`
	Tick        Duration `toml:"tick"`
}

type CapabilitiesConfig struct {
	ConnectivityHost     string   `toml:"connectivity_host"`
	ConnectivityInterval Duration `toml:"connectivity_interval"`
	NotificationDelay    Duration `toml:"notification_delay"`
	InstallPath          string   `toml:"install_path"`
}

// CacheConfig locates the offline asset cache and the URLs precached on
// install.
type CacheConfig struct {
	Dir  string   `toml:"dir"`
	URLs []string `toml:"urls"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Validate checks enumerations and ranges, filling empty optional values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Theme.Mode) {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("invalid theme mode %q", c.Theme.Mode)
	}
	if c.Theme.Mode == "" {
		c.Theme.Mode = "auto"
	}
	c.Theme.Mode = strings.ToLower(c.Theme.Mode)

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	if c.Navigation.SwipeThreshold <= 0 {
		return fmt.Errorf("navigation.swipe_threshold must be positive, got %d", c.Navigation.SwipeThreshold)
	}
	if c.Ambient.Hearts < 0 {
		return fmt.Errorf("ambient.hearts must not be negative, got %d", c.Ambient.Hearts)
	}
	if c.Ambient.Hearts > 0 && c.Ambient.HeartsInterval.Duration <= 0 {
		return fmt.Errorf("ambient.hearts_interval must be positive, got %s", c.Ambient.HeartsInterval.Duration)
	}
	if c.Ambient.Sparkle.Duration <= 0 {
		return fmt.Errorf("ambient.sparkle must be positive, got %s", c.Ambient.Sparkle.Duration)
	}
	if c.Capabilities.ConnectivityHost != "" && c.Capabilities.ConnectivityInterval.Duration <= 0 {
		return fmt.Errorf("capabilities.connectivity_interval must be positive, got %s", c.Capabilities.ConnectivityInterval.Duration)
	}
	if c.Capabilities.NotificationDelay.Duration < 0 {
		return fmt.Errorf("capabilities.notification_delay must not be negative, got %s", c.Capabilities.NotificationDelay.Duration)
	}
	if c.Playback.Tick.Duration <= 0 || c.Playback.TrackLength.Duration <= 0 {
		return fmt.Errorf("playback tick and track_length must be positive")
	}
	if c.Carousel.Interval.Duration <= 0 {
		return fmt.Errorf("carousel.interval must be positive")
	}
	if _, err := c.TargetTime(time.Now()); err != nil {
		return err
	}
	return nil
}

// TargetTime resolves the countdown target relative to now.
func (c *Config) TargetTime(now time.Time) (time.Time, error) {
	s := strings.TrimSpace(c.Countdown.Target)
	if s == "" {
		return countdown.NextAnnual(now, time.August, 17), nil
	}
	if md, err := time.ParseInLocation("01-02", s, now.Location()); err == nil {
		return countdown.NextAnnual(now, md.Month(), md.Day()), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid countdown target %q", s)
}
