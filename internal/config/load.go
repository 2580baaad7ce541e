package config

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "lovestory"

// DefaultCacheURLs are the assets precached at install time.
var DefaultCacheURLs = []string{
	"/",
	"/manifest.json",
	"https://fonts.googleapis.com/css2?family=Dancing+Script:wght@400;700&display=swap",
}

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/lovestory/config.toml
//  2. ~/.config/lovestory/config.toml
//
// If no file exists, returns DefaultConfig() with env overrides applied.
func Load() (*Config, error) {
	for _, p := range configSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, cfg.Validate()
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, cfg.Validate()
		}
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	cacheDir := filepath.Join(xdgCacheHome(home), appName)

	return &Config{
		Card: CardConfig{
			Recipient: "My Love",
			Sender:    "Yours, always",
			Title:     "Our Love Story",
		},
		Countdown: CountdownConfig{
			Target: "08-17",
			Label:  "Until our special day",
		},
		Theme: ThemeConfig{Mode: "auto"},
		Navigation: NavigationConfig{
			SwipeThreshold: 6,
			Haptics:        true,
		},
		Ambient: AmbientConfig{
			Hearts:         6,
			HeartsInterval: Duration{400 * time.Millisecond},
			Sparkle:        Duration{time.Second},
		},
		Carousel: CarouselConfig{Interval: Duration{3 * time.Second}},
		Playback: PlaybackConfig{
			TrackLength: Duration{3 * time.Minute},
			Tick:        Duration{time.Second},
		},
		Capabilities: CapabilitiesConfig{
			ConnectivityHost:     "1.1.1.1:443",
			ConnectivityInterval: Duration{15 * time.Second},
			NotificationDelay:    Duration{10 * time.Second},
			InstallPath:          filepath.Join(home, ".local", "bin", appName),
		},
		Cache: CacheConfig{
			Dir:  cacheDir,
			URLs: append([]string(nil), DefaultCacheURLs...),
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(cacheDir, appName+".log"),
		},
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOVESTORY_THEME"); v != "" {
		cfg.Theme.Mode = v
	}
	if v := os.Getenv("LOVESTORY_RECIPIENT"); v != "" {
		cfg.Card.Recipient = v
	}
	if v := os.Getenv("LOVESTORY_TARGET"); v != "" {
		cfg.Countdown.Target = v
	}
	if v := os.Getenv("LOVESTORY_CONTENT"); v != "" {
		cfg.Card.Content = v
	}
	if v := os.Getenv("LOVESTORY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Dir returns the directory holding the user config file.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(xdgConfigHome(home), appName)
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, appName, "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, appName, "config.toml"))
	}
	return paths
}

func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

func xdgCacheHome(home string) string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".cache")
}
