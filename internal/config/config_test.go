package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "auto", cfg.Theme.Mode)
	assert.Equal(t, 6, cfg.Navigation.SwipeThreshold)
	assert.Equal(t, 3*time.Second, cfg.Carousel.Interval.Duration)
	assert.Equal(t, 10*time.Second, cfg.Capabilities.NotificationDelay.Duration)
	assert.Equal(t, DefaultCacheURLs, cfg.Cache.URLs)
}

func TestLoadFromReaderOverridesDefaults(t *testing.T) {
	in := `
[card]
recipient = "Ana"

[theme]
mode = "DARK"

[carousel]
interval = "5s"

[navigation]
swipe_threshold = 9
`
	cfg, err := LoadFromReader(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, "Ana", cfg.Card.Recipient)
	assert.Equal(t, "dark", cfg.Theme.Mode)
	assert.Equal(t, 5*time.Second, cfg.Carousel.Interval.Duration)
	assert.Equal(t, 9, cfg.Navigation.SwipeThreshold)
	assert.Equal(t, "Our Love Story", cfg.Card.Title, "unset keys keep defaults")
}

func TestLoadFromReaderRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"theme":     "[theme]\nmode = \"sepia\"\n",
		"duration":  "[carousel]\ninterval = \"soon\"\n",
		"negative":  "[carousel]\ninterval = \"-1s\"\n",
		"threshold": "[navigation]\nswipe_threshold = 0\n",
		"target":    "[countdown]\ntarget = \"someday\"\n",
		"syntax":    "[card\n",
		"hearts":    "[ambient]\nhearts = 3\nhearts_interval = \"0s\"\n",
		"sparkle":   "[ambient]\nsparkle = \"0s\"\n",
		"probe":     "[capabilities]\nconnectivity_interval = \"0s\"\n",
		"delay":     "[capabilities]\nnotification_delay = \"-1s\"\n",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestIntervalsOnlyCheckedWhenEnabled(t *testing.T) {
	in := `
[ambient]
hearts = 0
hearts_interval = "0s"

[capabilities]
connectivity_host = ""
connectivity_interval = "0s"
`
	cfg, err := LoadFromReader(strings.NewReader(in))
	require.NoError(t, err)
	assert.Zero(t, cfg.Ambient.Hearts)
	assert.Empty(t, cfg.Capabilities.ConnectivityHost)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LOVESTORY_THEME", "light")
	t.Setenv("LOVESTORY_RECIPIENT", "Sam")
	t.Setenv("LOVESTORY_TARGET", "2030-02-14")
	t.Setenv("LOVESTORY_CONTENT", "/tmp/story.yaml")
	t.Setenv("LOVESTORY_LOG_LEVEL", "debug")

	cfg, err := LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)

	assert.Equal(t, "light", cfg.Theme.Mode)
	assert.Equal(t, "Sam", cfg.Card.Recipient)
	assert.Equal(t, "/tmp/story.yaml", cfg.Card.Content)
	assert.Equal(t, "debug", cfg.Log.Level)

	target, err := cfg.TargetTime(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2030, target.Year())
}

func TestLoadFromFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Card, cfg.Card)
}

func TestLoadSearchesXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lovestory"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lovestory", "config.toml"),
		[]byte("[card]\nsender = \"J\"\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "J", cfg.Card.Sender)
	assert.Equal(t, filepath.Join(dir, "lovestory"), Dir())
}

func TestTargetTimeAnnual(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

	got, err := cfg.TargetTime(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2027, time.August, 17, 0, 0, 0, 0, time.UTC), got)

	cfg.Countdown.Target = ""
	got, err = cfg.TargetTime(now)
	require.NoError(t, err)
	assert.Equal(t, time.August, got.Month())
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("250ms")))
	assert.Equal(t, 250*time.Millisecond, d.Duration)

	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "250ms", string(out))

	require.NoError(t, d.UnmarshalText(nil))
	assert.Zero(t, d.Duration)
}
