package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lovestory/internal/assetcache"
	"lovestory/internal/capability"
	"lovestory/internal/config"
	"lovestory/internal/countdown"
	"lovestory/internal/logging"
	"lovestory/internal/story"
	"lovestory/internal/tui"
)

const appName = "lovestory"

var version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool
	recipient  string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "A love story greeting card for your terminal",
	Long: `lovestory is an animated greeting card in seven sections: a welcome,
our story, memories, a quiz, gifts, a surprise and love notes.

Run without arguments to open the card.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if recipient != "" {
			cfg.Card.Recipient = recipient
		}
		if verbose {
			cfg.Log.Level = "debug"
		}

		logger, err = logging.New(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			return err
		}
		logger.Debug("starting", zap.String("command", cmd.Name()), zap.String("version", version))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runUI,
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the card",
	RunE:  runUI,
}

var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Print the time left until the special day",
	RunE:  runCountdown,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/lovestory/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&recipient, "to", "", "Recipient name shown in the greeting")

	rootCmd.AddCommand(uiCmd, installCmd, precacheCmd, pushCmd, countdownCmd, trayCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		exitErr(err)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func runUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	st, err := loadStory(ctx)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{
		Config:    cfg,
		Story:     st,
		Caps:      probe(),
		Log:       logging.Named(logger, "tui"),
		OnInstall: func(ctx context.Context) error { return precache(ctx, st) },
	})
}

// loadStory resolves the configured content. Remote content goes through
// the asset cache so the card still opens offline once it has been seen.
func loadStory(ctx context.Context) (*story.Story, error) {
	var f story.Fetcher
	if strings.HasPrefix(cfg.Card.Content, "http://") || strings.HasPrefix(cfg.Card.Content, "https://") {
		cache, err := openCache(nil)
		if err != nil {
			return nil, err
		}
		defer cache.Close()
		f = cache
	}

	st, err := story.Load(ctx, cfg.Card.Content, f)
	if err != nil {
		return nil, err
	}
	st.Personalize(cfg.Card.Recipient)
	if err := st.Validate(); err != nil {
		return nil, fmt.Errorf("story %s: %w", cfg.Card.Content, err)
	}
	return st, nil
}

func probe() capability.Set {
	return capability.Probe(capability.Options{
		AppName:          appName,
		Haptics:          cfg.Navigation.Haptics,
		ConnectivityHost: cfg.Capabilities.ConnectivityHost,
		InstallPath:      cfg.Capabilities.InstallPath,
		RecordingDir:     filepath.Join(cfg.Cache.Dir, "voice"),
		Logger:           logging.Named(logger, "capability"),
	})
}

// openCache opens the offline asset cache. When st is set, the card's own
// documents are served locally: "/" is the story and "/manifest.json" the
// app manifest.
func openCache(st *story.Story) (*assetcache.Cache, error) {
	opts := []assetcache.Option{assetcache.WithLogger(logging.Named(logger, "cache"))}
	if st != nil {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(st); err != nil {
			return nil, fmt.Errorf("encode story: %w", err)
		}
		opts = append(opts,
			assetcache.WithLocal("/", buf.Bytes()),
			assetcache.WithLocal("/manifest.json", assetcache.ManifestJSON(cfg.Card.Title, "A love story for "+cfg.Card.Recipient)),
		)
	}
	return assetcache.Open(cfg.Cache.Dir, opts...)
}

func precache(ctx context.Context, st *story.Story) error {
	cache, err := openCache(st)
	if err != nil {
		return err
	}
	defer cache.Close()
	return cache.Precache(ctx, cfg.Cache.URLs)
}

func runCountdown(cmd *cobra.Command, args []string) error {
	now := time.Now()
	target, err := cfg.TargetTime(now)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), countdownLine(cfg.Countdown.Label, target, now))
	return nil
}

func exitErr(err error) {
	msg := err.Error()
	msg = strings.TrimSuffix(msg, "\n")
	fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	os.Exit(1)
}

func countdownLine(label string, target, now time.Time) string {
	r := countdown.Compute(target, now)
	if r.Arrived {
		return "Happy Girlfriend Day! 🎉"
	}
	if label == "" {
		return r.Format()
	}
	return fmt.Sprintf("%s: %s", label, r.Format())
}
