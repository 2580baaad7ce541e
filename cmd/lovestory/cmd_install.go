package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lovestory/internal/capability"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install lovestory and cache the card for offline use",
	Long: `Copies the running binary to the install path (capabilities.install_path)
and precaches the card's assets so it opens without a connection.`,
	RunE: runInstall,
}

var precacheCmd = &cobra.Command{
	Use:   "precache",
	Short: "Refresh the offline asset cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		st, err := loadStory(ctx)
		if err != nil {
			return err
		}
		if err := precache(ctx, st); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cached %d assets in %s\n", len(cfg.Cache.URLs), cfg.Cache.Dir)
		return nil
	},
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	target := cfg.Capabilities.InstallPath
	inst := capability.NewSelfInstaller(target)
	if inst.Available() {
		if err := inst.Install(ctx); err != nil {
			return fmt.Errorf("install to %s: %w", target, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "installed %s to %s\n", appName, target)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s already installed at %s\n", appName, target)
	}

	st, err := loadStory(ctx)
	if err != nil {
		return err
	}
	if err := precache(ctx, st); err != nil {
		// The binary is in place; a cold cache only means the first
		// offline start falls back to the built-in story.
		logger.Warn("precache failed", zap.Error(err))
		if errors.Is(err, ctx.Err()) {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: precache failed: %v\n", err)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cached %d assets for offline use\n", len(cfg.Cache.URLs))
	return nil
}
