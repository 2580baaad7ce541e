package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"lovestory/internal/logging"
	"lovestory/internal/push"
	"lovestory/internal/tui"
)

var pushCmd = &cobra.Command{
	Use:   "push [body]",
	Short: "Show a love story notification",
	Long: `Shows a notification with "View Memory" and "Close" actions. The body is
taken from the arguments, or from stdin when the only argument is "-". Stdin
may hold plain text or a JSON object with a "body" field.

Picking "View Memory" opens the card at its first section.`,
	RunE: runPush,
}

func runPush(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	var data []byte
	if len(args) == 1 && args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read payload: %w", err)
		}
		data = b
	} else {
		data = []byte(strings.Join(args, " "))
	}

	caps := probe()
	out, err := push.Deliver(ctx, caps.Notifier, push.ParsePayload(data), logging.Named(logger, "push"))
	if err != nil {
		return err
	}
	if out != push.OpenCard {
		return nil
	}

	logger.Info("opening card from notification", zap.String("command", cmd.Name()))
	st, err := loadStory(ctx)
	if err != nil {
		return err
	}
	return tui.Run(ctx, tui.Options{
		Config: cfg,
		Story:  st,
		Caps:   caps,
		Log:    logging.Named(logger, "tui"),
	})
}
