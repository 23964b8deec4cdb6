package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/edisort/internal/core/ports/driving"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sort files as they arrive in staging",
	Long: `Sorts whatever is already staged, then watches the staging directory
and sorts each new file once it has stopped changing for watch.settle_ms.
Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if watcher == nil {
		return unavailable("watch")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher.OnReport(func(report *driving.BatchReport) {
		if len(report.Files) > 0 {
			printReport(cmd, report)
		}
	})

	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			cmd.Printf("Watching %s (Ctrl+C to stop)\n", settings.Dirs.Staging)
		}
	}

	err := watcher.Start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	cmd.Println("Stopped.")
	return nil
}
