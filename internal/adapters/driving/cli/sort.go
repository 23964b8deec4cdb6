package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/edisort/internal/core/ports/driving"
)

var (
	sortDryRun bool
	sortJSON   bool
	retryJSON  bool
)

var sortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Classify and move every staged file",
	Long: `Classifies every file in the staging directory and moves it to the
inbound directory. Matched files are renamed to
<prefix>[-<code>]-<type>-<date>-<seq>.<ext>; unmatched files keep their name.
Malformed files follow the policy.malformed setting.`,
	Args: cobra.NoArgs,
	RunE: runSort,
}

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Retry journalled moves that did not complete",
	Long: `Replays moves that are pending or failed in the journal. Files are
not classified again; each goes to the destination recorded when it was.`,
	Args: cobra.NoArgs,
	RunE: runRetry,
}

func init() {
	sortCmd.Flags().BoolVarP(&sortDryRun, "dry-run", "n", false, "classify and plan moves without moving anything")
	sortCmd.Flags().BoolVar(&sortJSON, "json", false, "output the report as JSON")
	retryCmd.Flags().BoolVar(&retryJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(retryCmd)
}

func runSort(cmd *cobra.Command, _ []string) error {
	if sorter == nil {
		return unavailable("sort")
	}

	report, err := sorter.Sort(cmd.Context(), driving.SortOptions{DryRun: sortDryRun})
	if err != nil && report == nil {
		return fmt.Errorf("sort failed: %w", err)
	}

	if sortJSON {
		if jsonErr := outputReportJSON(cmd, report); jsonErr != nil {
			return jsonErr
		}
	} else {
		printReport(cmd, report)
	}

	if err != nil {
		return fmt.Errorf("sort interrupted: %w", err)
	}
	return batchError(report)
}

func runRetry(cmd *cobra.Command, _ []string) error {
	if sorter == nil {
		return unavailable("sort")
	}

	report, err := sorter.Retry(cmd.Context())
	if err != nil && report == nil {
		return fmt.Errorf("retry failed: %w", err)
	}

	if retryJSON {
		if jsonErr := outputReportJSON(cmd, report); jsonErr != nil {
			return jsonErr
		}
	} else if len(report.Files) == 0 {
		cmd.Println("Nothing to retry.")
	} else {
		printReport(cmd, report)
	}

	if err != nil {
		return fmt.Errorf("retry interrupted: %w", err)
	}
	return batchError(report)
}
