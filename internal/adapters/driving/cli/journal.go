package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

var (
	journalLimit int
	journalJSON  bool
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent classifications",
	Args:  cobra.NoArgs,
	RunE:  runJournal,
}

func init() {
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "maximum number of entries (0 for all)")
	journalCmd.Flags().BoolVar(&journalJSON, "json", false, "output entries as JSON")
	rootCmd.AddCommand(journalCmd)
}

type journalJSONEntry struct {
	ID          string `json:"id"`
	RunID       string `json:"run_id"`
	File        string `json:"file"`
	Outcome     string `json:"outcome"`
	Status      string `json:"status"`
	Target      string `json:"target"`
	MovedTo     string `json:"moved_to,omitempty"`
	Partner     string `json:"partner,omitempty"`
	MessageType string `json:"message_type,omitempty"`
	Error       string `json:"error,omitempty"`
	Attempts    int    `json:"attempts"`
	UpdatedAt   string `json:"updated_at"`
}

func runJournal(cmd *cobra.Command, _ []string) error {
	if journalReader == nil {
		return unavailable("journal")
	}

	entries, err := journalReader.Recent(cmd.Context(), journalLimit)
	if errors.Is(err, domain.ErrJournalDisabled) {
		cmd.Println("The journal is disabled (journal.enabled = false).")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	if journalJSON {
		out := make([]journalJSONEntry, len(entries))
		for i, e := range entries {
			out[i] = journalJSONEntry{
				ID:          e.ID,
				RunID:       e.RunID,
				File:        e.Filename,
				Outcome:     e.Outcome.String(),
				Status:      string(e.Status),
				Target:      e.TargetName,
				MovedTo:     e.MovedTo,
				Partner:     e.PartnerPrefix,
				MessageType: e.MessageType,
				Error:       e.Error,
				Attempts:    e.Attempts,
				UpdatedAt:   e.UpdatedAt.Format(time.RFC3339),
			}
		}
		return outputJSON(cmd, out)
	}

	if len(entries) == 0 {
		cmd.Println("No journal entries.")
		return nil
	}

	for _, e := range entries {
		cmd.Printf("%s %s %s %s",
			mutedStyle.Render(e.UpdatedAt.Local().Format("2006-01-02 15:04:05")),
			statusStyle(e.Status).Render(string(e.Status)),
			outcomeStyle(e.Outcome).Render(e.Outcome.String()),
			e.Filename,
		)
		if e.TargetName != "" && e.TargetName != e.Filename {
			cmd.Printf(" -> %s", e.TargetName)
		}
		cmd.Println()
		if e.Error != "" {
			cmd.Printf("  %s\n", mutedStyle.Render(e.Error))
		}
	}
	return nil
}
