package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driving"
)

// fileJSON is the JSON form of one file in a report.
type fileJSON struct {
	File        string `json:"file"`
	Outcome     string `json:"outcome"`
	Partner     string `json:"partner,omitempty"`
	SenderID    string `json:"sender_id,omitempty"`
	Dialect     string `json:"dialect,omitempty"`
	MessageType string `json:"message_type,omitempty"`
	NewFilename string `json:"new_filename,omitempty"`
	Destination string `json:"destination,omitempty"`
	Action      string `json:"action,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
}

type reportJSON struct {
	RunID  string     `json:"run_id"`
	DryRun bool       `json:"dry_run"`
	Files  []fileJSON `json:"files"`
}

func resultJSON(r domain.ClassificationResult) fileJSON {
	f := fileJSON{
		File:        r.Filename,
		Outcome:     r.Outcome.String(),
		SenderID:    r.SenderID,
		MessageType: r.MessageType,
		NewFilename: r.NewFilename,
		Reason:      r.Reason(),
	}
	if r.Dialect != domain.DialectUnknown {
		f.Dialect = r.Dialect.String()
	}
	if r.Partner != nil {
		f.Partner = r.Partner.Prefix
	}
	return f
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputReportJSON(cmd *cobra.Command, report *driving.BatchReport) error {
	out := reportJSON{
		RunID:  report.RunID,
		DryRun: report.DryRun,
		Files:  make([]fileJSON, 0, len(report.Files)),
	}
	for _, f := range report.Files {
		j := resultJSON(f.Result)
		j.Destination = f.Destination
		j.Action = string(f.Action)
		if f.Err != nil {
			j.Error = f.Err.Error()
		}
		out.Files = append(out.Files, j)
	}
	return outputJSON(cmd, out)
}

// printReport writes one line per file and a summary.
func printReport(cmd *cobra.Command, report *driving.BatchReport) {
	if report.DryRun {
		cmd.Println(mutedStyle.Render("Dry run: no files were moved."))
	}
	if len(report.Files) == 0 {
		cmd.Println("No files in staging.")
		return
	}

	for _, f := range report.Files {
		label := actionStyle(f.Action).Render(string(f.Action))
		switch {
		case f.Err != nil:
			cmd.Printf("%s %s: %s\n", label, f.Result.Filename, errorStyle.Render(f.Err.Error()))
		case f.Destination != "":
			cmd.Printf("%s %s -> %s\n", label, f.Result.Filename, displayDestination(f))
		default:
			cmd.Printf("%s %s\n", label, f.Result.Filename)
		}
		if !f.Result.Matched() && f.Result.Err != nil {
			cmd.Printf("%s %s\n", labelStyle.Render(""), mutedStyle.Render(f.Result.Reason()))
		}
	}

	cmd.Println()
	cmd.Printf("%d files: %d matched, %d unmatched, %d malformed",
		len(report.Files),
		report.Count(domain.OutcomeMatched),
		report.Count(domain.OutcomeUnmatched),
		report.Count(domain.OutcomeMalformed),
	)
	if n := report.CountAction(driving.ActionFailed); n > 0 {
		cmd.Printf(", %s", errorStyle.Render(fmt.Sprintf("%d failed", n)))
	}
	cmd.Println()
}

// displayDestination shortens the destination to its directory when the
// name is unchanged.
func displayDestination(f driving.FileReport) string {
	if filepath.Base(f.Destination) == f.Result.Filename {
		return filepath.Dir(f.Destination) + string(filepath.Separator)
	}
	return f.Destination
}

// batchError turns per-file failures into a command error.
func batchError(report *driving.BatchReport) error {
	if err := report.Err(); err != nil {
		return fmt.Errorf("%d of %d files failed", report.CountAction(driving.ActionFailed), len(report.Files))
	}
	return nil
}
