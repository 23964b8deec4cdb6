package driving

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

// Sorter classifies and relocates every file in the staging directory.
type Sorter interface {
	// Sort runs one batch over the staging directory.
	// Per-file failures are reported in the BatchReport, never returned.
	Sort(ctx context.Context, opts SortOptions) (*BatchReport, error)

	// SortFiles runs one batch over the given staged files only.
	SortFiles(ctx context.Context, files []domain.StagedFile, opts SortOptions) (*BatchReport, error)

	// Retry replays journalled moves that are pending or failed.
	Retry(ctx context.Context) (*BatchReport, error)
}

// SortOptions tunes a sort run.
type SortOptions struct {
	// DryRun classifies and plans moves without touching any file.
	DryRun bool
}

// Action is what happened to a file in a batch.
type Action string

// Batch actions.
const (
	ActionMoved       Action = "moved"
	ActionPlanned     Action = "planned"
	ActionHeld        Action = "held"
	ActionQuarantined Action = "quarantined"
	ActionFailed      Action = "failed"
)

// FileReport is the outcome of one file in a batch.
type FileReport struct {
	Result domain.ClassificationResult

	// Source is the staging path.
	Source string

	// Destination is the target path, or the planned target in a dry run.
	Destination string

	Action Action

	// Err is set when the file could not be read or moved.
	Err error
}

// BatchReport aggregates the per-file results of one run.
type BatchReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	DryRun     bool
	Files      []FileReport
}

// Count returns the number of files with the given outcome.
func (r *BatchReport) Count(o domain.Outcome) int {
	n := 0
	for _, f := range r.Files {
		if f.Result.Outcome == o {
			n++
		}
	}
	return n
}

// CountAction returns the number of files that ended with the given action.
func (r *BatchReport) CountAction(a Action) int {
	n := 0
	for _, f := range r.Files {
		if f.Action == a {
			n++
		}
	}
	return n
}

// Err joins the read and move failures of the batch, or returns nil.
func (r *BatchReport) Err() error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errors.Join(errs...)
}

// JournalReader exposes the classification journal.
type JournalReader interface {
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error)
}
