package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
	"github.com/custodia-labs/edisort/internal/core/ports/driving"
	"github.com/custodia-labs/edisort/internal/logger"
)

// Ensure SortService implements the interfaces.
var (
	_ driving.Sorter        = (*SortService)(nil)
	_ driving.JournalReader = (*SortService)(nil)
)

// SortService classifies every staged file and moves it to its destination.
type SortService struct {
	classifier driving.Classifier
	staging    driven.StagingArea
	mover      driven.Mover
	journal    driven.JournalStore
	settings   domain.Settings
	pacer      *movePacer
	now        func() time.Time
}

// NewSortService creates a sort service.
// The journal is optional - if nil, classifications are not recorded and
// Retry is unavailable.
func NewSortService(
	classifier driving.Classifier,
	staging driven.StagingArea,
	mover driven.Mover,
	journal driven.JournalStore,
	settings domain.Settings,
) *SortService {
	return &SortService{
		classifier: classifier,
		staging:    staging,
		mover:      mover,
		journal:    journal,
		settings:   settings,
		pacer:      newMovePacer(settings.Move.PerSecond),
		now:        time.Now,
	}
}

// Sort runs one batch over everything currently in the staging directory.
func (s *SortService) Sort(ctx context.Context, opts driving.SortOptions) (*driving.BatchReport, error) {
	files, err := s.staging.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staging: %w", err)
	}
	return s.SortFiles(ctx, files, opts)
}

// SortFiles classifies files concurrently, bounded by the worker setting,
// and moves each one according to its outcome. A failure is scoped to its
// file; the batch always continues. Cancelling ctx stops new files from
// being started and the report covers only the files that were.
func (s *SortService) SortFiles(
	ctx context.Context,
	files []domain.StagedFile,
	opts driving.SortOptions,
) (*driving.BatchReport, error) {
	report := &driving.BatchReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
		DryRun:    opts.DryRun,
	}
	runLog := logger.With("run", report.RunID)
	runLog.Info("sort started", "files", len(files), "dry_run", opts.DryRun)

	results := make([]driving.FileReport, len(files))
	submitted := 0

	var g errgroup.Group
	g.SetLimit(s.workers())
	for i, f := range files {
		if ctx.Err() != nil {
			break
		}
		submitted++
		i, f := i, f
		g.Go(func() error {
			results[i] = s.sortOne(ctx, report.RunID, f, opts, runLog)
			return nil
		})
	}
	_ = g.Wait()

	report.Files = results[:submitted]
	report.FinishedAt = s.now()
	runLog.Info("sort finished",
		"matched", report.Count(domain.OutcomeMatched),
		"unmatched", report.Count(domain.OutcomeUnmatched),
		"malformed", report.Count(domain.OutcomeMalformed),
		"failed", report.CountAction(driving.ActionFailed),
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// sortOne reads, classifies and relocates one file.
func (s *SortService) sortOne(
	ctx context.Context,
	runID string,
	f domain.StagedFile,
	opts driving.SortOptions,
	runLog *log.Logger,
) driving.FileReport {
	fr := driving.FileReport{
		Source: f.Path,
		Result: domain.ClassificationResult{Filename: f.Name},
	}

	raw, err := s.staging.Read(ctx, f)
	if err != nil {
		runLog.Error("read failed", "file", f.Name, "err", err)
		fr.Action = driving.ActionFailed
		fr.Err = fmt.Errorf("read %s: %w", f.Name, err)
		return fr
	}

	result := s.classifier.Classify(raw)
	fr.Result = result
	logResult(runLog, result)

	dir, name, action := s.destination(result)
	if dir != "" {
		fr.Destination = filepath.Join(dir, name)
	}
	if opts.DryRun {
		if action == driving.ActionMoved || action == driving.ActionQuarantined {
			action = driving.ActionPlanned
		}
		fr.Action = action
		return fr
	}

	entryID := s.record(ctx, runID, f, result, dir, name, action, runLog)

	if action == driving.ActionHeld {
		fr.Action = action
		return fr
	}

	dest, err := s.move(ctx, f.Path, dir, name)
	if err != nil {
		runLog.Error("move failed", "file", f.Name, "dest", fr.Destination, "err", err)
		s.markFailed(ctx, entryID, err, runLog)
		fr.Action = driving.ActionFailed
		fr.Err = fmt.Errorf("move %s: %w", f.Name, err)
		return fr
	}

	s.markMoved(ctx, entryID, dest, runLog)
	runLog.Debug("moved", "file", f.Name, "dest", dest)
	fr.Destination = dest
	fr.Action = action
	return fr
}

// destination decides where a classified file goes. Matched files get their
// canonical name; unmatched files move unchanged to inbound; malformed files
// follow the malformed policy.
func (s *SortService) destination(result domain.ClassificationResult) (string, string, driving.Action) {
	switch result.Outcome {
	case domain.OutcomeMatched:
		return s.settings.Dirs.Inbound, result.NewFilename, driving.ActionMoved
	case domain.OutcomeMalformed:
		switch s.settings.MalformedPolicy {
		case domain.MalformedQuarantine:
			return s.settings.Dirs.Quarantine, result.Filename, driving.ActionQuarantined
		case domain.MalformedCatchAll:
			return s.settings.Dirs.Inbound, result.Filename, driving.ActionMoved
		default:
			return "", "", driving.ActionHeld
		}
	default:
		return s.settings.Dirs.Inbound, result.Filename, driving.ActionMoved
	}
}

// move attempts the move up to the configured number of times.
// A missing source or an existing destination is not retried. A move that
// delivered the file but left the source behind counts as done.
func (s *SortService) move(ctx context.Context, src, dir, name string) (string, error) {
	attempts := max(s.settings.Move.Attempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := s.pacer.Wait(ctx); err != nil {
			return "", err
		}
		dest, err := s.mover.Move(ctx, src, dir, name)
		if err == nil {
			return dest, nil
		}
		if errors.Is(err, domain.ErrSourceNotRemoved) {
			logger.Warn("delivered but staged copy remains", "src", src, "dest", dest, "err", err)
			return dest, nil
		}
		lastErr = err
		if errors.Is(err, domain.ErrDestinationExists) || errors.Is(err, fs.ErrNotExist) {
			break
		}
		logger.Debug("move attempt failed", "src", src, "attempt", attempt, "err", err)
		s.pacer.RecordFailure(attempt)
	}
	return "", lastErr
}

// record journals the classification before the move. Journal failures are
// logged and do not stop the move.
func (s *SortService) record(
	ctx context.Context,
	runID string,
	f domain.StagedFile,
	result domain.ClassificationResult,
	dir, name string,
	action driving.Action,
	runLog *log.Logger,
) string {
	if s.journal == nil {
		return ""
	}

	now := s.now()
	entry := domain.JournalEntry{
		ID:          uuid.NewString(),
		RunID:       runID,
		Filename:    f.Name,
		SourcePath:  f.Path,
		Outcome:     result.Outcome,
		TargetDir:   dir,
		TargetName:  name,
		SenderID:    result.SenderID,
		MessageType: result.MessageType,
		Status:      domain.MovePending,
		Error:       result.Reason(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if result.Partner != nil {
		entry.PartnerPrefix = result.Partner.Prefix
	}
	if action == driving.ActionHeld {
		entry.Status = domain.MoveHeld
	}

	if err := s.journal.Record(ctx, entry); err != nil {
		runLog.Warn("journal record failed", "file", f.Name, "err", err)
		return ""
	}
	return entry.ID
}

func (s *SortService) markMoved(ctx context.Context, id, dest string, runLog *log.Logger) {
	if s.journal == nil || id == "" {
		return
	}
	if err := s.journal.MarkMoved(ctx, id, dest); err != nil {
		runLog.Warn("journal update failed", "entry", id, "err", err)
	}
}

func (s *SortService) markFailed(ctx context.Context, id string, moveErr error, runLog *log.Logger) {
	if s.journal == nil || id == "" {
		return
	}
	if err := s.journal.MarkFailed(ctx, id, moveErr.Error()); err != nil {
		runLog.Warn("journal update failed", "entry", id, "err", err)
	}
}

// Retry replays the moves of pending and failed journal entries without
// classifying the files again.
func (s *SortService) Retry(ctx context.Context) (*driving.BatchReport, error) {
	if s.journal == nil {
		return nil, domain.ErrJournalDisabled
	}

	entries, err := s.journal.Pending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending moves: %w", err)
	}

	report := &driving.BatchReport{
		RunID:     uuid.NewString(),
		StartedAt: s.now(),
	}
	runLog := logger.With("run", report.RunID)
	runLog.Info("retry started", "entries", len(entries))

	results := make([]driving.FileReport, len(entries))
	submitted := 0

	var g errgroup.Group
	g.SetLimit(s.workers())
	for i, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		submitted++
		i, entry := i, entry
		g.Go(func() error {
			results[i] = s.retryOne(ctx, entry, runLog)
			return nil
		})
	}
	_ = g.Wait()

	report.Files = results[:submitted]
	report.FinishedAt = s.now()
	runLog.Info("retry finished",
		"moved", report.CountAction(driving.ActionMoved),
		"failed", report.CountAction(driving.ActionFailed),
	)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *SortService) retryOne(ctx context.Context, entry domain.JournalEntry, runLog *log.Logger) driving.FileReport {
	fr := driving.FileReport{
		Source:      entry.SourcePath,
		Destination: filepath.Join(entry.TargetDir, entry.TargetName),
		Result: domain.ClassificationResult{
			Outcome:     entry.Outcome,
			Filename:    entry.Filename,
			SenderID:    entry.SenderID,
			MessageType: entry.MessageType,
		},
	}
	if entry.Outcome == domain.OutcomeMatched {
		fr.Result.NewFilename = entry.TargetName
	}

	dest, err := s.move(ctx, entry.SourcePath, entry.TargetDir, entry.TargetName)
	if err != nil {
		runLog.Error("retry failed", "file", entry.Filename, "err", err)
		s.markFailed(ctx, entry.ID, err, runLog)
		fr.Action = driving.ActionFailed
		fr.Err = fmt.Errorf("move %s: %w", entry.Filename, err)
		return fr
	}

	s.markMoved(ctx, entry.ID, dest, runLog)
	fr.Destination = dest
	fr.Action = driving.ActionMoved
	if entry.TargetDir == s.settings.Dirs.Quarantine && entry.Outcome == domain.OutcomeMalformed {
		fr.Action = driving.ActionQuarantined
	}
	return fr
}

// Recent returns up to limit journal entries, newest first.
func (s *SortService) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if s.journal == nil {
		return nil, domain.ErrJournalDisabled
	}
	return s.journal.Recent(ctx, limit)
}

func (s *SortService) workers() int {
	return max(s.settings.Workers, 1)
}

// logResult logs a classification at a level matching its outcome.
// Unrecognized dialects get their own message.
func logResult(runLog *log.Logger, r domain.ClassificationResult) {
	switch {
	case r.Outcome == domain.OutcomeMatched:
		runLog.Info("classified", "file", r.Filename, "name", r.NewFilename)
	case r.Outcome == domain.OutcomeUnmatched:
		runLog.Info("unmatched", "file", r.Filename, "reason", r.Reason())
	case errors.Is(r.Err, domain.ErrUnrecognizedDialect):
		runLog.Error("unrecognized dialect", "file", r.Filename, "reason", r.Reason())
	default:
		runLog.Warn("malformed interchange", "file", r.Filename, "reason", r.Reason())
	}
}
