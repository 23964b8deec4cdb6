package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
)

// Ensure journalStore implements the interface.
var _ driven.JournalStore = (*journalStore)(nil)

const journalColumns = `id, run_id, filename, source_path, outcome, target_dir, target_name,
	moved_to, partner_prefix, sender_id, message_type, status, error, attempts,
	created_at, updated_at`

// journalStore implements driven.JournalStore.
type journalStore struct {
	store *Store
}

// Record stores a new entry.
func (s *journalStore) Record(ctx context.Context, entry domain.JournalEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: journal entry without id", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = entry.CreatedAt
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO journal (`+journalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.RunID, entry.Filename, entry.SourcePath,
		entry.Outcome.String(), entry.TargetDir, entry.TargetName,
		nullString(entry.MovedTo), nullString(entry.PartnerPrefix),
		nullString(entry.SenderID), nullString(entry.MessageType),
		string(entry.Status), nullString(entry.Error), entry.Attempts,
		formatTime(entry.CreatedAt), formatTime(entry.UpdatedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: journal entry %s already recorded", domain.ErrInvalidInput, entry.ID)
		}
		return fmt.Errorf("recording journal entry: %w", err)
	}
	return nil
}

// MarkMoved records a successful move.
func (s *journalStore) MarkMoved(ctx context.Context, id, targetPath string) error {
	return s.update(ctx, id, `
		UPDATE journal
		SET status = ?, moved_to = ?, error = NULL, attempts = attempts + 1, updated_at = ?
		WHERE id = ?
	`, string(domain.MoveDone), targetPath, formatTime(time.Now().UTC()), id)
}

// MarkFailed records a failed move attempt.
func (s *journalStore) MarkFailed(ctx context.Context, id, reason string) error {
	return s.update(ctx, id, `
		UPDATE journal
		SET status = ?, error = ?, attempts = attempts + 1, updated_at = ?
		WHERE id = ?
	`, string(domain.MoveFailed), reason, formatTime(time.Now().UTC()), id)
}

func (s *journalStore) update(ctx context.Context, id, query string, args ...any) error {
	res, err := s.store.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating journal entry %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating journal entry %s: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Get retrieves an entry by ID.
func (s *journalStore) Get(ctx context.Context, id string) (*domain.JournalEntry, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+journalColumns+` FROM journal WHERE id = ?`, id)
	entry, err := scanJournalEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting journal entry: %w", err)
	}
	return entry, nil
}

// Pending returns retryable entries, oldest first.
func (s *journalStore) Pending(ctx context.Context) ([]domain.JournalEntry, error) {
	return s.query(ctx, `
		SELECT `+journalColumns+` FROM journal
		WHERE status IN (?, ?)
		ORDER BY seq ASC
	`, string(domain.MovePending), string(domain.MoveFailed))
}

// Recent returns up to limit entries, newest first. A limit of 0 or less
// returns everything.
func (s *journalStore) Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error) {
	if limit <= 0 {
		limit = -1
	}
	return s.query(ctx, `
		SELECT `+journalColumns+` FROM journal
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
}

func (s *journalStore) query(ctx context.Context, query string, args ...any) ([]domain.JournalEntry, error) {
	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry //nolint:prealloc // size unknown from query
	for rows.Next() {
		entry, err := scanJournalEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning journal entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	return entries, rows.Err()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanJournalEntry(row scanner) (*domain.JournalEntry, error) {
	var e domain.JournalEntry
	var outcome, status, createdAt, updatedAt string
	var movedTo, prefix, senderID, msgType, errText sql.NullString
	err := row.Scan(&e.ID, &e.RunID, &e.Filename, &e.SourcePath, &outcome,
		&e.TargetDir, &e.TargetName, &movedTo, &prefix, &senderID, &msgType,
		&status, &errText, &e.Attempts, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	e.Outcome = domain.ParseOutcome(outcome)
	e.Status = domain.MoveStatus(status)
	e.MovedTo = movedTo.String
	e.PartnerPrefix = prefix.String
	e.SenderID = senderID.String
	e.MessageType = msgType.String
	e.Error = errText.String
	e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	e.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
