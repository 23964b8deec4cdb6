package driven

import (
	"context"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

// JournalStore persists classification results and their move status.
type JournalStore interface {
	// Record stores a new entry. The entry ID must be unique.
	Record(ctx context.Context, entry domain.JournalEntry) error

	// MarkMoved records a successful move to targetPath.
	MarkMoved(ctx context.Context, id, targetPath string) error

	// MarkFailed records a failed move attempt.
	MarkFailed(ctx context.Context, id, reason string) error

	// Get retrieves an entry by ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.JournalEntry, error)

	// Pending returns entries whose move has not succeeded, oldest first.
	Pending(ctx context.Context) ([]domain.JournalEntry, error)

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]domain.JournalEntry, error)
}
