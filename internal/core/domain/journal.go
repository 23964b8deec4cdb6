package domain

import "time"

// MoveStatus tracks the move step of a journalled classification.
type MoveStatus string

// Move statuses.
const (
	// MovePending means the result is recorded and the move has not succeeded yet.
	MovePending MoveStatus = "pending"

	// MoveDone means the file reached its destination.
	MoveDone MoveStatus = "moved"

	// MoveFailed means every attempt failed. Eligible for retry.
	MoveFailed MoveStatus = "failed"

	// MoveHeld means the file was deliberately left in staging.
	MoveHeld MoveStatus = "held"
)

// JournalEntry records one classification and its move.
// A failed move keeps the entry so the move can be retried without re-parsing.
type JournalEntry struct {
	ID    string
	RunID string

	// Filename is the original transport filename.
	Filename string

	// SourcePath is the full staging path of the file.
	SourcePath string

	Outcome Outcome

	// TargetDir and TargetName are the move destination.
	TargetDir  string
	TargetName string

	// MovedTo is the final path, set once the move succeeds.
	MovedTo string

	PartnerPrefix string
	SenderID      string
	MessageType   string

	Status   MoveStatus
	Error    string
	Attempts int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Retryable reports whether the move should be attempted again.
func (e JournalEntry) Retryable() bool {
	return e.Status == MovePending || e.Status == MoveFailed
}
