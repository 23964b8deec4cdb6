package driving

import "context"

// Watcher sorts files as they arrive in the staging directory.
type Watcher interface {
	// Start sorts whatever is already staged, then watches for new files.
	// Blocks until Stop is called, ctx is cancelled or watching fails.
	Start(ctx context.Context) error

	// Stop gracefully stops watching.
	Stop() error

	// OnReport registers a handler called with every batch report.
	// Must be called before Start.
	OnReport(fn func(*BatchReport))
}
