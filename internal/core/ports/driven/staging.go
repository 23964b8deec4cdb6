package driven

import (
	"context"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

// StagingArea is the directory that incoming interchanges are dropped into.
type StagingArea interface {
	// Root returns the staging directory path.
	Root() string

	// List returns the regular, non-hidden files in the staging directory.
	// Subdirectories are not descended into.
	List(ctx context.Context) ([]domain.StagedFile, error)

	// Read loads a staged file as a raw interchange.
	Read(ctx context.Context, file domain.StagedFile) (domain.RawInterchange, error)

	// Watch streams changes until ctx is cancelled.
	// The channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan domain.StagingEvent, error)
}

// Mover relocates files out of the staging directory.
type Mover interface {
	// Move relocates src to dstDir/name and returns the destination path.
	// It never overwrites: an existing destination fails with
	// domain.ErrDestinationExists.
	Move(ctx context.Context, src, dstDir, name string) (string, error)
}
