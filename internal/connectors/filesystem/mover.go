package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
)

// Ensure Mover implements the interface.
var _ driven.Mover = (*Mover)(nil)

const dirPerm = 0o755

// Mover moves files without ever overwriting an existing destination.
//
// The destination is claimed with a hard link, which fails atomically when
// the name is taken. When linking is not possible (a different filesystem,
// or one without hard links) the file is copied into an exclusively created
// destination instead. The source is removed only after the destination is
// complete.
type Mover struct{}

// NewMover creates a filesystem mover.
func NewMover() *Mover {
	return &Mover{}
}

// Move relocates src to dstDir/name, creating dstDir if needed. When the
// destination is written but src cannot be deleted, the destination path is
// returned together with domain.ErrSourceNotRemoved.
func (m *Mover) Move(ctx context.Context, src, dstDir, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("%w: destination name %q", domain.ErrInvalidInput, name)
	}
	if err := os.MkdirAll(dstDir, dirPerm); err != nil {
		return "", fmt.Errorf("create %s: %w", dstDir, err)
	}

	dst := filepath.Join(dstDir, name)
	err := os.Link(src, dst)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrExist):
		return "", fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("move %s: %w", src, err)
	default:
		if err := copyExclusive(src, dst); err != nil {
			return "", err
		}
	}

	if err := os.Remove(src); err != nil {
		return dst, fmt.Errorf("%w: %s: %w", domain.ErrSourceNotRemoved, src, err)
	}
	return dst, nil
}

// copyExclusive copies src into a newly created dst.
func copyExclusive(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("move %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", domain.ErrDestinationExists, dst)
		}
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
