// Package filesystem implements the staging area and mover on the local
// filesystem. The staging directory is scanned one level deep; hidden files
// (dotfiles, typically partial uploads) are never listed or watched.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
	"github.com/custodia-labs/edisort/internal/logger"
)

// Ensure Staging implements the interface.
var _ driven.StagingArea = (*Staging)(nil)

// Staging is a staging directory on the local filesystem.
type Staging struct {
	rootPath string
}

// New creates a staging area rooted at rootPath.
func New(rootPath string) *Staging {
	return &Staging{rootPath: rootPath}
}

// Root returns the staging directory path.
func (s *Staging) Root() string {
	return s.rootPath
}

// List returns the regular, non-hidden files directly under the root,
// sorted by name.
func (s *Staging) List(ctx context.Context) ([]domain.StagedFile, error) {
	entries, err := os.ReadDir(s.rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("staging directory does not exist: %s: %w", s.rootPath, err)
		}
		return nil, fmt.Errorf("read staging directory: %w", err)
	}

	files := make([]domain.StagedFile, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isHidden(entry.Name()) || !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		files = append(files, domain.StagedFile{
			Path:    filepath.Join(s.rootPath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// Read loads a staged file.
func (s *Staging) Read(ctx context.Context, file domain.StagedFile) (domain.RawInterchange, error) {
	if err := ctx.Err(); err != nil {
		return domain.RawInterchange{}, err
	}
	content, err := os.ReadFile(file.Path)
	if err != nil {
		return domain.RawInterchange{}, err
	}
	name := file.Name
	if name == "" {
		name = filepath.Base(file.Path)
	}
	return domain.RawInterchange{Filename: name, Content: content}, nil
}

// Watch streams staging changes until ctx is cancelled.
func (s *Staging) Watch(ctx context.Context) (<-chan domain.StagingEvent, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.rootPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.rootPath, err)
	}

	events := make(chan domain.StagingEvent)
	go func() {
		defer close(events)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change := s.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case events <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("staging watch error", "dir", s.rootPath, "err", err)
			}
		}
	}()

	return events, nil
}

// handleFsEvent converts an fsnotify event to a staging event.
// Returns nil for events that do not concern a staged file.
func (s *Staging) handleFsEvent(event fsnotify.Event) *domain.StagingEvent {
	rel, err := filepath.Rel(s.rootPath, event.Name)
	if err != nil || isHidden(rel) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &domain.StagingEvent{Type: domain.ChangeDeleted, Path: event.Name}
	case event.Has(fsnotify.Create):
		if !isRegular(event.Name) {
			return nil
		}
		return &domain.StagingEvent{Type: domain.ChangeCreated, Path: event.Name}
	case event.Has(fsnotify.Write):
		if !isRegular(event.Name) {
			return nil
		}
		return &domain.StagingEvent{Type: domain.ChangeUpdated, Path: event.Name}
	default:
		return nil
	}
}

func isRegular(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode().IsRegular()
}

// isHidden reports whether any component of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
