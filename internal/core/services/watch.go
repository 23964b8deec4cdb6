package services

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
	"github.com/custodia-labs/edisort/internal/core/ports/driving"
	"github.com/custodia-labs/edisort/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.Watcher = (*WatchService)(nil)

// minSettleTick bounds how often pending files are checked.
const minSettleTick = 10 * time.Millisecond

// WatchService sorts staged files once they have been quiet for the settle
// period, so files still being written by the transport are not picked up.
type WatchService struct {
	staging driven.StagingArea
	sorter  driving.Sorter
	settle  time.Duration
	opts    driving.SortOptions

	onReport func(*driving.BatchReport)

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewWatchService creates a watch service.
func NewWatchService(
	staging driven.StagingArea,
	sorter driving.Sorter,
	settle time.Duration,
	opts driving.SortOptions,
) *WatchService {
	return &WatchService{
		staging: staging,
		sorter:  sorter,
		settle:  settle,
		opts:    opts,
	}
}

// OnReport registers a handler called with every batch report.
func (w *WatchService) OnReport(fn func(*driving.BatchReport)) {
	w.onReport = fn
}

// Start sorts the current backlog, then sorts new files as they settle.
// This method blocks until Stop is called or ctx is cancelled.
func (w *WatchService) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	w.mu.Unlock()
	defer close(w.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := w.staging.Watch(ctx)
	if err != nil {
		w.setStopped()
		return err
	}

	logger.Section("Backlog")
	report, err := w.sorter.Sort(ctx, w.opts)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("backlog sort failed", "err", err)
	}
	w.emit(report)

	err = w.run(ctx, events)
	w.setStopped()
	return err
}

// Stop gracefully stops watching and waits for the current batch.
func (w *WatchService) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopCh)
	done := w.done
	w.mu.Unlock()

	<-done
	return nil
}

func (w *WatchService) setStopped() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		w.running = false
		close(w.stopCh)
	}
}

// run is the main watch loop.
func (w *WatchService) run(ctx context.Context, events <-chan domain.StagingEvent) error {
	pending := make(map[string]time.Time)

	ticker := time.NewTicker(max(w.settle/2, minSettleTick))
	defer ticker.Stop()

	logger.Section("Watching")
	logger.Info("watching staging directory", "dir", w.staging.Root(), "settle", w.settle)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			return nil
		case ev, ok := <-events:
			if !ok {
				return errors.New("staging watch closed")
			}
			switch ev.Type {
			case domain.ChangeCreated, domain.ChangeUpdated:
				pending[ev.Path] = time.Now()
			case domain.ChangeDeleted:
				delete(pending, ev.Path)
			}
		case now := <-ticker.C:
			files := settled(pending, now, w.settle)
			if len(files) == 0 {
				continue
			}
			report, err := w.sorter.SortFiles(ctx, files, w.opts)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("sort failed", "err", err)
			}
			w.emit(report)
		}
	}
}

func (w *WatchService) emit(report *driving.BatchReport) {
	if report != nil && len(report.Files) > 0 && w.onReport != nil {
		w.onReport(report)
	}
}

// settled removes and returns the pending files quiet for at least settle.
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []domain.StagedFile {
	var files []domain.StagedFile
	for path, last := range pending {
		if now.Sub(last) < settle {
			continue
		}
		files = append(files, domain.StagedFile{Path: path, Name: filepath.Base(path)})
		delete(pending, path)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files
}
