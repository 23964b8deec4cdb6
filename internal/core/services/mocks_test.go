package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
)

var errTransient = errors.New("device busy")

// mockStaging implements driven.StagingArea over an in-memory file set.
type mockStaging struct {
	mu       sync.Mutex
	root     string
	files    map[string][]byte
	readErr  map[string]error
	listErr  error
	events   chan domain.StagingEvent
	readWait time.Duration

	active    atomic.Int32
	maxActive atomic.Int32
}

var _ driven.StagingArea = (*mockStaging)(nil)

func newMockStaging(root string) *mockStaging {
	return &mockStaging{
		root:    root,
		files:   make(map[string][]byte),
		readErr: make(map[string]error),
		events:  make(chan domain.StagingEvent, 16),
	}
}

func (m *mockStaging) add(name string, content []byte) domain.StagedFile {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = content
	return domain.StagedFile{Path: filepath.Join(m.root, name), Name: name, Size: int64(len(content))}
}

func (m *mockStaging) Root() string { return m.root }

func (m *mockStaging) List(_ context.Context) ([]domain.StagedFile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	files := make([]domain.StagedFile, len(names))
	for i, name := range names {
		files[i] = domain.StagedFile{Path: filepath.Join(m.root, name), Name: name}
	}
	return files, nil
}

func (m *mockStaging) Read(_ context.Context, f domain.StagedFile) (domain.RawInterchange, error) {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		cur := m.maxActive.Load()
		if n <= cur || m.maxActive.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.readWait > 0 {
		time.Sleep(m.readWait)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.readErr[f.Name]; err != nil {
		return domain.RawInterchange{}, err
	}
	content, ok := m.files[f.Name]
	if !ok {
		return domain.RawInterchange{}, domain.ErrNotFound
	}
	return domain.RawInterchange{Filename: f.Name, Content: content}, nil
}

func (m *mockStaging) Watch(ctx context.Context) (<-chan domain.StagingEvent, error) {
	out := make(chan domain.StagingEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-m.events:
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// mockMover implements driven.Mover and records every call.
type mockMover struct {
	mu        sync.Mutex
	calls     int
	failures  int
	err       error
	// removeErr makes Move deliver the file but report the source as kept.
	removeErr error
	moved     map[string]string
}

var _ driven.Mover = (*mockMover)(nil)

func newMockMover() *mockMover {
	return &mockMover{moved: make(map[string]string)}
}

func (m *mockMover) Move(_ context.Context, src, dstDir, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return "", errTransient
	}
	if m.err != nil {
		return "", m.err
	}
	dest := filepath.Join(dstDir, name)
	m.moved[src] = dest
	if m.removeErr != nil {
		return dest, fmt.Errorf("%w: %s: %w", domain.ErrSourceNotRemoved, src, m.removeErr)
	}
	return dest, nil
}

func (m *mockMover) destinations() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.moved))
	for k, v := range m.moved {
		out[k] = v
	}
	return out
}

func (m *mockMover) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
