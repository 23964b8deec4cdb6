package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/edisort/internal/core/domain"
	"github.com/custodia-labs/edisort/internal/core/ports/driven"
)

// Ensure JournalStore implements the interface.
var _ driven.JournalStore = (*JournalStore)(nil)

// JournalStore is an in-memory implementation of driven.JournalStore.
// Entries are kept in insertion order, which Pending and Recent rely on.
type JournalStore struct {
	mu      sync.RWMutex
	entries map[string]domain.JournalEntry
	seq     map[string]int
	next    int
	now     func() time.Time
}

// NewJournalStore creates a new in-memory journal store.
func NewJournalStore() *JournalStore {
	return &JournalStore{
		entries: make(map[string]domain.JournalEntry),
		seq:     make(map[string]int),
		now:     time.Now,
	}
}

// Record stores a new entry.
func (s *JournalStore) Record(_ context.Context, entry domain.JournalEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("%w: journal entry without id", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.ID]; exists {
		return fmt.Errorf("%w: journal entry %s already recorded", domain.ErrInvalidInput, entry.ID)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = entry.CreatedAt
	}
	s.entries[entry.ID] = entry
	s.seq[entry.ID] = s.next
	s.next++
	return nil
}

// MarkMoved records a successful move.
func (s *JournalStore) MarkMoved(_ context.Context, id, targetPath string) error {
	return s.update(id, func(e *domain.JournalEntry) {
		e.Status = domain.MoveDone
		e.MovedTo = targetPath
		e.Error = ""
		e.Attempts++
	})
}

// MarkFailed records a failed move attempt.
func (s *JournalStore) MarkFailed(_ context.Context, id, reason string) error {
	return s.update(id, func(e *domain.JournalEntry) {
		e.Status = domain.MoveFailed
		e.Error = reason
		e.Attempts++
	})
}

func (s *JournalStore) update(id string, fn func(*domain.JournalEntry)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&entry)
	entry.UpdatedAt = s.now()
	s.entries[id] = entry
	return nil
}

// Get retrieves an entry by ID.
func (s *JournalStore) Get(_ context.Context, id string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &entry, nil
}

// Pending returns retryable entries, oldest first.
func (s *JournalStore) Pending(_ context.Context) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []domain.JournalEntry
	for _, e := range s.entries {
		if e.Retryable() {
			result = append(result, e)
		}
	}
	s.sortBySeq(result, false)
	return result, nil
}

// Recent returns up to limit entries, newest first.
func (s *JournalStore) Recent(_ context.Context, limit int) ([]domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.JournalEntry, 0, len(s.entries))
	for _, e := range s.entries {
		result = append(result, e)
	}
	s.sortBySeq(result, true)
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// sortBySeq orders entries by insertion. Caller holds the lock.
func (s *JournalStore) sortBySeq(entries []domain.JournalEntry, newestFirst bool) {
	sort.Slice(entries, func(i, j int) bool {
		if newestFirst {
			return s.seq[entries[i].ID] > s.seq[entries[j].ID]
		}
		return s.seq[entries[i].ID] < s.seq[entries[j].ID]
	})
}
