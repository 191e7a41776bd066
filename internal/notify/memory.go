package notify

import (
	"context"
	"sync"

	"github.com/justsurfingit/joblocal/internal/models"
)

// MemoryStore is an append-only in-process list. Records live until restart.
type MemoryStore struct {
	mu    sync.RWMutex
	items []*models.Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(_ context.Context, ns ...*models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range ns {
		cp := *n
		s.items = append(s.items, &cp)
	}
	return nil
}

func (s *MemoryStore) ListFor(_ context.Context, v models.Viewer) ([]models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, 0)
	for _, n := range s.items {
		if n.VisibleTo(v) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (s *MemoryStore) MarkRead(_ context.Context, id string, v models.Viewer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID == id && canMark(n, v) {
			n.Read = true
			return nil
		}
	}
	return nil
}

func (s *MemoryStore) MarkAllRead(_ context.Context, v models.Viewer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.VisibleTo(v) {
			n.Read = true
		}
	}
	return nil
}

// Len reports how many records are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
