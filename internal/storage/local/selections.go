package local

import (
	"context"
	"fmt"
	"sync"
	"time"

	"villagevoice/internal/domain"
	"villagevoice/internal/service"
	"villagevoice/pkg/e"
)

var _ service.SelectionStore = (*Selections)(nil)

type selection struct {
	loc       domain.Location
	expiresAt time.Time
}

// Selections is the in-process SelectionStore used without Redis.
type Selections struct {
	mu    sync.Mutex
	items map[string]selection
	now   func() time.Time
}

func NewSelections() *Selections {
	return &Selections{items: make(map[string]selection), now: time.Now}
}

func (s *Selections) Put(_ context.Context, draftID string, loc domain.Location, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// drop whatever has expired while we hold the lock
	for id, sel := range s.items {
		if !sel.expiresAt.After(now) {
			delete(s.items, id)
		}
	}
	s.items[draftID] = selection{loc: loc, expiresAt: now.Add(ttl)}
	return nil
}

func (s *Selections) Get(_ context.Context, draftID string) (*domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel, ok := s.items[draftID]
	if !ok || !sel.expiresAt.After(s.now()) {
		delete(s.items, draftID)
		return nil, fmt.Errorf("local.Selections.Get: %w", e.ErrNotFound)
	}
	loc := sel.loc
	return &loc, nil
}
