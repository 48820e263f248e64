package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"villagevoice/internal/domain"
	"villagevoice/internal/service"
	"villagevoice/pkg/e"
)

var _ service.ComplaintStore = (*Store)(nil)

// Store keeps every complaint in one JSON array on disk. The whole file is
// rewritten on each change.
type Store struct {
	mu     sync.RWMutex
	path   string
	items  []domain.Complaint
	logger *slog.Logger
}

// Open loads path, creating it (optionally seeded with sample complaints) when
// it does not exist yet.
func Open(path string, seed bool, logger *slog.Logger) (*Store, error) {
	const op = "local.Open"

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Store{path: path, logger: logger}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if seed {
			s.items = SampleComplaints(time.Now().UTC())
			logger.Info("seeding local store", slog.String("path", path), slog.Int("complaints", len(s.items)))
		}
		if err := s.persist(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	default:
		if err := json.Unmarshal(data, &s.items); err != nil {
			return nil, fmt.Errorf("%s: corrupt store file %s: %w", op, path, err)
		}
	}

	logger.Info("local store opened", slog.String("path", path), slog.Int("complaints", len(s.items)))
	return s, nil
}

func (s *Store) Create(ctx context.Context, c *domain.Complaint) error {
	const op = "local.Complaint.Create"

	if err := ctx.Err(); err != nil {
		return e.WrapError(ctx, op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(c.ComplaintID) >= 0 {
		return fmt.Errorf("%s: complaint_id %s: %w", op, c.ComplaintID, e.ErrConflict)
	}

	s.items = append(s.items, *c)
	if err := s.persist(); err != nil {
		s.items = s.items[:len(s.items)-1]
		return fmt.Errorf("%s: %v: %w", op, err, e.ErrInternal)
	}
	return nil
}

func (s *Store) GetByComplaintID(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	const op = "local.Complaint.GetByComplaintID"

	if err := ctx.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(complaintID)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}
	c := s.items[i]
	return &c, nil
}

// List returns matching complaints newest first.
func (s *Store) List(ctx context.Context, filter domain.ComplaintFilter) ([]*domain.Complaint, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.WrapError(ctx, "local.Complaint.List", err)
	}

	s.mu.RLock()
	out := make([]*domain.Complaint, 0, len(s.items))
	for i := range s.items {
		if filter.Match(&s.items[i]) {
			c := s.items[i]
			out = append(out, &c)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ComplaintID > out[j].ComplaintID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateStatus(ctx context.Context, complaintID string, upd domain.StatusUpdate) (*domain.Complaint, error) {
	const op = "local.Complaint.UpdateStatus"

	if err := ctx.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(complaintID)
	if i < 0 {
		return nil, fmt.Errorf("%s: %w", op, e.ErrNotFound)
	}

	prev := s.items[i]
	next := prev
	next.Status = upd.Status
	next.Remarks = upd.Remarks
	next.UpdatedAt = upd.UpdatedAt

	s.items[i] = next
	if err := s.persist(); err != nil {
		s.items[i] = prev
		return nil, fmt.Errorf("%s: %v: %w", op, err, e.ErrInternal)
	}
	return &next, nil
}

func (s *Store) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.WrapError(ctx, "local.Complaint.CountByStatus", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.Status]int64, len(domain.Statuses))
	for i := range s.items {
		counts[s.items[i].Status]++
	}
	return counts, nil
}

func (s *Store) indexOf(complaintID string) int {
	for i := range s.items {
		if s.items[i].ComplaintID == complaintID {
			return i
		}
	}
	return -1
}

// persist must be called with mu held for writing.
func (s *Store) persist() error {
	items := s.items
	if items == nil {
		items = []domain.Complaint{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".complaints-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
