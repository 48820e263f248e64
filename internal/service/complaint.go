package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"villagevoice/internal/domain"
	"villagevoice/pkg/e"
	"villagevoice/pkg/validator"

	"github.com/google/uuid"
)

type ComplaintOptions struct {
	// the backend variant needs a map pin, the local one accepts free text
	RequireCoordinates bool
	TrackCacheTTL      time.Duration
}

type complaintService struct {
	store      ComplaintStore
	gate       RoleGate
	photos     PhotoStore
	selections SelectionStore
	cache      ComplaintCache
	logger     *slog.Logger
	opts       ComplaintOptions
	now        func() time.Time
}

// NewComplaintService wires the complaint use cases. photos, selections and
// cache may be nil.
func NewComplaintService(
	store ComplaintStore,
	gate RoleGate,
	photos PhotoStore,
	selections SelectionStore,
	cache ComplaintCache,
	logger *slog.Logger,
	opts ComplaintOptions,
) ComplaintService {
	return newComplaintService(store, gate, photos, selections, cache, logger, opts, time.Now)
}

func newComplaintService(
	store ComplaintStore,
	gate RoleGate,
	photos PhotoStore,
	selections SelectionStore,
	cache ComplaintCache,
	logger *slog.Logger,
	opts ComplaintOptions,
	now func() time.Time,
) *complaintService {
	return &complaintService{
		store:      store,
		gate:       gate,
		photos:     photos,
		selections: selections,
		cache:      cache,
		logger:     logger,
		opts:       opts,
		now:        now,
	}
}

func (s *complaintService) Submit(ctx context.Context, p *domain.Principal, req domain.CreateComplaintRequest) (*domain.Complaint, error) {
	const op = "service.Complaint.Submit"

	if err := s.gate.CanSubmit(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Mobile = strings.TrimSpace(req.Mobile)
	req.Description = strings.TrimSpace(req.Description)
	req.Location.Address = strings.TrimSpace(req.Location.Address)

	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	loc, err := s.resolveLocation(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	c := &domain.Complaint{
		ID:          uuid.New(),
		ComplaintID: domain.NewComplaintID(now),
		Name:        req.Name,
		Mobile:      req.Mobile,
		Category:    req.Category,
		Description: req.Description,
		Location:    loc,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p != nil {
		owner := p.ID
		c.OwnerID = &owner
	}

	if req.Photo != nil {
		if s.photos == nil {
			s.logger.Warn("photo dropped, no photo store configured", slog.String("complaint_id", c.ComplaintID))
		} else if url, err := s.uploadPhoto(ctx, c.ComplaintID, req.Photo); err != nil {
			// the complaint is still filed without its photo
			s.logger.Warn("photo upload failed",
				slog.String("complaint_id", c.ComplaintID),
				slog.Any("error", err),
			)
		} else {
			c.PhotoURL = &url
		}
	}

	if err := s.store.Create(ctx, c); err != nil {
		s.logger.Error("store.Create failed", slog.String("complaint_id", c.ComplaintID), slog.Any("error", err))
		if c.PhotoURL != nil {
			s.logger.Warn("orphaned photo", slog.String("complaint_id", c.ComplaintID), slog.String("photo_url", *c.PhotoURL))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.Info("complaint submitted",
		slog.String("complaint_id", c.ComplaintID),
		slog.String("category", string(c.Category)),
		slog.Bool("has_photo", c.PhotoURL != nil),
		slog.Bool("has_coordinates", c.Location.HasCoordinates()),
	)
	return c, nil
}

func (s *complaintService) resolveLocation(ctx context.Context, req domain.CreateComplaintRequest) (domain.Location, error) {
	in := req.Location

	if in.Empty() && req.LocationDraft != "" {
		if s.selections == nil {
			return domain.Location{}, e.NewValidationError("location")
		}
		sel, err := s.selections.Get(ctx, req.LocationDraft)
		if err != nil {
			if errors.Is(err, e.ErrNotFound) {
				return domain.Location{}, e.NewValidationError("location_draft")
			}
			return domain.Location{}, err
		}
		in = domain.LocationInput{Lat: sel.Lat, Lng: sel.Lng, Address: sel.Address}
	}

	var missing []string
	if (in.Lat == nil) != (in.Lng == nil) {
		missing = append(missing, "location.lat", "location.lng")
	} else if s.opts.RequireCoordinates && in.Lat == nil {
		missing = append(missing, "location.lat", "location.lng")
	}
	if in.Address == "" {
		missing = append(missing, "location.address")
	}
	if len(missing) > 0 {
		return domain.Location{}, e.NewValidationError(missing...)
	}

	return domain.Location{Lat: in.Lat, Lng: in.Lng, Address: in.Address}, nil
}

func (s *complaintService) Track(ctx context.Context, complaintID string) (*domain.Complaint, error) {
	const op = "service.Complaint.Track"

	// ids are matched exactly, including case and surrounding whitespace
	id := complaintID
	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, e.NewValidationError("complaint_id"))
	}

	if s.cache != nil {
		c, err := s.cache.Get(ctx, id)
		if err != nil {
			s.logger.Warn("track cache get failed", slog.String("complaint_id", id), slog.Any("error", err))
		} else if c != nil {
			s.logger.Debug("track cache hit", slog.String("complaint_id", id))
			return c, nil
		}
	}

	c, err := s.store.GetByComplaintID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.SetIfAbsent(ctx, c, s.opts.TrackCacheTTL); err != nil {
			s.logger.Warn("track cache fill failed", slog.String("complaint_id", id), slog.Any("error", err))
		}
	}
	return c, nil
}

func (s *complaintService) List(ctx context.Context, p *domain.Principal, filter domain.ComplaintFilter) ([]*domain.Complaint, error) {
	const op = "service.Complaint.List"

	if err := s.gate.RequireAdmin(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%s: %w", op, e.NewValidationError("status"))
	}

	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

func (s *complaintService) Detail(ctx context.Context, p *domain.Principal, complaintID string) (*domain.Complaint, error) {
	const op = "service.Complaint.Detail"

	if err := s.gate.RequireAdmin(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.store.GetByComplaintID(ctx, complaintID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (s *complaintService) UpdateStatus(ctx context.Context, p *domain.Principal, complaintID string, req domain.UpdateStatusRequest) (*domain.Complaint, error) {
	const op = "service.Complaint.UpdateStatus"

	if err := s.gate.RequireAdmin(ctx, p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id := complaintID
	upd := domain.StatusUpdate{
		Status:    req.Status,
		Remarks:   normalizeRemarks(req.Remarks),
		UpdatedAt: s.now().UTC(),
	}

	c, err := s.store.UpdateStatus(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, c, s.opts.TrackCacheTTL); err != nil {
			s.logger.Warn("track cache set failed, invalidating", slog.String("complaint_id", id), slog.Any("error", err))
			if err := s.cache.Invalidate(ctx, id); err != nil {
				s.logger.Warn("track cache invalidate failed", slog.String("complaint_id", id), slog.Any("error", err))
			}
		}
	}

	s.logger.Info("complaint status updated",
		slog.String("complaint_id", id),
		slog.String("status", string(c.Status)),
		slog.Bool("has_remarks", c.Remarks != nil),
	)
	return c, nil
}

func (s *complaintService) Stats(ctx context.Context) (domain.ComplaintStats, error) {
	counts, err := s.store.CountByStatus(ctx)
	if err != nil {
		return domain.ComplaintStats{}, fmt.Errorf("service.Complaint.Stats: %w", err)
	}
	return domain.StatsFromCounts(counts), nil
}

// blank remarks clear the field
func normalizeRemarks(r *string) *string {
	if r == nil {
		return nil
	}
	v := strings.TrimSpace(*r)
	if v == "" {
		return nil
	}
	return &v
}
