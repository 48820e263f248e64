package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"villagevoice/internal/domain"
	"villagevoice/pkg/e"
	"villagevoice/pkg/validator"
)

// MaxDeviceFixAge is how old a cached device position may be.
const MaxDeviceFixAge = 60 * time.Second

type locationService struct {
	geocoder     Geocoder
	selections   SelectionStore
	selectionTTL time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewLocationService resolves picked points into addresses. selections may be
// nil, in which case draft ids are ignored.
func NewLocationService(geocoder Geocoder, selections SelectionStore, selectionTTL time.Duration, logger *slog.Logger) LocationService {
	return newLocationService(geocoder, selections, selectionTTL, logger, time.Now)
}

func newLocationService(geocoder Geocoder, selections SelectionStore, selectionTTL time.Duration, logger *slog.Logger, now func() time.Time) *locationService {
	return &locationService{
		geocoder:     geocoder,
		selections:   selections,
		selectionTTL: selectionTTL,
		logger:       logger,
		now:          now,
	}
}

func (s *locationService) Reverse(ctx context.Context, req domain.PointRequest) (domain.Location, error) {
	const op = "service.Location.Reverse"

	if !validCoordinates(req.Lat, req.Lng) {
		s.logger.Warn("invalid coordinates", slog.Float64("lat", req.Lat), slog.Float64("lng", req.Lng))
		return domain.Location{}, fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	if err := validator.Validate(req); err != nil {
		return domain.Location{}, fmt.Errorf("%s: %w", op, err)
	}

	loc := s.resolve(ctx, req.Lat, req.Lng)
	s.remember(ctx, req.DraftID, loc)
	return loc, nil
}

func (s *locationService) FromDevice(ctx context.Context, fix domain.DeviceFix) (domain.Location, error) {
	const op = "service.Location.FromDevice"

	if err := validator.Validate(fix); err != nil {
		return domain.Location{}, fmt.Errorf("%s: %w", op, err)
	}
	if fix.Error != "" {
		s.logger.Info("device reported no position", slog.String("reason", fix.Error))
		return domain.Location{}, fmt.Errorf("%s: %s: %w", op, fix.Error, e.ErrLocationUnavailable)
	}
	if fix.Lat == nil || fix.Lng == nil {
		return domain.Location{}, fmt.Errorf("%s: no coordinates: %w", op, e.ErrLocationUnavailable)
	}
	if fix.CapturedAt.IsZero() {
		return domain.Location{}, fmt.Errorf("%s: %w", op, e.NewValidationError("captured_at"))
	}
	if age := s.now().Sub(fix.CapturedAt); age > MaxDeviceFixAge {
		s.logger.Info("stale device fix", slog.Duration("age", age))
		return domain.Location{}, fmt.Errorf("%s: fix is %s old: %w", op, age.Round(time.Second), e.ErrLocationUnavailable)
	}

	loc := s.resolve(ctx, *fix.Lat, *fix.Lng)
	s.remember(ctx, fix.DraftID, loc)
	return loc, nil
}

func (s *locationService) DeviceOptions() domain.DeviceOptions {
	return domain.DefaultDeviceOptions
}

// resolve never fails: without a usable address the coordinates stand in.
func (s *locationService) resolve(ctx context.Context, lat, lng float64) domain.Location {
	loc := domain.Location{Lat: &lat, Lng: &lng}

	addr, err := s.geocoder.Reverse(ctx, lat, lng)
	addr = strings.TrimSpace(addr)
	switch {
	case err != nil:
		s.logger.Warn("reverse geocode failed, using coordinates",
			slog.Float64("lat", lat),
			slog.Float64("lng", lng),
			slog.Any("error", err),
		)
		loc.Address = domain.FormatCoordinates(lat, lng)
	case addr == "":
		loc.Address = domain.FormatCoordinates(lat, lng)
	default:
		loc.Address = addr
	}
	return loc
}

func (s *locationService) remember(ctx context.Context, draftID string, loc domain.Location) {
	if draftID == "" || s.selections == nil {
		return
	}
	if err := s.selections.Put(ctx, draftID, loc, s.selectionTTL); err != nil {
		s.logger.Warn("selection put failed", slog.String("draft_id", draftID), slog.Any("error", err))
	}
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
