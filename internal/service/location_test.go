package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"villagevoice/internal/domain"
	mock_service "villagevoice/internal/service/mocks"
	"villagevoice/pkg/e"
)

func newTestLocationService(t *testing.T) (*locationService, *mock_service.MockGeocoder, *mock_service.MockSelectionStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	geo := mock_service.NewMockGeocoder(ctrl)
	sel := mock_service.NewMockSelectionStore(ctrl)
	return newLocationService(geo, sel, 30*time.Minute, testLogger(), func() time.Time { return fixedNow }), geo, sel
}

func TestReverse_UsesGeocoderAddress(t *testing.T) {
	t.Parallel()

	svc, geo, sel := newTestLocationService(t)
	draft := uuid.NewString()

	geo.EXPECT().Reverse(gomock.Any(), 17.385, 78.4867).Return(" Charminar, Hyderabad ", nil)
	sel.EXPECT().Put(gomock.Any(), draft, gomock.Any(), 30*time.Minute).
		DoAndReturn(func(_ context.Context, _ string, loc domain.Location, _ time.Duration) error {
			if loc.Address != "Charminar, Hyderabad" {
				t.Errorf("unexpected remembered address %q", loc.Address)
			}
			return nil
		})

	loc, err := svc.Reverse(context.Background(), domain.PointRequest{Lat: 17.385, Lng: 78.4867, DraftID: draft})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if loc.Address != "Charminar, Hyderabad" || *loc.Lat != 17.385 || *loc.Lng != 78.4867 {
		t.Fatalf("unexpected location %+v", loc)
	}
}

func TestReverse_FallsBackToCoordinates(t *testing.T) {
	t.Parallel()

	svc, geo, sel := newTestLocationService(t)
	geo.EXPECT().Reverse(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("503"))
	sel.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	loc, err := svc.Reverse(context.Background(), domain.PointRequest{Lat: 17.385, Lng: 78.4867})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if loc.Address != "17.385000, 78.486700" {
		t.Fatalf("unexpected fallback address %q", loc.Address)
	}
}

func TestReverse_InvalidCoordinates(t *testing.T) {
	t.Parallel()

	svc, geo, _ := newTestLocationService(t)
	geo.EXPECT().Reverse(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Reverse(context.Background(), domain.PointRequest{Lat: 100, Lng: 0})
	if !errors.Is(err, e.ErrInvalidCoordinates) {
		t.Fatalf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestFromDevice(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		fix     domain.DeviceFix
		wantErr error
	}{
		{"denied", domain.DeviceFix{Error: domain.DeviceErrPermissionDenied}, e.ErrLocationUnavailable},
		{"timeout", domain.DeviceFix{Error: domain.DeviceErrTimeout}, e.ErrLocationUnavailable},
		{"no_coordinates", domain.DeviceFix{CapturedAt: fixedNow}, e.ErrLocationUnavailable},
		{"stale", domain.DeviceFix{Lat: ptr(1.0), Lng: ptr(2.0), CapturedAt: fixedNow.Add(-61 * time.Second)}, e.ErrLocationUnavailable},
		{"no_timestamp", domain.DeviceFix{Lat: ptr(1.0), Lng: ptr(2.0)}, e.ErrInvalidInput},
		{"unknown_error_code", domain.DeviceFix{Error: "gps_on_fire"}, e.ErrInvalidInput},
		{"fresh", domain.DeviceFix{Lat: ptr(1.0), Lng: ptr(2.0), AccuracyM: 12, CapturedAt: fixedNow.Add(-59 * time.Second)}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, geo, _ := newTestLocationService(t)
			if tc.wantErr == nil {
				geo.EXPECT().Reverse(gomock.Any(), 1.0, 2.0).Return("Somewhere", nil)
			}

			loc, err := svc.FromDevice(context.Background(), tc.fix)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil || loc.Address != "Somewhere" {
				t.Fatalf("unexpected result %+v, %v", loc, err)
			}
		})
	}
}

func TestDeviceOptions(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestLocationService(t)
	opts := svc.DeviceOptions()
	if !opts.EnableHighAccuracy || opts.TimeoutMS != 10000 || opts.MaximumAgeMS != 60000 {
		t.Fatalf("unexpected options %+v", opts)
	}
}
