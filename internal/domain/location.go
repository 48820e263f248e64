package domain

import (
	"fmt"
	"time"
)

type Location struct {
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Address string   `json:"address"`
}

func (l Location) HasCoordinates() bool {
	return l.Lat != nil && l.Lng != nil
}

// FormatCoordinates is the address used when reverse geocoding is unavailable.
func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lng)
}

type PointRequest struct {
	Lat     float64 `json:"lat" validate:"lat"`
	Lng     float64 `json:"lng" validate:"lng"`
	DraftID string  `json:"draft_id,omitempty" validate:"omitempty,uuid"`
}

// Device error codes mirror the browser Geolocation API.
const (
	DeviceErrPermissionDenied    = "permission_denied"
	DeviceErrPositionUnavailable = "position_unavailable"
	DeviceErrTimeout             = "timeout"
)

// DeviceFix is a position reported by the client's platform geolocation.
type DeviceFix struct {
	Lat        *float64  `json:"lat,omitempty" validate:"omitempty,lat"`
	Lng        *float64  `json:"lng,omitempty" validate:"omitempty,lng"`
	AccuracyM  float64   `json:"accuracy_m,omitempty" validate:"gte=0"`
	CapturedAt time.Time `json:"captured_at"`
	Error      string    `json:"error,omitempty" validate:"omitempty,oneof=permission_denied position_unavailable timeout"`
	DraftID    string    `json:"draft_id,omitempty" validate:"omitempty,uuid"`
}

type DeviceOptions struct {
	EnableHighAccuracy bool  `json:"enable_high_accuracy"`
	TimeoutMS          int64 `json:"timeout_ms"`
	MaximumAgeMS       int64 `json:"maximum_age_ms"`
}

var DefaultDeviceOptions = DeviceOptions{
	EnableHighAccuracy: true,
	TimeoutMS:          (10 * time.Second).Milliseconds(),
	MaximumAgeMS:       (60 * time.Second).Milliseconds(),
}
