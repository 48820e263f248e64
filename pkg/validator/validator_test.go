package validator_test

import (
	"errors"
	"slices"
	"testing"

	"villagevoice/internal/domain"
	"villagevoice/pkg/e"
	"villagevoice/pkg/validator"
)

func ptr[T any](v T) *T { return &v }

func TestValidate_ComplaintRequest(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		req        domain.CreateComplaintRequest
		wantFields []string
	}{
		{
			name: "ok",
			req: domain.CreateComplaintRequest{
				Name: "Ramesh", Mobile: "+919876543210", Category: domain.CategoryOther, Description: "x",
				Location: domain.LocationInput{Lat: ptr(12.9), Lng: ptr(77.6)},
			},
		},
		{
			name:       "missing_everything",
			req:        domain.CreateComplaintRequest{},
			wantFields: []string{"name", "mobile", "category", "description"},
		},
		{
			name: "bad_values",
			req: domain.CreateComplaintRequest{
				Name: "Ramesh", Mobile: "98-76", Category: "Potholes", Description: "x",
				Location:      domain.LocationInput{Lat: ptr(91.0), Lng: ptr(-181.0)},
				LocationDraft: "not-a-uuid",
			},
			wantFields: []string{"category", "location.lat", "location.lng", "location_draft"},
		},
		{
			name: "free_form_mobile",
			req: domain.CreateComplaintRequest{
				Name: "Ramesh", Mobile: "+91 98765 43210", Category: domain.CategoryOther, Description: "x",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := validator.Validate(tc.req)
			if tc.wantFields == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *e.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *e.ValidationError, got %v", err)
			}
			if !errors.Is(err, e.ErrInvalidInput) {
				t.Fatalf("validation error should unwrap to ErrInvalidInput")
			}
			for _, f := range tc.wantFields {
				if !slices.Contains(verr.Fields, f) {
					t.Fatalf("expected field %q in %v", f, verr.Fields)
				}
			}
			if len(verr.Fields) != len(tc.wantFields) {
				t.Fatalf("expected fields %v, got %v", tc.wantFields, verr.Fields)
			}
		})
	}
}

func TestValidate_StatusUpdate(t *testing.T) {
	t.Parallel()

	if err := validator.Validate(domain.UpdateStatusRequest{Status: domain.StatusInProgress}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := validator.Validate(domain.UpdateStatusRequest{Status: "Closed"})
	var verr *e.ValidationError
	if !errors.As(err, &verr) || !slices.Equal(verr.Fields, []string{"status"}) {
		t.Fatalf("expected status field error, got %v", err)
	}
}
