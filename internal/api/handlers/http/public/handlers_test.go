package public_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"villagevoice/internal/api/handlers/http/public"
	mock_public "villagevoice/internal/api/handlers/http/public/mocks"
	"villagevoice/internal/domain"
	"villagevoice/internal/httpctx"
	"villagevoice/pkg/e"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), &slog.HandlerOptions{Level: slog.LevelError}))
}

func addChiURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json response: %v, body=%s", err, rr.Body.String())
	}
	return out
}

func newHandler(t *testing.T, maxUpload int64) (*public.Handler, *mock_public.MockComplaints, *mock_public.MockLocations) {
	t.Helper()
	ctrl := gomock.NewController(t)
	complaints := mock_public.NewMockComplaints(ctrl)
	locations := mock_public.NewMockLocations(ctrl)
	return public.NewHandler(newTestLogger(), complaints, locations, maxUpload), complaints, locations
}

func TestSubmitComplaint_JSON_Created(t *testing.T) {
	t.Parallel()

	h, complaints, _ := newHandler(t, 0)
	owner := &domain.Principal{ID: uuid.New()}

	body := `{"name":"Ravi","mobile":"9876543210","category":"Street Lights","description":"Dark lane","location":{"lat":17.385,"lng":78.4867,"address":"Temple Street"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(httpctx.WithPrincipal(req.Context(), owner))
	rr := httptest.NewRecorder()

	complaints.EXPECT().
		Submit(gomock.Any(), owner, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Principal, r domain.CreateComplaintRequest) (*domain.Complaint, error) {
			if r.Category != domain.CategoryStreetLights || r.Location.Lat == nil || *r.Location.Lat != 17.385 || r.Photo != nil {
				t.Errorf("unexpected request %+v", r)
			}
			return &domain.Complaint{ComplaintID: "VV123456", Status: domain.StatusPending}, nil
		})

	h.SubmitComplaint(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d got %d, body=%s", http.StatusCreated, rr.Code, rr.Body.String())
	}
	got := decodeJSON[map[string]any](t, rr)
	if got["complaint_id"] != "VV123456" || got["status"] != "Pending" {
		t.Fatalf("unexpected body %v", got)
	}
}

func TestSubmitComplaint_Multipart_WithPhoto(t *testing.T) {
	t.Parallel()

	h, complaints, _ := newHandler(t, 0)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("name", "Priya")
	_ = mw.WriteField("mobile", "9876543211")
	_ = mw.WriteField("category", "Garbage Collection")
	_ = mw.WriteField("description", "Bins overflowing")
	_ = mw.WriteField("location_address", "Gandhi Nagar")
	_ = mw.WriteField("location_lat", "17.4")
	_ = mw.WriteField("location_lng", "78.5")
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="photo"; filename="bins.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, _ := mw.CreatePart(hdr)
	_, _ = part.Write([]byte("fake-jpeg"))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	complaints.EXPECT().
		Submit(gomock.Any(), nil, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Principal, r domain.CreateComplaintRequest) (*domain.Complaint, error) {
			if r.Name != "Priya" || r.Location.Address != "Gandhi Nagar" || *r.Location.Lng != 78.5 {
				t.Errorf("unexpected fields %+v", r)
			}
			if r.Photo == nil || r.Photo.Filename != "bins.jpg" || r.Photo.ContentType != "image/jpeg" || r.Photo.Size != 9 {
				t.Errorf("unexpected photo %+v", r.Photo)
				return &domain.Complaint{ComplaintID: "VV000001"}, nil
			}
			data, _ := io.ReadAll(r.Photo.Body)
			if string(data) != "fake-jpeg" {
				t.Errorf("unexpected photo body %q", data)
			}
			url := "http://localhost:8080/photos/VV000001-1.jpg"
			return &domain.Complaint{ComplaintID: "VV000001", PhotoURL: &url}, nil
		})

	h.SubmitComplaint(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected %d got %d, body=%s", http.StatusCreated, rr.Code, rr.Body.String())
	}
}

func TestSubmitComplaint_Multipart_BadCoordinate(t *testing.T) {
	t.Parallel()

	h, complaints, _ := newHandler(t, 0)
	complaints.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("location_lat", "north")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	h.SubmitComplaint(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestSubmitComplaint_Multipart_TooLarge(t *testing.T) {
	t.Parallel()

	h, complaints, _ := newHandler(t, 1024)
	complaints.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("photo", "huge.jpg")
	_, _ = part.Write(bytes.Repeat([]byte("x"), 4096))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()

	h.SubmitComplaint(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 got %d, body=%s", rr.Code, rr.Body.String())
	}
}

func TestSubmitComplaint_InvalidJSON_400(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"broken":        `{"name":`,
		"unknown_field": `{"name":"x","priority":"high"}`,
		"trailing_data": `{"name":"x"} {"name":"y"}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h, complaints, _ := newHandler(t, 0)
			complaints.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			h.SubmitComplaint(rr, req)

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", rr.Code)
			}
		})
	}
}

func TestSubmitComplaint_ValidationError_ListsFields(t *testing.T) {
	t.Parallel()

	h, complaints, _ := newHandler(t, 0)
	complaints.EXPECT().
		Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, e.NewValidationError("name", "mobile"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	h.SubmitComplaint(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
	got := decodeJSON[struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}](t, rr)
	if len(got.Fields) != 2 || got.Fields[0] != "name" {
		t.Fatalf("unexpected fields %v", got.Fields)
	}
}

func TestSubmitComplaint_Unauthenticated_401(t *testing.T) {
	t.Parallel()

	h, complaints, _ := newHandler(t, 0)
	complaints.EXPECT().Submit(gomock.Any(), nil, gomock.Any()).Return(nil, e.ErrUnauthorized)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/complaints", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()
	h.SubmitComplaint(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}
}

func TestTrackComplaint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"found", nil, http.StatusOK},
		{"not_found", e.ErrNotFound, http.StatusNotFound},
		{"store_down", e.ErrInternal, http.StatusInternalServerError},
		{"timeout", e.ErrDeadline, http.StatusGatewayTimeout},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h, complaints, _ := newHandler(t, 0)
			var c *domain.Complaint
			if tc.err == nil {
				c = &domain.Complaint{ComplaintID: "VV001234", Status: domain.StatusInProgress}
			}
			complaints.EXPECT().Track(gomock.Any(), "VV001234").Return(c, tc.err)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/complaints/VV001234", nil)
			req = addChiURLParam(req, "complaintID", "VV001234")
			rr := httptest.NewRecorder()

			h.TrackComplaint(rr, req)

			if rr.Code != tc.wantCode {
				t.Fatalf("expected %d got %d", tc.wantCode, rr.Code)
			}
			if tc.wantCode >= 500 && strings.Contains(rr.Body.String(), "internal error:") {
				t.Fatalf("internal details leaked: %s", rr.Body.String())
			}
		})
	}
}

func TestStats_OK(t *testing.T) {
	t.Parallel()

	h, complaints, _ := newHandler(t, 0)
	complaints.EXPECT().Stats(gomock.Any()).Return(domain.ComplaintStats{Total: 5, Pending: 1, InProgress: 2, Resolved: 2}, nil)

	rr := httptest.NewRecorder()
	h.Stats(rr, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	got := decodeJSON[domain.ComplaintStats](t, rr)
	if got.Total != 5 || got.InProgress != 2 {
		t.Fatalf("unexpected stats %+v", got)
	}
}

func TestReverseLocation(t *testing.T) {
	t.Parallel()

	h, _, locations := newHandler(t, 0)
	lat, lng := 17.385, 78.4867
	locations.EXPECT().
		Reverse(gomock.Any(), domain.PointRequest{Lat: lat, Lng: lng}).
		Return(domain.Location{Lat: &lat, Lng: &lng, Address: "Charminar"}, nil)
	locations.EXPECT().
		Reverse(gomock.Any(), domain.PointRequest{Lat: 95, Lng: 0}).
		Return(domain.Location{}, e.ErrInvalidCoordinates)

	rr := httptest.NewRecorder()
	h.ReverseLocation(rr, httptest.NewRequest(http.MethodPost, "/api/v1/location/reverse", strings.NewReader(`{"lat":17.385,"lng":78.4867}`)))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if got := decodeJSON[domain.Location](t, rr); got.Address != "Charminar" {
		t.Fatalf("unexpected location %+v", got)
	}

	rr = httptest.NewRecorder()
	h.ReverseLocation(rr, httptest.NewRequest(http.MethodPost, "/api/v1/location/reverse", strings.NewReader(`{"lat":95,"lng":0}`)))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

func TestDeviceLocation_Unavailable_422(t *testing.T) {
	t.Parallel()

	h, _, locations := newHandler(t, 0)
	locations.EXPECT().
		FromDevice(gomock.Any(), gomock.Any()).
		Return(domain.Location{}, e.ErrLocationUnavailable)

	rr := httptest.NewRecorder()
	h.DeviceLocation(rr, httptest.NewRequest(http.MethodPost, "/api/v1/location/device", strings.NewReader(`{"error":"permission_denied"}`)))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rr.Code)
	}
}

func TestDeviceOptions(t *testing.T) {
	t.Parallel()

	h, _, locations := newHandler(t, 0)
	locations.EXPECT().DeviceOptions().Return(domain.DefaultDeviceOptions)

	rr := httptest.NewRecorder()
	h.DeviceOptions(rr, httptest.NewRequest(http.MethodGet, "/api/v1/location/device-options", nil))

	got := decodeJSON[domain.DeviceOptions](t, rr)
	if got != domain.DefaultDeviceOptions {
		t.Fatalf("unexpected options %+v", got)
	}
}
