package public

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"villagevoice/internal/domain"
	"villagevoice/internal/httpctx"
	"villagevoice/pkg/e"

	"github.com/go-chi/chi/v5"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Complaints interface {
	Submit(ctx context.Context, p *domain.Principal, req domain.CreateComplaintRequest) (*domain.Complaint, error)
	Track(ctx context.Context, complaintID string) (*domain.Complaint, error)
	Stats(ctx context.Context) (domain.ComplaintStats, error)
}

type Locations interface {
	Reverse(ctx context.Context, req domain.PointRequest) (domain.Location, error)
	FromDevice(ctx context.Context, fix domain.DeviceFix) (domain.Location, error)
	DeviceOptions() domain.DeviceOptions
}

type Handler struct {
	logger         *slog.Logger
	Complaints     Complaints
	Locations      Locations
	maxUploadBytes int64
}

func NewHandler(logger *slog.Logger, complaints Complaints, locations Locations, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 10 << 20
	}
	return &Handler{
		logger:         logger,
		Complaints:     complaints,
		Locations:      locations,
		maxUploadBytes: maxUploadBytes,
	}
}

// SubmitComplaint accepts either a JSON body or a multipart form carrying an
// optional "photo" file.
func (h *Handler) SubmitComplaint(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("SubmitComplaint", slog.String("remote", r.RemoteAddr))

	var req domain.CreateComplaintRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		parsed, ok := h.parseMultipart(w, r)
		if !ok {
			return
		}
		req = parsed
		defer func() {
			if req.Photo != nil {
				if c, ok := req.Photo.Body.(io.Closer); ok {
					_ = c.Close()
				}
			}
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()
	} else if !h.decodeJSON(w, r, &req) {
		return
	}

	p, _ := httpctx.Principal(r.Context())
	c, err := h.Complaints.Submit(r.Context(), p, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("complaint accepted", slog.String("complaint_id", c.ComplaintID))
	h.writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) (domain.CreateComplaintRequest, bool) {
	var req domain.CreateComplaintRequest

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			h.writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "upload too large"})
			return req, false
		}
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return req, false
	}

	req.Name = r.FormValue("name")
	req.Mobile = r.FormValue("mobile")
	req.Category = domain.Category(r.FormValue("category"))
	req.Description = r.FormValue("description")
	req.LocationDraft = r.FormValue("location_draft")
	req.Location.Address = r.FormValue("location_address")

	var bad []string
	if v := strings.TrimSpace(r.FormValue("location_lat")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			bad = append(bad, "location.lat")
		} else {
			req.Location.Lat = &f
		}
	}
	if v := strings.TrimSpace(r.FormValue("location_lng")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			bad = append(bad, "location.lng")
		} else {
			req.Location.Lng = &f
		}
	}
	if len(bad) > 0 {
		h.handleError(w, r, e.NewValidationError(bad...))
		return req, false
	}

	file, header, err := r.FormFile("photo")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid photo"})
		return req, false
	default:
		req.Photo = &domain.PhotoUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
	}
	return req, true
}

func (h *Handler) TrackComplaint(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	id := chi.URLParam(r, "complaintID")
	l.Debug("TrackComplaint", slog.String("complaint_id", id))

	c, err := h.Complaints.Track(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Complaints.Stats(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) ReverseLocation(w http.ResponseWriter, r *http.Request) {
	var req domain.PointRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	loc, err := h.Locations.Reverse(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, loc)
}

func (h *Handler) DeviceLocation(w http.ResponseWriter, r *http.Request) {
	var fix domain.DeviceFix
	if !h.decodeJSON(w, r, &fix) {
		return
	}

	loc, err := h.Locations.FromDevice(r.Context(), fix)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, loc)
}

func (h *Handler) DeviceOptions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.Locations.DeviceOptions())
}
