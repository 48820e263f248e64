package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"villagevoice/internal/domain"
	"villagevoice/internal/httpctx"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type AdminComplaints interface {
	List(ctx context.Context, p *domain.Principal, filter domain.ComplaintFilter) ([]*domain.Complaint, error)
	Detail(ctx context.Context, p *domain.Principal, complaintID string) (*domain.Complaint, error)
	UpdateStatus(ctx context.Context, p *domain.Principal, complaintID string, req domain.UpdateStatusRequest) (*domain.Complaint, error)
}

type Handler struct {
	logger *slog.Logger
	Admin  AdminComplaints
}

func NewHandler(logger *slog.Logger, admin AdminComplaints) *Handler {
	return &Handler{
		logger: logger,
		Admin:  admin,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

// AdminComplaintList serves GET /admin/complaints?status=<status>. An empty
// or "all" status lists everything.
func (h *Handler) AdminComplaintList(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AdminComplaintList", slog.String("query", r.URL.RawQuery), slog.String("remote", r.RemoteAddr))

	var filter domain.ComplaintFilter
	if s := strings.TrimSpace(r.URL.Query().Get("status")); s != "" && !strings.EqualFold(s, "all") {
		st := domain.Status(s)
		filter.Status = &st
	}

	p, _ := httpctx.Principal(r.Context())
	items, err := h.Admin.List(r.Context(), p, filter)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if items == nil {
		items = []*domain.Complaint{}
	}

	l.Info("complaints listed", slog.Int("count", len(items)))
	h.writeJSON(w, http.StatusOK, domain.ListComplaintsResponse{
		Complaints: items,
		Total:      len(items),
	})
}

func (h *Handler) AdminComplaintGet(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	id := chi.URLParam(r, "complaintID")
	l.Debug("AdminComplaintGet", slog.String("complaint_id", id))

	p, _ := httpctx.Principal(r.Context())
	c, err := h.Admin.Detail(r.Context(), p, id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, c)
}

func (h *Handler) AdminComplaintUpdateStatus(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	id := chi.URLParam(r, "complaintID")
	l.Debug("AdminComplaintUpdateStatus", slog.String("complaint_id", id), slog.String("remote", r.RemoteAddr))

	var req domain.UpdateStatusRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	p, _ := httpctx.Principal(r.Context())
	c, err := h.Admin.UpdateStatus(r.Context(), p, id, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("status updated", slog.String("complaint_id", id), slog.String("status", string(c.Status)))
	h.writeJSON(w, http.StatusOK, c)
}
