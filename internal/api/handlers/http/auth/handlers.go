package auth

import (
	"context"
	"log/slog"
	"net/http"

	"villagevoice/internal/domain"
	"villagevoice/internal/httpctx"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type Accounts interface {
	SignUp(ctx context.Context, cred domain.Credentials) (*domain.AuthSession, error)
	SignIn(ctx context.Context, cred domain.Credentials) (*domain.AuthSession, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthSession, error)
	SignOut(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, p *domain.Principal) (*domain.Me, error)
}

type Handler struct {
	logger   *slog.Logger
	Accounts Accounts
}

func NewHandler(logger *slog.Logger, accounts Accounts) *Handler {
	return &Handler{logger: logger, Accounts: accounts}
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var cred domain.Credentials
	if !h.decodeJSON(w, r, &cred) {
		return
	}

	sess, err := h.Accounts.SignUp(r.Context(), cred)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.log(r).Info("signed up", slog.String("user_id", sess.Principal.ID.String()))
	h.writeJSON(w, http.StatusCreated, sess)
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var cred domain.Credentials
	if !h.decodeJSON(w, r, &cred) {
		return
	}

	sess, err := h.Accounts.SignIn(r.Context(), cred)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	sess, err := h.Accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, sess)
}

func (h *Handler) SignOut(w http.ResponseWriter, r *http.Request) {
	var req domain.RefreshRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.Accounts.SignOut(r.Context(), req.RefreshToken); err != nil {
		h.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := httpctx.Principal(r.Context())

	me, err := h.Accounts.Me(r.Context(), p)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, me)
}
