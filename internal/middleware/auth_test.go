package middleware_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"villagevoice/internal/domain"
	"villagevoice/internal/httpctx"
	"villagevoice/internal/middleware"
)

type stubAuth struct {
	valid string
	p     *domain.Principal
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*domain.Principal, error) {
	if token == s.valid {
		return s.p, nil
	}
	return nil, errors.New("bad token")
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	p := &domain.Principal{ID: uuid.New(), Email: "a@example.com"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var seen *domain.Principal
	h := middleware.Authenticate(stubAuth{valid: "good", p: p}, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = httpctx.Principal(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name      string
		header    string
		wantCode  int
		wantPrinc bool
	}{
		{"anonymous", "", http.StatusNoContent, false},
		{"valid", "Bearer good", http.StatusNoContent, true},
		{"lowercase_scheme", "bearer good", http.StatusNoContent, true},
		{"bad_token", "Bearer nope", http.StatusNoContent, false},
		{"wrong_scheme", "Basic Zm9vOmJhcg==", http.StatusNoContent, false},
		{"empty_token", "Bearer ", http.StatusNoContent, false},
	}

	for _, tc := range cases {
		seen = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if rr.Code != tc.wantCode {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.wantCode, rr.Code)
		}
		if (seen != nil) != tc.wantPrinc {
			t.Fatalf("%s: principal presence mismatch", tc.name)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	h := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(httpctx.WithPrincipal(req.Context(), &domain.Principal{ID: uuid.New()}))
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestAuthenticate_StaleTokenOnlyBlocksProtectedRoutes(t *testing.T) {
	t.Parallel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auth := middleware.Authenticate(stubAuth{valid: "good"}, logger)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	public := auth(ok)
	protected := auth(middleware.RequireAuth(ok))

	for _, header := range []string{"Bearer stale", "Token abc"} {
		req := httptest.NewRequest(http.MethodGet, "/complaints/VV000001", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		public.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("public route with %q: expected 204, got %d", header, rr.Code)
		}

		req = httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", header)
		rr = httptest.NewRecorder()
		protected.ServeHTTP(rr, req)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("protected route with %q: expected 401, got %d", header, rr.Code)
		}
	}
}
