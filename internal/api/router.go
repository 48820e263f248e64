package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"villagevoice/internal/api/handlers/http/admin"
	"villagevoice/internal/api/handlers/http/auth"
	"villagevoice/internal/api/handlers/http/public"
	"villagevoice/internal/api/handlers/http/system"
	"villagevoice/internal/config"
	"villagevoice/internal/middleware"
	"villagevoice/internal/service"
)

type Server struct {
	logger *slog.Logger
	router *chi.Mux
	cfg    config.Config
}

type ServerOptions struct {
	// PhotoDir is served under /photos/ when photos are kept on disk.
	PhotoDir string
	Health   map[string]system.Pinger
}

type Handlers struct {
	Public *public.Handler
	Admin  *admin.Handler
	System *system.Handler
	// nil in local mode
	Auth *auth.Handler
}

func NewServer(cfg *config.Config, logger *slog.Logger, svc *service.Service, opts ServerOptions) *Server {
	handlers := Handlers{
		Public: public.NewHandler(logger, svc.Complaints, svc.Locations, cfg.Http.MaxUploadBytes),
		Admin:  admin.NewHandler(logger, svc.Complaints),
		System: system.NewHandler(logger, opts.Health),
	}
	var authenticator middleware.Authenticator
	if svc.Auth != nil {
		handlers.Auth = auth.NewHandler(logger, svc.Auth)
		authenticator = svc.Auth
	}

	r := InitRouter(cfg, handlers, authenticator, opts.PhotoDir, logger)

	return &Server{
		logger: logger,
		router: r,
		cfg:    *cfg,
	}
}

func (s *Server) Handler() http.Handler { return s.router }

func InitRouter(cfg *config.Config, h Handlers, authenticator middleware.Authenticator, photoDir string, logger *slog.Logger) *chi.Mux {
	r := chi.NewMux()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Http.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(api chi.Router) {
		if authenticator != nil {
			api.Use(middleware.Authenticate(authenticator, logger))
		}

		// PUBLIC
		api.Route("/complaints", func(cr chi.Router) {
			cr.Post("/", h.Public.SubmitComplaint)
			cr.Get("/{complaintID}", h.Public.TrackComplaint)
		})
		api.Get("/stats", h.Public.Stats)

		api.Route("/location", func(lr chi.Router) {
			lr.Post("/reverse", h.Public.ReverseLocation)
			lr.Post("/device", h.Public.DeviceLocation)
			lr.Get("/device-options", h.Public.DeviceOptions)
		})

		// ADMIN
		api.Route("/admin/complaints", func(ar chi.Router) {
			ar.Get("/", h.Admin.AdminComplaintList)
			ar.Route("/{complaintID}", func(cr chi.Router) {
				cr.Get("/", h.Admin.AdminComplaintGet)
				cr.Put("/status", h.Admin.AdminComplaintUpdateStatus)
			})
		})

		// AUTH
		if h.Auth != nil {
			api.Route("/auth", func(ar chi.Router) {
				ar.Post("/signup", h.Auth.SignUp)
				ar.Post("/signin", h.Auth.SignIn)
				ar.Post("/refresh", h.Auth.Refresh)
				ar.Post("/signout", h.Auth.SignOut)
				ar.With(middleware.RequireAuth).Get("/me", h.Auth.Me)
			})
		}

		// SYSTEM
		api.Get("/health", h.System.SystemHealth)
	})

	if photoDir != "" {
		r.Handle("/photos/*", http.StripPrefix("/photos/", http.FileServer(http.Dir(photoDir))))
	}

	return r
}

func (s *Server) Run(ctx context.Context) error {
	port := s.cfg.Http.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Http.ReadTimeout,
		WriteTimeout: s.cfg.Http.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Starting HTTP server",
			slog.String("addr", srv.Addr),
			slog.Duration("read_timeout", s.cfg.Http.ReadTimeout),
			slog.Duration("write_timeout", s.cfg.Http.WriteTimeout),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("ListenAndServe error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server", slog.String("reason", ctx.Err().Error()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Http.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server shutdown failed", slog.Any("error", err))
			return err
		}
		return nil

	case err := <-errChan:
		return err
	}
}
