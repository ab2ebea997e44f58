// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/moviezone/moviezone/internal/api/handlers"
	"github.com/moviezone/moviezone/internal/api/middleware"
	"github.com/moviezone/moviezone/internal/domain"
	"github.com/moviezone/moviezone/internal/metrics"
	"github.com/moviezone/moviezone/pkg/httphelpers"
)

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Config *domain.Config

	WebhookHandler *handlers.WebhookHandler
	MoviesHandler  *handlers.MoviesHandler
	AdminHandler   *handlers.AdminHandler
	SiteHandler    *handlers.SiteHandler
	ShortenHandler *handlers.ShortenHandler

	Metrics *metrics.Metrics
}

type Server struct {
	deps *Dependencies
}

func NewServer(deps *Dependencies) *Server {
	return &Server{deps: deps}
}

// Handler assembles the router: the webhook endpoint, the public catalog
// API, the basic-auth admin API and optionally the metrics endpoint, all
// mounted under the configured base path.
func (s *Server) Handler() http.Handler {
	cfg := s.deps.Config

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(middleware.Recoverer)

	r.Use(cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedOrigins: []string{"*"},
	}).Handler)

	basePath := httphelpers.NormalizeBasePath(cfg.BaseURL)
	mount := basePath
	if mount == "" {
		mount = "/"
	}

	adminAuth := middleware.BasicAuth(cfg.AdminUsername, cfg.AdminPassword)

	r.Route(mount, func(r chi.Router) {
		s.deps.WebhookHandler.Routes(r)

		r.Route("/api", func(r chi.Router) {
			r.Route("/movies", s.deps.MoviesHandler.Routes)
			s.deps.SiteHandler.Routes(r)
			s.deps.ShortenHandler.Routes(r)

			r.Route("/admin", func(r chi.Router) {
				r.Use(adminAuth)
				s.deps.AdminHandler.Routes(r)
			})
		})

		if cfg.MetricsEnabled && s.deps.Metrics != nil {
			r.With(adminAuth).Handle("/metrics", s.deps.Metrics.Handler())
		}
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	cfg := s.deps.Config

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Info().Str("addr", srv.Addr).Str("base", cfg.BaseURL).Msg("http server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
