// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moviezone/moviezone/internal/api/handlers"
	"github.com/moviezone/moviezone/internal/domain"
	"github.com/moviezone/moviezone/internal/metrics"
	"github.com/moviezone/moviezone/internal/models"
)

type nopPinger struct{}

func (nopPinger) Ping(context.Context) error { return nil }

func newTestHandler(cfg *domain.Config) http.Handler {
	movieStore := models.NewMovieStore(nil)
	settingsStore := models.NewSettingsStore(nil)
	categoryStore := models.NewCategoryStore(nil)

	srv := NewServer(&Dependencies{
		Config:         cfg,
		WebhookHandler: handlers.NewWebhookHandler(cfg, nil, nil),
		MoviesHandler:  handlers.NewMoviesHandler(cfg, movieStore),
		AdminHandler:   handlers.NewAdminHandler(movieStore, categoryStore, settingsStore, nil),
		SiteHandler:    handlers.NewSiteHandler(settingsStore, categoryStore, nopPinger{}),
		ShortenHandler: handlers.NewShortenHandler(),
		Metrics:        metrics.New(),
	})

	return srv.Handler()
}

func testConfig() *domain.Config {
	return &domain.Config{
		BotToken:       "test-token",
		AdminUsername:  "admin",
		AdminPassword:  "secret",
		MetricsEnabled: true,
	}
}

func TestHandler_AdminRequiresAuth(t *testing.T) {
	t.Parallel()

	h := newTestHandler(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/movies", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_MetricsRequiresAuth(t *testing.T) {
	t.Parallel()

	h := newTestHandler(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "moviezone_files_ingested_total")
}

func TestHandler_MetricsDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.MetricsEnabled = false
	h := newTestHandler(cfg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("admin", "secret")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_WebhookWrongTokenIs404(t *testing.T) {
	t.Parallel()

	h := newTestHandler(testConfig())

	req := httptest.NewRequest(http.MethodPost, "/webhook/other-token", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_BasePathMounting(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.BaseURL = "moviezone/"
	h := newTestHandler(cfg)

	// Routes only exist under the base path.
	req := httptest.NewRequest(http.MethodGet, "/api/admin/movies", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/moviezone/api/admin/movies", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_UnknownRouteIs404(t *testing.T) {
	t.Parallel()

	h := newTestHandler(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
