// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/moviezone/moviezone/internal/models"
)

// Pinger reports backing store liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SiteHandler serves the small supporting endpoints: site settings,
// category listing and health.
type SiteHandler struct {
	settings   *models.SettingsStore
	categories *models.CategoryStore
	pinger     Pinger
}

func NewSiteHandler(settings *models.SettingsStore, categories *models.CategoryStore, pinger Pinger) *SiteHandler {
	return &SiteHandler{
		settings:   settings,
		categories: categories,
		pinger:     pinger,
	}
}

func (h *SiteHandler) Routes(r chi.Router) {
	r.Get("/settings", h.getSettings)
	r.Get("/categories", h.listCategories)
	r.Get("/health", h.health)
}

func (h *SiteHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Get(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("get settings failed")
		RespondError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}

	RespondJSON(w, http.StatusOK, settings)
}

func (h *SiteHandler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("list categories failed")
		RespondError(w, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	RespondJSON(w, http.StatusOK, categories)
}

func (h *SiteHandler) health(w http.ResponseWriter, r *http.Request) {
	if err := h.pinger.Ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("health check failed")
		RespondError(w, http.StatusServiceUnavailable, "Database unreachable")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
