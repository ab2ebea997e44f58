// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/moviezone/moviezone/internal/models"
)

// MetadataSearcher is the admin-side TMDB proxy surface.
type MetadataSearcher interface {
	Search(ctx context.Context, query string) (json.RawMessage, error)
	MovieByID(ctx context.Context, id string) (json.RawMessage, error)
}

// AdminHandler serves the catalog correction API: edit and delete entries,
// manage categories and look up replacement metadata.
type AdminHandler struct {
	movies     *models.MovieStore
	categories *models.CategoryStore
	settings   *models.SettingsStore
	searcher   MetadataSearcher
}

func NewAdminHandler(movies *models.MovieStore, categories *models.CategoryStore, settings *models.SettingsStore, searcher MetadataSearcher) *AdminHandler {
	return &AdminHandler{
		movies:     movies,
		categories: categories,
		settings:   settings,
		searcher:   searcher,
	}
}

func (h *AdminHandler) Routes(r chi.Router) {
	r.Get("/movies", h.listMovies)
	r.Put("/movies/{movieID}", h.updateMovie)
	r.Delete("/movies/{movieID}", h.deleteMovie)

	r.Get("/tmdb", h.searchTMDB)

	r.Post("/categories", h.createCategory)
	r.Delete("/categories/{categoryID}", h.deleteCategory)

	r.Put("/settings", h.updateSettings)
}

func (h *AdminHandler) listMovies(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	params := models.ListParams{
		Query:    r.URL.Query().Get("q"),
		Page:     page,
		PerPage:  moviesPerPage,
		SortByID: true,
	}

	movies, total, err := h.movies.List(r.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("admin movie listing failed")
		RespondError(w, http.StatusInternalServerError, "Failed to list movies")
		return
	}

	RespondJSON(w, http.StatusOK, movieListResponse{
		Movies:  movies,
		Page:    page,
		Total:   total,
		HasNext: int64(page*moviesPerPage) < total,
	})
}

func (h *AdminHandler) updateMovie(w http.ResponseWriter, r *http.Request) {
	var params models.UpdateMovieParams
	if !DecodeJSON(w, r, &params) {
		return
	}

	if strings.TrimSpace(params.Title) == "" {
		RespondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	err := h.movies.Update(r.Context(), chi.URLParam(r, "movieID"), params)
	if err != nil {
		respondMovieError(w, err, "update movie")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *AdminHandler) deleteMovie(w http.ResponseWriter, r *http.Request) {
	err := h.movies.Delete(r.Context(), chi.URLParam(r, "movieID"))
	if err != nil {
		respondMovieError(w, err, "delete movie")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// searchTMDB proxies metadata searches for the correction flow: numeric
// queries are treated as TMDB ids, everything else as a multi search.
func (h *AdminHandler) searchTMDB(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		RespondError(w, http.StatusBadRequest, "Missing query")
		return
	}

	if _, err := strconv.Atoi(query); err == nil {
		raw, err := h.searcher.MovieByID(r.Context(), query)
		if err == nil {
			RespondJSON(w, http.StatusOK, map[string]any{"results": []json.RawMessage{raw}})
			return
		}
		// Fall through to a title search when the id lookup missed.
	}

	raw, err := h.searcher.Search(r.Context(), query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("tmdb search failed")
		RespondError(w, http.StatusBadGateway, "Metadata search failed")
		return
	}

	RespondJSON(w, http.StatusOK, raw)
}

func (h *AdminHandler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		RespondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	category, err := h.categories.Create(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		log.Error().Err(err).Msg("create category failed")
		RespondError(w, http.StatusInternalServerError, "Failed to create category")
		return
	}

	RespondJSON(w, http.StatusCreated, category)
}

func (h *AdminHandler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	err := h.categories.Delete(r.Context(), chi.URLParam(r, "categoryID"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidID):
			RespondError(w, http.StatusBadRequest, "Invalid category id")
		case errors.Is(err, models.ErrCategoryNotFound):
			RespondError(w, http.StatusNotFound, "Category not found")
		default:
			log.Error().Err(err).Msg("delete category failed")
			RespondError(w, http.StatusInternalServerError, "Failed to delete category")
		}
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *AdminHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var doc map[string]any
	if !DecodeJSON(w, r, &doc) {
		return
	}

	if err := h.settings.Set(r.Context(), doc); err != nil {
		log.Error().Err(err).Msg("update settings failed")
		RespondError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	RespondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func respondMovieError(w http.ResponseWriter, err error, context string) {
	switch {
	case errors.Is(err, models.ErrInvalidID):
		RespondError(w, http.StatusBadRequest, "Invalid movie id")
	case errors.Is(err, models.ErrMovieNotFound):
		RespondError(w, http.StatusNotFound, "Movie not found")
	default:
		log.Error().Err(err).Str("context", context).Msg("movie operation failed")
		RespondError(w, http.StatusInternalServerError, "Movie operation failed")
	}
}
