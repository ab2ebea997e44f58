// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/moviezone/moviezone/internal/domain"
	"github.com/moviezone/moviezone/internal/models"
)

const moviesPerPage = 20

// MoviesHandler serves the public catalog browsing API.
type MoviesHandler struct {
	cfg    *domain.Config
	movies *models.MovieStore
}

func NewMoviesHandler(cfg *domain.Config, movies *models.MovieStore) *MoviesHandler {
	return &MoviesHandler{
		cfg:    cfg,
		movies: movies,
	}
}

func (h *MoviesHandler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/featured", h.featured)
	r.Get("/{movieID}", h.detail)
}

type movieListResponse struct {
	Movies  []models.Movie `json:"movies"`
	Page    int            `json:"page"`
	Total   int64          `json:"total"`
	HasNext bool           `json:"hasNext"`
}

func (h *MoviesHandler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	params := models.ListParams{
		Query:   r.URL.Query().Get("q"),
		Type:    r.URL.Query().Get("type"),
		Page:    page,
		PerPage: moviesPerPage,
	}

	movies, total, err := h.movies.List(r.Context(), params)
	if err != nil {
		log.Error().Err(err).Msg("movie listing failed")
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

func (h *MoviesHandler) featured(w http.ResponseWriter, r *http.Request) {
	movies, err := h.movies.Featured(r.Context(), 5)
	if err != nil {
		log.Error().Err(err).Msg("featured listing failed")
		RespondError(w, http.StatusInternalServerError, "Failed to list featured movies")
		return
	}

	RespondJSON(w, http.StatusOK, movies)
}

// downloadLink pairs a file with its bot deep link for the detail page.
type downloadLink struct {
	models.FileRef
	DeepLink string `json:"deep_link"`
}

type movieDetailResponse struct {
	models.Movie
	Downloads []downloadLink `json:"downloads"`
}

func (h *MoviesHandler) detail(w http.ResponseWriter, r *http.Request) {
	movie, err := h.movies.Get(r.Context(), chi.URLParam(r, "movieID"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidID):
			RespondError(w, http.StatusBadRequest, "Invalid movie id")
		case errors.Is(err, models.ErrMovieNotFound):
			RespondError(w, http.StatusNotFound, "Movie not found")
		default:
			log.Error().Err(err).Msg("movie detail failed")
			RespondError(w, http.StatusInternalServerError, "Failed to load movie")
		}
		return
	}

	downloads := make([]downloadLink, 0, len(movie.Files))
	for i := len(movie.Files) - 1; i >= 0; i-- {
		downloads = append(downloads, downloadLink{
			FileRef:  movie.Files[i],
			DeepLink: h.cfg.BotDeepLink(movie.Files[i].Code),
		})
	}

	RespondJSON(w, http.StatusOK, movieDetailResponse{
		Movie:     *movie,
		Downloads: downloads,
	})
}
