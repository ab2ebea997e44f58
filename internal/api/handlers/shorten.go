// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/moviezone/moviezone/pkg/httphelpers"
)

// ShortenHandler proxies link-shortener requests for the site frontend so
// the shortener API key never reaches the browser's origin checks.
type ShortenHandler struct {
	httpClient *http.Client
}

func NewShortenHandler() *ShortenHandler {
	return &ShortenHandler{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (h *ShortenHandler) Routes(r chi.Router) {
	r.Get("/shorten", h.shorten)
}

func (h *ShortenHandler) shorten(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	originalURL := query.Get("url")
	apiKey := query.Get("api")
	domain := query.Get("domain")

	if originalURL == "" || apiKey == "" || domain == "" {
		RespondError(w, http.StatusBadRequest, "Missing params")
		return
	}

	endpoint := fmt.Sprintf("https://%s/api?api=%s&url=%s", domain, url.QueryEscape(apiKey), url.QueryEscape(originalURL))

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		RespondError(w, http.StatusBadRequest, "Invalid shortener domain")
		return
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("domain", domain).Msg("shortener request failed")
		RespondError(w, http.StatusBadGateway, "Shortener unreachable")
		return
	}
	defer httphelpers.DrainAndClose(resp)

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		RespondError(w, http.StatusBadGateway, "Invalid shortener response")
		return
	}

	RespondJSON(w, http.StatusOK, payload)
}
