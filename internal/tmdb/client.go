// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package tmdb is the metadata enrichment client. Lookups are best-effort:
// callers get a typed miss and decide how to degrade, the pipeline never
// fails because TMDB did.
package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/moviezone/moviezone/pkg/httphelpers"
	"github.com/moviezone/moviezone/pkg/releases"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	requestTimeout = 5 * time.Second

	posterBaseURL   = "https://image.tmdb.org/t/p/w500"
	backdropBaseURL = "https://image.tmdb.org/t/p/original"
)

type APIError struct {
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb api error (status %d)", e.StatusCode)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type OptFunc func(*Client)

func WithBaseURL(baseURL string) OptFunc {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(httpClient *http.Client) OptFunc {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func NewClient(apiKey string, opts ...OptFunc) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Metadata is the enrichment result for one title.
type Metadata struct {
	TMDBID      int64    `json:"tmdb_id"`
	Title       string   `json:"title"`
	Overview    string   `json:"overview"`
	Poster      string   `json:"poster"`
	Backdrop    string   `json:"backdrop"`
	ReleaseDate string   `json:"release_date"`
	VoteAverage float64  `json:"vote_average"`
	Genres      []string `json:"genres"`
	Trailer     string   `json:"trailer"`
	Adult       bool     `json:"adult"`
}

type searchResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Adult        bool    `json:"adult"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

type detailsResponse struct {
	Genres []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Videos struct {
		Results []struct {
			Key  string `json:"key"`
			Site string `json:"site"`
			Type string `json:"type"`
		} `json:"results"`
	} `json:"videos"`
}

// Lookup searches TMDB for the given title and returns the best match with
// its details, or found=false on a clean miss. Transport and decoding
// problems come back as errors so the caller can log before degrading.
func (c *Client) Lookup(ctx context.Context, title, contentType string, year int) (*Metadata, bool, error) {
	if c.apiKey == "" || title == "" {
		return nil, false, nil
	}

	tmdbType := "movie"
	if contentType == releases.ContentTypeSeries {
		tmdbType = "tv"
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", title)
	if year > 0 && tmdbType == "movie" {
		params.Set("year", strconv.Itoa(year))
	}

	var search searchResponse
	if err := c.get(ctx, fmt.Sprintf("/search/%s?%s", tmdbType, params.Encode()), &search); err != nil {
		return nil, false, err
	}

	if len(search.Results) == 0 {
		return nil, false, nil
	}

	res := search.Results[0]

	meta := &Metadata{
		TMDBID:      res.ID,
		Title:       res.Title,
		Overview:    res.Overview,
		ReleaseDate: res.ReleaseDate,
		VoteAverage: res.VoteAverage,
		Adult:       res.Adult,
	}
	if tmdbType == "tv" {
		meta.Title = res.Name
		meta.ReleaseDate = res.FirstAirDate
	}
	if res.PosterPath != "" {
		meta.Poster = posterBaseURL + res.PosterPath
	}
	if res.BackdropPath != "" {
		meta.Backdrop = backdropBaseURL + res.BackdropPath
	}

	detailsParams := url.Values{}
	detailsParams.Set("api_key", c.apiKey)
	detailsParams.Set("append_to_response", "videos")

	var details detailsResponse
	if err := c.get(ctx, fmt.Sprintf("/%s/%d?%s", tmdbType, res.ID, detailsParams.Encode()), &details); err != nil {
		// Search succeeded, so return what we have rather than nothing.
		return meta, true, nil
	}

	for _, genre := range details.Genres {
		meta.Genres = append(meta.Genres, genre.Name)
	}
	for _, video := range details.Videos.Results {
		if video.Type == "Trailer" && video.Site == "YouTube" {
			meta.Trailer = video.Key
			break
		}
	}

	return meta, true, nil
}

// Search proxies a raw multi search, used by the admin correction UI.
func (c *Client) Search(ctx context.Context, query string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)

	return c.getRaw(ctx, "/search/multi?"+params.Encode())
}

// MovieByID fetches a single movie document by numeric TMDB id.
func (c *Client) MovieByID(ctx context.Context, id string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)

	return c.getRaw(ctx, fmt.Sprintf("/movie/%s?%s", url.PathEscape(id), params.Encode()))
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	body, err := c.getRaw(ctx, path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decode tmdb response: %w", err)
	}

	return nil
}

func (c *Client) getRaw(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build tmdb request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb request: %w", err)
	}
	defer httphelpers.DrainAndClose(resp)

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tmdb response: %w", err)
	}

	return body, nil
}
