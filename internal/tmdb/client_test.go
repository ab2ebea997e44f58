// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package tmdb

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_MovieWithDetails(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		switch r.URL.Path {
		case "/search/movie":
			assert.Equal(t, "Inception", r.URL.Query().Get("query"))
			fmt.Fprint(w, `{"results":[{"id":27205,"title":"Inception","overview":"Dream heist.","poster_path":"/p.jpg","backdrop_path":"/b.jpg","release_date":"2010-07-16","vote_average":8.4}]}`)
		case "/movie/27205":
			assert.Equal(t, "videos", r.URL.Query().Get("append_to_response"))
			fmt.Fprint(w, `{"genres":[{"name":"Sci-Fi"},{"name":"Action"}],"videos":{"results":[{"key":"abc123","site":"YouTube","type":"Trailer"}]}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	meta, found, err := c.Lookup(context.Background(), "Inception", "movie", 0)
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, int64(27205), meta.TMDBID)
	assert.Equal(t, "Inception", meta.Title)
	assert.Equal(t, "Dream heist.", meta.Overview)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/p.jpg", meta.Poster)
	assert.Equal(t, "https://image.tmdb.org/t/p/original/b.jpg", meta.Backdrop)
	assert.Equal(t, []string{"Sci-Fi", "Action"}, meta.Genres)
	assert.Equal(t, "abc123", meta.Trailer)
}

func TestLookup_SeriesUsesTVEndpoint(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search/tv":
			fmt.Fprint(w, `{"results":[{"id":1429,"name":"Attack on Titan","first_air_date":"2013-04-07"}]}`)
		case "/tv/1429":
			fmt.Fprint(w, `{"genres":[{"name":"Animation"}],"videos":{"results":[]}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	meta, found, err := c.Lookup(context.Background(), "Attack Titan", "series", 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Attack on Titan", meta.Title)
	assert.Equal(t, "2013-04-07", meta.ReleaseDate)
	assert.Equal(t, []string{"Animation"}, meta.Genres)
}

func TestLookup_NoResultsIsCleanMiss(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"results":[]}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	meta, found, err := c.Lookup(context.Background(), "zzzzz", "movie", 0)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, meta)
}

func TestLookup_DetailsFailureReturnsPartialMetadata(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search/movie" {
			fmt.Fprint(w, `{"results":[{"id":1,"title":"Akira"}]}`)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	meta, found, err := c.Lookup(context.Background(), "Akira", "movie", 0)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Akira", meta.Title)
	assert.Empty(t, meta.Genres)
}

func TestLookup_ServerErrorIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	_, _, err := c.Lookup(context.Background(), "Akira", "movie", 0)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
}

func TestLookup_MissingAPIKeyIsNoop(t *testing.T) {
	t.Parallel()

	c := NewClient("")

	meta, found, err := c.Lookup(context.Background(), "Akira", "movie", 0)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, meta)
}

func TestSearch_Raw(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/multi", r.URL.Path)
		fmt.Fprint(w, `{"results":[{"id":1}]}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	raw, err := c.Search(context.Background(), "akira")
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[{"id":1}]}`, string(raw))
}

func TestMovieByID_Raw(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/movie/27205", r.URL.Path)
		fmt.Fprint(w, `{"id":27205}`)
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))

	raw, err := c.MovieByID(context.Background(), "27205")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":27205}`, string(raw))
}
