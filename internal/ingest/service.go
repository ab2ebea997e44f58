// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package ingest turns channel uploads into catalog entries: classify the
// filename, enrich the title, merge into the catalog and mint an access code.
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/moviezone/moviezone/internal/domain"
	"github.com/moviezone/moviezone/internal/metrics"
	"github.com/moviezone/moviezone/internal/models"
	"github.com/moviezone/moviezone/internal/telegram"
	"github.com/moviezone/moviezone/internal/tmdb"
	"github.com/moviezone/moviezone/pkg/releases"
)

const (
	accessCodeLength = 8
	mintAttempts     = 3
)

// CatalogStore is the slice of the movie store the pipeline needs.
type CatalogStore interface {
	UpsertFile(ctx context.Context, title string, seed models.Movie, file models.FileRef) (primitive.ObjectID, bool, error)
	HasCode(ctx context.Context, code string) (bool, error)
}

// Enricher looks up canonical metadata for a normalized title.
type Enricher interface {
	Lookup(ctx context.Context, title, contentType string, year int) (*tmdb.Metadata, bool, error)
}

// LinkEditor attaches the catalog deep link to the originating channel post.
type LinkEditor interface {
	EditReplyMarkup(ctx context.Context, chatID string, messageID int64, buttonText, buttonURL string) error
}

// Result describes what one ingest did, mostly for logging and tests.
type Result struct {
	MovieID primitive.ObjectID
	Title   string
	Code    string
	Created bool
	Skipped bool
}

type Service struct {
	cfg      *domain.Config
	store    CatalogStore
	enricher Enricher
	bot      LinkEditor
	metrics  *metrics.Metrics

	newCode func() string
}

func NewService(cfg *domain.Config, store CatalogStore, enricher Enricher, bot LinkEditor, m *metrics.Metrics) *Service {
	return &Service{
		cfg:      cfg,
		store:    store,
		enricher: enricher,
		bot:      bot,
		metrics:  m,
		newCode:  randomCode,
	}
}

// Ingest processes one channel post. Posts without a storable file are
// accepted and skipped. Enrichment and link decoration failures degrade
// softly; only a catalog store failure is returned as an error.
func (s *Service) Ingest(ctx context.Context, msg *telegram.Message) (*Result, error) {
	fileID, fileName, fileType, fileSize, ok := msg.Attachment()
	if !ok {
		log.Debug().Int64("messageID", msg.MessageID).Msg("channel post without a file, skipping")
		return &Result{Skipped: true}, nil
	}

	rawInput := msg.Caption
	if rawInput == "" {
		rawInput = fileName
	}

	searchTitle := releases.NormalizeTitle(rawInput)
	kind := releases.ContentKind(fileName, msg.Caption)

	seed := models.Movie{
		Language: releases.Language(rawInput),
		Type:     kind,
	}

	finalTitle := searchTitle
	meta, found, err := s.enricher.Lookup(ctx, searchTitle, kind, 0)
	if err != nil {
		log.Warn().Err(err).Str("title", searchTitle).Msg("enrichment lookup failed, using raw title")
	}
	if found && meta != nil {
		if meta.Title != "" {
			finalTitle = meta.Title
		}
		seed.Overview = meta.Overview
		seed.Poster = meta.Poster
		seed.Backdrop = meta.Backdrop
		seed.ReleaseDate = meta.ReleaseDate
		seed.VoteAverage = meta.VoteAverage
		seed.Genres = meta.Genres
		seed.Trailer = meta.Trailer
		seed.IsAdult = meta.Adult
	} else {
		s.metrics.EnrichmentMisses.Inc()
	}

	file := models.FileRef{
		FileID:       fileID,
		Code:         s.mintCode(ctx),
		Filename:     fileName,
		Quality:      releases.Quality(fileName),
		EpisodeLabel: releases.EpisodeLabel(fileName),
		Size:         sizeLabel(fileSize),
		FileType:     fileType,
		AddedAt:      time.Now().UTC(),
	}

	movieID, created, err := s.store.UpsertFile(ctx, finalTitle, seed, file)
	if err != nil {
		return nil, fmt.Errorf("ingest %q: %w", fileName, err)
	}

	s.metrics.FilesIngested.Inc()
	if created {
		s.metrics.MoviesCreated.Inc()
	} else {
		s.metrics.MoviesUpdated.Inc()
	}

	log.Info().
		Str("title", finalTitle).
		Str("code", file.Code).
		Str("quality", file.Quality).
		Bool("created", created).
		Msg("file ingested")

	s.attachDeepLink(ctx, msg, movieID)

	return &Result{
		MovieID: movieID,
		Title:   finalTitle,
		Code:    file.Code,
		Created: created,
	}, nil
}

// attachDeepLink decorates the source post with a link to the catalog entry.
// Best-effort: the post may be too old to edit or permissions may be gone.
func (s *Service) attachDeepLink(ctx context.Context, msg *telegram.Message, movieID primitive.ObjectID) {
	if s.cfg.WebsiteURL == "" {
		return
	}

	err := s.bot.EditReplyMarkup(ctx, msg.Chat.ChatID(), msg.MessageID, "▶️ Check on Website", s.cfg.MovieURL(movieID.Hex()))
	if err != nil {
		log.Warn().Err(err).Str("movieID", movieID.Hex()).Msg("could not attach deep link to source post")
	}
}

// mintCode issues a fresh access code, re-minting on the rare store
// collision. The final attempt is used as-is; at 8 hex characters the
// residual collision odds are negligible for realistic catalog sizes.
func (s *Service) mintCode(ctx context.Context) string {
	var code string
	for attempt := 0; attempt < mintAttempts; attempt++ {
		code = s.newCode()

		exists, err := s.store.HasCode(ctx, code)
		if err != nil {
			log.Warn().Err(err).Msg("access code uniqueness check failed, keeping code")
			return code
		}
		if !exists {
			return code
		}

		log.Warn().Str("code", code).Msg("access code collision, re-minting")
	}

	return code
}

func randomCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:accessCodeLength]
}

func sizeLabel(bytes int64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}
