// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package delivery resolves access codes back into one-time file sends with
// automatic expiry of the delivered message.
package delivery

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/moviezone/moviezone/internal/metrics"
	"github.com/moviezone/moviezone/internal/models"
)

const welcomeText = "👋 Welcome to Anime Nexus!"

// CatalogStore is the code lookup slice of the movie store.
type CatalogStore interface {
	FindByCode(ctx context.Context, code string) (*models.Movie, *models.FileRef, error)
}

// Sender is the outbound transport used for replies and file dispatch.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendFile(ctx context.Context, chatID int64, fileID, caption, fileType string) (int64, error)
}

type Service struct {
	store     CatalogStore
	bot       Sender
	scheduler *Scheduler
	metrics   *metrics.Metrics
}

func NewService(store CatalogStore, bot Sender, scheduler *Scheduler, m *metrics.Metrics) *Service {
	return &Service{
		store:     store,
		bot:       bot,
		scheduler: scheduler,
		metrics:   m,
	}
}

// Redeem resolves an access code and dispatches its file to the requesting
// chat, scheduling the auto-expiry of the sent message. Every outcome ends
// in a reply to the user; transport failures are swallowed per the
// fire-once policy.
func (s *Service) Redeem(ctx context.Context, chatID int64, code string) {
	movie, file, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, models.ErrCodeNotFound) {
			s.metrics.Deliveries.WithLabelValues(metrics.DeliveryOutcomeNotFound).Inc()
		} else {
			log.Error().Err(err).Str("code", code).Msg("access code lookup failed")
			s.metrics.Deliveries.WithLabelValues(metrics.DeliveryOutcomeLookupFailed).Inc()
		}
		s.reply(ctx, chatID, "❌ File expired.")
		return
	}

	caption := fmt.Sprintf("🎬 *%s*\n📌 %s\n⚠️ *Link expires in %d mins!*",
		movie.Title, file.EpisodeLabel, int(math.Round(s.scheduler.Delay().Minutes())))

	messageID, err := s.bot.SendFile(ctx, chatID, file.FileID, caption, file.FileType)
	if err != nil {
		log.Warn().Err(err).Str("code", code).Int64("chatID", chatID).Msg("file delivery failed")
		s.metrics.Deliveries.WithLabelValues(metrics.DeliveryOutcomeSendFailed).Inc()
		return
	}

	s.scheduler.Schedule(chatID, messageID)
	s.metrics.Deliveries.WithLabelValues(metrics.DeliveryOutcomeSent).Inc()

	log.Info().
		Str("code", code).
		Str("title", movie.Title).
		Int64("chatID", chatID).
		Int64("messageID", messageID).
		Msg("file delivered, expiry scheduled")
}

// Welcome answers a bare /start with the greeting reply.
func (s *Service) Welcome(ctx context.Context, chatID int64) {
	s.reply(ctx, chatID, welcomeText)
}

func (s *Service) reply(ctx context.Context, chatID int64, text string) {
	if err := s.bot.SendMessage(ctx, chatID, text); err != nil {
		log.Warn().Err(err).Int64("chatID", chatID).Msg("reply failed")
	}
}
