// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/moviezone/moviezone/internal/domain"
	"github.com/moviezone/moviezone/internal/ingest"
	"github.com/moviezone/moviezone/internal/telegram"
)

// Ingester handles classified channel uploads.
type Ingester interface {
	Ingest(ctx context.Context, msg *telegram.Message) (*ingest.Result, error)
}

// Resolver handles access code redemptions and bare /start greetings.
type Resolver interface {
	Redeem(ctx context.Context, chatID int64, code string)
	Welcome(ctx context.Context, chatID int64)
}

// WebhookHandler routes inbound Telegram events: channel posts feed the
// ingest pipeline, direct /start messages feed the delivery resolver,
// anything else is acknowledged without a state change. Telegram expects one
// synchronous 200 per event, so no branch besides a catalog store failure
// leaves this handler with an error status.
type WebhookHandler struct {
	cfg      *domain.Config
	ingester Ingester
	resolver Resolver
}

func NewWebhookHandler(cfg *domain.Config, ingester Ingester, resolver Resolver) *WebhookHandler {
	return &WebhookHandler{
		cfg:      cfg,
		ingester: ingester,
		resolver: resolver,
	}
}

func (h *WebhookHandler) Routes(r chi.Router) {
	r.Post("/webhook/{token}", h.handleUpdate)
}

type ackResponse struct {
	Status string `json:"status"`
}

func (h *WebhookHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	// The token in the path is the shared secret: anything else is not Telegram.
	if chi.URLParam(r, "token") != h.cfg.BotToken {
		RespondError(w, http.StatusNotFound, "Not found")
		return
	}

	// Malformed payloads are acknowledged, not rejected: the event source
	// would only redeliver them otherwise.
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Debug().Err(err).Msg("undecodable webhook payload, acknowledging")
		RespondJSON(w, http.StatusOK, ackResponse{Status: "ignored"})
		return
	}

	switch {
	case update.ChannelPost != nil:
		h.handleChannelPost(w, r, update.ChannelPost)
	case update.Message != nil:
		h.handleMessage(w, r, update.Message)
	default:
		RespondJSON(w, http.StatusOK, ackResponse{Status: "ignored"})
	}
}

func (h *WebhookHandler) handleChannelPost(w http.ResponseWriter, r *http.Request, post *telegram.Message) {
	if h.cfg.SourceChannelID != "" && post.Chat.ChatID() != h.cfg.SourceChannelID {
		RespondJSON(w, http.StatusOK, ackResponse{Status: "wrong_channel"})
		return
	}

	result, err := h.ingester.Ingest(r.Context(), post)
	if err != nil {
		// Catalog store failures are the one class worth a retry from
		// Telegram's side; losing an ingest silently is worse.
		log.Error().Err(err).Msg("ingest failed")
		RespondError(w, http.StatusInternalServerError, "Ingest failed")
		return
	}

	if result.Skipped {
		RespondJSON(w, http.StatusOK, ackResponse{Status: "no_file"})
		return
	}

	RespondJSON(w, http.StatusOK, ackResponse{Status: "success"})
}

func (h *WebhookHandler) handleMessage(w http.ResponseWriter, r *http.Request, msg *telegram.Message) {
	if strings.HasPrefix(msg.Text, "/start") {
		parts := strings.Fields(msg.Text)
		if len(parts) > 1 {
			h.resolver.Redeem(r.Context(), msg.Chat.ID, parts[1])
		} else {
			h.resolver.Welcome(r.Context(), msg.Chat.ID)
		}
	}

	RespondJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}
