// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package telegram is the outbound Bot API client. Calls carry a bounded
// timeout; delivery failures are returned to the caller, which decides per
// the fire-once policy whether to swallow them.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/rs/zerolog/log"

	"github.com/moviezone/moviezone/pkg/httphelpers"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	requestTimeout = 15 * time.Second
)

// APIError is a non-ok Bot API response.
type APIError struct {
	Code        int    `json:"error_code"`
	Description string `json:"description"`
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram api error (code %d)", e.Code)
	}
	return fmt.Sprintf("telegram api error (code %d): %s", e.Code, e.Description)
}

type Client struct {
	baseURL    string
	token      string
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

func NewClient(token string, opts ...OptFunc) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SendMessage sends a plain text reply to a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}

	_, err := c.call(ctx, "sendMessage", payload)
	return err
}

// SendFile dispatches a stored file to a chat with a Markdown caption, using
// the video or document transport depending on fileType. It returns the id
// of the sent message so the expiry scheduler can take it from there.
func (c *Client) SendFile(ctx context.Context, chatID int64, fileID, caption, fileType string) (int64, error) {
	method := "sendDocument"
	field := "document"
	if fileType == "video" {
		method = "sendVideo"
		field = "video"
	}

	payload := map[string]any{
		"chat_id":    chatID,
		"caption":    caption,
		"parse_mode": "Markdown",
		field:        fileID,
	}

	result, err := c.call(ctx, method, payload)
	if err != nil {
		return 0, err
	}

	var sent struct {
		MessageID int64 `json:"message_id"`
	}
	if err := json.Unmarshal(result, &sent); err != nil {
		return 0, fmt.Errorf("decode sent message: %w", err)
	}

	return sent.MessageID, nil
}

// DeleteMessage removes a previously sent message. The message may already
// be gone; callers treat any failure as best-effort.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int64) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	}

	_, err := c.call(ctx, "deleteMessage", payload)
	return err
}

// EditReplyMarkup attaches a single URL button to an existing message. Used
// to decorate source channel posts with their catalog deep link.
func (c *Client) EditReplyMarkup(ctx context.Context, chatID string, messageID int64, buttonText, buttonURL string) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"reply_markup": map[string]any{
			"inline_keyboard": [][]map[string]string{
				{{"text": buttonText, "url": buttonURL}},
			},
		},
	}

	_, err := c.call(ctx, "editMessageReplyMarkup", payload)
	return err
}

// SetWebhook registers the inbound webhook URL, retrying a few times since
// it runs once at startup against a remote API that may be briefly flaky.
func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	payload := map[string]any{
		"url": webhookURL,
	}

	return retry.Do(
		func() error {
			_, err := c.call(ctx, "setWebhook", payload)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Msg("setWebhook failed, retrying")
		}),
	)
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Description string          `json:"description,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, payload any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", method, err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", method, err)
	}
	defer httphelpers.DrainAndClose(resp)

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}

	if !apiResp.OK {
		return nil, &APIError{Code: apiResp.ErrorCode, Description: apiResp.Description}
	}

	return apiResp.Result, nil
}
