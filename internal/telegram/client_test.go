// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedCall struct {
	method  string
	payload map[string]any
}

func newBotServer(t *testing.T, respond func(method string) string) (*httptest.Server, *[]recordedCall) {
	t.Helper()

	var calls []recordedCall
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		// Path shape: /bot<token>/<method>
		require.Regexp(t, `^/bottest-token/`, r.URL.Path)
		method := r.URL.Path[len("/bottest-token/"):]
		calls = append(calls, recordedCall{method: method, payload: payload})

		fmt.Fprint(w, respond(method))
	}))

	return srv, &calls
}

func okResult(result string) string {
	return fmt.Sprintf(`{"ok":true,"result":%s}`, result)
}

func TestSendMessage(t *testing.T) {
	t.Parallel()

	srv, calls := newBotServer(t, func(string) string { return okResult("{}") })
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))

	err := c.SendMessage(context.Background(), 555, "hello")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "sendMessage", call.method)
	assert.Equal(t, float64(555), call.payload["chat_id"])
	assert.Equal(t, "hello", call.payload["text"])
}

func TestSendFile_VideoAndDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		fileType     string
		expectMethod string
		expectField  string
	}{
		{"video transport", "video", "sendVideo", "video"},
		{"document transport", "document", "sendDocument", "document"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv, calls := newBotServer(t, func(string) string { return okResult(`{"message_id":777}`) })
			defer srv.Close()

			c := NewClient("test-token", WithBaseURL(srv.URL))

			messageID, err := c.SendFile(context.Background(), 555, "file-1", "*Akira*", tt.fileType)
			require.NoError(t, err)
			assert.Equal(t, int64(777), messageID)

			require.Len(t, *calls, 1)
			call := (*calls)[0]
			assert.Equal(t, tt.expectMethod, call.method)
			assert.Equal(t, "file-1", call.payload[tt.expectField])
			assert.Equal(t, "Markdown", call.payload["parse_mode"])
			assert.Equal(t, "*Akira*", call.payload["caption"])
		})
	}
}

func TestDeleteMessage(t *testing.T) {
	t.Parallel()

	srv, calls := newBotServer(t, func(string) string { return okResult("true") })
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))

	require.NoError(t, c.DeleteMessage(context.Background(), 555, 777))

	require.Len(t, *calls, 1)
	assert.Equal(t, "deleteMessage", (*calls)[0].method)
	assert.Equal(t, float64(777), (*calls)[0].payload["message_id"])
}

func TestEditReplyMarkup(t *testing.T) {
	t.Parallel()

	srv, calls := newBotServer(t, func(string) string { return okResult("{}") })
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))

	err := c.EditReplyMarkup(context.Background(), "-1001234", 42, "Watch", "https://example.com/movie/abc")
	require.NoError(t, err)

	require.Len(t, *calls, 1)
	call := (*calls)[0]
	assert.Equal(t, "editMessageReplyMarkup", call.method)
	assert.Equal(t, "-1001234", call.payload["chat_id"])

	markup, ok := call.payload["reply_markup"].(map[string]any)
	require.True(t, ok)
	rows, ok := markup["inline_keyboard"].([]any)
	require.True(t, ok)
	require.Len(t, rows, 1)
	button := rows[0].([]any)[0].(map[string]any)
	assert.Equal(t, "Watch", button["text"])
	assert.Equal(t, "https://example.com/movie/abc", button["url"])
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	srv, _ := newBotServer(t, func(string) string {
		return `{"ok":false,"error_code":400,"description":"Bad Request: message to delete not found"}`
	})
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))

	err := c.DeleteMessage(context.Background(), 555, 777)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Contains(t, apiErr.Error(), "message to delete not found")
}

func TestSetWebhook_RetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 2 {
			fmt.Fprint(w, `{"ok":false,"error_code":502,"description":"bad gateway"}`)
			return
		}
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}))
	defer srv.Close()

	c := NewClient("test-token", WithBaseURL(srv.URL))

	err := c.SetWebhook(context.Background(), "https://example.com/webhook/test-token")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}
