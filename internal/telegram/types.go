// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package telegram

import "strconv"

// Update is one inbound webhook event from the Bot API. Exactly one of the
// payload fields is set depending on the event shape.
type Update struct {
	UpdateID    int64    `json:"update_id"`
	ChannelPost *Message `json:"channel_post,omitempty"`
	Message     *Message `json:"message,omitempty"`
}

type Message struct {
	MessageID int64     `json:"message_id"`
	Chat      Chat      `json:"chat"`
	Text      string    `json:"text,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	Video     *Video    `json:"video,omitempty"`
	Document  *Document `json:"document,omitempty"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// ChatID returns the chat identity in the string form used for channel
// comparisons and API payloads.
func (c Chat) ChatID() string {
	return strconv.FormatInt(c.ID, 10)
}

type Video struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	FileSize int64  `json:"file_size,omitempty"`
}

// Attachment normalizes the deliverable payload of a message: the opaque file
// handle, the best-available name, the raw size and the transport kind.
// ok is false when the message carries nothing deliverable.
func (m *Message) Attachment() (fileID, fileName, fileType string, fileSize int64, ok bool) {
	switch {
	case m.Video != nil:
		fileName = m.Video.FileName
		if fileName == "" {
			fileName = m.Caption
		}
		if fileName == "" {
			fileName = "Unknown Video"
		}
		return m.Video.FileID, fileName, "video", m.Video.FileSize, true
	case m.Document != nil:
		fileName = m.Document.FileName
		if fileName == "" {
			fileName = "Unknown Document"
		}
		return m.Document.FileID, fileName, "document", m.Document.FileSize, true
	default:
		return "", "", "", 0, false
	}
}
