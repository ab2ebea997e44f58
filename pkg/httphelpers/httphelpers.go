// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package httphelpers

import (
	"io"
	"net/http"
	"strings"
)

// DrainAndClose consumes the remaining response body and closes it to allow
// connection reuse.
func DrainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// NormalizeBasePath canonicalizes a configured base path: no trailing slash,
// exactly one leading slash, empty for root.
func NormalizeBasePath(path string) string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return ""
	}
	return "/" + path
}

// JoinBasePath joins a normalized base path with a route suffix.
func JoinBasePath(basePath, suffix string) string {
	suffix = strings.TrimPrefix(suffix, "/")
	if basePath == "" {
		return "/" + suffix
	}
	if suffix == "" {
		return basePath
	}
	return basePath + "/" + suffix
}
