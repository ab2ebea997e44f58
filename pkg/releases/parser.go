// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

// Package releases derives catalog metadata from raw upload filenames and
// captions: a normalized title, a quality tier, the audio language, the
// season/episode label and the movie-vs-series kind.
package releases

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/moistari/rls"
)

const (
	ContentTypeMovie  = "movie"
	ContentTypeSeries = "series"

	// FullMovieLabel marks a file that is a whole work rather than an episode.
	FullMovieLabel = "Full Movie"
)

var (
	separatorRe = regexp.MustCompile(`[._\-\+\[\]\(\)]`)

	// noiseRe matches the first token after which a filename stops being a
	// title: release years, season/episode markers, resolutions and
	// source/language tags.
	noiseRe = regexp.MustCompile(`(?i)(\b(19|20)\d{2}\b|\bS\d+|\bSeason|\bEp?\s*\d+|\b480p|\b720p|\b1080p|\b2160p|\bHD|\bWeb-?dl|\bBluray|\bDual|\bHindi|\bBangla)`)

	whitespaceRe = regexp.MustCompile(`\s+`)

	seasonRe = regexp.MustCompile(`(?i)\b(?:Season|S)\s*(\d+)`)

	episodeRe = regexp.MustCompile(`(?i)\b(?:Episode|Ep|E)\s*(\d+)\b`)

	// Compact markers like S02E05 put the E right after the season digits,
	// where episodeRe's word boundary cannot match.
	compactEpisodeRe = regexp.MustCompile(`(?i)S\d+\s*E(\d+)`)

	seriesHintRe  = regexp.MustCompile(`(?i)(S\d+|Season|Episode|Ep\s*\d+)`)
	captionHintRe = regexp.MustCompile(`(?i)(S\d+|Season)`)

	multiAudioRe = regexp.MustCompile(`(?i)\b(multi|multi audio)\b`)
	dualAudioRe  = regexp.MustCompile(`(?i)\b(dual|dual audio)\b`)
)

// NormalizeTitle reduces a raw filename or caption to the bare title text.
// The extension is dropped, separator characters become spaces and everything
// from the first noise token onwards is discarded.
func NormalizeTitle(raw string) string {
	name := strings.TrimSuffix(raw, filepath.Ext(raw))
	name = separatorRe.ReplaceAllString(name, " ")

	if loc := noiseRe.FindStringIndex(name); loc != nil {
		name = name[:loc[0]]
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(name, " "))
}

// Quality maps a filename to one of the five fixed quality tiers. Higher
// resolutions win when several tags are present.
func Quality(filename string) string {
	name := strings.ToLower(filename)

	switch {
	case strings.Contains(name, "4k") || strings.Contains(name, "2160p"):
		return "4K UHD"
	case strings.Contains(name, "1080p"):
		return "1080p FHD"
	case strings.Contains(name, "720p"):
		return "720p HD"
	case strings.Contains(name, "480p"):
		return "480p SD"
	default:
		return "HD"
	}
}

// Language detects the audio language from a filename or caption. Multi and
// dual audio markers take priority over single-language tags.
func Language(text string) string {
	lower := strings.ToLower(text)

	switch {
	case multiAudioRe.MatchString(lower):
		return "Multi Audio"
	case dualAudioRe.MatchString(lower):
		return "Dual Audio"
	case strings.Contains(lower, "bangla") || strings.Contains(lower, "bengali"):
		return "Bangla"
	case strings.Contains(lower, "hindi"):
		return "Hindi"
	case strings.Contains(lower, "english"):
		return "English"
	case strings.Contains(lower, "japanese"):
		return "Japanese"
	default:
		return "Japanese/English"
	}
}

// EpisodeLabel extracts a zero-padded "S02 E05" style label from a filename.
// Files without an episode marker keep their season label alone; files
// without either are whole works and get FullMovieLabel.
func EpisodeLabel(filename string) string {
	var season string
	if m := seasonRe.FindStringSubmatch(filename); m != nil {
		n, _ := strconv.Atoi(m[1])
		season = fmt.Sprintf("S%02d", n)
	}

	m := episodeRe.FindStringSubmatch(filename)
	if m == nil {
		m = compactEpisodeRe.FindStringSubmatch(filename)
	}
	if m != nil {
		n, _ := strconv.Atoi(m[1])
		return strings.TrimSpace(fmt.Sprintf("%s E%02d", season, n))
	}

	if season != "" {
		return season
	}
	return FullMovieLabel
}

// ContentKind decides whether an upload is a series or a movie from its
// filename and optional caption. Season/episode markers in either one win;
// otherwise the parsed release metadata is consulted before defaulting to
// movie. This is a heuristic and records stay correctable afterwards.
func ContentKind(filename, caption string) string {
	if seriesHintRe.MatchString(filename) {
		return ContentTypeSeries
	}
	if caption != "" && captionHintRe.MatchString(caption) {
		return ContentTypeSeries
	}

	if release := rls.ParseString(filename); release.Type == rls.Episode || release.Series > 0 || release.Episode > 0 {
		return ContentTypeSeries
	}

	return ContentTypeMovie
}
