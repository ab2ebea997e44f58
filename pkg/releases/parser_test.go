// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package releases

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"year stops the title", "Inception.2010.1080p.BluRay.mkv", "Inception"},
		{"season marker stops the title", "Attack.Titan.S04E01.1080p.Dual.mkv", "Attack Titan"},
		{"resolution stops the title", "Some.Movie.720p.WEB-DL.mkv", "Some Movie"},
		{"language tag stops the title", "Parasite.Hindi.Dubbed.mkv", "Parasite"},
		{"separators become spaces", "My_Great-Movie+Remastered", "My Great Movie Remastered"},
		{"no noise keeps everything", "Plain Title.mkv", "Plain Title"},
		{"season word", "Dark Season 3 Complete.mkv", "Dark"},
		{"episode word", "Naruto Ep 12.mkv", "Naruto"},
		{"whitespace collapsed", "A   Quiet...Place.2018.mkv", "A Quiet Place"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, NormalizeTitle(tt.raw))
		})
	}
}

func TestQuality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"2160p", "Movie.2160p.mkv", "4K UHD"},
		{"4k tag", "Movie.4K.HDR.mkv", "4K UHD"},
		{"1080p", "Movie.1080p.mkv", "1080p FHD"},
		{"720p", "Movie.720p.mkv", "720p HD"},
		{"480p", "Movie.480p.mkv", "480p SD"},
		{"fallback", "Movie.mkv", "HD"},
		{"4k wins over 1080p", "Movie.2160p.1080p.mkv", "4K UHD"},
		{"1080p wins over 720p", "Movie.1080p.720p.mkv", "1080p FHD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Quality(tt.filename))
		})
	}
}

func TestLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"multi audio", "Movie Multi Audio 1080p", "Multi Audio"},
		{"multi bare", "Movie multi 720p", "Multi Audio"},
		{"dual audio", "Movie Dual Audio", "Dual Audio"},
		{"multi beats dual", "Movie Multi Dual", "Multi Audio"},
		{"bangla", "Movie Bangla Dubbed", "Bangla"},
		{"bengali alias", "Movie bengali", "Bangla"},
		{"hindi", "Movie.Hindi.720p", "Hindi"},
		{"english", "Movie English", "English"},
		{"japanese", "Movie Japanese", "Japanese"},
		{"default", "Movie.1080p.mkv", "Japanese/English"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Language(tt.text))
		})
	}
}

func TestEpisodeLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		expected string
	}{
		{"compact season episode", "Show.S02E05.1080p.mkv", "S02 E05"},
		{"spelled out", "Show Season 4 Episode 1.mkv", "S04 E01"},
		{"ep shorthand", "Show S1 Ep 7.mkv", "S01 E07"},
		{"episode without season", "Show Episode 3.mkv", "E03"},
		{"season only", "Show.S03.Complete.mkv", "S03"},
		{"whole movie", "Movie.2020.1080p.mkv", FullMovieLabel},
		{"word-final e before year", "The Movie 2020 1080p.mkv", FullMovieLabel},
		{"word-final e before spaced year", "Justice League 2017.mkv", FullMovieLabel},
		{"zero padding", "Show.S2E5.mkv", "S02 E05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, EpisodeLabel(tt.filename))
		})
	}
}

func TestContentKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		caption  string
		expected string
	}{
		{"episode marker in filename", "Show.S02E05.mkv", "", ContentTypeSeries},
		{"season in caption", "random.mkv", "Dark S02 complete", ContentTypeSeries},
		{"spelled season", "Show Season 2.mkv", "", ContentTypeSeries},
		{"plain movie", "Inception.2010.1080p.mkv", "", ContentTypeMovie},
		{"movie with caption", "Inception.2010.mkv", "great movie", ContentTypeMovie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, ContentKind(tt.filename, tt.caption))
		})
	}
}
