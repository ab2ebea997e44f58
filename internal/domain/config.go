// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	Version string
	Host    string `toml:"host" mapstructure:"host"`
	Port    int    `toml:"port" mapstructure:"port"`
	BaseURL string `toml:"baseUrl" mapstructure:"baseUrl"`

	LogLevel      string `toml:"logLevel" mapstructure:"logLevel"`
	LogPath       string `toml:"logPath" mapstructure:"logPath"`
	LogMaxSize    int    `toml:"logMaxSize" mapstructure:"logMaxSize"`
	LogMaxBackups int    `toml:"logMaxBackups" mapstructure:"logMaxBackups"`

	// Telegram bot credentials and the channel uploads are accepted from.
	BotToken        string `toml:"botToken" mapstructure:"botToken"`
	BotUsername     string `toml:"botUsername" mapstructure:"botUsername"`
	SourceChannelID string `toml:"sourceChannelId" mapstructure:"sourceChannelId"`

	// WebsiteURL is the public root used for deep links back to the catalog
	// and for webhook registration.
	WebsiteURL string `toml:"websiteUrl" mapstructure:"websiteUrl"`

	TMDBAPIKey string `toml:"tmdbApiKey" mapstructure:"tmdbApiKey"`

	MongoURI      string `toml:"mongoUri" mapstructure:"mongoUri"`
	MongoDatabase string `toml:"mongoDatabase" mapstructure:"mongoDatabase"`

	AdminUsername string `toml:"adminUsername" mapstructure:"adminUsername"`
	AdminPassword string `toml:"adminPassword" mapstructure:"adminPassword"`

	// DeleteTimeout is how long a delivered file stays in the chat before the
	// expiry scheduler removes it.
	DeleteTimeout time.Duration `toml:"deleteTimeout" mapstructure:"deleteTimeout"`

	MetricsEnabled bool `toml:"metricsEnabled" mapstructure:"metricsEnabled"`
}

// Validate checks the settings the pipeline cannot run without.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return errors.New("botToken is required")
	}
	if c.MongoURI == "" {
		return errors.New("mongoUri is required")
	}
	return nil
}

// WebhookURL returns the inbound webhook endpoint registered with Telegram.
// The bot token is part of the path so only Telegram can reach the handler.
func (c *Config) WebhookURL() string {
	return fmt.Sprintf("%s/webhook/%s", strings.TrimRight(c.WebsiteURL, "/"), c.BotToken)
}

// MovieURL returns the public deep link for a catalog entry.
func (c *Config) MovieURL(movieID string) string {
	return fmt.Sprintf("%s/movie/%s", strings.TrimRight(c.WebsiteURL, "/"), movieID)
}

// BotDeepLink returns the t.me start link that redeems an access code.
func (c *Config) BotDeepLink(code string) string {
	return fmt.Sprintf("https://t.me/%s?start=%s", c.BotUsername, code)
}
