// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/moviezone/moviezone/internal/domain"
)

const envPrefix = "MOVIEZONE__"

var configTemplate = `# config.toml

# Hostname / IP to listen on
#
host = "{{ host }}"

# Port to listen on
#
port = 5000

# Base url
# Set custom baseUrl eg /moviezone/ to serve in subdirectory.
#
#baseUrl = "/moviezone/"

# Telegram bot token, as issued by BotFather.
#
botToken = ""

# Telegram bot username (without the leading @), used for deep links.
#
botUsername = ""

# Channel the bot accepts uploads from. Posts from any other chat are ignored.
#
sourceChannelId = ""

# Public root of the site, used for deep links and webhook registration.
#
websiteUrl = ""

# TMDB API key. Leave empty to disable metadata enrichment.
#
tmdbApiKey = ""

# MongoDB connection.
#
mongoUri = "mongodb://localhost:27017"
mongoDatabase = "moviezone_db"

# Admin credentials for the admin API (basic auth).
#
adminUsername = "admin"
adminPassword = "admin"

# How long a delivered file stays in the chat before it is deleted.
#
deleteTimeout = "10m"

# Prometheus metrics endpoint.
#
metricsEnabled = false

# Log level
#
# Options: "ERROR", "DEBUG", "INFO", "WARN", "TRACE"
#
logLevel = "DEBUG"

# Log Path
#
# Optional. Log to file instead of stderr.
#
#logPath = "log/moviezone.log"

# Log Max Size
#
# Max log size in megabytes before rotation.
#
#logMaxSize = 50

# Log Max Backups
#
# Max amount of old log files to keep.
#
#logMaxBackups = 3
`

// AppConfig owns the viper instance and the resolved domain config.
type AppConfig struct {
	Config *domain.Config
	viper  *viper.Viper
}

// New loads configuration from the given directory (or file), writing a
// default config.toml on first run. Environment variables prefixed with
// MOVIEZONE__ override file values.
func New(configPath, version string) (*AppConfig, error) {
	c := &AppConfig{
		viper: viper.New(),
	}

	c.defaults(version)

	if err := c.load(configPath); err != nil {
		return nil, err
	}

	if err := c.viper.Unmarshal(c.Config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return c, nil
}

func (c *AppConfig) defaults(version string) {
	c.Config = &domain.Config{
		Version:       version,
		Host:          "localhost",
		Port:          5000,
		BaseURL:       "/",
		LogLevel:      "DEBUG",
		LogMaxSize:    50,
		LogMaxBackups: 3,
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "moviezone_db",
		AdminUsername: "admin",
		AdminPassword: "admin",
		DeleteTimeout: 10 * time.Minute,
	}

	c.viper.SetDefault("host", c.Config.Host)
	c.viper.SetDefault("port", c.Config.Port)
	c.viper.SetDefault("baseUrl", c.Config.BaseURL)
	c.viper.SetDefault("logLevel", c.Config.LogLevel)
	c.viper.SetDefault("logPath", c.Config.LogPath)
	c.viper.SetDefault("logMaxSize", c.Config.LogMaxSize)
	c.viper.SetDefault("logMaxBackups", c.Config.LogMaxBackups)
	c.viper.SetDefault("botToken", "")
	c.viper.SetDefault("botUsername", "")
	c.viper.SetDefault("sourceChannelId", "")
	c.viper.SetDefault("websiteUrl", "")
	c.viper.SetDefault("tmdbApiKey", "")
	c.viper.SetDefault("mongoUri", c.Config.MongoURI)
	c.viper.SetDefault("mongoDatabase", c.Config.MongoDatabase)
	c.viper.SetDefault("adminUsername", c.Config.AdminUsername)
	c.viper.SetDefault("adminPassword", c.Config.AdminPassword)
	c.viper.SetDefault("deleteTimeout", c.Config.DeleteTimeout)
	c.viper.SetDefault("metricsEnabled", false)
}

func (c *AppConfig) load(configPath string) error {
	c.viper.SetConfigType("toml")

	if configPath != "" {
		if filepath.Ext(configPath) == ".toml" {
			c.viper.SetConfigFile(configPath)
		} else {
			c.viper.AddConfigPath(configPath)
			c.viper.SetConfigName("config")

			if err := c.writeDefaultsIfMissing(configPath); err != nil {
				return err
			}
		}
	} else {
		c.viper.AddConfigPath(".")
		c.viper.SetConfigName("config")
	}

	c.bindEnv()

	if err := c.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
		log.Debug().Msg("no config file found, using defaults and environment")
	}

	return nil
}

// bindEnv maps MOVIEZONE__SNAKE_CASE environment variables onto config keys.
func (c *AppConfig) bindEnv() {
	envKeys := map[string]string{
		"host":            "HOST",
		"port":            "PORT",
		"baseUrl":         "BASE_URL",
		"logLevel":        "LOG_LEVEL",
		"logPath":         "LOG_PATH",
		"logMaxSize":      "LOG_MAX_SIZE",
		"logMaxBackups":   "LOG_MAX_BACKUPS",
		"botToken":        "BOT_TOKEN",
		"botUsername":     "BOT_USERNAME",
		"sourceChannelId": "SOURCE_CHANNEL_ID",
		"websiteUrl":      "WEBSITE_URL",
		"tmdbApiKey":      "TMDB_API_KEY",
		"mongoUri":        "MONGO_URI",
		"mongoDatabase":   "MONGO_DATABASE",
		"adminUsername":   "ADMIN_USERNAME",
		"adminPassword":   "ADMIN_PASSWORD",
		"deleteTimeout":   "DELETE_TIMEOUT",
		"metricsEnabled":  "METRICS_ENABLED",
	}

	for key, envKey := range envKeys {
		if err := c.viper.BindEnv(key, envPrefix+envKey); err != nil {
			log.Error().Err(err).Str("key", key).Msg("could not bind env var")
		}
	}
}

func (c *AppConfig) writeDefaultsIfMissing(configDir string) error {
	cfgFile := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(cfgFile); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	host := "127.0.0.1"
	if _, err := os.Stat("/.dockerenv"); err == nil {
		host = "0.0.0.0"
	}

	contents := strings.ReplaceAll(configTemplate, "{{ host }}", host)
	if err := os.WriteFile(cfgFile, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	log.Info().Str("path", cfgFile).Msg("wrote default config file")
	return nil
}
