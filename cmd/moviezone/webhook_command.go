// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moviezone/moviezone/internal/config"
	"github.com/moviezone/moviezone/internal/logger"
	"github.com/moviezone/moviezone/internal/telegram"
)

func RunWebhookCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Telegram webhook operations",
	}

	cmd.AddCommand(runWebhookSetCommand())
	return cmd
}

func runWebhookSetCommand() *cobra.Command {
	var (
		configPath string
		url        string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Register the webhook endpoint with Telegram",
		RunE: func(cmd *cobra.Command, _ []string) error {
			appCfg, err := config.New(configPath, version)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg := appCfg.Config

			logger.Setup(cfg)

			webhookURL := url
			if webhookURL == "" {
				if cfg.WebsiteURL == "" {
					return errors.New("set websiteUrl in the config or pass --url")
				}
				webhookURL = cfg.WebhookURL()
			}

			bot := telegram.NewClient(cfg.BotToken)
			if err := bot.SetWebhook(cmd.Context(), webhookURL); err != nil {
				return err
			}

			cmd.Printf("Webhook registered: %s\n", webhookURL)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file or directory")
	cmd.Flags().StringVar(&url, "url", "", "Override the webhook URL to register")

	return cmd
}
