// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/moviezone/moviezone/internal/api"
	"github.com/moviezone/moviezone/internal/api/handlers"
	"github.com/moviezone/moviezone/internal/config"
	"github.com/moviezone/moviezone/internal/database"
	"github.com/moviezone/moviezone/internal/delivery"
	"github.com/moviezone/moviezone/internal/ingest"
	"github.com/moviezone/moviezone/internal/logger"
	"github.com/moviezone/moviezone/internal/metrics"
	"github.com/moviezone/moviezone/internal/models"
	"github.com/moviezone/moviezone/internal/telegram"
	"github.com/moviezone/moviezone/internal/tmdb"
	pkgversion "github.com/moviezone/moviezone/pkg/version"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "moviezone",
		Short: "Telegram media catalog bot and API",
		Long: `moviezone ingests media files posted to a Telegram channel,
classifies and enriches them, and serves the resulting catalog
over HTTP together with code-based file delivery.`,
	}

	rootCmd.AddCommand(RunServeCommand())
	rootCmd.AddCommand(RunVersionCommand())
	rootCmd.AddCommand(RunWebhookCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func RunVersionCommand() *cobra.Command {
	var checkUpdates bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Printf("moviezone %s\n", version)
			cmd.Printf("commit: %s\n", commit)
			cmd.Printf("build date: %s\n", buildDate)
			cmd.Printf("go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)

			if !checkUpdates {
				return nil
			}

			checker := pkgversion.NewChecker("moviezone", "moviezone", "moviezone/"+version)
			newer, release, err := checker.CheckNewVersion(cmd.Context(), version)
			if err != nil {
				return fmt.Errorf("check for updates: %w", err)
			}
			if newer {
				cmd.Printf("newer release available: %s\n", release.TagName)
			} else {
				cmd.Println("up to date")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&checkUpdates, "check-updates", false, "Check GitHub for a newer release")

	return cmd
}

func RunServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server and catalog API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			appCfg, err := config.New(configPath, version)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg := appCfg.Config

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			logger.Setup(cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			if err := db.EnsureIndexes(ctx); err != nil {
				return err
			}

			movieStore := models.NewMovieStore(db.Movies())
			settingsStore := models.NewSettingsStore(db.Settings())
			categoryStore := models.NewCategoryStore(db.Categories())

			bot := telegram.NewClient(cfg.BotToken)
			enricher := tmdb.NewClient(cfg.TMDBAPIKey)
			m := metrics.New()

			ingester := ingest.NewService(cfg, movieStore, enricher, bot, m)

			scheduler := delivery.NewScheduler(bot, cfg.DeleteTimeout, m)
			defer scheduler.Stop()

			resolver := delivery.NewService(movieStore, bot, scheduler, m)

			srv := api.NewServer(&api.Dependencies{
				Config:         cfg,
				WebhookHandler: handlers.NewWebhookHandler(cfg, ingester, resolver),
				MoviesHandler:  handlers.NewMoviesHandler(cfg, movieStore),
				AdminHandler:   handlers.NewAdminHandler(movieStore, categoryStore, settingsStore, enricher),
				SiteHandler:    handlers.NewSiteHandler(settingsStore, categoryStore, db),
				ShortenHandler: handlers.NewShortenHandler(),
				Metrics:        m,
			})

			g, gctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return srv.Serve(gctx)
			})

			if cfg.WebsiteURL != "" {
				g.Go(func() error {
					// Registration failure leaves the server up; events just
					// do not arrive until `moviezone webhook set` succeeds.
					if err := bot.SetWebhook(gctx, cfg.WebhookURL()); err != nil {
						log.Error().Err(err).Msg("webhook registration failed")
					}
					return nil
				})
			}

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file or directory")

	return cmd
}
