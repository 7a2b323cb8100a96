package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/spx/internal/auth"
	"github.com/desertthunder/spx/internal/repositories"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	configPath := "config.toml"
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
	}

	var manager *auth.Manager
	var player PlayerClient
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		store := auth.NewFileStore(config.TokenPath())
		mgr, err := auth.NewManager(
			config.Credentials.Spotify.ClientID,
			config.Credentials.Spotify.ClientSecret,
			config.Credentials.Spotify.RedirectURI,
			nil,
			store,
			logger,
		)
		if err != nil {
			logger.Warn("token manager unavailable", "error", err)
		} else {
			manager = mgr
			player = services.NewClient(mgr, logger)
		}
	}

	var events *repositories.EventRepository
	if _, err := os.Stat(config.Database.Path); err == nil {
		if db, err := shared.NewDatabase(config.Database.Path); err == nil {
			shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			events = repositories.NewEventRepository(db)
		} else {
			logger.Warn("history database unavailable", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Auth:       manager,
		Player:     player,
		Events:     events,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "spx",
		Usage:    "Control Spotify playback from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
