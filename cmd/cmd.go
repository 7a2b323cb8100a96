// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Authorize with Spotify using OAuth2",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Ignore saved tokens and run the browser flow",
					},
					&cli.BoolFlag{
						Name:  "manual",
						Usage: "Print the authorization URL and paste the redirect URL instead of opening a browser",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show current token state",
				Action: r.AuthStatus,
			},
		},
	}
}

// playerCommand handles playback operations
func playerCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "player",
		Aliases: []string{"p"},
		Usage:   "Control Spotify playback",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Show current playback state",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.PlayerStatus,
			},
			{
				Name:  "devices",
				Usage: "List available playback devices",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlayerDevices,
			},
			{
				Name:  "play",
				Usage: "Start playback of an album, artist, or playlist context",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "uri"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "device",
						Aliases: []string{"d"},
						Usage:   "Target device ID (defaults to the active device)",
					},
					&cli.IntFlag{
						Name:  "offset",
						Usage: "Track offset within the context",
					},
					&cli.IntFlag{
						Name:  "position",
						Usage: "Start position within the track, in milliseconds",
					},
				},
				Action: r.PlayerPlay,
			},
			{
				Name:    "next",
				Aliases: []string{"skip"},
				Usage:   "Skip to the next track",
				Action:  r.PlayerNext,
			},
			{
				Name:  "profile",
				Usage: "Show the authenticated user's profile",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.PlayerProfile,
			},
		},
	}
}

// historyCommand handles local playback history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Review recorded playback activity",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List recent playback events",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of events to show",
						Value: 20,
					},
					&cli.StringFlag{
						Name:  "action",
						Usage: "Filter by action (play, skip, observe)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "watch",
				Usage: "Poll playback and record track changes until interrupted",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "interval",
						Aliases: []string{"i"},
						Usage:   "Seconds between playback polls",
						Value:   30,
					},
				},
				Action: r.HistoryWatch,
			},
			{
				Name:  "export",
				Usage: "Export playback history to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, or text",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Base path for the export file",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path for the new configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for the interactive player.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive player",
		Action:  r.TUI,
	}
}
