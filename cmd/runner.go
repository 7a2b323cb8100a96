package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spx/internal/auth"
	"github.com/desertthunder/spx/internal/repositories"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlayerClient is the slice of the API client the CLI commands use.
//
// Implemented by [services.Client].
type PlayerClient interface {
	Profile(ctx context.Context) (*services.SpotifyUser, error)
	PlaybackState(ctx context.Context) (*services.SpotifyPlayback, error)
	Devices(ctx context.Context) ([]services.SpotifyDevice, error)
	StartPlayback(ctx context.Context, opts services.StartPlaybackOptions) error
	SkipTrack(ctx context.Context) error
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	auth       *auth.Manager
	player     PlayerClient
	events     *repositories.EventRepository
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Auth       *auth.Manager
	Player     PlayerClient
	Events     *repositories.EventRepository
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		auth:       opts.Auth,
		player:     opts.Player,
		events:     opts.Events,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playerCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requirePlayer guards commands that need an initialized API client.
func (r *Runner) requirePlayer() error {
	if r.player == nil {
		return fmt.Errorf("%w: API client not initialized, run 'spx auth login' first", shared.ErrServiceUnavailable)
	}
	return nil
}

// requireAuth guards commands that need the token manager.
func (r *Runner) requireAuth() error {
	if r.auth == nil {
		return fmt.Errorf("%w: credentials missing, set client_id and client_secret in config.toml", shared.ErrMissingCredentials)
	}
	return nil
}

// recordEvent appends a playback event to history, when history is enabled.
// Persistence failures are logged and never fail the command.
func (r *Runner) recordEvent(action string, playback *services.SpotifyPlayback) {
	if r.events == nil {
		return
	}

	event := newHistoryEvent(action, playback)
	if err := r.events.Create(event); err != nil {
		r.logger.Warn("failed to record playback event", "action", action, "error", err)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
