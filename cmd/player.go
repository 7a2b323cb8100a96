package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/desertthunder/spx/internal/ui"
	"github.com/urfave/cli/v3"
)

// PlayerStatus shows what is currently playing.
func (r *Runner) PlayerStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlayer(); err != nil {
		return err
	}

	playback, err := r.player.PlaybackState(ctx)
	if err != nil {
		return err
	}

	if playback == nil {
		return r.writePlain("Nothing is playing.\n")
	}

	r.recordEvent(models.ActionObserve, playback)

	if cmd.Bool("json") {
		return r.writeJSON(playback, cmd.Bool("pretty"))
	}

	state := "▶ Playing"
	if !playback.IsPlaying {
		state = "⏸ Paused"
	}

	if playback.Item == nil {
		return r.writePlain("%s (no track details)\n", state)
	}

	r.writePlain("%s: %s\n", state, playback.Item.Name)
	if artist := playback.Item.Artist(); artist != "" {
		r.writePlain("Artist: %s\n", artist)
	}
	if playback.Item.Album.Name != "" {
		r.writePlain("Album: %s\n", playback.Item.Album.Name)
	}
	if playback.Device.Name != "" {
		r.writePlain("Device: %s\n", playback.Device.Name)
	}

	return nil
}

// PlayerDevices lists the user's available playback devices.
func (r *Runner) PlayerDevices(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlayer(); err != nil {
		return err
	}

	devices, err := r.player.Devices(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(devices, true)
	}

	if len(devices) == 0 {
		return r.writePlain("No devices available. Open Spotify on a device first.\n")
	}

	r.writePlain("Found %d devices:\n\n", len(devices))
	for i, device := range devices {
		marker := " "
		if device.IsActive {
			marker = "*"
		}
		r.writePlain("%s %d. %s (%s)\n", marker, i+1, device.Name, device.Type)
		r.writePlain("     ID: %s\n", device.ID)
	}

	return nil
}

// PlayerPlay starts playback of a context URI.
func (r *Runner) PlayerPlay(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlayer(); err != nil {
		return err
	}

	contextURI := cmd.StringArg("uri")
	if contextURI == "" {
		return fmt.Errorf("%w: a context URI is required (e.g. spotify:playlist:...)", shared.ErrMissingArgument)
	}

	opts := services.StartPlaybackOptions{
		ContextURI:     contextURI,
		DeviceID:       cmd.String("device"),
		OffsetPosition: cmd.Int("offset"),
		PositionMS:     cmd.Int("position"),
	}

	if err := r.player.StartPlayback(ctx, opts); err != nil {
		return err
	}

	playback, stateErr := r.player.PlaybackState(ctx)
	if stateErr != nil {
		r.logger.Warn("could not read playback state after play", "error", stateErr)
	}
	r.recordEvent(models.ActionPlay, playback)

	return r.writePlain("✓ Playback started: %s\n", contextURI)
}

// PlayerNext skips to the next track.
func (r *Runner) PlayerNext(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlayer(); err != nil {
		return err
	}

	playback, stateErr := r.player.PlaybackState(ctx)
	if stateErr != nil {
		r.logger.Warn("could not read playback state before skip", "error", stateErr)
	}

	if err := r.player.SkipTrack(ctx); err != nil {
		return err
	}

	r.recordEvent(models.ActionSkip, playback)

	return r.writePlain("✓ Skipped to next track\n")
}

// PlayerProfile shows the authenticated user's profile.
func (r *Runner) PlayerProfile(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlayer(); err != nil {
		return err
	}

	user, err := r.player.Profile(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, true)
	}

	r.writePlain("Display name: %s\n", user.DisplayName)
	r.writePlain("ID: %s\n", user.ID)
	if user.Email != "" {
		r.writePlain("Email: %s\n", user.Email)
	}
	if user.Product != "" {
		r.writePlain("Plan: %s\n", user.Product)
	}

	return nil
}

// TUI launches the interactive terminal player.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlayer(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/spx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.player, r.recordEvent)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
