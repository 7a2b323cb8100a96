package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/desertthunder/spx/internal/formatter"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"github.com/desertthunder/spx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// newHistoryEvent builds a history event from a playback snapshot.
// A nil snapshot still records the action itself.
func newHistoryEvent(action string, playback *services.SpotifyPlayback) *models.PlaybackEvent {
	var track, artist string
	if playback != nil && playback.Item != nil {
		track = playback.Item.Name
		artist = playback.Item.Artist()
	}

	event := models.NewPlaybackEvent(0, action, track, artist)
	if playback != nil {
		event.SetDevice(playback.Device.Name)
		if playback.Item != nil {
			event.SetAlbum(playback.Item.Album.Name)
			event.SetURI(playback.Item.URI)
		}
	}

	return event
}

// requireEvents guards commands that need the history database.
func (r *Runner) requireEvents() error {
	if r.events == nil {
		return fmt.Errorf("%w: history database not initialized, run 'spx setup database' first", shared.ErrServiceUnavailable)
	}
	return nil
}

// historyView is the JSON shape for a listed playback event.
type historyView struct {
	ID       string `json:"id"`
	Action   string `json:"action"`
	Track    string `json:"track,omitempty"`
	Artist   string `json:"artist,omitempty"`
	Album    string `json:"album,omitempty"`
	Device   string `json:"device,omitempty"`
	URI      string `json:"uri,omitempty"`
	PlayedAt string `json:"played_at"`
}

// HistoryList prints recent playback events.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEvents(); err != nil {
		return err
	}

	criteria := map[string]any{}
	if limit := cmd.Int("limit"); limit > 0 {
		criteria["limit"] = limit
	}
	if action := cmd.String("action"); action != "" {
		criteria["action"] = action
	}

	events, err := r.events.List(criteria)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]historyView, len(events))
		for i, event := range events {
			views[i] = historyView{
				ID:       event.ID(),
				Action:   event.Action(),
				Track:    event.Track(),
				Artist:   event.Artist(),
				Album:    event.Album(),
				Device:   event.Device(),
				URI:      event.URI(),
				PlayedAt: event.PlayedAt().Format("2006-01-02T15:04:05Z07:00"),
			}
		}
		return r.writeJSON(views, true)
	}

	if len(events) == 0 {
		return r.writePlain("No playback history recorded yet.\n")
	}

	r.writePlain("Last %d playback events:\n\n", len(events))
	for i, event := range events {
		line := fmt.Sprintf("%d. [%s] %s", i+1, event.Action(), event.Track())
		if event.Artist() != "" {
			line += " - " + event.Artist()
		}
		r.writePlain("%s\n", line)
		r.writePlain("   %s", event.PlayedAt().Format("2006-01-02 15:04"))
		if event.Device() != "" {
			r.writePlain(" on %s", event.Device())
		}
		r.writePlain("\n")
	}

	return nil
}

// HistoryWatch polls playback and records every track change until the
// process is interrupted.
func (r *Runner) HistoryWatch(ctx context.Context, cmd *cli.Command) error {
	if err := r.requirePlayer(); err != nil {
		return err
	}
	if err := r.requireEvents(); err != nil {
		return err
	}

	interval := time.Duration(cmd.Int("interval")) * time.Second
	engine := tasks.NewWatchEngine(r.player, r.events, interval)

	watchCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	progress := make(chan tasks.ProgressUpdate, 16)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	r.writePlain("Watching playback every %s. Press Ctrl+C to stop.\n\n", interval)

	result, err := engine.Run(watchCtx, progress)
	close(progress)
	<-drained
	if err != nil {
		return err
	}

	r.writePlainln("✓ Recorded %d track changes over %d polls", result.Recorded, result.Polls)
	return nil
}

// HistoryExport writes playback history to a file in the chosen format.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEvents(); err != nil {
		return err
	}

	format := cmd.String("format")
	output := cmd.String("output")

	events, err := r.events.List(nil)
	if err != nil {
		return err
	}

	var path string
	switch format {
	case "csv":
		path, err = formatter.WriteCSVExport(events, output)
	case "markdown", "md":
		path, err = formatter.WriteMarkdownExport(events, output, "")
	case "text", "txt":
		path, err = formatter.WriteTextExport(events, output)
	default:
		return fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}

	r.logger.Info("history exported", "format", format, "events", len(events), "file", path)

	return r.writePlain("✓ Exported %d events to %s\n", len(events), path)
}
