package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
	"golang.org/x/time/rate"
)

// DefaultWatchInterval is the polling cadence when none is configured.
const DefaultWatchInterval = 30 * time.Second

// PlaybackSource supplies playback snapshots.
//
// Implemented by [services.Client].
type PlaybackSource interface {
	PlaybackState(ctx context.Context) (*services.SpotifyPlayback, error)
}

// EventSink receives recorded playback events.
//
// Implemented by the history event repository.
type EventSink interface {
	Create(event *models.PlaybackEvent) error
}

// WatchRunResult summarizes a completed watch session.
type WatchRunResult struct {
	Polls    int           // Playback polls performed
	Recorded int           // Track changes recorded to history
	Failures int           // Polls that returned an error
	Elapsed  time.Duration // Wall time the session ran
}

// WatchEngine polls playback state and records each track change as a
// history event.
//
// Contains dependencies on the playback source and the history sink.
type WatchEngine struct {
	source   PlaybackSource
	sink     EventSink
	interval time.Duration
	limiter  *rate.Limiter
}

// NewWatchEngine creates a WatchEngine polling at the given interval.
//
// A non-positive interval uses [DefaultWatchInterval]. The limiter caps the
// poll rate at the configured interval even if ticks back up.
func NewWatchEngine(source PlaybackSource, sink EventSink, interval time.Duration) *WatchEngine {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &WatchEngine{
		source:   source,
		sink:     sink,
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval/2), 1),
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *WatchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Run watches playback until the context is cancelled.
//
// Each poll that shows a different track than the previous one records an
// observe event. Cancellation is the normal way to stop a session and is not
// reported as an error.
func (e *WatchEngine) Run(ctx context.Context, progress chan<- ProgressUpdate) (*WatchRunResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: playback source not initialized", shared.ErrServiceUnavailable)
	}
	if e.sink == nil {
		return nil, fmt.Errorf("%w: history sink not initialized", shared.ErrServiceUnavailable)
	}

	result := &WatchRunResult{}
	started := time.Now()
	var lastURI string

	e.sendProgress(progress, watchStartUpdate())

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	poll := func() {
		if !e.limiter.Allow() {
			return
		}
		result.Polls++

		playback, err := e.source.PlaybackState(ctx)
		if err != nil {
			result.Failures++
			e.sendProgress(progress, pollFailedUpdate(result.Polls, err))
			return
		}

		if playback == nil || playback.Item == nil {
			lastURI = ""
			e.sendProgress(progress, trackIdleUpdate(result.Polls))
			return
		}

		if playback.Item.URI == lastURI {
			return
		}
		lastURI = playback.Item.URI

		event := models.NewPlaybackEvent(0, models.ActionObserve, playback.Item.Name, playback.Item.Artist())
		event.SetAlbum(playback.Item.Album.Name)
		event.SetURI(playback.Item.URI)
		event.SetDevice(playback.Device.Name)

		if err := e.sink.Create(event); err != nil {
			result.Failures++
			e.sendProgress(progress, pollFailedUpdate(result.Polls, err))
			return
		}

		result.Recorded++
		e.sendProgress(progress, trackChangeUpdate(result.Polls, playback))
	}

	poll()

	for {
		select {
		case <-ctx.Done():
			result.Elapsed = time.Since(started)
			e.sendProgress(progress, watchStopUpdate(result.Polls, result.Recorded))
			return result, nil
		case <-ticker.C:
			poll()
		}
	}
}
