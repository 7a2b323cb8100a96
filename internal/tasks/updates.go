package tasks

import (
	"fmt"

	"github.com/desertthunder/spx/internal/services"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	WatchStart Phase = iota
	TrackChange
	TrackIdle
	PollFailed
	WatchStop
)

func (p Phase) String() string {
	switch p {
	case WatchStart:
		return "watch_start"
	case TrackChange:
		return "track_change"
	case TrackIdle:
		return "track_idle"
	case PollFailed:
		return "poll_failed"
	case WatchStop:
		return "watch_stop"
	default:
		return ""
	}
}

func watchStartUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   WatchStart,
		Message: "Watching playback...",
	}
}

func trackChangeUpdate(polls int, playback *services.SpotifyPlayback) ProgressUpdate {
	track := playback.Item
	return ProgressUpdate{
		Phase:   TrackChange,
		Step:    polls,
		Message: fmt.Sprintf("Now playing: %s - %s", track.Artist(), track.Name),
		Data:    playback,
	}
}

func trackIdleUpdate(polls int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   TrackIdle,
		Step:    polls,
		Message: "Nothing playing",
	}
}

func pollFailedUpdate(polls int, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PollFailed,
		Step:    polls,
		Message: fmt.Sprintf("Poll failed: %v", err),
	}
}

func watchStopUpdate(polls, recorded int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WatchStop,
		Step:    polls,
		Message: fmt.Sprintf("Stopped after %d polls, %d tracks recorded", polls, recorded),
	}
}
