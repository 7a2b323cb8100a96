package ui

import (
	"time"

	"github.com/desertthunder/spx/internal/services"
)

// playbackMsg carries a refreshed playback snapshot; nil state means nothing
// is playing.
type playbackMsg struct {
	state *services.SpotifyPlayback
	err   error
}

// devicesMsg carries the available device list.
type devicesMsg struct {
	devices []services.SpotifyDevice
	err     error
}

// profileMsg carries the authenticated user's profile.
type profileMsg struct {
	user *services.SpotifyUser
	err  error
}

// skipDoneMsg signals that a skip request completed.
type skipDoneMsg struct {
	err error
}

// pollMsg fires on the poll timer to schedule the next playback refresh.
type pollMsg time.Time
