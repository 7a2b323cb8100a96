package models

import (
	"fmt"
	"time"
)

// Playback actions recorded in history.
const (
	ActionPlay    = "play"    // playback of a context was started
	ActionSkip    = "skip"    // the current track was skipped
	ActionObserve = "observe" // the now-playing state was read
)

// PlaybackEvent is one recorded playback action.
type PlaybackEvent struct {
	id        string
	sequence  int
	track     string
	artist    string
	album     string
	uri       string
	device    string
	action    string
	playedAt  time.Time
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewPlaybackEvent creates a playback event for the given action.
//
// The ID is assigned by the repository on create; sequence 0 means
// not yet persisted.
func NewPlaybackEvent(sequence int, action, track, artist string) *PlaybackEvent {
	now := time.Now()
	return &PlaybackEvent{
		sequence:  sequence,
		action:    action,
		track:     track,
		artist:    artist,
		playedAt:  now,
		createdAt: now,
		updatedAt: now,
	}
}

func (e *PlaybackEvent) ID() string { return e.id }
func (e *PlaybackEvent) Sequence() int { return e.sequence }
func (e *PlaybackEvent) Track() string { return e.track }
func (e *PlaybackEvent) Artist() string { return e.artist }
func (e *PlaybackEvent) Album() string { return e.album }
func (e *PlaybackEvent) URI() string { return e.uri }
func (e *PlaybackEvent) Device() string { return e.device }
func (e *PlaybackEvent) Action() string { return e.action }
func (e *PlaybackEvent) PlayedAt() time.Time { return e.playedAt }
func (e *PlaybackEvent) CreatedAt() time.Time { return e.createdAt }
func (e *PlaybackEvent) UpdatedAt() time.Time { return e.updatedAt }
func (e *PlaybackEvent) DeletedAt() *time.Time {
	return e.deletedAt
}

func (e *PlaybackEvent) SetID(id string) { e.id = id }
func (e *PlaybackEvent) SetSequence(sequence int) { e.sequence = sequence }
func (e *PlaybackEvent) SetAlbum(album string) { e.album = album }
func (e *PlaybackEvent) SetURI(uri string) { e.uri = uri }
func (e *PlaybackEvent) SetDevice(device string) { e.device = device }
func (e *PlaybackEvent) SetPlayedAt(at time.Time) { e.playedAt = at }
func (e *PlaybackEvent) SetCreatedAt(at time.Time) { e.createdAt = at }
func (e *PlaybackEvent) SetUpdatedAt(at time.Time) { e.updatedAt = at }
func (e *PlaybackEvent) SetDeletedAt(at *time.Time) { e.deletedAt = at }

// Validate checks the event's data before persistence.
func (e *PlaybackEvent) Validate() error {
	switch e.action {
	case ActionPlay, ActionSkip, ActionObserve:
	default:
		return fmt.Errorf("unknown playback action: %q", e.action)
	}

	if e.playedAt.IsZero() {
		return fmt.Errorf("playback event requires a played_at timestamp")
	}

	return nil
}
