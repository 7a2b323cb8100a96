package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/services"
	"github.com/desertthunder/spx/internal/shared"
)

// scriptedSource replays a fixed sequence of playback snapshots.
type scriptedSource struct {
	mu     sync.Mutex
	states []*services.SpotifyPlayback
	errs   []error
	calls  int
}

func (s *scriptedSource) PlaybackState(ctx context.Context) (*services.SpotifyPlayback, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.calls
	s.calls++
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	if i < len(s.states) {
		return s.states[i], nil
	}
	if len(s.states) == 0 {
		return nil, nil
	}
	return s.states[len(s.states)-1], nil
}

// memorySink collects created events in memory.
type memorySink struct {
	mu     sync.Mutex
	events []*models.PlaybackEvent
	err    error
}

func (m *memorySink) Create(event *models.PlaybackEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

func (m *memorySink) recorded() []*models.PlaybackEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*models.PlaybackEvent(nil), m.events...)
}

func playing(uri, name, artist string) *services.SpotifyPlayback {
	return &services.SpotifyPlayback{
		IsPlaying: true,
		Device:    services.SpotifyDevice{Name: "Kitchen"},
		Item: &services.SpotifyTrack{
			Name:    name,
			URI:     uri,
			Artists: []services.SpotifyArtist{{Name: artist}},
		},
	}
}

func TestWatchEngine(t *testing.T) {
	t.Run("requires a source and a sink", func(t *testing.T) {
		ctx := context.Background()

		if _, err := NewWatchEngine(nil, &memorySink{}, time.Millisecond).Run(ctx, nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
		if _, err := NewWatchEngine(&scriptedSource{}, nil, time.Millisecond).Run(ctx, nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("records each track change once", func(t *testing.T) {
		source := &scriptedSource{
			states: []*services.SpotifyPlayback{
				playing("spotify:track:t1", "Song One", "Band"),
				playing("spotify:track:t1", "Song One", "Band"),
				playing("spotify:track:t2", "Song Two", "Band"),
				playing("spotify:track:t2", "Song Two", "Band"),
			},
		}
		sink := &memorySink{}
		engine := NewWatchEngine(source, sink, 5*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		result, err := engine.Run(ctx, nil)
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}

		events := sink.recorded()
		if len(events) != 2 {
			t.Fatalf("expected 2 recorded track changes, got %d", len(events))
		}
		if events[0].Track() != "Song One" || events[1].Track() != "Song Two" {
			t.Errorf("unexpected recorded tracks: %s, %s", events[0].Track(), events[1].Track())
		}
		if events[0].Action() != models.ActionObserve {
			t.Errorf("expected observe events, got %s", events[0].Action())
		}
		if result.Recorded != 2 {
			t.Errorf("expected result.Recorded == 2, got %d", result.Recorded)
		}
		if result.Polls < 4 {
			t.Errorf("expected at least 4 polls, got %d", result.Polls)
		}
	})

	t.Run("idle playback records nothing", func(t *testing.T) {
		source := &scriptedSource{}
		sink := &memorySink{}
		engine := NewWatchEngine(source, sink, 5*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		result, err := engine.Run(ctx, nil)
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
		if len(sink.recorded()) != 0 {
			t.Errorf("expected no events, got %d", len(sink.recorded()))
		}
		if result.Recorded != 0 {
			t.Errorf("expected zero recorded, got %d", result.Recorded)
		}
	})

	t.Run("poll failures are counted, not fatal", func(t *testing.T) {
		source := &scriptedSource{
			errs: []error{errors.New("network down")},
			states: []*services.SpotifyPlayback{
				nil,
				playing("spotify:track:t1", "Song One", "Band"),
			},
		}
		sink := &memorySink{}
		engine := NewWatchEngine(source, sink, 5*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		result, err := engine.Run(ctx, nil)
		if err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
		if result.Failures < 1 {
			t.Errorf("expected at least one failure, got %d", result.Failures)
		}
		if len(sink.recorded()) != 1 {
			t.Errorf("expected the later poll to record, got %d events", len(sink.recorded()))
		}
	})

	t.Run("progress updates never block", func(t *testing.T) {
		source := &scriptedSource{
			states: []*services.SpotifyPlayback{
				playing("spotify:track:t1", "Song One", "Band"),
				playing("spotify:track:t2", "Song Two", "Band"),
				playing("spotify:track:t3", "Song Three", "Band"),
			},
		}
		sink := &memorySink{}
		engine := NewWatchEngine(source, sink, 5*time.Millisecond)

		// Unbuffered channel that nobody reads: sends must be dropped.
		progress := make(chan ProgressUpdate)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		done := make(chan struct{})
		go func() {
			engine.Run(ctx, progress)
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watch session blocked on progress channel")
		}
	})

	t.Run("resumed track after idle is recorded again", func(t *testing.T) {
		source := &scriptedSource{
			states: []*services.SpotifyPlayback{
				playing("spotify:track:t1", "Song One", "Band"),
				nil,
				playing("spotify:track:t1", "Song One", "Band"),
				playing("spotify:track:t1", "Song One", "Band"),
			},
		}
		sink := &memorySink{}
		engine := NewWatchEngine(source, sink, 5*time.Millisecond)

		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		if _, err := engine.Run(ctx, nil); err != nil {
			t.Fatalf("expected clean stop, got %v", err)
		}
		if len(sink.recorded()) != 2 {
			t.Errorf("expected the same track to be re-recorded after idle, got %d events", len(sink.recorded()))
		}
	})
}
