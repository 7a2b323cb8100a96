package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestEventRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))
		event := models.NewPlaybackEvent(0, models.ActionPlay, "Song One", "Band")

		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		if event.ID() == "" {
			t.Error("event ID should be set after creation")
		}
		if event.Sequence() == 0 {
			t.Error("event sequence should be assigned on creation")
		}
	})

	t.Run("Create rejects unknown actions", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))
		event := models.NewPlaybackEvent(0, "rewind", "Song One", "Band")

		if err := repo.Create(event); err == nil {
			t.Error("expected validation failure for unknown action")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))
		event := models.NewPlaybackEvent(0, models.ActionObserve, "Song One", "Band")
		event.SetAlbum("Record")
		event.SetURI("spotify:track:t1")
		event.SetDevice("Kitchen")

		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		retrieved, err := repo.Get(event.ID())
		if err != nil {
			t.Fatalf("failed to get event: %v", err)
		}

		if retrieved.Track() != "Song One" || retrieved.Artist() != "Band" {
			t.Errorf("unexpected track data: %s / %s", retrieved.Track(), retrieved.Artist())
		}
		if retrieved.Album() != "Record" || retrieved.Device() != "Kitchen" {
			t.Errorf("unexpected metadata: %s / %s", retrieved.Album(), retrieved.Device())
		}
	})

	t.Run("Get missing event", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))

		if _, err := repo.Get("nonexistent"); err == nil {
			t.Error("expected error for missing event")
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))
		event := models.NewPlaybackEvent(0, models.ActionPlay, "Song One", "Band")

		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		event.SetDevice("Office")
		if err := repo.Update(event); err != nil {
			t.Fatalf("failed to update event: %v", err)
		}

		retrieved, err := repo.Get(event.ID())
		if err != nil {
			t.Fatalf("failed to get event: %v", err)
		}
		if retrieved.Device() != "Office" {
			t.Errorf("expected updated device, got %s", retrieved.Device())
		}
	})

	t.Run("Delete hides the event", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))
		event := models.NewPlaybackEvent(0, models.ActionSkip, "Song One", "Band")

		if err := repo.Create(event); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		if err := repo.Delete(event.ID()); err != nil {
			t.Fatalf("failed to delete event: %v", err)
		}

		if _, err := repo.Get(event.ID()); err == nil {
			t.Error("soft-deleted event should not be retrievable")
		}

		if err := repo.Delete(event.ID()); err == nil {
			t.Error("double delete should fail")
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))

		base := time.Now().Add(-time.Hour)
		for i, action := range []string{models.ActionPlay, models.ActionSkip, models.ActionObserve} {
			event := models.NewPlaybackEvent(0, action, "Song", "Band")
			event.SetPlayedAt(base.Add(time.Duration(i) * time.Minute))
			if err := repo.Create(event); err != nil {
				t.Fatalf("failed to create event: %v", err)
			}
		}

		t.Run("most recent first", func(t *testing.T) {
			events, err := repo.List(nil)
			if err != nil {
				t.Fatalf("failed to list events: %v", err)
			}
			if len(events) != 3 {
				t.Fatalf("expected 3 events, got %d", len(events))
			}
			if events[0].Action() != models.ActionObserve {
				t.Errorf("expected newest event first, got %s", events[0].Action())
			}
		})

		t.Run("filter by action", func(t *testing.T) {
			events, err := repo.List(map[string]any{"action": models.ActionSkip})
			if err != nil {
				t.Fatalf("failed to list events: %v", err)
			}
			if len(events) != 1 || events[0].Action() != models.ActionSkip {
				t.Errorf("expected one skip event, got %d", len(events))
			}
		})

		t.Run("limit", func(t *testing.T) {
			events, err := repo.List(map[string]any{"limit": 2})
			if err != nil {
				t.Fatalf("failed to list events: %v", err)
			}
			if len(events) != 2 {
				t.Errorf("expected 2 events, got %d", len(events))
			}
		})
	})

	t.Run("sequence increments per event", func(t *testing.T) {
		repo := NewEventRepository(setupTestDB(t))

		first := models.NewPlaybackEvent(0, models.ActionPlay, "One", "Band")
		second := models.NewPlaybackEvent(0, models.ActionPlay, "Two", "Band")

		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create event: %v", err)
		}

		if second.Sequence() != first.Sequence()+1 {
			t.Errorf("expected consecutive sequences, got %d then %d", first.Sequence(), second.Sequence())
		}
	})
}
