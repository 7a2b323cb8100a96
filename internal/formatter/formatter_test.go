package formatter

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/spx/internal/models"
	tu "github.com/desertthunder/spx/internal/testing"
)

func sampleEvents(t *testing.T) []*models.PlaybackEvent {
	t.Helper()

	playedAt := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

	first := models.NewPlaybackEvent(1, models.ActionPlay, "Song One", "Band")
	first.SetAlbum("Record")
	first.SetDevice("Kitchen")
	first.SetURI("spotify:track:t1")
	first.SetPlayedAt(playedAt)

	second := models.NewPlaybackEvent(2, models.ActionSkip, "Song Two", "Other Band")
	second.SetPlayedAt(playedAt.Add(3 * time.Minute))

	return []*models.PlaybackEvent{first, second}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleEvents(t))
	if err != nil {
		t.Fatalf("failed to export CSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}

	if !strings.HasPrefix(lines[0], "Played At,Action,Track") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if !strings.Contains(lines[1], "play,Song One,Band,Record,Kitchen") {
		t.Errorf("unexpected first record: %s", lines[1])
	}
	if !strings.Contains(lines[1], "2026-03-14T09:30:00Z") {
		t.Errorf("expected RFC3339 timestamp, got: %s", lines[1])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(sampleEvents(t), "")
	if err != nil {
		t.Fatalf("failed to export Markdown: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "# Playback History") {
		t.Error("expected default title")
	}
	if !strings.Contains(output, "**Events**: 2") {
		t.Error("expected event count")
	}
	if !strings.Contains(output, "| 2026-03-14 09:33 | skip | Song Two |") {
		t.Errorf("expected table row, got:\n%s", output)
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(sampleEvents(t))
	if err != nil {
		t.Fatalf("failed to export text: %v", err)
	}

	output := string(data)
	if !strings.Contains(output, "1. [play] Song One - Band") {
		t.Errorf("unexpected text output:\n%s", output)
	}
}

func TestWriteExports(t *testing.T) {
	events := sampleEvents(t)
	base := filepath.Join(t.TempDir(), "march")

	t.Run("CSV", func(t *testing.T) {
		path, err := WriteCSVExport(events, base)
		if err != nil {
			t.Fatalf("failed to write CSV export: %v", err)
		}
		if !strings.HasSuffix(path, "march_history.csv") {
			t.Errorf("unexpected path: %s", path)
		}
	})

	t.Run("Markdown", func(t *testing.T) {
		path, err := WriteMarkdownExport(events, base, "March Listening")
		if err != nil {
			t.Fatalf("failed to write Markdown export: %v", err)
		}
		if !strings.HasSuffix(path, "march_history.md") {
			t.Errorf("unexpected path: %s", path)
		}
	})

	t.Run("Text", func(t *testing.T) {
		path, err := WriteTextExport(events, base)
		if err != nil {
			t.Fatalf("failed to write text export: %v", err)
		}
		if !strings.HasSuffix(path, "march_history.txt") {
			t.Errorf("unexpected path: %s", path)
		}
	})

	t.Run("empty base falls back to the default name", func(t *testing.T) {
		originalDir := tu.MustGetwd(t)
		tu.MustChdir(t, t.TempDir())
		defer tu.MustChdir(t, originalDir)

		path, err := WriteCSVExport(events, "")
		if err != nil {
			t.Fatalf("failed to write CSV export: %v", err)
		}
		if path != "playback_history.csv" {
			t.Errorf("unexpected path: %s", path)
		}
		tu.AssertFileExists(t, path)
	})
}
