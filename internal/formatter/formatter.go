// package formatter provides functions to export playback history to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/spx/internal/models"
)

// ExportToCSV converts playback history to CSV format with columns: Played At, Action, Track, Artist, Album, Device, URI
func ExportToCSV(events []*models.PlaybackEvent) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Played At", "Action", "Track", "Artist", "Album", "Device", "URI"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, event := range events {
		record := []string{
			event.PlayedAt().Format(time.RFC3339),
			event.Action(),
			event.Track(),
			event.Artist(),
			event.Album(),
			event.Device(),
			event.URI(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts playback history to a Markdown table
func ExportToMarkdown(events []*models.PlaybackEvent, title string) ([]byte, error) {
	var buf bytes.Buffer

	if title == "" {
		title = "Playback History"
	}

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Events**: %d\n\n", len(events)))

	buf.WriteString("| Played At | Action | Track | Artist | Device |\n")
	buf.WriteString("|-----------|--------|-------|--------|--------|\n")
	for _, event := range events {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			event.PlayedAt().Format("2006-01-02 15:04"),
			event.Action(), event.Track(), event.Artist(), event.Device()))
	}

	return buf.Bytes(), nil
}

// ExportToText converts playback history to plain text format
func ExportToText(events []*models.PlaybackEvent) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playback history: %d events\n\n", len(events)))

	for i, event := range events {
		line := fmt.Sprintf("%d. [%s] %s", i+1, event.Action(), event.Track())
		if event.Artist() != "" {
			line += " - " + event.Artist()
		}
		line += " (" + event.PlayedAt().Format("2006-01-02 15:04") + ")"
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// WriteCSVExport writes playback history to {base}_history.csv.
//
// Defaults to "playback" as the base filename.
func WriteCSVExport(events []*models.PlaybackEvent, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "playback"
	}

	csvData, err := ExportToCSV(events)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	historyFile := baseFilepath + "_history.csv"
	if err := os.WriteFile(historyFile, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return historyFile, nil
}

// WriteMarkdownExport writes playback history to {base}_history.md.
func WriteMarkdownExport(events []*models.PlaybackEvent, baseFilepath, title string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "playback"
	}

	mdData, err := ExportToMarkdown(events, title)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	historyFile := baseFilepath + "_history.md"
	if err := os.WriteFile(historyFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return historyFile, nil
}

// WriteTextExport writes playback history to {base}_history.txt.
func WriteTextExport(events []*models.PlaybackEvent, baseFilepath string) (string, error) {
	if baseFilepath == "" {
		baseFilepath = "playback"
	}

	textData, err := ExportToText(events)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	historyFile := baseFilepath + "_history.txt"
	if err := os.WriteFile(historyFile, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return historyFile, nil
}
