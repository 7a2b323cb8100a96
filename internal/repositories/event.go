package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/shared"
)

// EventRepository implements [models.Repository] for [models.PlaybackEvent] persistence.
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new [EventRepository] with the given database connection
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new playback event into the database with generated ID and sequence
func (r *EventRepository) Create(event *models.PlaybackEvent) error {
	sequence, err := NextSequence(r.db, "playback_events")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	event.SetID(id)
	event.SetSequence(sequence)

	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playback_events (id, sequence, track, artist, album, uri, device, action, played_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, event.Track(), event.Artist(), event.Album(),
		event.URI(), event.Device(), event.Action(), event.PlayedAt(), event.CreatedAt(), event.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert playback event: %w", err)
	}

	return nil
}

// Get retrieves a playback event by ID, excluding soft-deleted events
func (r *EventRepository) Get(id string) (*models.PlaybackEvent, error) {
	query := `
		SELECT id, sequence, track, artist, album, uri, device, action, played_at, created_at, updated_at, deleted_at
		FROM playback_events
		WHERE id = ? AND deleted_at IS NULL
	`

	event, err := scanEvent(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("playback event not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query playback event: %w", err)
	}

	return event, nil
}

// Update modifies an existing playback event in the database
func (r *EventRepository) Update(event *models.PlaybackEvent) error {
	if err := event.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	event.SetUpdatedAt(now)

	query := `
		UPDATE playback_events
		SET track = ?, artist = ?, album = ?, uri = ?, device = ?, action = ?, played_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, event.Track(), event.Artist(), event.Album(), event.URI(),
		event.Device(), event.Action(), event.PlayedAt(), now, event.ID())
	if err != nil {
		return fmt.Errorf("failed to update playback event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playback event not found or already deleted: %s", event.ID())
	}

	return nil
}

// Delete soft-deletes a playback event by ID
func (r *EventRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE playback_events
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete playback event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playback event not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves playback events matching the given criteria, excluding soft-deleted events.
//
// Supported criteria: "action" filters by playback action, "limit" caps the
// result count. Events are returned most recent first.
func (r *EventRepository) List(criteria map[string]any) ([]*models.PlaybackEvent, error) {
	query := `
		SELECT id, sequence, track, artist, album, uri, device, action, played_at, created_at, updated_at, deleted_at
		FROM playback_events
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if action, ok := criteria["action"].(string); ok && action != "" {
		query += " AND action = ?"
		args = append(args, action)
	}

	query += " ORDER BY played_at DESC, sequence DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playback events: %w", err)
	}
	defer rows.Close()

	var events []*models.PlaybackEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan playback event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*models.PlaybackEvent, error) {
	var (
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
		deletedAt sql.NullTime
	)

	err := row.Scan(&id, &sequence, &track, &artist, &album, &uri, &device, &action,
		&playedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	event := models.NewPlaybackEvent(sequence, action, track, artist)
	event.SetID(id)
	event.SetAlbum(album)
	event.SetURI(uri)
	event.SetDevice(device)
	event.SetPlayedAt(playedAt)
	event.SetCreatedAt(createdAt)
	event.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		event.SetDeletedAt(&deletedAt.Time)
	}

	return event, nil
}
