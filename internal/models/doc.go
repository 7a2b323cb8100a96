// Package models defines domain entities and persistence interfaces for
// local playback history.
//
// [PlaybackEvent] records one playback action the user took through the CLI
// (starting a context, skipping a track, or observing what was playing), so
// listening activity can be reviewed and exported later.
//
// Persistent entities implement the [Model] interface providing ID
// generation, timestamps, validation, and soft delete support. The
// [Repository] interface defines standard CRUD operations for database
// access.
package models
