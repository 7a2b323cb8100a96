// Package tasks implements long-running playback operations.
//
// The core abstraction is [WatchEngine], which polls the user's playback
// state and records track changes into local history. Operations emit
// progress updates via channels for non-blocking status reporting to CLI/UI
// layers.
package tasks
