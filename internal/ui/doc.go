// Package ui implements an interactive terminal player using bubbletea's Elm architecture.
//
// The TUI provides two views:
//  1. [PlayerView] : Now-playing status with track, artist, device, and progress
//  2. [DeviceListView] : Browse available playback devices
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Playback state is polled on a timer; a rate limiter caps how often manual
// refreshes and poll ticks may hit the API.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, n, d, r, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
