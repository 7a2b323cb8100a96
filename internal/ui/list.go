package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/spx/internal/services"
)

var (
	_ list.Item = deviceItem{}
)

// deviceItem wraps [services.SpotifyDevice] to implement [list.Item].
type deviceItem struct {
	device services.SpotifyDevice
}

func (i deviceItem) FilterValue() string { return i.device.Name }
func (i deviceItem) Title() string       { return i.device.Name }
func (i deviceItem) Description() string {
	desc := i.device.Type
	if desc == "" {
		desc = "device"
	}
	if i.device.IsActive {
		desc = fmt.Sprintf("%s • active", desc)
	}
	if i.device.VolumePercent > 0 {
		desc = fmt.Sprintf("%s • volume %d%%", desc, i.device.VolumePercent)
	}
	return desc
}
