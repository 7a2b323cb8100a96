package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spx/internal/models"
	"github.com/desertthunder/spx/internal/services"
	"golang.org/x/time/rate"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlayerView ViewState = iota
	DeviceListView
)

const pollInterval = 5 * time.Second

// PlayerService is the slice of the API client the player needs.
//
// Implemented by [services.Client].
type PlayerService interface {
	Profile(ctx context.Context) (*services.SpotifyUser, error)
	PlaybackState(ctx context.Context) (*services.SpotifyPlayback, error)
	Devices(ctx context.Context) ([]services.SpotifyDevice, error)
	SkipTrack(ctx context.Context) error
}

// Recorder receives playback actions the player took, for history tracking.
type Recorder func(action string, playback *services.SpotifyPlayback)

// Model represents the player TUI state.
type Model struct {
	ctx      context.Context
	view     ViewState
	player   PlayerService
	record   Recorder
	limiter  *rate.Limiter
	width    int
	height   int
	user     *services.SpotifyUser
	playback *services.SpotifyPlayback
	devices  []services.SpotifyDevice
	devList  list.Model
	skipping bool
	err      error
	help     help.Model
	keys     keyMap
}

// NewModel creates a new player model with the provided dependencies.
//
// The recorder may be nil when history tracking is disabled.
func NewModel(ctx context.Context, player PlayerService, record Recorder) *Model {
	return &Model{
		ctx:     ctx,
		view:    PlayerView,
		player:  player,
		record:  record,
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init fetches the profile and the first playback snapshot.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchProfile(), m.fetchPlayback(), m.schedulePoll())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.devList.Width() == 0 {
			m.devList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlayerView:
			return m.handlePlayerKeys(msg)
		case DeviceListView:
			return m.handleDeviceListKeys(msg)
		}

	case profileMsg:
		if msg.err == nil {
			m.user = msg.user
		}
		return m, nil

	case playbackMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.playback = msg.state
		return m, nil

	case devicesMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = PlayerView
			return m, nil
		}
		m.devices = msg.devices
		items := make([]list.Item, len(msg.devices))
		for i, device := range msg.devices {
			items[i] = deviceItem{device: device}
		}
		m.devList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.devList.Title = "Playback Devices"
		m.devList.SetSize(m.width-4, m.height-8)
		m.view = DeviceListView
		return m, nil

	case skipDoneMsg:
		m.skipping = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if m.record != nil {
			m.record(models.ActionSkip, m.playback)
		}
		return m, m.fetchPlayback()

	case pollMsg:
		return m, tea.Batch(m.fetchPlayback(), m.schedulePoll())
	}

	if m.view == DeviceListView {
		var cmd tea.Cmd
		m.devList, cmd = m.devList.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PlayerView:
		return m.renderPlayer()
	case DeviceListView:
		return m.renderDeviceList()
	default:
		return ""
	}
}

func (m *Model) handlePlayerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.skip):
		if m.skipping {
			return m, nil
		}
		m.skipping = true
		return m, m.doSkip()
	case key.Matches(msg, m.keys.devices):
		return m, m.fetchDevices()
	case key.Matches(msg, m.keys.refresh):
		return m, m.fetchPlayback()
	}
	return m, nil
}

func (m *Model) handleDeviceListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = PlayerView
		return m, nil
	}

	var cmd tea.Cmd
	m.devList, cmd = m.devList.Update(msg)
	return m, cmd
}

func (m *Model) fetchProfile() tea.Cmd {
	return func() tea.Msg {
		user, err := m.player.Profile(m.ctx)
		return profileMsg{user: user, err: err}
	}
}

// fetchPlayback refreshes the playback snapshot, subject to the rate limiter.
// A denied refresh keeps the current snapshot rather than queueing a request.
func (m *Model) fetchPlayback() tea.Cmd {
	return func() tea.Msg {
		if !m.limiter.Allow() {
			return playbackMsg{state: m.playback}
		}
		state, err := m.player.PlaybackState(m.ctx)
		return playbackMsg{state: state, err: err}
	}
}

func (m *Model) fetchDevices() tea.Cmd {
	return func() tea.Msg {
		devices, err := m.player.Devices(m.ctx)
		return devicesMsg{devices: devices, err: err}
	}
}

func (m *Model) doSkip() tea.Cmd {
	return func() tea.Msg {
		return skipDoneMsg{err: m.player.SkipTrack(m.ctx)}
	}
}

func (m *Model) schedulePoll() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (m *Model) renderPlayer() string {
	title := styles.title.Render("Now Playing")

	var body string
	switch {
	case m.playback == nil:
		body = styles.warn.Render("Nothing is playing.")
	case m.playback.Item == nil:
		body = styles.warn.Render("Playing, but no track details available.")
	default:
		track := m.playback.Item
		state := "▶"
		if !m.playback.IsPlaying {
			state = "⏸"
		}
		body = fmt.Sprintf("%s %s\n  %s", state, styles.ok.Render(track.Name), track.Artist())
		if track.Album.Name != "" {
			body += fmt.Sprintf("\n  %s", track.Album.Name)
		}
		if m.playback.Device.Name != "" {
			body += fmt.Sprintf("\n\nDevice: %s", m.playback.Device.Name)
		}
		body += fmt.Sprintf("\nProgress: %s", formatProgress(m.playback.ProgressMS, track.DurationMS))
	}

	var account string
	if m.user != nil {
		account = styles.help.Render(fmt.Sprintf("Signed in as %s (%s)", m.user.DisplayName, m.user.Product))
	}

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpKeys := []key.Binding{m.keys.skip, m.keys.devices, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	out := title + "\n" + body
	if account != "" {
		out += "\n\n" + account
	}
	if errLine != "" {
		out += "\n\n" + errLine
	}
	return out + "\n\n" + helpView
}

func (m *Model) renderDeviceList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.devList.View(), helpView)
}

func formatProgress(progressMS, durationMS int) string {
	format := func(ms int) string {
		total := ms / 1000
		return fmt.Sprintf("%d:%02d", total/60, total%60)
	}
	if durationMS <= 0 {
		return format(progressMS)
	}
	return fmt.Sprintf("%s / %s", format(progressMS), format(durationMS))
}
