// Package app hosts the root Bubble Tea model: the login screen, the
// dashboard with its overlays, and the periodic refresh and session
// verification loops.
package app

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/slopewatch/tui/internal/client"
	"github.com/slopewatch/tui/internal/config"
	"github.com/slopewatch/tui/internal/station"
	"github.com/slopewatch/tui/internal/theme"
	"github.com/slopewatch/tui/internal/views/alerts"
	"github.com/slopewatch/tui/internal/views/analysis"
	"github.com/slopewatch/tui/internal/views/detail"
	"github.com/slopewatch/tui/internal/views/login"
	"github.com/slopewatch/tui/internal/views/stations"
	"github.com/slopewatch/tui/internal/views/status"
)

// Screen identifies the top-level view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
)

// Overlay identifies which modal is active over the dashboard.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDetail
	OverlayAlerts
	OverlayAnalysis
)

// Model is the root Bubble Tea model.
type Model struct {
	http *client.Client
	ws   *client.WSClient
	cfg  *config.Config
	log  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	keys   KeyMap
	width  int
	height int

	screen  Screen
	overlay Overlay

	// Server-authoritative caches.
	snapshot *station.Snapshot
	history  *station.History

	// Sub-views.
	loginForm login.Model
	statusBar status.Model
	list      stations.Model
	detail    detail.Model
	alertLog  alerts.Model
	analysis  analysis.Model

	// Generation counters invalidate stale tick chains. Each chain
	// carries the generation it was started with; bumping the counter
	// orphans every tick already in flight.
	refreshGen int
	verifyGen  int
	sessionGen int
	animating  bool
}

// --- Command result and tick messages ---

type loginResultMsg struct{ err error }

// sessionRestoredMsg reports that a persisted credential verified
// successfully at startup.
type sessionRestoredMsg struct{}

type verifyResultMsg struct {
	gen int
	ok  bool
}

type stationsMsg struct {
	gen  int
	list []client.StationSummary
	err  error
}

type detailMsg struct {
	gen int
	d   *client.StationDetail
	err error
}

type analysisMsg struct {
	gen int
	rep *client.LongTermAnalysis
	err error
}

type refreshTickMsg struct{ gen int }
type verifyTickMsg struct{ gen int }
type animTickMsg struct{}

// New creates the root model. The WebSocket client is constructed here so
// logout/login cycles can replace it with a fresh transport.
func New(httpClient *client.Client, cfg *config.Config, log *zap.Logger) Model {
	ctx, cancel := context.WithCancel(context.Background())
	return Model{
		http:      httpClient,
		ws:        client.NewWSClient(client.WSEndpoint(cfg.Server.URL), log),
		cfg:       cfg,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		keys:      DefaultKeyMap(),
		snapshot:  station.NewSnapshot(),
		history:   station.NewHistory(cfg.Sync.ChartWindow),
		loginForm: login.New(),
		statusBar: status.New(),
		list:      stations.New(),
		alertLog:  alerts.New(),
		analysis:  analysis.New(),
	}
}

// Init kicks off session restoration. Bubble Tea keeps the model Init
// was called on, so the transition to the dashboard happens in Update
// when the restore result arrives, never here.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.restoreSession())
}

// restoreSession verifies a persisted credential off the UI loop. An
// invalid or absent credential resolves to nil; the login form is
// already showing.
func (m Model) restoreSession() tea.Cmd {
	httpc := m.http
	return func() tea.Msg {
		if httpc.Initialize() {
			return sessionRestoredMsg{}
		}
		return nil
	}
}

// enterDashboardCmd starts everything the dashboard needs: the stream,
// the first station fetch and both periodic chains.
func (m *Model) enterDashboardCmd() tea.Cmd {
	m.screen = ScreenDashboard
	m.statusBar.Username, m.statusBar.Role = m.http.Session().Subject()
	m.refreshGen++
	m.verifyGen++
	return tea.Batch(
		m.ws.Listen(m.ctx),
		m.fetchStations(m.refreshGen),
		m.scheduleRefresh(m.refreshGen),
		m.scheduleVerify(m.verifyGen),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.list.Width = msg.Width
		m.list.Height = msg.Height - 4
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	// --- Auth ---

	case sessionRestoredMsg:
		return m, m.enterDashboardCmd()

	case loginResultMsg:
		if msg.err != nil {
			m.loginForm.SetError(msg.err.Error())
			return m, nil
		}
		return m, m.enterDashboardCmd()

	case verifyTickMsg:
		if msg.gen != m.verifyGen {
			return m, nil
		}
		return m, m.verifySession(msg.gen)

	case verifyResultMsg:
		if msg.gen != m.verifyGen {
			return m, nil
		}
		if !msg.ok {
			m.log.Warn("session verification failed, signing out")
			return m.signOut()
		}
		return m, m.scheduleVerify(msg.gen)

	// --- Stream ---

	case client.WSConnectedMsg:
		m.statusBar.Connected = true
		return m, m.ws.ReadLoop(m.ctx)

	case client.WSDisconnectedMsg:
		m.statusBar.Connected = false
		return m, m.ws.Listen(m.ctx)

	case client.SensorDataMsg:
		cmd := m.applySensor(msg)
		return m, tea.Batch(cmd, m.ws.ReadLoop(m.ctx))

	case client.StationStatusMsg:
		m.applyStatus(msg)
		return m, m.ws.ReadLoop(m.ctx)

	case client.AlertMsg:
		m.applyAlert(msg)
		return m, m.ws.ReadLoop(m.ctx)

	case client.BatchMsg:
		var cmds []tea.Cmd
		for _, env := range msg.Events {
			switch inner := client.Dispatch(env).(type) {
			case client.SensorDataMsg:
				cmds = append(cmds, m.applySensor(inner))
			case client.StationStatusMsg:
				m.applyStatus(inner)
			case client.AlertMsg:
				m.applyAlert(inner)
			}
		}
		cmds = append(cmds, m.ws.ReadLoop(m.ctx))
		return m, tea.Batch(cmds...)

	// --- REST results ---

	case refreshTickMsg:
		if msg.gen != m.refreshGen {
			return m, nil
		}
		return m, tea.Batch(m.fetchStations(msg.gen), m.scheduleRefresh(msg.gen))

	case stationsMsg:
		if msg.gen != m.refreshGen {
			return m, nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrUnauthorized) {
				return m.signOut()
			}
			// Transient fetch failure: keep showing the last snapshot.
			m.log.Warn("station refresh failed", zap.Error(msg.err))
			return m, nil
		}
		m.applyStations(msg.list)
		return m, nil

	case detailMsg:
		// A fetch issued before a sign-out must not touch the fresh state.
		if msg.gen != m.sessionGen || m.screen != ScreenDashboard {
			return m, nil
		}
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrUnauthorized) {
				return m.signOut()
			}
			m.log.Warn("detail fetch failed", zap.Error(msg.err))
			return m, nil
		}
		return m, m.openDetail(msg.d)

	case analysisMsg:
		if msg.gen != m.sessionGen || m.screen != ScreenDashboard {
			return m, nil
		}
		m.analysis.Loading = false
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrUnauthorized) {
				return m.signOut()
			}
			m.analysis.Err = msg.err.Error()
			return m, nil
		}
		m.analysis.Err = ""
		m.analysis.Report = msg.rep
		return m, nil

	case animTickMsg:
		if m.overlay != OverlayDetail {
			m.animating = false
			return m, nil
		}
		if m.detail.Animate() {
			m.animating = false
			return m, nil
		}
		return m, m.animFrame()
	}

	if m.screen == ScreenLogin {
		var cmd tea.Cmd
		m.loginForm, cmd = m.loginForm.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.screen == ScreenLogin {
		return m.handleLoginKey(msg)
	}

	if m.overlay != OverlayNone {
		return m.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.list.MoveDown()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.list.MoveUp()
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if s, ok := m.list.Selected(); ok {
			return m, m.fetchDetail(s.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Alerts):
		m.overlay = OverlayAlerts
		return m, nil

	case key.Matches(msg, m.keys.Analysis):
		if s, ok := m.list.Selected(); ok {
			return m, m.openAnalysis(s)
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		// Manual refresh restarts the cadence so the next automatic
		// one lands a full interval from now.
		m.refreshGen++
		return m, tea.Batch(m.fetchStations(m.refreshGen), m.scheduleRefresh(m.refreshGen))

	case key.Matches(msg, m.keys.Logout):
		return m.signOut()
	}

	return m, nil
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.shutdown()
		return m, tea.Quit
	case tea.KeyTab, tea.KeyShiftTab:
		m.loginForm.NextField()
		return m, nil
	case tea.KeyEnter:
		if m.loginForm.Busy || !m.loginForm.Validate() {
			return m, nil
		}
		m.loginForm.Busy = true
		user, pass := m.loginForm.Values()
		return m, m.doLogin(user, pass)
	}
	var cmd tea.Cmd
	m.loginForm, cmd = m.loginForm.Update(msg)
	return m, cmd
}

func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
		m.overlay = OverlayNone
		return m, nil
	}

	switch m.overlay {
	case OverlayDetail:
		if key.Matches(msg, m.keys.Sensor) || key.Matches(msg, m.keys.Tab) {
			m.detail.CycleSensor()
		}
	case OverlayAlerts:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.alertLog.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.alertLog.ScrollDown(1)
		}
	case OverlayAnalysis:
		// 7/3/9 switch the analysis window.
		var days int
		switch msg.String() {
		case "7":
			days = 7
		case "3":
			days = 30
		case "9":
			days = 90
		}
		if days != 0 && days != m.analysis.Days && !m.analysis.Loading {
			m.analysis.Days = days
			m.analysis.Loading = true
			m.analysis.Report = nil
			if s, ok := m.list.Selected(); ok {
				return m, m.fetchAnalysis(s.ID, days)
			}
		}
	}
	return m, nil
}

// --- Stream event application ---

// applySensor buffers a live reading for the focused station and, for
// GNSS pushes, retargets the velocity gauge. Readings for any other
// station are dropped; the chart follows the focused station only.
func (m *Model) applySensor(msg client.SensorDataMsg) tea.Cmd {
	value := station.ChartValue(msg.SensorType, msg.Data)
	if !m.history.Append(msg.StationID, msg.SensorType, station.Sample{Timestamp: msg.Timestamp, Value: value}) {
		return nil
	}
	if m.overlay == OverlayDetail && msg.SensorType == "gnss" {
		m.detail.SetGaugeTarget(station.Velocity(msg.Data))
		if !m.animating {
			m.animating = true
			return m.animFrame()
		}
	}
	return nil
}

// applyStatus patches the risk level of an already-known station. Pushes
// for stations outside the snapshot are ignored; only the periodic full
// refresh changes membership.
func (m *Model) applyStatus(msg client.StationStatusMsg) {
	if m.snapshot.ApplyStatus(msg.StationID, station.ParseRisk(msg.RiskLevel)) {
		m.syncStationViews()
	}
}

func (m *Model) applyAlert(msg client.AlertMsg) {
	m.alertLog.Add(msg.StationID, msg.Timestamp, msg.Level, msg.Category, msg.Message)
	m.statusBar.LastAlert = msg.Message
}

// applyStations replaces the snapshot wholesale. The list is the sole
// authority on membership: stations absent from it disappear, and a
// focused station that vanished closes the detail overlay.
func (m *Model) applyStations(list []client.StationSummary) {
	converted := make([]station.Station, 0, len(list))
	for _, s := range list {
		converted = append(converted, station.Station{
			ID:         s.ID,
			Code:       s.StationCode,
			Name:       s.Name,
			Location:   station.Location{Lat: s.Location.Lat, Lon: s.Location.Lon},
			Status:     s.Status,
			RiskLevel:  station.ParseRisk(s.RiskLevel),
			LastUpdate: s.LastUpdate,
		})
	}
	m.snapshot.Replace(converted)

	if id := m.history.StationID(); id != 0 {
		if _, ok := m.snapshot.Get(id); !ok {
			if m.overlay == OverlayDetail {
				m.overlay = OverlayNone
			}
			m.history.Focus(0, nil)
			m.detail = detail.Model{}
		}
	}
	m.syncStationViews()
}

func (m *Model) syncStationViews() {
	m.list.SetStations(m.snapshot.Stations())
	m.statusBar.SetCounts(m.snapshot.CountByRisk())
}

// openDetail focuses the chart history on the fetched station and shows
// the overlay. Buffers from the previously focused station are discarded.
func (m *Model) openDetail(d *client.StationDetail) tea.Cmd {
	series := make(map[string][]station.Sample, len(d.Sensors))
	for sensorType, s := range d.Sensors {
		samples := make([]station.Sample, 0, len(s.History))
		for _, p := range s.History {
			samples = append(samples, station.Sample{
				Timestamp: p.Timestamp,
				Value:     station.ChartValue(sensorType, p.Data),
			})
		}
		series[sensorType] = samples
	}
	m.history.Focus(d.ID, series)

	m.detail = detail.New(d, m.history)
	if gnss, ok := d.Sensors["gnss"]; ok && len(gnss.Latest) > 0 {
		m.detail.SetGaugeTarget(station.Velocity(gnss.Latest))
	}
	m.overlay = OverlayDetail
	m.animating = true
	return m.animFrame()
}

func (m *Model) openAnalysis(s station.Station) tea.Cmd {
	m.analysis = analysis.New()
	m.analysis.Station = s.Name
	m.analysis.Days = m.cfg.Sync.AnalysisDays
	m.analysis.Loading = true
	m.overlay = OverlayAnalysis
	return m.fetchAnalysis(s.ID, m.analysis.Days)
}

// signOut tears down the stream and all cached state and returns to the
// login form. The periodic chains are orphaned via their generations.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	m.shutdown()
	m.http.Logout()

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.ws = client.NewWSClient(client.WSEndpoint(m.cfg.Server.URL), m.log)
	m.refreshGen++
	m.verifyGen++
	m.sessionGen++

	m.screen = ScreenLogin
	m.overlay = OverlayNone
	m.snapshot = station.NewSnapshot()
	m.history = station.NewHistory(m.cfg.Sync.ChartWindow)
	m.loginForm = login.New()
	m.statusBar = status.New()
	m.statusBar.Width = m.width
	m.list = stations.New()
	m.detail = detail.Model{}
	m.alertLog = alerts.New()
	m.analysis = analysis.New()

	return m, textinput.Blink
}

func (m *Model) shutdown() {
	m.cancel()
	m.ws.Close()
}

// --- Commands ---

func (m Model) doLogin(username, password string) tea.Cmd {
	httpc := m.http
	return func() tea.Msg {
		return loginResultMsg{err: httpc.Login(username, password)}
	}
}

func (m Model) verifySession(gen int) tea.Cmd {
	httpc := m.http
	return func() tea.Msg {
		return verifyResultMsg{gen: gen, ok: httpc.Verify()}
	}
}

func (m Model) fetchStations(gen int) tea.Cmd {
	httpc := m.http
	return func() tea.Msg {
		list, err := httpc.Stations()
		return stationsMsg{gen: gen, list: list, err: err}
	}
}

func (m Model) fetchDetail(id int) tea.Cmd {
	httpc, gen := m.http, m.sessionGen
	return func() tea.Msg {
		d, err := httpc.StationDetail(id)
		return detailMsg{gen: gen, d: d, err: err}
	}
}

func (m Model) fetchAnalysis(id, days int) tea.Cmd {
	httpc, gen := m.http, m.sessionGen
	return func() tea.Msg {
		rep, err := httpc.LongTermAnalysis(id, days)
		return analysisMsg{gen: gen, rep: rep, err: err}
	}
}

func (m Model) scheduleRefresh(gen int) tea.Cmd {
	return tea.Tick(m.cfg.Sync.RefreshInterval, func(time.Time) tea.Msg {
		return refreshTickMsg{gen: gen}
	})
}

func (m Model) scheduleVerify(gen int) tea.Cmd {
	return tea.Tick(m.cfg.Sync.VerifyInterval, func(time.Time) tea.Msg {
		return verifyTickMsg{gen: gen}
	})
}

func (m Model) animFrame() tea.Cmd {
	return tea.Tick(time.Second/detail.AnimFPS, func(time.Time) tea.Msg {
		return animTickMsg{}
	})
}

// --- View ---

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.screen == ScreenLogin {
		return m.loginForm.View(m.width, m.height)
	}

	if m.overlay != OverlayNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.overlayView())
	}

	sections := []string{
		m.statusBar.View(),
		m.list.View(),
		theme.StyleDimmed.Render("  j/k:navigate  enter:detail  a:alerts  l:analysis  r:refresh  x:sign out  q:quit"),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) overlayView() string {
	switch m.overlay {
	case OverlayDetail:
		return m.detail.View()
	case OverlayAlerts:
		return m.alertLog.View(m.width, m.height)
	case OverlayAnalysis:
		return m.analysis.View(m.width)
	default:
		return ""
	}
}
