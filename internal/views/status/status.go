// Package status renders the top status bar: stream state, logged-in
// identity, per-risk station counts and the most recent alert.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/slopewatch/tui/internal/station"
	"github.com/slopewatch/tui/internal/theme"
)

// Model holds the status bar state.
type Model struct {
	Connected bool
	Username  string
	Role      string
	Counts    map[station.RiskLevel]int
	LastAlert string
	Width     int
}

// New creates a status bar model.
func New() Model {
	return Model{Counts: make(map[station.RiskLevel]int)}
}

// SetCounts replaces the per-risk station tallies.
func (m *Model) SetCounts(counts map[station.RiskLevel]int) {
	m.Counts = counts
}

// countOrder fixes the display order of risk tallies.
var countOrder = []station.RiskLevel{
	station.RiskExtreme,
	station.RiskHigh,
	station.RiskMedium,
	station.RiskLow,
	station.RiskOffline,
}

// View renders the status bar.
func (m Model) View() string {
	width := m.Width
	if width < 40 {
		width = 40
	}

	var connStr string
	if m.Connected {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorHealthy).Render("● Live")
	} else {
		connStr = lipgloss.NewStyle().Foreground(theme.ColorDanger).Render("○ Polling (stream down)")
	}

	var countParts []string
	for _, risk := range countOrder {
		n := m.Counts[risk]
		if n == 0 {
			continue
		}
		countParts = append(countParts, lipgloss.NewStyle().
			Foreground(theme.RiskColor(string(risk))).
			Render(fmt.Sprintf("%d %s", n, strings.ToLower(string(risk)))))
	}
	countsStr := strings.Join(countParts, "  ")
	if countsStr == "" {
		countsStr = theme.StyleDimmed.Render("no stations")
	}

	userStr := theme.StyleDimmed.Render("not signed in")
	if m.Username != "" {
		userStr = fmt.Sprintf("%s (%s)", m.Username, m.Role)
	}

	sep := lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(" | ")
	content := connStr + sep + countsStr + sep + userStr
	if m.LastAlert != "" {
		content += sep + theme.StyleDanger.Render(m.LastAlert)
	}

	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(theme.ColorBorder).
		Render(content)
}
