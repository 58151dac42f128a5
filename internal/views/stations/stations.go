// Package stations renders the selectable station list, most urgent
// risk first.
package stations

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/slopewatch/tui/internal/station"
	"github.com/slopewatch/tui/internal/theme"
)

const nameWidth = 24

// Model holds the station list state.
type Model struct {
	Stations    []station.Station
	SelectedIdx int
	Width       int
	Height      int
}

// New creates an empty list model.
func New() Model {
	return Model{}
}

// SetStations replaces the displayed list, keeping the selection on the
// same station when it survives the refresh.
func (m *Model) SetStations(list []station.Station) {
	var selectedID int
	if s, ok := m.Selected(); ok {
		selectedID = s.ID
	}
	m.Stations = list
	m.SelectedIdx = 0
	for i, s := range list {
		if s.ID == selectedID {
			m.SelectedIdx = i
			break
		}
	}
}

// Selected returns the currently highlighted station.
func (m Model) Selected() (station.Station, bool) {
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.Stations) {
		return station.Station{}, false
	}
	return m.Stations[m.SelectedIdx], true
}

// MoveDown advances the selection, wrapping at the end.
func (m *Model) MoveDown() {
	if len(m.Stations) > 0 {
		m.SelectedIdx = (m.SelectedIdx + 1) % len(m.Stations)
	}
}

// MoveUp retreats the selection, wrapping at the start.
func (m *Model) MoveUp() {
	if len(m.Stations) > 0 {
		m.SelectedIdx = (m.SelectedIdx - 1 + len(m.Stations)) % len(m.Stations)
	}
}

// View renders the station list.
func (m Model) View() string {
	header := theme.StyleHeader.Render(fmt.Sprintf("  %-4s %-8s %-*s %-8s %-9s %s",
		"", "CODE", nameWidth, "NAME", "RISK", "STATUS", "LAST DATA"))
	lines := []string{header}

	if len(m.Stations) == 0 {
		lines = append(lines, theme.StyleDimmed.Render("  No stations in this project yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		prefix := "  "
		if i == m.SelectedIdx {
			prefix = "> "
		}
		lines = append(lines, prefix+renderRow(m.Stations[i]))
	}
	if hidden := len(m.Stations) - (end - start); hidden > 0 {
		lines = append(lines, theme.StyleDimmed.Render(fmt.Sprintf("  … %d more", hidden)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// visibleRange clips the list to the viewport, scrolling so the selected
// station stays in view. Height counts the header and the overflow line.
func (m Model) visibleRange() (start, end int) {
	n := len(m.Stations)
	rows := m.Height - 2
	if rows <= 0 || n <= m.Height-1 {
		return 0, n
	}
	start = m.SelectedIdx - rows + 1
	if start < 0 {
		start = 0
	}
	end = start + rows
	if end > n {
		end = n
		start = end - rows
	}
	return start, end
}

func renderRow(s station.Station) string {
	risk := string(s.RiskLevel)
	glyph := lipgloss.NewStyle().Foreground(theme.RiskColor(risk)).Render(theme.RiskGlyph(risk))
	riskStr := lipgloss.NewStyle().Foreground(theme.RiskColor(risk)).Render(fmt.Sprintf("%-8s", risk))

	statusStr := s.Status
	if statusStr == "offline" {
		statusStr = theme.StyleDimmed.Render(fmt.Sprintf("%-9s", statusStr))
	} else {
		statusStr = fmt.Sprintf("%-9s", statusStr)
	}

	return fmt.Sprintf("%s    %-8s %s %s %s %s",
		glyph, s.Code, padName(s.Name), riskStr, statusStr, lastDataAge(s.LastUpdate))
}

// padName clips and pads by display width, not bytes; Vietnamese names
// are multi-byte and must not be split mid-rune.
func padName(name string) string {
	return runewidth.FillRight(runewidth.Truncate(name, nameWidth, "…"), nameWidth)
}

// lastDataAge formats how long ago the station last reported.
func lastDataAge(ts int64) string {
	if ts == 0 {
		return theme.StyleDimmed.Render("never")
	}
	age := time.Since(time.Unix(ts, 0))
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	case age < 48*time.Hour:
		return fmt.Sprintf("%dh ago", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(age.Hours()/24))
	}
}

