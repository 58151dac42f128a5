// Package alerts provides a scrollable log overlay of realtime alert
// broadcasts, newest at the bottom.
package alerts

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/slopewatch/tui/internal/theme"
)

const maxEntries = 200

// Entry is a single received alert.
type Entry struct {
	Time      time.Time
	StationID int
	Level     string // "WARNING" | "CRITICAL"
	Category  string
	Message   string
}

// Model holds the alert log state.
type Model struct {
	Entries []Entry
	Offset  int // scroll offset (from bottom)
}

// New creates an empty alert log.
func New() Model {
	return Model{}
}

// Add appends an alert and caps the buffer.
func (m *Model) Add(stationID int, ts int64, level, category, message string) {
	when := time.Now()
	if ts > 0 {
		when = time.Unix(ts, 0)
	}
	m.Entries = append(m.Entries, Entry{
		Time:      when,
		StationID: stationID,
		Level:     level,
		Category:  category,
		Message:   message,
	})
	if len(m.Entries) > maxEntries {
		m.Entries = m.Entries[len(m.Entries)-maxEntries:]
	}
	// Reset scroll to bottom on new entry.
	m.Offset = 0
}

// Latest returns the newest alert, or nil.
func (m Model) Latest() *Entry {
	if len(m.Entries) == 0 {
		return nil
	}
	return &m.Entries[len(m.Entries)-1]
}

// ScrollUp moves the viewport up.
func (m *Model) ScrollUp(n int) {
	m.Offset += n
	max := len(m.Entries) - 1
	if max < 0 {
		max = 0
	}
	if m.Offset > max {
		m.Offset = max
	}
}

// ScrollDown moves the viewport down.
func (m *Model) ScrollDown(n int) {
	m.Offset -= n
	if m.Offset < 0 {
		m.Offset = 0
	}
}

func panelStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(1, 2).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(theme.ColorBorder)
}

// View renders the alert log as an overlay panel.
func (m Model) View(width, height int) string {
	innerW := width - 4
	if innerW < 20 {
		innerW = 20
	}
	visibleLines := height - 6
	if visibleLines < 3 {
		visibleLines = 3
	}

	title := theme.StyleHeader.Render(" ALERTS ")
	help := theme.StyleDimmed.Render(fmt.Sprintf("j/k:scroll  esc:close  %d alerts", len(m.Entries)))

	if len(m.Entries) == 0 {
		body := theme.StyleDimmed.Render("  No alerts received.")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help)
		return panelStyle(innerW).Render(content)
	}

	end := len(m.Entries) - m.Offset
	start := end - visibleLines
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = 0
	}

	var lines []string
	for i := start; i < end; i++ {
		e := m.Entries[i]
		tsStr := theme.StyleDimmed.Render(e.Time.Format("15:04:05"))
		levelStr := lipgloss.NewStyle().Foreground(levelColor(e.Level)).Width(8).Render(e.Level)
		msgStr := fmt.Sprintf("#%d %s %s", e.StationID, e.Category, e.Message)
		if innerW > 20 {
			// Clip by display width; messages are Vietnamese and
			// byte-slicing would split runes.
			msgStr = runewidth.Truncate(msgStr, innerW-20, "...")
		}
		lines = append(lines, fmt.Sprintf("%s %s %s", tsStr, levelStr, msgStr))
	}

	body := strings.Join(lines, "\n")
	scrollIndicator := ""
	if m.Offset > 0 {
		scrollIndicator = theme.StyleDimmed.Render(fmt.Sprintf(" ↓ %d more", m.Offset))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, body, scrollIndicator, help)
	return panelStyle(innerW).Render(content)
}

func levelColor(level string) lipgloss.Color {
	switch level {
	case "CRITICAL":
		return theme.ColorDanger
	case "WARNING":
		return theme.ColorWarning
	default:
		return theme.ColorDimmed
	}
}
