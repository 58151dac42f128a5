// Package analysis renders the long-term displacement analysis overlay.
// The report body is composed as markdown and rendered with glamour.
package analysis

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/slopewatch/tui/internal/client"
	"github.com/slopewatch/tui/internal/theme"
)

// Model holds the analysis overlay state.
type Model struct {
	Report  *client.LongTermAnalysis
	Station string
	Days    int
	Loading bool
	Err     string
}

// New creates an empty analysis model.
func New() Model {
	return Model{Days: 30}
}

var stylePanel = lipgloss.NewStyle().
	BorderStyle(lipgloss.DoubleBorder()).
	BorderForeground(theme.ColorBorder).
	Padding(1, 2)

// View renders the overlay panel.
func (m Model) View(width int) string {
	innerW := width - 8
	if innerW < 40 {
		innerW = 40
	}

	var body string
	switch {
	case m.Loading:
		body = theme.StyleDimmed.Render(fmt.Sprintf("Analyzing %d days of GNSS data…", m.Days))
	case m.Err != "":
		body = theme.StyleDanger.Render(m.Err)
	case m.Report == nil:
		body = theme.StyleDimmed.Render("No analysis loaded.")
	case m.Report.Status != "success":
		// insufficient_data and error both carry a server message.
		body = theme.StyleDimmed.Render(m.Report.Message)
	default:
		body = m.renderReport(innerW)
	}

	title := theme.StyleHeader.Render(fmt.Sprintf(" LONG-TERM ANALYSIS — %s (%d days) ", m.Station, m.Days))
	help := theme.StyleDimmed.Render("7/3/9:window 7d/30d/90d  esc:close")
	content := lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", help)
	return stylePanel.Width(innerW + 4).Render(content)
}

func (m Model) renderReport(width int) string {
	md := Markdown(m.Report)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// Markdown composes the report body. Split out so the content can be
// tested without a terminal renderer.
func Markdown(rep *client.LongTermAnalysis) string {
	a := rep.Analysis
	if a == nil {
		return rep.Message
	}
	var b strings.Builder
	fmt.Fprintf(&b, "## Displacement trend\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total displacement | %.2f mm |\n", a.TotalDisplacementMM)
	fmt.Fprintf(&b, "| Velocity | %.2f mm/year (%.4f mm/day) |\n", a.VelocityMMYear, a.VelocityMMDay)
	fmt.Fprintf(&b, "| Classification | %s |\n", a.Classification)
	fmt.Fprintf(&b, "| Trend | %s |\n", a.Trend)
	fmt.Fprintf(&b, "| Window | %s → %s (%.1f days) |\n", a.StartDate, a.EndDate, a.DurationDays)
	fmt.Fprintf(&b, "\n**Risk: %s**\n", rep.RiskLevel)
	if rep.WarningMessage != "" {
		fmt.Fprintf(&b, "\n> %s\n", rep.WarningMessage)
	}
	return b.String()
}
