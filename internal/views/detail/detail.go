// Package detail renders the focused station flyout: per-sensor latest
// readings, a sparkline of the charted series and the live velocity gauge.
package detail

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"

	"github.com/slopewatch/tui/internal/client"
	"github.com/slopewatch/tui/internal/station"
	"github.com/slopewatch/tui/internal/theme"
)

const (
	panelWidth = 66
	barWidth   = 20
	labelWidth = 14

	// AnimFPS is the gauge animation frame rate.
	AnimFPS = 30
)

var (
	stylePanel = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(0, 1)

	styleLabel = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed).
			Width(labelWidth)

	styleValue = lipgloss.NewStyle().
			Foreground(theme.ColorBright)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorBright)

	styleFooter = lipgloss.NewStyle().
			Foreground(theme.ColorDimmed)
)

// Model holds the state for the detail overlay. The gauge needle chases
// the latest velocity with a spring so a fresh push doesn't make the
// display jump.
type Model struct {
	Detail  *client.StationDetail
	History *station.History

	// Focused sensor series for the sparkline.
	SensorIdx int

	spring      harmonica.Spring
	gaugePos    float64
	gaugeVel    float64
	gaugeTarget float64
}

// New creates a detail model for the given station.
func New(d *client.StationDetail, h *station.History) Model {
	return Model{
		Detail:  d,
		History: h,
		spring:  harmonica.NewSpring(harmonica.FPS(AnimFPS), 6.0, 0.7),
	}
}

// FocusedSensor returns the sensor type the sparkline currently shows.
func (m Model) FocusedSensor() string {
	if m.History == nil {
		return ""
	}
	types := m.History.SensorTypes()
	if len(types) == 0 {
		return ""
	}
	return types[m.SensorIdx%len(types)]
}

// CycleSensor moves the sparkline to the next sensor series.
func (m *Model) CycleSensor() {
	if m.History == nil {
		return
	}
	if n := len(m.History.SensorTypes()); n > 0 {
		m.SensorIdx = (m.SensorIdx + 1) % n
	}
}

// SetGaugeTarget points the gauge needle at a new velocity reading.
func (m *Model) SetGaugeTarget(v float64) {
	m.gaugeTarget = v
}

// Animate advances the gauge spring one frame and reports whether the
// needle has settled (no further frames needed).
func (m *Model) Animate() bool {
	m.gaugePos, m.gaugeVel = m.spring.Update(m.gaugePos, m.gaugeVel, m.gaugeTarget)
	settled := abs(m.gaugePos-m.gaugeTarget) < 0.001 && abs(m.gaugeVel) < 0.001
	if settled {
		m.gaugePos = m.gaugeTarget
		m.gaugeVel = 0
	}
	return settled
}

// View renders the detail panel. Returns an empty string if no station
// is set.
func (m Model) View() string {
	if m.Detail == nil {
		return ""
	}
	return stylePanel.Width(panelWidth).Render(m.renderInner())
}

func (m Model) renderInner() string {
	d := m.Detail
	var b strings.Builder

	title := styleTitle.Render(fmt.Sprintf("Station: %s (%s)", d.Name, d.StationCode))
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("─", panelWidth-4) + "\n")

	risk := station.ParseRisk(d.RiskAssessment.OverallRisk)
	riskStr := lipgloss.NewStyle().Foreground(theme.RiskColor(string(risk))).Render(string(risk))
	writeRow(&b, "Risk", riskStr)
	writeRow(&b, "Status", d.Status)
	writeRow(&b, "Location", fmt.Sprintf("%.5f, %.5f", d.Location.Lat, d.Location.Lon))
	if d.LastUpdate > 0 {
		writeRow(&b, "Last update", time.Unix(d.LastUpdate, 0).Format("2006-01-02 15:04:05"))
	}
	b.WriteString("\n")

	// Latest reading per sensor.
	for _, sensorType := range sortedSensors(d) {
		series := d.Sensors[sensorType]
		val := "—"
		if len(series.Latest) > 0 {
			val = formatReading(sensorType, station.ChartValue(sensorType, series.Latest))
		}
		writeRow(&b, theme.SensorBadge(sensorType)+" "+sensorType, val)
	}
	b.WriteString("\n")

	// Sparkline of the focused series.
	if focused := m.FocusedSensor(); focused != "" {
		samples := m.History.Series(focused)
		b.WriteString(styleLabel.Render(focused+" 24h") +
			lipgloss.NewStyle().Foreground(theme.SensorColor(focused)).Render(Sparkline(samples, panelWidth-labelWidth-6)) + "\n")
	}

	// Velocity gauge.
	gauge := renderGauge(m.gaugePos, m.gaugeTarget)
	writeRow(&b, "Velocity", fmt.Sprintf("%s %.2f mm/s", gauge, m.gaugePos))
	if gnss, ok := d.Sensors["gnss"]; ok && len(gnss.Latest) > 0 {
		if disp := station.Displacement(gnss.Latest); disp != 0 {
			writeRow(&b, "Displacement", fmt.Sprintf("%.2f mm total", disp))
		}
	}

	// Active alerts.
	if alerts := d.RiskAssessment.ActiveAlerts; len(alerts) > 0 {
		b.WriteString("\n")
		for _, a := range alerts {
			b.WriteString(theme.StyleDanger.Render(fmt.Sprintf("  ! [%s] %s", a.Level, a.Message)) + "\n")
		}
	}

	b.WriteString("\n" + styleFooter.Render("s:cycle sensor  l:long-term analysis  esc:close"))
	return b.String()
}

// Sparkline renders samples as a fixed-width block-character strip,
// oldest on the left, scaled between the window's min and max.
func Sparkline(samples []station.Sample, width int) string {
	if len(samples) == 0 || width <= 0 {
		return ""
	}
	blocks := []rune("▁▂▃▄▅▆▇█")

	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	lo, hi := samples[0].Value, samples[0].Value
	for _, s := range samples {
		if s.Value < lo {
			lo = s.Value
		}
		if s.Value > hi {
			hi = s.Value
		}
	}

	var b strings.Builder
	for _, s := range samples {
		idx := 0
		if hi > lo {
			idx = int((s.Value - lo) / (hi - lo) * float64(len(blocks)-1))
		}
		b.WriteRune(blocks[idx])
	}
	return b.String()
}

func renderGauge(pos, target float64) string {
	scale := target
	if pos > scale {
		scale = pos
	}
	if scale < 1 {
		scale = 1
	}
	filled := int(pos / scale * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return lipgloss.NewStyle().Foreground(theme.ColorGNSS).Render(bar)
}

func formatReading(sensorType string, v float64) string {
	switch sensorType {
	case "gnss":
		return fmt.Sprintf("%.2f mm/s", v)
	case "rain":
		return fmt.Sprintf("%.1f mm", v)
	case "water":
		return fmt.Sprintf("%.2f m", v)
	case "imu":
		return fmt.Sprintf("%.2f°", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func sortedSensors(d *client.StationDetail) []string {
	out := make([]string, 0, len(d.Sensors))
	for k := range d.Sensors {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(styleLabel.Render(label) + styleValue.Render(value) + "\n")
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
