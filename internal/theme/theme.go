// Package theme provides the Lip Gloss color palette and reusable styles
// for the Slopewatch TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Risk level colors.
var (
	ColorRiskLow     = lipgloss.Color("#22c55e")
	ColorRiskMedium  = lipgloss.Color("#d97706")
	ColorRiskHigh    = lipgloss.Color("#f97316")
	ColorRiskExtreme = lipgloss.Color("#dc2626")
	ColorRiskOffline = lipgloss.Color("#6b7280")
	ColorRiskUnknown = lipgloss.Color("#9ca3af")
)

// Sensor type colors.
var (
	ColorGNSS  = lipgloss.Color("#3b82f6")
	ColorRain  = lipgloss.Color("#06b6d4")
	ColorWater = lipgloss.Color("#0ea5e9")
	ColorIMU   = lipgloss.Color("#a855f7")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
	ColorDefault = lipgloss.Color("#9ca3af")
)

// Shared styles.
var (
	StyleHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorBright)
	StyleDimmed = lipgloss.NewStyle().Foreground(ColorDimmed)
	StyleDanger = lipgloss.NewStyle().Foreground(ColorDanger)
)

// RiskColor returns the color for a risk level string.
func RiskColor(risk string) lipgloss.Color {
	switch risk {
	case "LOW":
		return ColorRiskLow
	case "MEDIUM":
		return ColorRiskMedium
	case "HIGH":
		return ColorRiskHigh
	case "EXTREME":
		return ColorRiskExtreme
	case "OFFLINE":
		return ColorRiskOffline
	default:
		return ColorRiskUnknown
	}
}

// RiskGlyph returns the marker symbol for a risk level string.
func RiskGlyph(risk string) string {
	switch risk {
	case "LOW":
		return "●"
	case "MEDIUM":
		return "◆"
	case "HIGH":
		return "▲"
	case "EXTREME":
		return "█"
	case "OFFLINE":
		return "○"
	default:
		return "·"
	}
}

// SensorColor returns the color for a sensor type.
func SensorColor(sensorType string) lipgloss.Color {
	switch sensorType {
	case "gnss":
		return ColorGNSS
	case "rain":
		return ColorRain
	case "water":
		return ColorWater
	case "imu":
		return ColorIMU
	default:
		return ColorDefault
	}
}

// SensorBadge returns a colored badge string for a sensor type.
func SensorBadge(sensorType string) string {
	var tag string
	switch sensorType {
	case "gnss":
		tag = "[G]"
	case "rain":
		tag = "[R]"
	case "water":
		tag = "[W]"
	case "imu":
		tag = "[I]"
	default:
		tag = "[?]"
	}
	return lipgloss.NewStyle().Foreground(SensorColor(sensorType)).Render(tag)
}
