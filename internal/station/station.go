// Package station holds the client-side cache of server-authoritative
// station data: the snapshot refreshed by polling, the per-sensor sample
// history used for charting, and payload normalization helpers.
package station

// RiskLevel is the categorical severity computed server-side.
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskExtreme RiskLevel = "EXTREME"
	RiskOffline RiskLevel = "OFFLINE"
	RiskUnknown RiskLevel = "UNKNOWN"
)

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Station is one monitoring site as cached by the client.
type Station struct {
	ID         int
	Code       string
	Name       string
	Location   Location
	Status     string // "online" | "offline"
	RiskLevel  RiskLevel
	LastUpdate int64 // unix seconds
}

// ParseRisk normalizes the risk strings the server emits. Realtime pushes
// reuse alert levels (WARNING/CRITICAL) while the REST API reports the
// LOW..EXTREME scale, so both are folded onto one scale here.
func ParseRisk(s string) RiskLevel {
	switch s {
	case "LOW":
		return RiskLow
	case "MEDIUM", "WARNING":
		return RiskMedium
	case "HIGH":
		return RiskHigh
	case "EXTREME", "CRITICAL":
		return RiskExtreme
	case "OFFLINE":
		return RiskOffline
	default:
		return RiskUnknown
	}
}

// Severity orders risk levels for sorting; higher is more urgent.
// Offline sits between MEDIUM and HIGH: a silent station is more
// concerning than a healthy one but carries no confirmed movement.
func Severity(r RiskLevel) int {
	switch r {
	case RiskExtreme:
		return 5
	case RiskHigh:
		return 4
	case RiskOffline:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}
