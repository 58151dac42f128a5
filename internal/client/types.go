// Package client provides the WebSocket and HTTP clients plus the session
// guard for the Slopewatch monitoring backend. Types mirror the backend
// wire protocol without importing backend packages.
package client

import "encoding/json"

// MessageType identifies the kind of WebSocket message.
type MessageType string

const (
	MsgSensorData    MessageType = "sensor_data"
	MsgStationStatus MessageType = "station_status"
	MsgAlert         MessageType = "alert"
	MsgBatchUpdate   MessageType = "batch_update"
	MsgPong          MessageType = "pong"
)

// Envelope is the flat wire format of every WebSocket frame. Which fields
// are set depends on Type; Data carries the sensor payload object for
// sensor_data frames and the inner message array for batch_update frames.
type Envelope struct {
	Type       MessageType     `json:"type"`
	StationID  int             `json:"station_id,omitempty"`
	SensorType string          `json:"sensor_type,omitempty"`
	Timestamp  int64           `json:"timestamp,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	RiskLevel  string          `json:"risk_level,omitempty"`
	Level      string          `json:"level,omitempty"`
	Category   string          `json:"category,omitempty"`
	Message    string          `json:"message,omitempty"`
}

// Location is a WGS84 coordinate pair as sent by the server.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StationSummary is one entry of GET /api/stations.
type StationSummary struct {
	ID          int      `json:"id"`
	StationCode string   `json:"station_code"`
	Name        string   `json:"name"`
	Location    Location `json:"location"`
	Status      string   `json:"status"`
	LastUpdate  int64    `json:"last_update"`
	RiskLevel   string   `json:"risk_level"`
}

// SensorPoint is one historical reading of a sensor series.
type SensorPoint struct {
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// SensorSeries is the latest reading plus 24h history for one sensor type.
type SensorSeries struct {
	Latest  json.RawMessage `json:"latest"`
	History []SensorPoint   `json:"history"`
}

// ActiveAlert is an unresolved alert in a station's risk assessment.
type ActiveAlert struct {
	Level     string `json:"level"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// RiskAssessment aggregates a station's unresolved alerts.
type RiskAssessment struct {
	OverallRisk  string        `json:"overall_risk"`
	ActiveAlerts []ActiveAlert `json:"active_alerts"`
}

// StationDetail is the response of GET /api/stations/{id}/detail.
type StationDetail struct {
	ID             int                     `json:"id"`
	StationCode    string                  `json:"station_code"`
	Name           string                  `json:"name"`
	Location       Location                `json:"location"`
	Status         string                  `json:"status"`
	LastUpdate     int64                   `json:"last_update"`
	Config         json.RawMessage         `json:"config"`
	Sensors        map[string]SensorSeries `json:"sensors"`
	RiskAssessment RiskAssessment          `json:"risk_assessment"`
}

// AnalysisReport holds the long-term analysis figures.
type AnalysisReport struct {
	TotalDisplacementMM float64 `json:"total_displacement_mm"`
	VelocityMMYear      float64 `json:"velocity_mm_year"`
	VelocityMMDay       float64 `json:"velocity_mm_day"`
	VelocityMMSecond    float64 `json:"velocity_mm_second"`
	Classification      string  `json:"classification"`
	Trend               string  `json:"trend"`
	DurationDays        float64 `json:"duration_days"`
	StartDate           string  `json:"start_date"`
	EndDate             string  `json:"end_date"`
}

// LongTermAnalysis is the response of GET /api/stations/{id}/long-term-analysis.
// Status is "success", "insufficient_data" or "error"; Message carries the
// server's human-readable explanation for the latter two.
type LongTermAnalysis struct {
	Status         string          `json:"status"`
	Message        string          `json:"message,omitempty"`
	Analysis       *AnalysisReport `json:"analysis,omitempty"`
	RiskLevel      string          `json:"risk_level,omitempty"`
	WarningMessage string          `json:"warning_message,omitempty"`
}

// Token is the response of POST /api/auth/login.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Identity is the response of GET /api/auth/me.
type Identity struct {
	ID          int      `json:"id"`
	Username    string   `json:"username"`
	FullName    string   `json:"full_name"`
	Role        string   `json:"role"`
	IsActive    bool     `json:"is_active"`
	Permissions []string `json:"permissions"`
}

// Health is the response of GET /api/health.
type Health struct {
	Status string  `json:"status"`
	Time   float64 `json:"time"`
}
