package station

import "github.com/tidwall/gjson"

// Sensor payloads are duck-typed JSON objects whose field names drifted
// across firmware revisions, so each chartable quantity is resolved
// through an explicit priority-ordered field list with a documented
// default of 0.

// velocityFields lists GNSS velocity sources in priority order. The
// first two are already in mm/s; the bare m/s fields are scaled.
var velocityFields = []struct {
	path  string
	scale float64
}{
	{"velocity_mm_s", 1},
	{"speed_2d_mm_s", 1},
	{"speed_2d", 1000},
	{"speed", 1000},
}

// Velocity extracts the 2D ground velocity in mm/s from a GNSS payload.
func Velocity(data []byte) float64 {
	for _, f := range velocityFields {
		if v := gjson.GetBytes(data, f.path); v.Exists() {
			return v.Float() * f.scale
		}
	}
	return 0
}

// firstFloat returns the first existing field among paths, or 0.
func firstFloat(data []byte, paths ...string) float64 {
	for _, p := range paths {
		if v := gjson.GetBytes(data, p); v.Exists() {
			return v.Float()
		}
	}
	return 0
}

// ChartValue picks the quantity charted for a sensor type: GNSS velocity
// (mm/s), accumulated rainfall (mm), water level (m), IMU roll (deg).
func ChartValue(sensorType string, data []byte) float64 {
	switch sensorType {
	case "gnss":
		return Velocity(data)
	case "rain":
		return firstFloat(data, "rainfall_mm", "rain_mm", "rainfall")
	case "water":
		return firstFloat(data, "water_level", "level_m", "level")
	case "imu":
		return firstFloat(data, "roll", "tilt", "angle")
	default:
		return firstFloat(data, "value")
	}
}

// Displacement extracts the total displacement in mm from a GNSS payload.
func Displacement(data []byte) float64 {
	return firstFloat(data, "total_displacement_mm", "displacement_mm", "displacement")
}
