package station

import "testing"

func TestVelocityFieldPriority(t *testing.T) {
	tests := []struct {
		name string
		data string
		want float64
	}{
		{
			name: "velocity_mm_s wins over everything",
			data: `{"velocity_mm_s": 2.5, "speed_2d_mm_s": 99, "speed_2d": 99}`,
			want: 2.5,
		},
		{
			name: "speed_2d_mm_s before bare speed_2d",
			data: `{"speed_2d_mm_s": 3.1, "speed_2d": 99}`,
			want: 3.1,
		},
		{
			name: "speed_2d scaled from m/s",
			data: `{"speed_2d": 0.004}`,
			want: 4,
		},
		{
			name: "speed scaled from m/s",
			data: `{"speed": 0.001}`,
			want: 1,
		},
		{
			name: "no velocity field defaults to zero",
			data: `{"lat": 16.05, "lon": 108.2}`,
			want: 0,
		},
		{
			name: "malformed payload defaults to zero",
			data: `not json`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Velocity([]byte(tt.data)); got != tt.want {
				t.Errorf("Velocity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChartValue(t *testing.T) {
	tests := []struct {
		sensorType string
		data       string
		want       float64
	}{
		{"gnss", `{"speed_2d_mm_s": 1.2}`, 1.2},
		{"rain", `{"rainfall_mm": 14.5, "intensity_mm_h": 3}`, 14.5},
		{"water", `{"water_level": 2.31, "is_fallback": false}`, 2.31},
		{"imu", `{"roll": -1.7, "pitch": 0.4}`, -1.7},
		{"imu", `{"tilt": 2.2}`, 2.2},
		{"thermo", `{"value": 21.5}`, 21.5},
		{"thermo", `{}`, 0},
	}

	for _, tt := range tests {
		if got := ChartValue(tt.sensorType, []byte(tt.data)); got != tt.want {
			t.Errorf("ChartValue(%q, %s) = %v, want %v", tt.sensorType, tt.data, got, tt.want)
		}
	}
}

func TestDisplacement(t *testing.T) {
	if got := Displacement([]byte(`{"total_displacement_mm": 12.8}`)); got != 12.8 {
		t.Errorf("Displacement() = %v, want 12.8", got)
	}
	if got := Displacement([]byte(`{}`)); got != 0 {
		t.Errorf("Displacement() = %v, want 0", got)
	}
}
