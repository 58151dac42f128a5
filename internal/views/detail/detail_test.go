package detail

import (
	"strings"
	"testing"

	"github.com/slopewatch/tui/internal/station"
)

func TestSparklineScaling(t *testing.T) {
	samples := []station.Sample{
		{Timestamp: 1, Value: 0},
		{Timestamp: 2, Value: 5},
		{Timestamp: 3, Value: 10},
	}
	got := Sparkline(samples, 10)
	runes := []rune(got)
	if len(runes) != 3 {
		t.Fatalf("sparkline length = %d, want 3", len(runes))
	}
	if runes[0] != '▁' {
		t.Errorf("min sample rendered as %q, want ▁", runes[0])
	}
	if runes[2] != '█' {
		t.Errorf("max sample rendered as %q, want █", runes[2])
	}
}

func TestSparklineClipsToWidth(t *testing.T) {
	var samples []station.Sample
	for i := 0; i < 50; i++ {
		samples = append(samples, station.Sample{Timestamp: int64(i), Value: float64(i)})
	}
	got := []rune(Sparkline(samples, 20))
	if len(got) != 20 {
		t.Fatalf("sparkline length = %d, want 20", len(got))
	}
	// Newest samples win: the last rune is the window maximum.
	if got[len(got)-1] != '█' {
		t.Errorf("last rune = %q, want █", got[len(got)-1])
	}
}

func TestSparklineFlatSeries(t *testing.T) {
	samples := []station.Sample{{Timestamp: 1, Value: 3}, {Timestamp: 2, Value: 3}}
	got := Sparkline(samples, 10)
	if strings.ContainsRune(got, '█') {
		t.Errorf("flat series rendered a peak: %q", got)
	}
}

func TestSparklineEmpty(t *testing.T) {
	if got := Sparkline(nil, 10); got != "" {
		t.Errorf("Sparkline(nil) = %q, want empty", got)
	}
}

func TestGaugeSettles(t *testing.T) {
	m := New(nil, station.NewHistory(50))
	m.SetGaugeTarget(4)

	settled := false
	for i := 0; i < 300; i++ {
		if m.Animate() {
			settled = true
			break
		}
	}
	if !settled {
		t.Fatal("gauge never settled on its target")
	}
	if m.gaugePos != 4 {
		t.Errorf("settled position = %v, want 4", m.gaugePos)
	}
}

func TestCycleSensorWraps(t *testing.T) {
	h := station.NewHistory(50)
	h.Focus(1, map[string][]station.Sample{
		"gnss": {{Timestamp: 1}},
		"rain": {{Timestamp: 1}},
	})
	m := New(nil, h)

	if got := m.FocusedSensor(); got != "gnss" {
		t.Fatalf("FocusedSensor() = %q, want gnss", got)
	}
	m.CycleSensor()
	if got := m.FocusedSensor(); got != "rain" {
		t.Errorf("after cycle: %q, want rain", got)
	}
	m.CycleSensor()
	if got := m.FocusedSensor(); got != "gnss" {
		t.Errorf("after wrap: %q, want gnss", got)
	}
}
