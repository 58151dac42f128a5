package station

import "sort"

// DefaultWindow is how many samples each chart series retains.
const DefaultWindow = 50

// Sample is one charted data point for a sensor series.
type Sample struct {
	Timestamp int64
	Value     float64
}

// History holds the bounded per-sensor sample buffers for the currently
// focused station. Buffers are reset wholesale when focus changes; live
// appends are accepted only for the focused station and only when the
// sample's timestamp is strictly newer than the last one in its series,
// which makes replayed pushes after a reconnect harmless.
type History struct {
	window    int
	stationID int
	series    map[string][]Sample
}

// NewHistory creates an empty history with the given window size.
// A window of zero or less falls back to DefaultWindow.
func NewHistory(window int) *History {
	if window <= 0 {
		window = DefaultWindow
	}
	return &History{window: window, series: make(map[string][]Sample)}
}

// StationID returns the focused station, or 0 if none.
func (h *History) StationID() int {
	return h.stationID
}

// Focus resets all buffers to the server-provided history of the given
// station. Nothing buffered for the previous station survives. Each
// series is sorted chronologically and clipped to the window.
func (h *History) Focus(stationID int, series map[string][]Sample) {
	h.stationID = stationID
	h.series = make(map[string][]Sample, len(series))
	for sensorType, samples := range series {
		buf := make([]Sample, len(samples))
		copy(buf, samples)
		sort.Slice(buf, func(i, j int) bool { return buf[i].Timestamp < buf[j].Timestamp })
		if len(buf) > h.window {
			buf = buf[len(buf)-h.window:]
		}
		h.series[sensorType] = buf
	}
}

// Append adds a live sample to the given series. It reports false and
// leaves the buffer untouched when the sample is for another station or
// its timestamp is not strictly greater than the last appended one.
func (h *History) Append(stationID int, sensorType string, s Sample) bool {
	if stationID != h.stationID || h.stationID == 0 {
		return false
	}
	buf := h.series[sensorType]
	if n := len(buf); n > 0 && s.Timestamp <= buf[n-1].Timestamp {
		return false
	}
	buf = append(buf, s)
	if len(buf) > h.window {
		buf = buf[len(buf)-h.window:]
	}
	h.series[sensorType] = buf
	return true
}

// Series returns the buffered samples for a sensor type, oldest first.
func (h *History) Series(sensorType string) []Sample {
	return h.series[sensorType]
}

// SensorTypes returns the series names present, sorted.
func (h *History) SensorTypes() []string {
	out := make([]string, 0, len(h.series))
	for k := range h.series {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
