package station

import "testing"

func TestAppendEvictsOldest(t *testing.T) {
	h := NewHistory(50)
	h.Focus(7, nil)

	for i := 0; i < 55; i++ {
		if !h.Append(7, "gnss", Sample{Timestamp: int64(1000 + i), Value: float64(i)}) {
			t.Fatalf("append %d rejected", i)
		}
	}

	buf := h.Series("gnss")
	if len(buf) != 50 {
		t.Fatalf("buffer length = %d, want 50", len(buf))
	}
	// Oldest five evicted; remaining samples chronological.
	if buf[0].Timestamp != 1005 {
		t.Errorf("first timestamp = %d, want 1005", buf[0].Timestamp)
	}
	for i := 1; i < len(buf); i++ {
		if buf[i].Timestamp <= buf[i-1].Timestamp {
			t.Fatalf("order broken at %d: %d <= %d", i, buf[i].Timestamp, buf[i-1].Timestamp)
		}
	}
}

func TestAppendRejectsStaleTimestamps(t *testing.T) {
	h := NewHistory(50)
	h.Focus(7, nil)

	h.Append(7, "gnss", Sample{Timestamp: 100, Value: 1})
	tests := []struct {
		name string
		ts   int64
		want bool
	}{
		{"duplicate timestamp", 100, false},
		{"older timestamp", 99, false},
		{"newer timestamp", 101, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := h.Append(7, "gnss", Sample{Timestamp: tt.ts}); got != tt.want {
				t.Errorf("Append(ts=%d) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
	if n := len(h.Series("gnss")); n != 2 {
		t.Errorf("buffer length = %d, want 2", n)
	}
}

func TestAppendIgnoresOtherStations(t *testing.T) {
	h := NewHistory(50)
	h.Focus(7, nil)

	if h.Append(8, "gnss", Sample{Timestamp: 100}) {
		t.Error("append for unfocused station accepted")
	}
	if len(h.Series("gnss")) != 0 {
		t.Error("buffer grew from unfocused station's sample")
	}
}

func TestAppendWithoutFocusIsNoop(t *testing.T) {
	h := NewHistory(50)
	if h.Append(0, "gnss", Sample{Timestamp: 100}) {
		t.Error("append accepted with no focused station")
	}
}

func TestFocusResetsPreviousBuffers(t *testing.T) {
	h := NewHistory(50)
	h.Focus(1, nil)
	for i := 0; i < 60; i++ {
		h.Append(1, "gnss", Sample{Timestamp: int64(i + 1), Value: 1})
	}

	serverHistory := map[string][]Sample{
		"gnss": {{Timestamp: 500, Value: 9}, {Timestamp: 501, Value: 10}},
	}
	h.Focus(2, serverHistory)

	buf := h.Series("gnss")
	if len(buf) != 2 {
		t.Fatalf("buffer length after focus switch = %d, want 2", len(buf))
	}
	for _, s := range buf {
		if s.Value == 1 {
			t.Error("previous station's sample survived focus switch")
		}
	}
	if h.StationID() != 2 {
		t.Errorf("StationID() = %d, want 2", h.StationID())
	}
}

func TestFocusSortsAndClipsServerHistory(t *testing.T) {
	h := NewHistory(3)
	h.Focus(1, map[string][]Sample{
		"rain": {
			{Timestamp: 30}, {Timestamp: 10}, {Timestamp: 40}, {Timestamp: 20},
		},
	})

	buf := h.Series("rain")
	if len(buf) != 3 {
		t.Fatalf("buffer length = %d, want 3", len(buf))
	}
	want := []int64{20, 30, 40}
	for i, s := range buf {
		if s.Timestamp != want[i] {
			t.Errorf("position %d: timestamp = %d, want %d", i, s.Timestamp, want[i])
		}
	}
}
