package alerts

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestAddEntry(t *testing.T) {
	m := New()
	m.Add(7, 1700000000, "CRITICAL", "gnss", "displacement spike")
	if len(m.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(m.Entries))
	}
	if m.Entries[0].Level != "CRITICAL" || m.Entries[0].StationID != 7 {
		t.Errorf("entry = %+v", m.Entries[0])
	}
	if got := m.Latest(); got == nil || got.Message != "displacement spike" {
		t.Errorf("Latest() = %+v", got)
	}
}

func TestMaxEntries(t *testing.T) {
	m := New()
	for i := 0; i < maxEntries+50; i++ {
		m.Add(1, 0, "WARNING", "rain", "msg")
	}
	if len(m.Entries) != maxEntries {
		t.Errorf("expected %d entries, got %d", maxEntries, len(m.Entries))
	}
}

func TestScrollUpDown(t *testing.T) {
	m := New()
	for i := 0; i < 20; i++ {
		m.Add(1, 0, "WARNING", "rain", "msg")
	}
	if m.Offset != 0 {
		t.Fatal("expected offset 0 after adds")
	}

	m.ScrollUp(5)
	if m.Offset != 5 {
		t.Errorf("expected offset 5, got %d", m.Offset)
	}

	m.ScrollDown(3)
	if m.Offset != 2 {
		t.Errorf("expected offset 2, got %d", m.Offset)
	}

	m.ScrollDown(10) // shouldn't go below 0
	if m.Offset != 0 {
		t.Errorf("expected offset 0, got %d", m.Offset)
	}
}

func TestViewClipsLongMessageSafely(t *testing.T) {
	m := New()
	m.Add(7, 0, "CRITICAL", "gnss",
		strings.Repeat("Cảnh báo dịch chuyển vượt ngưỡng theo dõi ", 4))

	v := m.View(48, 24)
	if !utf8.ValidString(v) {
		t.Fatal("clipped alert line is invalid UTF-8")
	}
}

func TestNewEntryResetsScroll(t *testing.T) {
	m := New()
	for i := 0; i < 10; i++ {
		m.Add(1, 0, "WARNING", "rain", "msg")
	}
	m.ScrollUp(5)
	m.Add(1, 0, "CRITICAL", "gnss", "newest")
	if m.Offset != 0 {
		t.Errorf("expected offset reset to 0, got %d", m.Offset)
	}
}
