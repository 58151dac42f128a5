package station

import "sort"

// Snapshot is the cached copy of the server's station list. Wholesale
// refreshes (Replace) are authoritative for set membership; realtime
// patches (ApplyStatus) only mutate fields of stations already present,
// so a patch can never resurrect a station removed by the last refresh.
type Snapshot struct {
	stations map[int]Station
}

// NewSnapshot creates an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{stations: make(map[int]Station)}
}

// Replace swaps the cached station set wholesale. Calling it twice with
// the same input leaves the snapshot unchanged.
func (s *Snapshot) Replace(list []Station) {
	s.stations = make(map[int]Station, len(list))
	for _, st := range list {
		s.stations[st.ID] = st
	}
}

// ApplyStatus patches the risk level of an already-known station. It
// reports whether the station was present; patches never create entries.
func (s *Snapshot) ApplyStatus(id int, risk RiskLevel) bool {
	st, ok := s.stations[id]
	if !ok {
		return false
	}
	st.RiskLevel = risk
	s.stations[id] = st
	return true
}

// Get returns the cached station with the given id.
func (s *Snapshot) Get(id int) (Station, bool) {
	st, ok := s.stations[id]
	return st, ok
}

// Len returns the number of cached stations.
func (s *Snapshot) Len() int {
	return len(s.stations)
}

// Stations returns the cached stations sorted by severity (most urgent
// first), then by station code for a stable order.
func (s *Snapshot) Stations() []Station {
	out := make([]Station, 0, len(s.stations))
	for _, st := range s.stations {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := Severity(out[i].RiskLevel), Severity(out[j].RiskLevel)
		if si != sj {
			return si > sj
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// CountByRisk tallies stations per risk level for the status bar.
func (s *Snapshot) CountByRisk() map[RiskLevel]int {
	counts := make(map[RiskLevel]int)
	for _, st := range s.stations {
		counts[st.RiskLevel]++
	}
	return counts
}
