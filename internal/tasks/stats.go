package tasks

import "math"

// Stats are the summary numbers shown above the list. They always cover the
// whole collection, not the filtered view.
type Stats struct {
	Total     int
	Completed int
	Pending   int
	Percent   int // completed share, rounded to the nearest integer
}

// StatsOf computes Stats for list.
func StatsOf(list []Task) Stats {
	var st Stats
	st.Total = len(list)
	for _, t := range list {
		if t.Completed {
			st.Completed++
		}
	}
	st.Pending = st.Total - st.Completed
	if st.Total > 0 {
		st.Percent = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}
	return st
}

// Ratio is Completed/Total in [0,1], for progress bars.
func (s Stats) Ratio() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Completed) / float64(s.Total)
}
