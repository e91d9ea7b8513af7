package domain

import (
	"sort"
	"time"
)

const DayFormat = "2006-01-02"

// Record is one calendar day's completed-session tally.
type Record struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// History is a session history: at most one record per date, kept sorted
// descending by date. The zero value is a valid empty history.
type History []Record

// Day renders t as a device-local calendar date.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}

func ValidDay(date string) bool {
	_, err := time.Parse(DayFormat, date)
	return err == nil
}

// CountOn returns the count recorded for date, 0 when absent.
func (h History) CountOn(date string) int {
	for _, r := range h {
		if r.Date == date {
			return r.Count
		}
	}
	return 0
}

// Add increments date's count, inserting a new record when the date is
// unseen. The receiver is not modified.
func (h History) Add(date string) History {
	out := make(History, 0, len(h)+1)
	found := false
	for _, r := range h {
		if r.Date == date {
			r.Count++
			found = true
		}
		out = append(out, r)
	}
	if !found {
		out = append(out, Record{Date: date, Count: 1})
	}
	out.sortDescending()
	return out
}

// Total returns the sum of all counts.
func (h History) Total() int {
	total := 0
	for _, r := range h {
		total += r.Count
	}
	return total
}

func (h History) Equal(other History) bool {
	if len(h) != len(other) {
		return false
	}
	for i := range h {
		if h[i] != other[i] {
			return false
		}
	}
	return true
}

func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Sanitize coerces arbitrary decoded input into a valid history: records
// with unparseable dates or negative counts are dropped, duplicate dates
// collapse to their maximum count, and the result is re-sorted. A malformed
// remote payload therefore degrades to contributing nothing.
func Sanitize(h History) History {
	byDate := make(map[string]int, len(h))
	for _, r := range h {
		if !ValidDay(r.Date) || r.Count < 0 {
			continue
		}
		if current, ok := byDate[r.Date]; !ok || r.Count > current {
			byDate[r.Date] = r.Count
		}
	}
	out := make(History, 0, len(byDate))
	for date, count := range byDate {
		out = append(out, Record{Date: date, Count: count})
	}
	out.sortDescending()
	return out
}

// Merge reconciles two histories with no common causal history into one
// lossless union. For each date the merged count is the maximum of the two
// sides: both devices may have observed the same completed session through
// different paths, so summing would double-count, while the maximum never
// loses a recorded event and never fabricates one. Merge is commutative and
// idempotent, so replaying a stale merge cannot regress state.
func Merge(a, b History) History {
	merged := make(map[string]int, len(a)+len(b))
	for _, r := range Sanitize(a) {
		merged[r.Date] = r.Count
	}
	for _, r := range Sanitize(b) {
		if current, ok := merged[r.Date]; !ok || r.Count > current {
			merged[r.Date] = r.Count
		}
	}
	out := make(History, 0, len(merged))
	for date, count := range merged {
		out = append(out, Record{Date: date, Count: count})
	}
	out.sortDescending()
	return out
}

func (h History) sortDescending() {
	sort.Slice(h, func(i, j int) bool { return h[i].Date > h[j].Date })
}
