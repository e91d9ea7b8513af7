package domain

import "time"

// MaxBucket is the highest heatmap intensity bucket.
const MaxBucket = 4

// Projection is the streak/heatmap summary derived from a history. The
// authoritative projection comes from a configured stats provider; this
// package holds the client-side fallback both sides agree on.
type Projection struct {
	Streak  int
	Buckets map[string]int
}

// Streak counts consecutive days with at least one session, walking
// backward from today and stopping at the first zero or absent date.
// Gaps earlier in the history do not affect the run ending at today.
func Streak(h History, today time.Time) int {
	streak := 0
	day := today
	for h.CountOn(Day(day)) > 0 {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// BucketFor maps a day's count to an intensity bucket in [0,MaxBucket].
// Monotonic non-decreasing; zero count is always bucket 0. Provider-supplied
// buckets take precedence over this fallback.
func BucketFor(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 4:
		return 2
	case count <= 6:
		return 3
	default:
		return MaxBucket
	}
}

// Project computes the fallback projection for a history.
func Project(h History, today time.Time) Projection {
	buckets := make(map[string]int, len(h))
	for _, r := range h {
		buckets[r.Date] = BucketFor(r.Count)
	}
	return Projection{Streak: Streak(h, today), Buckets: buckets}
}
