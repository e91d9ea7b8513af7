package domain

import (
	"testing"
	"time"
)

func TestAddIncrementsExistingDate(t *testing.T) {
	t.Parallel()
	h := History{}.Add("2024-01-01").Add("2024-01-01")
	if len(h) != 1 {
		t.Fatalf("expected one record, got %d", len(h))
	}
	if h[0] != (Record{Date: "2024-01-01", Count: 2}) {
		t.Fatalf("unexpected record: %+v", h[0])
	}
}

func TestAddKeepsDescendingOrder(t *testing.T) {
	t.Parallel()
	h := History{}.Add("2024-01-01").Add("2024-01-03").Add("2024-01-02")
	want := []string{"2024-01-03", "2024-01-02", "2024-01-01"}
	for i, date := range want {
		if h[i].Date != date {
			t.Fatalf("position %d: expected %s got %s", i, date, h[i].Date)
		}
	}
}

func TestAddDoesNotMutateReceiver(t *testing.T) {
	t.Parallel()
	original := History{{Date: "2024-01-01", Count: 1}}
	_ = original.Add("2024-01-01")
	if original.CountOn("2024-01-01") != 1 {
		t.Fatalf("receiver mutated: %+v", original)
	}
}

func TestMergeTakesMaxPerDate(t *testing.T) {
	t.Parallel()
	local := History{{Date: "2024-01-01", Count: 1}}
	remote := History{{Date: "2024-01-01", Count: 3}, {Date: "2024-01-02", Count: 1}}
	merged := Merge(local, remote)
	want := History{{Date: "2024-01-02", Count: 1}, {Date: "2024-01-01", Count: 3}}
	if !merged.Equal(want) {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
}

func TestMergeProperties(t *testing.T) {
	t.Parallel()
	histories := []History{
		nil,
		{},
		{{Date: "2024-01-01", Count: 1}},
		{{Date: "2024-01-02", Count: 4}, {Date: "2024-01-01", Count: 2}},
		{{Date: "2023-12-31", Count: 7}, {Date: "2024-01-02", Count: 1}},
	}
	for _, a := range histories {
		for _, b := range histories {
			ab := Merge(a, b)
			ba := Merge(b, a)
			if !ab.Equal(ba) {
				t.Fatalf("merge not commutative: %+v vs %+v", ab, ba)
			}
			if again := Merge(ab, b); !again.Equal(ab) {
				t.Fatalf("merge not absorbing: %+v vs %+v", again, ab)
			}
		}
		if self := Merge(a, a); !self.Equal(Sanitize(a)) {
			t.Fatalf("merge not idempotent: %+v", self)
		}
	}
}

func TestSanitizeDropsMalformedRecords(t *testing.T) {
	t.Parallel()
	dirty := History{
		{Date: "not-a-date", Count: 3},
		{Date: "2024-01-01", Count: -1},
		{Date: "2024-01-02", Count: 2},
		{Date: "2024-01-02", Count: 5},
	}
	clean := Sanitize(dirty)
	want := History{{Date: "2024-01-02", Count: 5}}
	if !clean.Equal(want) {
		t.Fatalf("unexpected sanitized history: %+v", clean)
	}
}

func TestSanitizeEmptyInput(t *testing.T) {
	t.Parallel()
	if got := Sanitize(nil); len(got) != 0 {
		t.Fatalf("expected empty history, got %+v", got)
	}
}

func TestCountOnAbsentDate(t *testing.T) {
	t.Parallel()
	h := History{{Date: "2024-01-01", Count: 2}}
	if h.CountOn("2024-01-02") != 0 {
		t.Fatalf("expected 0 for absent date")
	}
}

func TestDayUsesLocalCalendarDate(t *testing.T) {
	t.Parallel()
	moment := time.Date(2024, 3, 9, 23, 30, 0, 0, time.FixedZone("X", -8*3600))
	if got := Day(moment); got != "2024-03-09" {
		t.Fatalf("expected 2024-03-09, got %s", got)
	}
}
