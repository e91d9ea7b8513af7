package domain

import (
	"strings"
	"testing"
	"time"

	stats "pomo/internal/modules/stats/domain"
)

func testDays(t *testing.T, start string, n int) []Day {
	t.Helper()
	first, err := time.Parse(stats.DayFormat, start)
	if err != nil {
		t.Fatalf("parse start date: %v", err)
	}
	days := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, Day{Date: stats.Day(first.AddDate(0, 0, i))})
	}
	return days
}

func TestLayoutCornerCells(t *testing.T) {
	t.Parallel()
	days := testDays(t, "2024-01-01", WindowDays)
	grid := Layout(days, DefaultOptions(DarkPalette))
	if len(grid.Cells) != WindowDays {
		t.Fatalf("expected %d cells, got %d", WindowDays, len(grid.Cells))
	}
	first := grid.Cells[0]
	if first.Column != 0 || first.Row != 0 {
		t.Fatalf("oldest day must land at column 0 row 0, got %d,%d", first.Column, first.Row)
	}
	last := grid.Cells[WindowDays-1]
	if last.Column != Columns-1 {
		t.Fatalf("newest day must land in the last column, got %d", last.Column)
	}
	if last.Row != Rows-1 {
		t.Fatalf("newest day must land in the last row, got %d", last.Row)
	}
}

func TestLayoutPixelPositions(t *testing.T) {
	t.Parallel()
	opts := Options{CellSize: 10, Gap: 2, LabelHeight: 20, MinLabelGap: 28, Palette: DarkPalette}
	days := testDays(t, "2024-01-01", 15)
	grid := Layout(days, opts)
	// index 8: column 1, row 1
	cell := grid.Cells[8]
	if cell.X != 12 || cell.Y != 32 {
		t.Fatalf("expected position (12,32), got (%d,%d)", cell.X, cell.Y)
	}
}

func TestLayoutLabelSuppression(t *testing.T) {
	t.Parallel()
	// Jan 25 .. Feb 7: the February boundary falls in column 1, only
	// 15px right of the January label.
	days := testDays(t, "2024-01-25", 14)
	opts := Options{CellSize: 12, Gap: 3, LabelHeight: 16, MinLabelGap: 28, Palette: DarkPalette}
	grid := Layout(days, opts)
	if len(grid.Labels) != 1 {
		t.Fatalf("expected close month boundaries to emit one label, got %d", len(grid.Labels))
	}
	if grid.Labels[0].Text != "Jan" {
		t.Fatalf("expected the first boundary to win, got %s", grid.Labels[0].Text)
	}

	opts.MinLabelGap = 10
	grid = Layout(days, opts)
	if len(grid.Labels) != 2 {
		t.Fatalf("expected both labels with a small gap, got %d", len(grid.Labels))
	}
	if grid.Labels[1].Text != "Feb" || grid.Labels[1].Column != 1 {
		t.Fatalf("unexpected second label: %+v", grid.Labels[1])
	}
}

func TestBuildDaysWindowEndsAtToday(t *testing.T) {
	t.Parallel()
	today, _ := time.Parse(stats.DayFormat, "2024-06-01")
	history := stats.History{{Date: "2024-06-01", Count: 3}}
	days := BuildDays(history, nil, today)
	if len(days) != WindowDays {
		t.Fatalf("expected %d days, got %d", WindowDays, len(days))
	}
	newest := days[len(days)-1]
	if newest.Date != "2024-06-01" {
		t.Fatalf("window must end at today, got %s", newest.Date)
	}
	if newest.Count != 3 || newest.Bucket != stats.BucketFor(3) {
		t.Fatalf("unexpected newest day: %+v", newest)
	}
	oldest := days[0]
	want := stats.Day(today.AddDate(0, 0, -(WindowDays - 1)))
	if oldest.Date != want {
		t.Fatalf("window must start %d days back: expected %s got %s", WindowDays-1, want, oldest.Date)
	}
}

func TestBuildDaysPrefersProviderBuckets(t *testing.T) {
	t.Parallel()
	today, _ := time.Parse(stats.DayFormat, "2024-06-01")
	history := stats.History{{Date: "2024-06-01", Count: 1}}
	buckets := map[string]int{"2024-06-01": 4}
	days := BuildDays(history, buckets, today)
	if got := days[len(days)-1].Bucket; got != 4 {
		t.Fatalf("provider bucket must be preserved verbatim, got %d", got)
	}
}

func TestPaletteClampsOutOfRangeBucket(t *testing.T) {
	t.Parallel()
	if DarkPalette.Color(-1) != DarkPalette[0] {
		t.Fatalf("negative bucket must clamp to first entry")
	}
	if DarkPalette.Color(99) != DarkPalette[0] {
		t.Fatalf("oversized bucket must clamp to first entry")
	}
	if DarkPalette.Color(2) != DarkPalette[2] {
		t.Fatalf("in-range bucket must index the palette")
	}
}

func TestSVGContainsCellsAndLabels(t *testing.T) {
	t.Parallel()
	days := testDays(t, "2024-01-01", WindowDays)
	days[len(days)-1].Count = 5
	days[len(days)-1].Bucket = 3
	opts := DefaultOptions(LightPalette)
	grid := Layout(days, opts)
	svg := SVG(grid, opts, "#ffffff")
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("malformed svg document")
	}
	if !strings.Contains(svg, LightPalette[3]) {
		t.Fatalf("expected bucket color in svg output")
	}
	if !strings.Contains(svg, ">Jan<") {
		t.Fatalf("expected month label in svg output")
	}
}
