package domain

import (
	"time"

	stats "pomo/internal/modules/stats/domain"
)

// WindowDays is the heatmap window: 52 full weeks ending at today.
const (
	WindowDays = 364
	Rows       = 7
	Columns    = WindowDays / Rows
)

// Day is one cell's input: a date with its count and intensity bucket.
type Day struct {
	Date   string
	Count  int
	Bucket int
}

// Cell is one positioned, colored grid cell.
type Cell struct {
	Date   string
	Count  int
	Bucket int
	Column int
	Row    int
	X      int
	Y      int
	Color  string
}

// Label is a month marker above the grid.
type Label struct {
	Text   string
	Column int
	X      int
}

type Grid struct {
	Cells  []Cell
	Labels []Label
	Width  int
	Height int
}

type Options struct {
	CellSize    int
	Gap         int
	LabelHeight int
	MinLabelGap int
	Palette     Palette
}

func DefaultOptions(palette Palette) Options {
	return Options{CellSize: 12, Gap: 3, LabelHeight: 16, MinLabelGap: 28, Palette: palette}
}

// BuildDays expands a history into the 364-day window ending at today,
// oldest first. Provider buckets are used verbatim when supplied; otherwise
// each day falls back to the local bucket function.
func BuildDays(history stats.History, buckets map[string]int, today time.Time) []Day {
	days := make([]Day, 0, WindowDays)
	for offset := WindowDays - 1; offset >= 0; offset-- {
		date := stats.Day(today.AddDate(0, 0, -offset))
		count := history.CountOn(date)
		bucket := 0
		if buckets != nil {
			bucket = buckets[date]
		} else {
			bucket = stats.BucketFor(count)
		}
		days = append(days, Day{Date: date, Count: count, Bucket: bucket})
	}
	return days
}

// Layout projects the day sequence onto a column-major 7-row grid: day
// index i lands at column i/7, row i%7, so index 0 is the top-left cell and
// the newest day ends the last column. Month labels are emitted at each
// (year, month) transition column, suppressed when closer than MinLabelGap
// to the previously emitted label so adjacent boundaries cannot overlap.
func Layout(days []Day, opts Options) Grid {
	step := opts.CellSize + opts.Gap
	columns := (len(days) + Rows - 1) / Rows

	grid := Grid{
		Cells:  make([]Cell, 0, len(days)),
		Width:  columns * step,
		Height: opts.LabelHeight + Rows*step,
	}
	for i, day := range days {
		column := i / Rows
		row := i % Rows
		grid.Cells = append(grid.Cells, Cell{
			Date:   day.Date,
			Count:  day.Count,
			Bucket: day.Bucket,
			Column: column,
			Row:    row,
			X:      column * step,
			Y:      opts.LabelHeight + row*step,
			Color:  opts.Palette.Color(day.Bucket),
		})
	}

	lastKey := ""
	lastX := -1 << 30
	for i, day := range days {
		t, err := time.Parse(stats.DayFormat, day.Date)
		if err != nil {
			continue
		}
		key := t.Format("2006-01")
		if key == lastKey {
			continue
		}
		lastKey = key
		column := i / Rows
		x := column * step
		if x-lastX < opts.MinLabelGap {
			continue
		}
		lastX = x
		grid.Labels = append(grid.Labels, Label{Text: t.Format("Jan"), Column: column, X: x})
	}
	return grid
}
