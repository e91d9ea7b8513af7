package stats

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	heatmap "pomo/internal/modules/heatmap/domain"
	paneldomain "pomo/internal/modules/panel/domain"
	statsdomain "pomo/internal/modules/stats/domain"
	"pomo/internal/platform/clock"
	"pomo/internal/ui/theme"
)

// cellWidth is the printed width of one heatmap cell ("■ ").
const cellWidth = 2

// Model renders the session heatmap, streak, and sync state. It holds no
// business logic; the panel actor pushes fresh state in via SetStats and
// SetSync.
type Model struct {
	clock        clock.Clock
	palette      heatmap.Palette
	history      statsdomain.History
	projection   statsdomain.Projection
	fromProvider bool
	sync         paneldomain.SyncStatus
	hasData      bool
	width        int
	height       int
}

func New(clk clock.Clock, palette heatmap.Palette) Model {
	return Model{clock: clk, palette: palette}
}

func (m *Model) SetStats(render paneldomain.StatsRender) {
	m.history = render.History
	m.projection = render.Projection
	m.fromProvider = render.FromProvider
	m.sync = render.Sync
	m.hasData = true
}

func (m *Model) SetSync(sync paneldomain.SyncStatus) {
	m.sync = sync
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m Model) View() string {
	if !m.hasData {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Loading sessions…"))
	}

	days := heatmap.BuildDays(m.history, m.projection.Buckets, m.clock.Now())
	columns := m.visibleColumns()
	if keep := columns * heatmap.Rows; keep < len(days) {
		days = days[len(days)-keep:]
	}
	grid := heatmap.Layout(days, heatmap.DefaultOptions(m.palette))

	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Sessions — last "+fmt.Sprintf("%d", columns)+" weeks") + "\n\n")
	sb.WriteString(m.renderLabels(grid, columns) + "\n")
	sb.WriteString(m.renderCells(grid, columns))
	sb.WriteString("\n" + m.renderSummary())

	return theme.Pane.Render(sb.String())
}

// visibleColumns shrinks the window to what the terminal can show,
// dropping the oldest weeks first.
func (m Model) visibleColumns() int {
	columns := heatmap.Columns
	if m.width <= 0 {
		return columns
	}
	avail := (m.width - 6) / cellWidth
	if avail < 4 {
		avail = 4
	}
	if avail < columns {
		columns = avail
	}
	return columns
}

func (m Model) renderLabels(grid heatmap.Grid, columns int) string {
	row := make([]rune, columns*cellWidth)
	for i := range row {
		row[i] = ' '
	}
	for _, label := range grid.Labels {
		at := label.Column * cellWidth
		for i, r := range label.Text {
			if at+i >= len(row) {
				break
			}
			row[at+i] = r
		}
	}
	return theme.Muted.Render(string(row))
}

func (m Model) renderCells(grid heatmap.Grid, columns int) string {
	var sb strings.Builder
	for r := 0; r < heatmap.Rows; r++ {
		for c := 0; c < columns; c++ {
			i := c*heatmap.Rows + r
			if i >= len(grid.Cells) {
				sb.WriteString("  ")
				continue
			}
			cell := grid.Cells[i]
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(cell.Color)).
				Render("■ "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m Model) renderSummary() string {
	streak := theme.Hot.Render(fmt.Sprintf("%d day streak", m.projection.Streak))
	total := theme.Muted.Render(fmt.Sprintf("%d sessions total", m.history.Total()))

	source := theme.Muted.Render("local stats")
	if m.fromProvider {
		source = theme.Muted.Render("provider stats")
	}

	var sync string
	switch {
	case m.sync.Syncing:
		sync = theme.Muted.Render("syncing…")
	case m.sync.Failed:
		sync = theme.Bad.Render("sync failed")
	case m.sync.Linked:
		sync = theme.Good.Render("synced")
	default:
		sync = theme.Muted.Render("not linked")
	}

	return streak + "  " + total + "  " + source + "  " + sync
}
