package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	heatmap "pomo/internal/modules/heatmap/domain"
	paneldomain "pomo/internal/modules/panel/domain"
	statsdomain "pomo/internal/modules/stats/domain"
	"pomo/internal/platform/clock"
	"pomo/internal/ui/components"
	"pomo/internal/ui/theme"
	statsview "pomo/internal/ui/views/stats"
	timerview "pomo/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

// panelPort is the inbound edge of the session panel actor. The UI only
// ever enqueues events; state comes back as outbound events delivered
// through tea.Program.Send.
type panelPort interface {
	Dispatch(paneldomain.Inbound)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Stats"}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Toggle  key.Binding
	Add     key.Binding
	Sync    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add session")),
		Sync:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "sync now")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Add, k.Sync},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model: tab routing, the command palette,
// and the bridge between UI intent and the panel actor. All session state
// lives behind the actor; the views render whatever it last emitted.
type Model struct {
	panel panelPort

	timerView timerview.Model
	statsView statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(panel panelPort, clk clock.Clock, palette heatmap.Palette) Model {
	return Model{
		panel:     panel,
		timerView: timerview.New(),
		statsView: statsview.New(clk, palette),
		activeTab: tabTimer,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		m.panel.Dispatch(paneldomain.Mounted{})
		return nil
	}
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	// Outbound panel events arrive via tea.Program.Send.
	case paneldomain.StatsRender:
		m.statsView.SetStats(msg)

	case paneldomain.SyncChanged:
		m.statsView.SetSync(msg.Sync)
		switch {
		case msg.Sync.Syncing:
			m.status = "syncing…"
		case msg.Sync.Failed:
			m.status = "sync failed"
		case msg.Sync.Linked:
			m.status = "synced"
		default:
			m.status = "ready"
		}

	case timerview.WorkCompleteMsg:
		m.panel.Dispatch(paneldomain.SessionCompleted{})
		m.status = "session recorded — take a break"

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			cmds = append(cmds, m.palette.Open())
			return m, tea.Batch(cmds...)
		case "a":
			m.panel.Dispatch(paneldomain.SessionCompleted{})
			m.status = "session added"
		case "S":
			m.panel.Dispatch(paneldomain.Mounted{})
			m.status = "syncing…"
		}
	}

	// Propagate the message to the active tab's sub-view; the timer keeps
	// ticking even while the stats tab is in front.
	var timerCmd tea.Cmd
	m.timerView, timerCmd = m.timerView.Update(msg)
	cmds = append(cmds, timerCmd)
	if m.activeTab == tabStats {
		var statsCmd tea.Cmd
		m.statsView, statsCmd = m.statsView.Update(msg)
		cmds = append(cmds, statsCmd)
	}

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabStats:
		content = m.statsView.View()
	default:
		content = m.timerView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "pomo  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "session:add":
		event := paneldomain.SessionCompleted{}
		if len(parts) >= 2 {
			if !statsdomain.ValidDay(parts[1]) {
				m.status = "invalid date, want YYYY-MM-DD"
				return m, nil
			}
			event.Date = parts[1]
		}
		m.panel.Dispatch(event)
		m.status = "session added"

	case "sync:now":
		m.panel.Dispatch(paneldomain.Mounted{})
		m.status = "syncing…"

	case "timer:work":
		minutes, err := paletteMinutes(parts)
		if err != nil {
			m.status = "usage: timer:work <minutes>"
			return m, nil
		}
		m.timerView.SetWork(minutes)
		m.status = "work interval set"

	case "timer:break":
		minutes, err := paletteMinutes(parts)
		if err != nil {
			m.status = "usage: timer:break <minutes>"
			return m, nil
		}
		m.timerView.SetBreak(minutes)
		m.status = "break interval set"

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

func paletteMinutes(parts []string) (time.Duration, error) {
	if len(parts) < 2 {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil || n <= 0 {
		return 0, strconv.ErrSyntax
	}
	return time.Duration(n) * time.Minute, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
