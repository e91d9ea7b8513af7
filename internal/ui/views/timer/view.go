package timer

import (
	"fmt"
	"time"

	btimer "github.com/charmbracelet/bubbles/timer"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomo/internal/ui/theme"
)

// WorkCompleteMsg bubbles up to the root model when a work interval runs
// down to zero, so the completed session can be recorded.
type WorkCompleteMsg struct{}

type phase int

const (
	phaseWork phase = iota
	phaseBreak
)

const (
	DefaultWork  = 25 * time.Minute
	DefaultBreak = 5 * time.Minute
)

// Model is the pomodoro countdown. The clock starts paused; space toggles
// it. A finished work interval rolls into the break automatically, a
// finished break waits for the user.
type Model struct {
	clock   btimer.Model
	phase   phase
	work    time.Duration
	rest    time.Duration
	started bool
	width   int
	height  int
}

func New() Model {
	return Model{
		clock: btimer.NewWithInterval(DefaultWork, time.Second),
		work:  DefaultWork,
		rest:  DefaultBreak,
	}
}

// SetWork replaces the work interval length and resets the clock.
func (m *Model) SetWork(d time.Duration) {
	if d <= 0 {
		return
	}
	m.work = d
	m.resetTo(phaseWork)
}

// SetBreak replaces the break interval length.
func (m *Model) SetBreak(d time.Duration) {
	if d <= 0 {
		return
	}
	m.rest = d
	if m.phase == phaseBreak {
		m.resetTo(phaseBreak)
	}
}

func (m *Model) resetTo(p phase) {
	m.phase = p
	m.started = false
	d := m.work
	if p == phaseBreak {
		d = m.rest
	}
	m.clock = btimer.NewWithInterval(d, time.Second)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case btimer.TimeoutMsg:
		if msg.ID != m.clock.ID() {
			return m, nil
		}
		if m.phase == phaseWork {
			// Roll straight into the break; the session event bubbles up.
			m.resetTo(phaseBreak)
			m.started = true
			return m, tea.Batch(m.clock.Init(), func() tea.Msg { return WorkCompleteMsg{} })
		}
		m.resetTo(phaseWork)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case " ", "space":
			if !m.started {
				m.started = true
				return m, m.clock.Init()
			}
			return m, m.clock.Toggle()
		case "r":
			m.resetTo(phaseWork)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.clock, cmd = m.clock.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	label := "Focus"
	style := theme.Hot
	if m.phase == phaseBreak {
		label = "Break"
		style = theme.Good
	}

	state := "paused"
	if m.started && m.clock.Running() {
		state = "running"
	}

	remaining := m.clock.Timeout
	if remaining < 0 {
		remaining = 0
	}
	readout := fmt.Sprintf("%02d:%02d", int(remaining.Minutes()), int(remaining.Seconds())%60)

	body := lipgloss.JoinVertical(lipgloss.Center,
		style.Render(label),
		"",
		theme.Clock.Render(readout),
		"",
		theme.Muted.Render(state),
		"",
		theme.Muted.Render("space:start/pause  r:reset"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		theme.Pane.Render(body))
}
