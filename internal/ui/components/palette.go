package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pomo/internal/ui/theme"
)

// PaletteSubmitMsg is emitted when the user confirms a command.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is emitted when the user presses esc.
type PaletteCancelMsg struct{}

var (
	paletteStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Peach).
			Background(theme.Mantle).
			Foreground(theme.Text).
			Padding(0, 1)

	promptStyle  = lipgloss.NewStyle().Foreground(theme.Peach)
	commandStyle = lipgloss.NewStyle().Foreground(theme.Text)
	helpStyle    = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// hint pairs a palette command with its one-line description. The command
// strings must stay in sync with the switch in app/model.go executePalette.
type hint struct {
	command string
	help    string
}

var paletteHints = []hint{
	{"session:add [date]", "record a finished session"},
	{"sync:now", "reconcile with the remote"},
	{"timer:work <minutes>", "set the focus length"},
	{"timer:break <minutes>", "set the break length"},
}

const maxHints = 5

// Palette is a command-palette overlay backed by bubbles/textinput.
type Palette struct {
	input   textinput.Model
	visible bool
	width   int
}

// NewPalette creates an inactive Palette ready to be opened.
func NewPalette() Palette {
	ti := textinput.New()
	ti.Placeholder = "session:add, sync:now, ..."
	ti.CharLimit = 128
	return Palette{input: ti}
}

// Visible reports whether the palette is currently shown.
func (p Palette) Visible() bool { return p.visible }

// Open shows the palette, clears the input, and returns the focus command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.input.SetValue("")
	return p.input.Focus()
}

// SetWidth sets the render width for the overlay.
func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return p.close(), func() tea.Msg { return PaletteCancelMsg{} }
		case "enter":
			val := strings.TrimSpace(p.input.Value())
			return p.close(), func() tea.Msg { return PaletteSubmitMsg{Input: val} }
		case "tab":
			if m := p.matches(); len(m) == 1 {
				verb, _, _ := strings.Cut(m[0].command, " ")
				p.input.SetValue(verb)
				p.input.CursorEnd()
			}
			return p, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Palette) close() Palette {
	p.visible = false
	p.input.Blur()
	return p
}

// matches filters hints by the typed text anywhere in the command verb.
func (p Palette) matches() []hint {
	needle := strings.ToLower(strings.TrimSpace(p.input.Value()))
	var out []hint
	for _, h := range paletteHints {
		if needle == "" || strings.Contains(h.command, needle) {
			out = append(out, h)
			if len(out) == maxHints {
				break
			}
		}
	}
	return out
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	matching := p.matches()

	widest := 0
	for _, h := range matching {
		if len(h.command) > widest {
			widest = len(h.command)
		}
	}

	lines := []string{promptStyle.Render("❯ ") + p.input.View()}
	for _, h := range matching {
		padded := fmt.Sprintf("%-*s", widest, h.command)
		lines = append(lines, "  "+commandStyle.Render(padded)+"  "+helpStyle.Render(h.help))
	}

	w := p.width
	if w < 24 {
		w = 64
	}
	return paletteStyle.Width(w - 2).Render(strings.Join(lines, "\n"))
}
