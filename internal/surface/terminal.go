package surface

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/nowplaying/internal/animation"
	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/input"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	bezelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#52525b")).
			Padding(0, 1)

	lcdStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#3f6212")).
			Foreground(lipgloss.Color("#ecfccb"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)
)

// refreshRate is how often the simulator repaints from the grid.
const refreshRate = 50 * time.Millisecond

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithStatus sets a function whose result is shown under the display,
// typically the current mode. It is called from the UI goroutine.
func WithStatus(fn func() string) TerminalOption {
	return func(t *Terminal) {
		t.status = fn
	}
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k input.KeyMap) TerminalOption {
	return func(t *Terminal) {
		t.keys = k
	}
}

// Terminal simulates the module in a terminal. Writes land in an
// in-memory grid that the Bubble Tea program repaints, and key presses
// become button events.
//
// Call [NewTerminal], wire the buttons' events into the driver, then
// [Terminal.Run] (blocking). Once Run returns, writes fail with
// [domain.ErrClosed].
type Terminal struct {
	*Memory

	program *tea.Program
	buttons *input.Buttons
	keys    input.KeyMap
	status  func() string
	quitCh  chan struct{}
	done    atomic.Bool
}

var _ domain.Surface = (*Terminal)(nil)

// NewTerminal creates the simulator. Key presses go through buttons,
// so they are debounced like the real panel.
func NewTerminal(width int, buttons *input.Buttons, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		Memory:  NewMemory(width, WithHistory(0)),
		buttons: buttons,
		keys:    input.DefaultKeyMap(),
		quitCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.program = tea.NewProgram(t.model())
	return t
}

// Quit tells Bubble Tea to exit. It may be called before Run starts.
func (t *Terminal) Quit() {
	if !t.done.Load() {
		t.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (t *Terminal) QuitChan() <-chan struct{} { return t.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (t *Terminal) Run() error {
	_, err := t.program.Run()
	t.done.Store(true)
	close(t.quitCh)
	return err
}

func (t *Terminal) closed() error {
	if t.done.Load() {
		return fmt.Errorf("simulator: %w", domain.ErrClosed)
	}
	return nil
}

// Clear blanks the grid unless the simulator has quit.
func (t *Terminal) Clear() error {
	if err := t.closed(); err != nil {
		return err
	}
	return t.Memory.Clear()
}

// SetCursor moves the cursor unless the simulator has quit.
func (t *Terminal) SetCursor(row, col int) error {
	if err := t.closed(); err != nil {
		return err
	}
	return t.Memory.SetCursor(row, col)
}

// Write puts text on the grid unless the simulator has quit.
func (t *Terminal) Write(text string) error {
	if err := t.closed(); err != nil {
		return err
	}
	return t.Memory.Write(text)
}

func (t *Terminal) model() model {
	return model{
		frame:  t.Lines,
		status: t.status,
		keys:   t.keys,
		help:   help.New(),
		press:  func(b domain.Button) { t.buttons.Press(b) },
		lines:  t.Lines(),
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	frame  func() animation.Frame
	status func() string
	keys   input.KeyMap
	help   help.Model
	press  func(domain.Button)

	lines animation.Frame
	state string
	full  bool
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if msg.String() == "?" {
			m.full = !m.full
			return m, nil
		}
		if b, ok := m.keys.Button(msg); ok {
			m.press(b)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		m.lines = m.frame()
		if m.status != nil {
			m.state = m.status()
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m model) View() string {
	rows := make([]string, len(m.lines))
	for i, l := range m.lines {
		rows[i] = lcdStyle.Render(l)
	}

	var b strings.Builder
	b.WriteString(bezelStyle.Render(strings.Join(rows, "\n")))
	b.WriteByte('\n')
	if m.state != "" {
		b.WriteString(statusStyle.Render(" mode: " + m.state))
		b.WriteByte('\n')
	}
	m.help.ShowAll = m.full
	b.WriteString(m.help.View(m.keys))
	b.WriteByte('\n')
	return b.String()
}
