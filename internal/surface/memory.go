// Package surface holds the render surfaces the driver can draw on: real
// HD44780 modules (I2C backpack or 8-bit parallel), an in-memory grid, a
// terminal simulator and a PNG recorder.
//
// Every surface behaves like the hardware: writes start at the cursor,
// advance it one cell per byte and are dropped past the last column.
package surface

import (
	"fmt"
	"strings"
	"sync"

	"github.com/hammamikhairi/nowplaying/internal/animation"
	"github.com/hammamikhairi/nowplaying/internal/domain"
)

var _ domain.Surface = (*Memory)(nil)
var _ domain.Flusher = (*Memory)(nil)

// DefaultHistory is how many flushed frames a Memory keeps by default.
const DefaultHistory = 512

// MemoryOption configures a Memory.
type MemoryOption func(*Memory)

// WithHistory keeps at most n flushed frames, dropping the oldest.
// Zero keeps none; Last still reports the newest frame.
func WithHistory(n int) MemoryOption {
	return func(m *Memory) {
		if n < 0 {
			n = 0
		}
		m.history = n
	}
}

// Memory is a character grid kept in memory. It records flushed frames
// that differ from the previous one in a bounded ring.
type Memory struct {
	mu       sync.Mutex
	width    int
	grid     [animation.Rows][]byte
	row, col int
	clears   int
	writes   int

	history int
	frames  []animation.Frame
	head    int // oldest entry once the ring is full
	last    animation.Frame
	flushed int
}

// NewMemory returns a blank grid width cells wide.
func NewMemory(width int, opts ...MemoryOption) *Memory {
	m := &Memory{width: width, history: DefaultHistory}
	for _, opt := range opts {
		opt(m)
	}
	m.blank()
	return m
}

func (m *Memory) blank() {
	for i := range m.grid {
		m.grid[i] = []byte(strings.Repeat(" ", m.width))
	}
	m.row, m.col = 0, 0
}

// Width returns the number of columns.
func (m *Memory) Width() int { return m.width }

// Clear blanks the grid and homes the cursor.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blank()
	m.clears++
	return nil
}

// SetCursor moves the cursor. Positions outside the grid are rejected.
func (m *Memory) SetCursor(row, col int) error {
	if row < 0 || row >= animation.Rows || col < 0 || col >= m.width {
		return fmt.Errorf("%w: cursor (%d,%d) outside %dx%d", domain.ErrRenderWrite, row, col, animation.Rows, m.width)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.row, m.col = row, col
	return nil
}

// Write puts text at the cursor. Bytes past the last column are dropped.
func (m *Memory) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < len(text) && m.col < m.width; i++ {
		m.grid[m.row][m.col] = text[i]
		m.col++
	}
	m.writes++
	return nil
}

// Flush records the current grid if it changed since the last flush.
func (m *Memory) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.frame()
	if m.flushed > 0 && m.last == f {
		return nil
	}
	m.last = f
	m.flushed++

	switch {
	case m.history == 0:
	case len(m.frames) < m.history:
		m.frames = append(m.frames, f)
	default:
		m.frames[m.head] = f
		m.head = (m.head + 1) % m.history
	}
	return nil
}

func (m *Memory) frame() animation.Frame {
	var f animation.Frame
	for i := range m.grid {
		f[i] = string(m.grid[i])
	}
	return f
}

// Lines returns what the grid shows right now.
func (m *Memory) Lines() animation.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frame()
}

// Frames returns a copy of the kept frame history, oldest first.
func (m *Memory) Frames() []animation.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]animation.Frame, len(m.frames))
	n := copy(out, m.frames[m.head:])
	copy(out[n:], m.frames[:m.head])
	return out
}

// Last returns the newest flushed frame and how many distinct frames
// were flushed so far. ok is false before the first flush.
func (m *Memory) Last() (f animation.Frame, seq int, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, m.flushed, m.flushed > 0
}

// Clears returns how many times the grid was cleared.
func (m *Memory) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// Writes returns how many Write calls reached the grid.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
