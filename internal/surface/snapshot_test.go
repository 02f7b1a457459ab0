package surface

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/nowplaying/internal/animation"
	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/input"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

// inked reports whether the cell at (row, col) holds anything but the
// background colour.
func inked(img image.Image, row, col int) bool {
	bg := img.At(margin+col*cellW, margin+row*cellH)
	for y := margin + row*cellH; y < margin+(row+1)*cellH-cellGap; y++ {
		for x := margin + col*cellW; x < margin+(col+1)*cellW-cellGap; x++ {
			if img.At(x, y) != bg {
				return true
			}
		}
	}
	return false
}

func TestRenderGrid(t *testing.T) {
	img := Render(animation.Frame{"#", "  #"}, 4)

	b := img.Bounds()
	if b.Dx() != 2*margin+4*cellW || b.Dy() != 2*margin+2*cellH {
		t.Fatalf("bounds = %v", b)
	}
	if !inked(img, 0, 0) || !inked(img, 1, 2) {
		t.Fatal("glyphs missing from their cells")
	}
	if inked(img, 0, 1) || inked(img, 1, 0) || inked(img, 1, 3) {
		t.Fatal("blank cells should be empty")
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, animation.Frame{"Hi", ""}, 16); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRecorderSavesChangedFrames(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	inner := NewMemory(4)
	r, err := NewRecorder(inner, 4, dir, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	r.SetCursor(0, 0)
	r.Write("ab")
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	r.SetCursor(1, 0)
	r.Write("cd")
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	if r.Saved() != 2 {
		t.Fatalf("Saved() = %d, want 2", r.Saved())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 || entries[0].Name() != "frame-0001.png" || entries[1].Name() != "frame-0002.png" {
		t.Fatalf("unexpected files %v", entries)
	}
	if got := inner.Lines(); got != (animation.Frame{"ab  ", "cd  "}) {
		t.Fatalf("inner surface = %q", got)
	}
	if len(inner.Frames()) != 2 {
		t.Fatalf("inner surface was not flushed: %d frames", len(inner.Frames()))
	}
}

func TestTerminalModel(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	buttons := input.NewButtons(input.DefaultOffsets(), logger.New(logger.LevelOff, nil),
		input.WithClock(func() time.Time { return now }))
	term := NewTerminal(16, buttons, WithStatus(func() string { return "clock" }))

	term.SetCursor(0, 0)
	term.Write("12:00:01")

	var m tea.Model = term.model()
	m, _ = m.Update(tickMsg(now))
	view := m.View()
	if !strings.Contains(view, "12:00:01") || !strings.Contains(view, "mode: clock") {
		t.Fatalf("view missing display or status:\n%s", view)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	select {
	case ev := <-buttons.Events():
		if ev.Button != domain.ButtonNext {
			t.Fatalf("pressed %s, want NEXT", ev.Button)
		}
	default:
		t.Fatal("key press produced no button event")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q should return tea.Quit")
	}
}

func TestRecorderStopsAtMaxFrames(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRecorder(nil, 4, dir, logger.New(logger.LevelOff, nil), WithMaxFrames(3))
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	for i := 0; i < 8; i++ {
		r.SetCursor(0, 0)
		r.Write(strings.Repeat(string(rune('a'+i)), 4))
		if err := r.Flush(); err != nil {
			t.Fatalf("Flush %d: %v", i, err)
		}
	}

	if r.Saved() != 3 {
		t.Fatalf("Saved() = %d, want 3", r.Saved())
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("wrote %d files, want 3", len(entries))
	}
}

func TestTerminalRejectsWritesAfterQuit(t *testing.T) {
	buttons := input.NewButtons(input.DefaultOffsets(), logger.New(logger.LevelOff, nil))
	term := NewTerminal(16, buttons)

	if err := term.Write("before"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	term.done.Store(true)

	for name, err := range map[string]error{
		"clear":  term.Clear(),
		"cursor": term.SetCursor(0, 0),
		"write":  term.Write("after"),
	} {
		if !errors.Is(err, domain.ErrClosed) {
			t.Fatalf("%s after quit = %v, want ErrClosed", name, err)
		}
	}
	if got := term.Lines()[0]; got != "before          " {
		t.Fatalf("grid changed after quit: %q", got)
	}
	if len(term.Frames()) != 0 {
		t.Fatal("simulator should keep no frame history")
	}
}
