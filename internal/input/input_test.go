package input

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(300 * time.Millisecond)

	steps := []struct {
		b    domain.Button
		at   time.Duration
		want bool
	}{
		{domain.ButtonPlay, 0, true},
		{domain.ButtonPlay, 100 * time.Millisecond, false},
		{domain.ButtonNext, 150 * time.Millisecond, true},
		{domain.ButtonPlay, 299 * time.Millisecond, false},
		{domain.ButtonPlay, 300 * time.Millisecond, true},
		{domain.ButtonNext, 400 * time.Millisecond, false},
		{domain.ButtonNext, time.Second, true},
	}
	for i, s := range steps {
		if got := d.Accept(s.b, t0.Add(s.at)); got != s.want {
			t.Fatalf("step %d: Accept(%s, +%s) = %t, want %t", i, s.b, s.at, got, s.want)
		}
	}
}

func TestButtonsPressDeliversEvent(t *testing.T) {
	now := t0
	b := NewButtons(DefaultOffsets(), logger.New(logger.LevelOff, nil),
		WithClock(func() time.Time { return now }))

	if !b.Press(domain.ButtonCycle) {
		t.Fatal("first press rejected")
	}
	if b.Press(domain.ButtonCycle) {
		t.Fatal("bounce accepted")
	}

	select {
	case ev := <-b.Events():
		if ev.Kind != domain.EventButton || ev.Button != domain.ButtonCycle || !ev.At.Equal(t0) {
			t.Fatalf("unexpected event %+v", ev)
		}
	default:
		t.Fatal("no event delivered")
	}
	select {
	case ev := <-b.Events():
		t.Fatalf("bounce delivered %+v", ev)
	default:
	}
}

func TestButtonsDropWhenFull(t *testing.T) {
	now := t0
	b := NewButtons(DefaultOffsets(), logger.New(logger.LevelOff, nil),
		WithBuffer(1),
		WithDebounce(0),
		WithClock(func() time.Time { return now }))

	if !b.Press(domain.ButtonPlay) {
		t.Fatal("first press should fit")
	}
	now = now.Add(time.Second)
	if b.Press(domain.ButtonNext) {
		t.Fatal("press into a full channel should be dropped")
	}
	if b.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", b.Dropped())
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close without lines: %v", err)
	}
}

func TestDefaultOffsets(t *testing.T) {
	want := map[int]domain.Button{
		17: domain.ButtonPrev,
		18: domain.ButtonPlay,
		27: domain.ButtonNext,
		22: domain.ButtonCycle,
	}
	got := DefaultOffsets()
	if len(got) != len(want) {
		t.Fatalf("got %d offsets, want %d", len(got), len(want))
	}
	for off, btn := range want {
		if got[off] != btn {
			t.Fatalf("offset %d = %s, want %s", off, got[off], btn)
		}
	}
}

func TestKeyMapButton(t *testing.T) {
	runes := func(s string) tea.KeyMsg {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want domain.Button
		ok   bool
	}{
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, domain.ButtonPrev, true},
		{"p", runes("p"), domain.ButtonPrev, true},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, domain.ButtonPlay, true},
		{"right arrow", tea.KeyMsg{Type: tea.KeyRight}, domain.ButtonNext, true},
		{"n", runes("n"), domain.ButtonNext, true},
		{"m", runes("m"), domain.ButtonCycle, true},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, domain.ButtonCycle, true},
		{"q is not a button", runes("q"), 0, false},
		{"x", runes("x"), 0, false},
	}
	keys := DefaultKeyMap()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := keys.Button(tt.msg)
			if ok != tt.ok || (ok && got != tt.want) {
				t.Fatalf("Button(%q) = %s, %t; want %s, %t", tt.msg.String(), got, ok, tt.want, tt.ok)
			}
		})
	}
}
