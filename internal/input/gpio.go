package input

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

// Offsets maps GPIO line offsets on the chip to buttons.
type Offsets map[int]domain.Button

// DefaultOffsets is the stock wiring: PREV 17, PLAY 18, NEXT 27,
// CYCLE 22.
func DefaultOffsets() Offsets {
	return Offsets{
		17: domain.ButtonPrev,
		18: domain.ButtonPlay,
		27: domain.ButtonNext,
		22: domain.ButtonCycle,
	}
}

// Option configures a Buttons source.
type Option func(*Buttons)

// WithDebounce sets the per-button debounce gap.
func WithDebounce(d time.Duration) Option {
	return func(b *Buttons) {
		b.debounce = NewDebouncer(d)
	}
}

// WithClock replaces time.Now for event timestamps and debouncing.
func WithClock(now func() time.Time) Option {
	return func(b *Buttons) {
		b.now = now
	}
}

// WithBuffer sets the event channel capacity.
func WithBuffer(n int) Option {
	return func(b *Buttons) {
		b.buffer = n
	}
}

// Buttons turns rising edges into button events. Presses that arrive
// while the channel is full are dropped, never queued.
type Buttons struct {
	offsets  Offsets
	debounce *Debouncer
	now      func() time.Time
	buffer   int
	events   chan domain.Event
	dropped  atomic.Int64
	log      *logger.Logger

	lines *gpiocdev.Lines
}

// NewButtons creates a source for offsets without touching hardware.
// Edges are fed through Press; OpenGPIO wires them to a chip.
func NewButtons(offsets Offsets, log *logger.Logger, opts ...Option) *Buttons {
	b := &Buttons{
		offsets:  offsets,
		debounce: NewDebouncer(DefaultDebounce),
		now:      time.Now,
		buffer:   8,
		log:      log,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.events = make(chan domain.Event, b.buffer)
	return b
}

// OpenGPIO requests the button lines on chip (e.g. "gpiochip0") as
// pulled-down inputs and watches their rising edges.
func OpenGPIO(chip string, offsets Offsets, log *logger.Logger, opts ...Option) (*Buttons, error) {
	b := NewButtons(offsets, log, opts...)

	lines := make([]int, 0, len(offsets))
	for off := range offsets {
		lines = append(lines, off)
	}

	req, err := gpiocdev.RequestLines(chip, lines,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithConsumer("nowplaying"),
		gpiocdev.WithEventHandler(b.handle),
	)
	if err != nil {
		return nil, fmt.Errorf("request lines %v on %s: %w", lines, chip, err)
	}
	b.lines = req
	log.Info("watching %d buttons on %s", len(lines), chip)
	return b, nil
}

// Events returns the channel button events are delivered on.
func (b *Buttons) Events() <-chan domain.Event { return b.events }

// Dropped returns how many accepted presses found the channel full.
func (b *Buttons) Dropped() int64 { return b.dropped.Load() }

// Close releases the GPIO lines.
func (b *Buttons) Close() error {
	if b.lines == nil {
		return nil
	}
	err := b.lines.Close()
	b.lines = nil
	return err
}

func (b *Buttons) handle(evt gpiocdev.LineEvent) {
	if evt.Type != gpiocdev.LineEventRisingEdge {
		return
	}
	btn, ok := b.offsets[evt.Offset]
	if !ok {
		b.log.Warn("edge on unmapped line %d", evt.Offset)
		return
	}
	b.Press(btn)
}

// Press reports a press of btn, subject to debouncing.
func (b *Buttons) Press(btn domain.Button) bool {
	now := b.now()
	if !b.debounce.Accept(btn, now) {
		b.log.Debug("%s bounced", btn)
		return false
	}
	select {
	case b.events <- domain.Event{Kind: domain.EventButton, Button: btn, At: now}:
		return true
	default:
		b.dropped.Add(1)
		b.log.Warn("%s dropped, driver is behind", btn)
		return false
	}
}
