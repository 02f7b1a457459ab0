package surface

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/hammamikhairi/nowplaying/internal/animation"
	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

var _ domain.Surface = (*Parallel)(nil)

// HD44780 instruction bits.
const (
	cmdClear       = 0b00000001
	cmdEntryMode   = 0b00000100
	cmdDisplayMode = 0b00001000
	cmdFunction    = 0b00100000
	cmdDDAddress   = 0b10000000

	entryIncrement = 0b00000010
	displayOn      = 0b00000100
	function8Bit   = 0b00010000
	function2Lines = 0b00001000

	busyFlag = 0b10000000

	// DD RAM offset of the second line.
	row2Address = 0x40
)

// Datasheet execution times, used when the busy flag is not read.
const (
	execDelay  = 40 * time.Microsecond
	clearDelay = 1600 * time.Microsecond
)

// ParallelPins names the GPIO pins of an 8-bit parallel module.
type ParallelPins struct {
	RS, RW, E string
	DB        [8]string
}

// DefaultParallelPins is a wiring that stays clear of the button pins.
func DefaultParallelPins() ParallelPins {
	return ParallelPins{
		RS: "GPIO25",
		RW: "GPIO24",
		E:  "GPIO23",
		DB: [8]string{"GPIO5", "GPIO6", "GPIO12", "GPIO13", "GPIO16", "GPIO19", "GPIO20", "GPIO21"},
	}
}

// ParallelIO holds opened pins.
type ParallelIO struct {
	RS, RW, E gpio.PinIO    // register select, read/write, enable signal
	DB        [8]gpio.PinIO // data bits 0 - 7
}

// ParallelOption configures a Parallel surface.
type ParallelOption func(*Parallel)

// WithFixedDelays waits the datasheet execution times instead of
// polling the busy flag. Use it when RW is tied to ground.
func WithFixedDelays() ParallelOption {
	return func(p *Parallel) {
		p.poll = false
	}
}

// WithBusyTimeout bounds how long one operation may wait on the busy
// flag.
func WithBusyTimeout(d time.Duration) ParallelOption {
	return func(p *Parallel) {
		p.busyTimeout = d
	}
}

// Parallel drives an HD44780-compatible module in 8-bit mode.
type Parallel struct {
	io          ParallelIO
	width       int
	poll        bool
	busyTimeout time.Duration
	log         *logger.Logger

	err error // first pin failure of the current operation
}

// NewParallel initialises the module on pins.
func NewParallel(pins ParallelIO, width int, log *logger.Logger, opts ...ParallelOption) (*Parallel, error) {
	p := &Parallel{
		io:          pins,
		width:       width,
		poll:        true,
		busyTimeout: 10 * time.Millisecond,
		log:         log,
	}
	for _, opt := range opts {
		opt(p)
	}

	steps := []struct {
		name string
		a    uint8
	}{
		{"function set", cmdFunction | function8Bit | function2Lines},
		{"display on", cmdDisplayMode | displayOn},
		{"clear", cmdClear},
		{"entry mode", cmdEntryMode | entryIncrement},
	}
	for _, s := range steps {
		if err := p.function(s.a); err != nil {
			return nil, fmt.Errorf("init %s: %w", s.name, err)
		}
	}
	log.Info("parallel lcd ready (%dx%d, busy polling %t)", width, animation.Rows, p.poll)
	return p, nil
}

// OpenParallel initialises the host drivers and looks the pins up by
// name.
func OpenParallel(names ParallelPins, width int, log *logger.Logger, opts ...ParallelOption) (*Parallel, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	pin := func(name string) (gpio.PinIO, error) {
		p := gpioreg.ByName(name)
		if p == nil {
			return nil, fmt.Errorf("no such pin %q", name)
		}
		return p, nil
	}

	var pins ParallelIO
	var err error
	if pins.RS, err = pin(names.RS); err != nil {
		return nil, err
	}
	if pins.RW, err = pin(names.RW); err != nil {
		return nil, err
	}
	if pins.E, err = pin(names.E); err != nil {
		return nil, err
	}
	for i, n := range names.DB {
		if pins.DB[i], err = pin(n); err != nil {
			return nil, err
		}
	}
	return NewParallel(pins, width, log, opts...)
}

// Clear blanks the display and homes the cursor.
func (p *Parallel) Clear() error {
	return p.function(cmdClear)
}

// SetCursor moves the cursor to (row, col).
func (p *Parallel) SetCursor(row, col int) error {
	if row < 0 || row >= animation.Rows || col < 0 || col >= p.width {
		return fmt.Errorf("%w: cursor (%d,%d) off screen", domain.ErrRenderWrite, row, col)
	}
	return p.function(cmdDDAddress | uint8(row*row2Address+col))
}

// Write sends text at the cursor, cut at the right edge.
func (p *Parallel) Write(text string) error {
	if len(text) > p.width {
		text = text[:p.width]
	}
	for i := 0; i < len(text); i++ {
		if err := p.wait(); err != nil {
			return err
		}
		p.out(p.io.RS, gpio.High)
		p.writeByte(text[i])
		if err := p.flushErr("write"); err != nil {
			return err
		}
		if !p.poll {
			time.Sleep(execDelay)
		}
	}
	return nil
}

// function sends an instruction and waits for it when not polling.
func (p *Parallel) function(a uint8) error {
	if err := p.wait(); err != nil {
		return err
	}
	p.out(p.io.RS, gpio.Low)
	p.writeByte(a)
	if err := p.flushErr(fmt.Sprintf("instruction %#02x", a)); err != nil {
		return err
	}
	if !p.poll {
		if a == cmdClear {
			time.Sleep(clearDelay)
		} else {
			time.Sleep(execDelay)
		}
	}
	return nil
}

// wait blocks until the busy flag clears or the timeout passes.
func (p *Parallel) wait() error {
	if !p.poll {
		return nil
	}
	deadline := time.Now().Add(p.busyTimeout)
	for {
		p.out(p.io.RS, gpio.Low)
		bf := p.readByte()
		if err := p.flushErr("read busy flag"); err != nil {
			return err
		}
		if bf&busyFlag == 0 {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%w: busy flag stuck for %s", domain.ErrRenderWrite, p.busyTimeout)
		}
		time.Sleep(execDelay)
	}
}

func (p *Parallel) readByte() uint8 {
	for i := range p.io.DB {
		if err := p.io.DB[i].In(gpio.PullNoChange, gpio.NoEdge); err != nil && p.err == nil {
			p.err = err
		}
	}

	p.out(p.io.RW, gpio.High)
	time.Sleep(250 * time.Nanosecond) // tAS > 100ns
	p.out(p.io.E, gpio.High)
	time.Sleep(250 * time.Nanosecond) // tDDR < 190ns

	var b uint8
	for i := range p.io.DB {
		if p.io.DB[i].Read() {
			b |= 1 << i
		}
	}

	p.out(p.io.E, gpio.Low)
	time.Sleep(500 * time.Nanosecond) // tCYCE > 1000ns
	return b
}

func (p *Parallel) writeByte(b uint8) {
	p.out(p.io.RW, gpio.Low)
	time.Sleep(250 * time.Nanosecond) // tAS > 100ns
	p.out(p.io.E, gpio.High)

	for i := range p.io.DB {
		p.out(p.io.DB[i], b&(1<<i) != 0)
	}
	time.Sleep(250 * time.Nanosecond) // tDSW > 100ns

	p.out(p.io.E, gpio.Low)
	time.Sleep(500 * time.Nanosecond) // tCYCE > 1000ns
}

func (p *Parallel) out(pin gpio.PinIO, l gpio.Level) {
	if err := pin.Out(l); err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %w", pin, err)
	}
}

func (p *Parallel) flushErr(op string) error {
	err := p.err
	p.err = nil
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrRenderWrite, op, err)
	}
	return nil
}
