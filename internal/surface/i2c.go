package surface

import (
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers/hd44780i2c"

	"github.com/hammamikhairi/nowplaying/internal/animation"
	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

// DefaultI2CAddress is the usual PCF8574 backpack address.
const DefaultI2CAddress = 0x27

var _ domain.Surface = (*I2C)(nil)

// Bus is the one I2C call the backpack needs. periph's i2c.Bus
// implements it.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

// bus adapts a Bus to the tinygo driver interface and remembers the
// first failure, since the driver drops errors on the floor.
type bus struct {
	b   Bus
	mu  sync.Mutex
	err error
}

func (b *bus) Tx(addr uint16, w, r []byte) error {
	err := b.b.Tx(addr, w, r)
	if err != nil {
		b.mu.Lock()
		if b.err == nil {
			b.err = err
		}
		b.mu.Unlock()
	}
	return err
}

func (b *bus) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *bus) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	w := make([]byte, 0, len(buf)+1)
	w = append(w, reg)
	w = append(w, buf...)
	return b.Tx(uint16(addr), w, nil)
}

// take returns and forgets the first error since the last call.
func (b *bus) take() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	err := b.err
	b.err = nil
	return err
}

// I2C drives an HD44780 through a PCF8574 backpack.
type I2C struct {
	bus    *bus
	dev    hd44780i2c.Device
	width  int
	closer io.Closer
	log    *logger.Logger
}

// NewI2C configures the module at addr on b.
func NewI2C(b Bus, addr uint8, width int, log *logger.Logger) (*I2C, error) {
	s := &I2C{
		bus:   &bus{b: b},
		width: width,
		log:   log,
	}
	s.dev = hd44780i2c.New(s.bus, addr)
	s.dev.Configure(hd44780i2c.Config{
		Width:  uint8(width),
		Height: animation.Rows,
	})
	if err := s.bus.take(); err != nil {
		return nil, fmt.Errorf("configure lcd at %#x: %w", addr, err)
	}
	log.Info("lcd ready at %#x (%dx%d)", addr, width, animation.Rows)
	return s, nil
}

// OpenI2C initialises the host drivers, opens the named bus ("" picks
// the first one) and configures the module on it.
func OpenI2C(busName string, addr uint8, width int, log *logger.Logger) (*I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}
	b, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	s, err := NewI2C(b, addr, width, log)
	if err != nil {
		b.Close()
		return nil, err
	}
	s.closer = b
	return s, nil
}

// Clear blanks the display and homes the cursor.
func (s *I2C) Clear() error {
	s.dev.ClearDisplay()
	return s.check("clear")
}

// SetCursor moves the cursor to (row, col).
func (s *I2C) SetCursor(row, col int) error {
	if row < 0 || row >= animation.Rows || col < 0 || col >= s.width {
		return fmt.Errorf("%w: cursor (%d,%d) off screen", domain.ErrRenderWrite, row, col)
	}
	s.dev.SetCursor(uint8(col), uint8(row))
	return s.check("set cursor")
}

// Write prints text at the cursor, cut at the right edge.
func (s *I2C) Write(text string) error {
	if len(text) > s.width {
		text = text[:s.width]
	}
	s.dev.Print([]byte(text))
	return s.check("write")
}

// Close releases the bus if this surface opened it.
func (s *I2C) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

func (s *I2C) check(op string) error {
	if err := s.bus.take(); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrRenderWrite, op, err)
	}
	return nil
}
