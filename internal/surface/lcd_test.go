package surface

import (
	"errors"
	"sync"
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"

	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

// fakeBus records transfers and fails on demand.
type fakeBus struct {
	mu    sync.Mutex
	addrs map[uint16]int
	fail  error
}

func (b *fakeBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return b.fail
	}
	if b.addrs == nil {
		b.addrs = make(map[uint16]int)
	}
	b.addrs[addr]++
	return nil
}

func (b *fakeBus) setFail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail = err
}

func (b *fakeBus) count(addr uint16) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addrs[addr]
}

func TestI2CWritesThroughBackpack(t *testing.T) {
	b := &fakeBus{}
	s, err := NewI2C(b, DefaultI2CAddress, 16, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("NewI2C: %v", err)
	}
	before := b.count(DefaultI2CAddress)
	if before == 0 {
		t.Fatal("configure sent nothing to the backpack")
	}

	if err := s.SetCursor(1, 0); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}
	if err := s.Write("Hello"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if b.count(DefaultI2CAddress) <= before {
		t.Fatal("write sent nothing to the backpack")
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestI2CBusFailureIsRenderError(t *testing.T) {
	b := &fakeBus{}
	s, err := NewI2C(b, DefaultI2CAddress, 16, logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("NewI2C: %v", err)
	}

	b.setFail(errors.New("nack"))
	if err := s.Write("x"); !errors.Is(err, domain.ErrRenderWrite) {
		t.Fatalf("Write on failing bus = %v, want ErrRenderWrite", err)
	}
	if err := s.Clear(); !errors.Is(err, domain.ErrRenderWrite) {
		t.Fatalf("Clear on failing bus = %v, want ErrRenderWrite", err)
	}

	b.setFail(nil)
	if err := s.Write("x"); err != nil {
		t.Fatalf("Write after recovery: %v", err)
	}
	if err := s.SetCursor(0, 16); !errors.Is(err, domain.ErrRenderWrite) {
		t.Fatalf("SetCursor off screen = %v, want ErrRenderWrite", err)
	}
}

func TestI2CConfigureFailure(t *testing.T) {
	b := &fakeBus{fail: errors.New("no device")}
	if _, err := NewI2C(b, 0x3f, 16, logger.New(logger.LevelOff, nil)); err == nil {
		t.Fatal("expected error when the backpack does not answer")
	}
}

// stuckPin always reads high.
type stuckPin struct {
	gpiotest.Pin
}

func (p *stuckPin) Read() gpio.Level { return gpio.High }

func testPins() ParallelIO {
	var io ParallelIO
	io.RS = &gpiotest.Pin{N: "RS"}
	io.RW = &gpiotest.Pin{N: "RW"}
	io.E = &gpiotest.Pin{N: "E"}
	for i := range io.DB {
		io.DB[i] = &gpiotest.Pin{N: "DB" + string(rune('0'+i))}
	}
	return io
}

func dataBits(io ParallelIO) uint8 {
	var b uint8
	for i := range io.DB {
		if io.DB[i].Read() {
			b |= 1 << i
		}
	}
	return b
}

func TestParallelPinLevels(t *testing.T) {
	io := testPins()
	p, err := NewParallel(io, 16, logger.New(logger.LevelOff, nil), WithFixedDelays())
	if err != nil {
		t.Fatalf("NewParallel: %v", err)
	}

	if got := dataBits(io); got != cmdEntryMode|entryIncrement {
		t.Fatalf("last init instruction = %#x, want entry mode", got)
	}

	if err := p.SetCursor(1, 3); err != nil {
		t.Fatalf("SetCursor: %v", err)
	}
	if got := dataBits(io); got != 0xC3 {
		t.Fatalf("DD address = %#x, want 0xc3", got)
	}
	if io.RS.Read() != gpio.Low {
		t.Fatal("RS should be low for an instruction")
	}

	if err := p.Write("A"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := dataBits(io); got != 'A' {
		t.Fatalf("data = %#x, want %#x", got, 'A')
	}
	if io.RS.Read() != gpio.High {
		t.Fatal("RS should be high for data")
	}
	if io.E.Read() != gpio.Low {
		t.Fatal("E should rest low")
	}
}

func TestParallelBusyTimeout(t *testing.T) {
	io := testPins()
	io.DB[7] = &stuckPin{Pin: gpiotest.Pin{N: "DB7"}}

	start := time.Now()
	_, err := NewParallel(io, 16, logger.New(logger.LevelOff, nil), WithBusyTimeout(2*time.Millisecond))
	if !errors.Is(err, domain.ErrRenderWrite) {
		t.Fatalf("NewParallel with a stuck busy flag = %v, want ErrRenderWrite", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("busy wait ran for %s", time.Since(start))
	}
}
