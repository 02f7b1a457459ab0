// Package driver runs the display loop: it drains input and player
// events, asks the content provider for the current lines, classifies
// them, advances the animation and writes frames to the surface.
package driver

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hammamikhairi/nowplaying/internal/animation"
	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
	"github.com/hammamikhairi/nowplaying/internal/player"
)

// Option configures the driver.
type Option func(*Driver)

// WithTickInterval sets how often the loop wakes up. Animation cadences
// are checked on every wake-up, so this bounds their jitter.
func WithTickInterval(d time.Duration) Option {
	return func(dr *Driver) {
		dr.tickInterval = d
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(dr *Driver) {
		dr.now = now
	}
}

// WithEvents adds event channels drained at the start of every tick.
// Each channel must have a single writer.
func WithEvents(chs ...<-chan domain.Event) Option {
	return func(dr *Driver) {
		dr.events = append(dr.events, chs...)
	}
}

// WithCommands sets where player commands from buttons are sent. The
// function must not block.
func WithCommands(send func(domain.Command) bool) Option {
	return func(dr *Driver) {
		dr.send = send
	}
}

// WithModeListener registers a function called on every mode change.
func WithModeListener(fn func(domain.Mode)) Option {
	return func(dr *Driver) {
		dr.listeners = append(dr.listeners, fn)
	}
}

// WithWelcome sets how long the welcome page stays up. Zero skips it.
func WithWelcome(d time.Duration) Option {
	return func(dr *Driver) {
		dr.welcome = d
	}
}

// WithTracker sets the music state the driver updates from player
// events. The same tracker is usually read by the content provider.
func WithTracker(t *player.Tracker) Option {
	return func(dr *Driver) {
		dr.tracker = t
	}
}

// Driver owns the display state. All of its state is touched only from
// the goroutine running Tick, except the published mode.
type Driver struct {
	machine *animation.Machine
	surface domain.Surface
	content domain.ContentProvider
	log     *logger.Logger

	tickInterval time.Duration
	now          func() time.Time
	events       []<-chan domain.Event
	send         func(domain.Command) bool
	listeners    []func(domain.Mode)
	welcome      time.Duration
	tracker      *player.Tracker

	st           animation.State
	mode         domain.Mode
	published    atomic.Int32
	started      bool
	welcomeUntil time.Time

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a driver. The machine carries the animation config.
func New(machine *animation.Machine, surface domain.Surface, content domain.ContentProvider, log *logger.Logger, opts ...Option) *Driver {
	d := &Driver{
		machine:      machine,
		surface:      surface,
		content:      content,
		log:          log,
		tickInterval: 50 * time.Millisecond,
		now:          time.Now,
		welcome:      3 * time.Second,
		st:           animation.NewState(),
		mode:         domain.ModeWelcome,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.tracker == nil {
		d.tracker = player.NewTracker(0)
	}
	d.published.Store(int32(d.mode))
	return d
}

// Mode returns the mode currently on screen. Safe from any goroutine.
func (d *Driver) Mode() domain.Mode {
	return domain.Mode(d.published.Load())
}

// State returns a copy of the display state. Only call it from the
// goroutine running Tick, or after the loop stopped.
func (d *Driver) State() animation.State {
	return d.st
}

// Start runs the loop on a new goroutine. Non-blocking.
func (d *Driver) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		d.log.Warn("driver already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.running = true
	d.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		d.Run(childCtx)
	}(d.done)
}

// Stop cancels a loop started with Start and waits for it to return.
func (d *Driver) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.cancel()
	d.running = false
	done := d.done
	d.mu.Unlock()

	<-done
}

// Run ticks until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.tickInterval)
	defer ticker.Stop()

	d.log.Info("driver started (tick=%s, width=%d)", d.tickInterval, d.machine.Config().Width)

	for {
		select {
		case <-ctx.Done():
			d.log.Info("driver stopped")
			return
		case <-ticker.C:
			d.Tick(d.now())
		}
	}
}

// Tick runs one loop iteration at now.
func (d *Driver) Tick(now time.Time) {
	d.drain(now)
	if !d.started {
		d.start(now)
	}
	d.checkWelcome(now)
	d.checkSleep(now)

	line1, line2, err := d.content.Content(d.mode)
	if err != nil {
		d.log.Debug("content for %s: %v", d.mode, err)
		line1, line2 = d.st.Content[0], d.st.Content[1]
	}

	if !d.classify(line1, line2, now) {
		return
	}

	next, frame, due := d.machine.Advance(d.st, now)
	if !due {
		return
	}
	if err := d.render(frame); err != nil {
		d.log.Warn("render: %v", err)
		return
	}
	d.st = next
}

func (d *Driver) start(now time.Time) {
	d.started = true
	d.st.LastTick = now
	if d.mode == domain.ModeWelcome {
		if d.welcome <= 0 {
			d.setMode(d.restingMode(), now)
			return
		}
		d.welcomeUntil = now.Add(d.welcome)
	}
	d.notify(d.mode)
}

// classify commits new content and starts an entry animation when it is
// significant. It returns false when the tick must stop here.
func (d *Driver) classify(line1, line2 string, now time.Time) bool {
	if d.machine.Classify(d.mode, d.st, line1, line2) == animation.Minor {
		d.st.Commit(line1, line2)
		return true
	}

	next := d.st
	entry := d.machine.Begin(d.mode, &next, line1, line2, now)
	if entry == domain.EntryWave {
		if err := d.surface.Clear(); err != nil {
			d.log.Warn("clear: %v", err)
			return false
		}
		if err := d.flush(); err != nil {
			d.log.Warn("clear: %v", err)
			return false
		}
		next.MarkCleared(d.machine.Config().Width)
	}
	d.st = next
	d.log.Debug("%s: %s entry for %q / %q", d.mode, entry, line1, line2)
	return true
}

// render writes the lines of frame that differ from what is on screen,
// line 1 first.
func (d *Driver) render(frame animation.Frame) error {
	for row, text := range frame {
		if shown, ok := d.st.Shown(row); ok && shown == text {
			continue
		}
		if err := d.surface.SetCursor(row, 0); err != nil {
			return fmt.Errorf("line %d: %w", row+1, err)
		}
		if err := d.surface.Write(text); err != nil {
			return fmt.Errorf("line %d: %w", row+1, err)
		}
	}
	return d.flush()
}

func (d *Driver) flush() error {
	if f, ok := d.surface.(domain.Flusher); ok {
		return f.Flush()
	}
	return nil
}

// setMode switches the page and soft-resets the animation.
func (d *Driver) setMode(m domain.Mode, now time.Time) {
	if m == d.mode {
		return
	}
	d.log.Info("mode %s -> %s", d.mode, m)
	d.mode = m
	d.welcomeUntil = time.Time{}
	d.st.SoftReset(now)
	d.published.Store(int32(m))
	d.notify(m)
	if m == domain.ModeNowPlaying {
		d.command(domain.CommandRefresh)
	}
}

func (d *Driver) notify(m domain.Mode) {
	for _, fn := range d.listeners {
		fn(m)
	}
}

func (d *Driver) command(c domain.Command) {
	if d.send == nil {
		return
	}
	if !d.send(c) {
		d.log.Warn("player command %s dropped", c)
	}
}

// restingMode is where the display goes after the welcome page.
func (d *Driver) restingMode() domain.Mode {
	if d.tracker.Playing() {
		return domain.ModeNowPlaying
	}
	return domain.ModeClock
}

func (d *Driver) checkWelcome(now time.Time) {
	if d.mode != domain.ModeWelcome || d.welcomeUntil.IsZero() || now.Before(d.welcomeUntil) {
		return
	}
	d.setMode(d.restingMode(), now)
}

func (d *Driver) checkSleep(now time.Time) {
	if d.mode != domain.ModeNowPlaying || !d.tracker.SleepDue(now) {
		return
	}
	d.log.Info("no music for a while, switching to clock")
	d.tracker.Sleep()
	d.setMode(domain.ModeClock, now)
}
