package player

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

// PollerOption configures the poller.
type PollerOption func(*Poller)

// WithActiveInterval sets the poll interval while the now-playing page is up.
func WithActiveInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		p.active = d
	}
}

// WithIdleInterval sets the poll interval on every other page.
func WithIdleInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		p.idle = d
	}
}

// WithSettleDelay sets how long after a transport command the player is
// polled again, giving it time to load the new track.
func WithSettleDelay(d time.Duration) PollerOption {
	return func(p *Poller) {
		p.settle = d
	}
}

// WithPollerClock replaces time.Now for event timestamps.
func WithPollerClock(now func() time.Time) PollerOption {
	return func(p *Poller) {
		p.now = now
	}
}

// Poller watches a TrackSource on its own goroutine. It runs transport
// commands off the display loop and reports what changed as events on a
// single channel. It never touches display state.
type Poller struct {
	source domain.TrackSource
	log    *logger.Logger
	active time.Duration
	idle   time.Duration
	settle time.Duration
	now    func() time.Time

	events   chan domain.Event
	commands chan domain.Command
	mode     atomic.Int32
	calls    atomic.Int64

	last *domain.Track // owned by the Run goroutine
}

// NewPoller creates a poller over source.
func NewPoller(source domain.TrackSource, log *logger.Logger, opts ...PollerOption) *Poller {
	p := &Poller{
		source:   source,
		log:      log,
		active:   8 * time.Second,
		idle:     30 * time.Second,
		settle:   500 * time.Millisecond,
		now:      time.Now,
		events:   make(chan domain.Event, 16),
		commands: make(chan domain.Command, 8),
	}
	p.mode.Store(int32(domain.ModeWelcome))
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Events is the channel the display loop drains.
func (p *Poller) Events() <-chan domain.Event { return p.events }

// Calls is the number of times the player was queried.
func (p *Poller) Calls() int64 { return p.calls.Load() }

// SetMode tells the poller which page is showing.
func (p *Poller) SetMode(m domain.Mode) { p.mode.Store(int32(m)) }

// Send queues a command without blocking. It reports false when the
// queue is full and the command was dropped.
func (p *Poller) Send(cmd domain.Command) bool {
	select {
	case p.commands <- cmd:
		return true
	default:
		p.log.Warn("command queue full, dropping %s", cmd)
		return false
	}
}

func (p *Poller) interval() time.Duration {
	if domain.Mode(p.mode.Load()) == domain.ModeNowPlaying {
		return p.active
	}
	return p.idle
}

// Run polls until ctx is cancelled. Intended to be called as a goroutine.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("poller started (active=%s, idle=%s)", p.active, p.idle)

	p.poll(ctx)
	timer := time.NewTimer(p.interval())
	defer timer.Stop()

	for {
		next := p.interval()
		select {
		case <-ctx.Done():
			p.log.Info("poller stopped")
			return
		case cmd := <-p.commands:
			p.execute(ctx, cmd)
			p.poll(ctx)
			if cmd != domain.CommandRefresh {
				next = p.settle
			}
		case <-timer.C:
			p.poll(ctx)
		}
		timer.Reset(next)
	}
}

// Execute runs one transport command against source. Refresh is a
// no-op here; callers poll afterwards anyway.
func Execute(ctx context.Context, source domain.TrackSource, cmd domain.Command) error {
	switch cmd {
	case domain.CommandPlayPause:
		return source.PlayPause(ctx)
	case domain.CommandNext:
		return source.Next(ctx)
	case domain.CommandPrevious:
		return source.Previous(ctx)
	case domain.CommandRefresh:
		return nil
	default:
		return fmt.Errorf("%w: command %d", domain.ErrNotSupported, cmd)
	}
}

func (p *Poller) execute(ctx context.Context, cmd domain.Command) {
	if err := Execute(ctx, p.source, cmd); err != nil {
		p.log.Error("%s: %v", cmd, err)
		return
	}
	p.log.Debug("%s sent", cmd)
}

// poll queries the source once and emits what changed.
func (p *Poller) poll(ctx context.Context) {
	p.calls.Add(1)
	tr, err := p.source.Current(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoPlayer) {
			p.log.Warn("poll: %v", err)
			return
		}
		p.log.Debug("poll: %v", err)
		tr = domain.Track{}
	}

	at := p.now()
	switch {
	case tr.ChangedFrom(p.last):
		p.log.Info("track: %q by %q (playing=%v)", tr.Title, tr.Artist, tr.Playing)
		p.emit(ctx, domain.Event{Kind: domain.EventTrackChanged, Track: tr, At: at})
	case tr.Playing != p.last.Playing:
		p.log.Info("playback: playing=%v", tr.Playing)
		p.emit(ctx, domain.Event{Kind: domain.EventPlaybackChanged, Track: tr, At: at})
	}
	p.last = &tr
}

func (p *Poller) emit(ctx context.Context, ev domain.Event) {
	select {
	case p.events <- ev:
	case <-ctx.Done():
	}
}
