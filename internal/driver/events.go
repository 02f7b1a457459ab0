package driver

import (
	"time"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

// maxDrain bounds how many events one channel may deliver per tick.
const maxDrain = 32

// drain consumes pending events from every source without blocking.
func (d *Driver) drain(now time.Time) {
	for _, ch := range d.events {
	pending:
		for i := 0; i < maxDrain; i++ {
			select {
			case ev, ok := <-ch:
				if !ok {
					break pending
				}
				d.handle(ev, now)
			default:
				break pending
			}
		}
	}
}

func (d *Driver) handle(ev domain.Event, now time.Time) {
	switch ev.Kind {
	case domain.EventButton:
		d.press(ev.Button, now)
	case domain.EventTrackChanged, domain.EventPlaybackChanged:
		resumed := d.tracker.Apply(ev)
		if resumed && d.tracker.Sleeping() {
			d.log.Info("music resumed, waking up")
			d.tracker.Wake(now)
			d.setMode(domain.ModeNowPlaying, now)
		}
	default:
		d.log.Warn("unknown event kind %d", ev.Kind)
	}
}

// press handles a front-panel button.
func (d *Driver) press(b domain.Button, now time.Time) {
	d.log.Debug("button %s", b)

	if cmd, ok := domain.CommandFor(b); ok {
		if d.mode != domain.ModeNowPlaying {
			d.setMode(domain.ModeNowPlaying, now)
		}
		d.tracker.Wake(now)
		d.command(cmd)
		return
	}

	if b == domain.ButtonCycle {
		next := d.mode.Next()
		if next == domain.ModeNowPlaying {
			d.tracker.Wake(now)
		}
		d.setMode(next, now)
	}
}
