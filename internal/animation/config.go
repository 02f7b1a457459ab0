// Package animation implements the two-line character display engine:
// typewriter reveal, pendulum scrolling, slide transitions and the
// classifier that decides when content deserves a fresh animation.
//
// Everything here is a pure computation over a [State] value. The
// caller owns the state, asks [Machine.Advance] for the next frame, and
// only commits the returned state once the frame reached the display.
package animation

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

// DefaultWidth is the column count of a 16x2 module.
const DefaultWidth = 16

// Rows is fixed: the engine drives exactly two lines.
const Rows = 2

// Config holds the geometry and cadences of the engine.
type Config struct {
	Width          int
	WaveInterval   time.Duration // typewriter reveal, one char per tick
	SlideInterval  time.Duration // slide transition, one column per tick
	ScrollInterval time.Duration // pendulum scroll, one column per tick
	EndPause       time.Duration // dwell at each pendulum endpoint
	LandingPause   time.Duration // freeze after a slide lands
}

// DefaultConfig returns the cadences the hardware was tuned with.
func DefaultConfig() Config {
	return Config{
		Width:          DefaultWidth,
		WaveInterval:   150 * time.Millisecond,
		SlideInterval:  60 * time.Millisecond,
		ScrollInterval: 300 * time.Millisecond,
		EndPause:       4 * time.Second,
		LandingPause:   1 * time.Second,
	}
}

// Validate rejects geometry or timing the engine cannot honour.
func (c Config) Validate() error {
	if c.Width <= 0 {
		return fmt.Errorf("%w: width must be positive, got %d", domain.ErrInvalidConfig, c.Width)
	}
	durations := []struct {
		name string
		d    time.Duration
	}{
		{"wave interval", c.WaveInterval},
		{"slide interval", c.SlideInterval},
		{"scroll interval", c.ScrollInterval},
		{"end pause", c.EndPause},
		{"landing pause", c.LandingPause},
	}
	for _, d := range durations {
		if d.d <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %s", domain.ErrInvalidConfig, d.name, d.d)
		}
	}
	return nil
}
