package domain

import (
	"fmt"
	"time"
)

// Music is a point-in-time view of the player as the display sees it.
type Music struct {
	Track    Track
	HasTrack bool
	Playing  bool

	// Stopped is how long playback has been stopped, zero while playing
	// or before anything ever played.
	Stopped time.Duration
	// SleepIn is the time left before the display falls back to the
	// clock. Zero when no countdown is running.
	SleepIn  time.Duration
	Sleeping bool
}

// Status is the one-word summary shown on the debug page.
func (m Music) Status() string {
	switch {
	case m.Playing:
		return "Playing"
	case m.Sleeping:
		return "Sleeping"
	case m.SleepIn > 0:
		return fmt.Sprintf("Sleep in %ds", int(m.SleepIn.Round(time.Second)/time.Second))
	case m.Stopped > 0:
		return "Sleeping"
	default:
		return "Ready"
	}
}
