package player

import (
	"sync"
	"time"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

// Tracker folds poller events into the music state the display shows
// and decides when the display should fall asleep. The tick loop is its
// only writer; reads are safe from any goroutine.
type Tracker struct {
	mu        sync.Mutex
	autoSleep time.Duration

	track      domain.Track
	hasTrack   bool
	playing    bool
	lastActive time.Time // last moment music played or a track started
	sleeping   bool
}

// NewTracker returns a tracker that puts the display to sleep after
// autoSleep without music. A non-positive autoSleep disables sleeping.
func NewTracker(autoSleep time.Duration) *Tracker {
	return &Tracker{autoSleep: autoSleep}
}

// Apply records a track or playback event. It reports whether playback
// just resumed.
func (t *Tracker) Apply(ev domain.Event) (resumed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Kind {
	case domain.EventTrackChanged:
		t.track = ev.Track
		t.hasTrack = !ev.Track.Empty()
		if t.hasTrack {
			t.lastActive = ev.At
		}
		return t.setPlaying(ev.Track.Playing, ev.At)
	case domain.EventPlaybackChanged:
		t.track.Playing = ev.Track.Playing
		return t.setPlaying(ev.Track.Playing, ev.At)
	}
	return false
}

func (t *Tracker) setPlaying(playing bool, at time.Time) bool {
	was := t.playing
	t.playing = playing
	if playing || was {
		// start of play, or the moment it stopped
		t.lastActive = at
	}
	return playing && !was
}

// SleepDue reports whether music has been stopped for longer than the
// auto-sleep threshold and the display is still awake.
func (t *Tracker) SleepDue(now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.autoSleep <= 0 || t.playing || t.sleeping || t.lastActive.IsZero() {
		return false
	}
	return now.Sub(t.lastActive) >= t.autoSleep
}

// Sleep marks the display as asleep.
func (t *Tracker) Sleep() {
	t.mu.Lock()
	t.sleeping = true
	t.mu.Unlock()
}

// Wake clears the sleep flag and restarts the countdown from now.
func (t *Tracker) Wake(now time.Time) {
	t.mu.Lock()
	t.sleeping = false
	t.lastActive = now
	t.mu.Unlock()
}

// Sleeping reports whether the display was put to sleep.
func (t *Tracker) Sleeping() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sleeping
}

// Playing reports whether the last known playback state is playing.
func (t *Tracker) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

// Music returns the state as of now.
func (t *Tracker) Music(now time.Time) domain.Music {
	t.mu.Lock()
	defer t.mu.Unlock()

	m := domain.Music{
		Track:    t.track,
		HasTrack: t.hasTrack,
		Playing:  t.playing,
		Sleeping: t.sleeping,
	}
	if t.playing || t.lastActive.IsZero() || t.autoSleep <= 0 {
		return m
	}
	m.Stopped = now.Sub(t.lastActive)
	if !t.sleeping && m.Stopped < t.autoSleep {
		m.SleepIn = t.autoSleep - m.Stopped
	}
	return m
}
