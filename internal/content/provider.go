// Package content produces the two raw lines each display mode shows.
package content

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

// Fixed texts.
const (
	WelcomeLine1 = "Welcome :)"
	WelcomeLine2 = "Starting up..."
	NoTrackLine1 = "No track"
	NoTrackLine2 = "Connect Spotify"

	clockLayout = "15:04:05"
	dateLayout  = "Mon Jan 02"
)

// MusicSource reports the music state as of a given time.
type MusicSource interface {
	Music(now time.Time) domain.Music
}

// Counter reports how often the player was queried.
type Counter interface {
	Calls() int64
}

// Option configures a Provider.
type Option func(*Provider)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) {
		p.now = now
	}
}

// WithCounter sets the source of the API call count on the debug page.
func WithCounter(c Counter) Option {
	return func(p *Provider) {
		p.calls = c
	}
}

// WithTransliterator maps track text onto the display's character set.
func WithTransliterator(t domain.Transliterator) Option {
	return func(p *Provider) {
		p.translit = t
	}
}

// Provider implements domain.ContentProvider for every mode.
type Provider struct {
	music    MusicSource
	calls    Counter
	translit domain.Transliterator
	now      func() time.Time
}

var _ domain.ContentProvider = (*Provider)(nil)

// New returns a provider reading music state from music.
func New(music MusicSource, opts ...Option) *Provider {
	p := &Provider{
		music:    music,
		translit: domain.TransliteratorFunc(func(s string) string { return s }),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Content returns the lines for mode.
func (p *Provider) Content(mode domain.Mode) (string, string, error) {
	switch mode {
	case domain.ModeWelcome:
		return WelcomeLine1, WelcomeLine2, nil
	case domain.ModeNowPlaying:
		return p.nowPlaying()
	case domain.ModeClock:
		now := p.now()
		return now.Format(clockLayout), now.Format(dateLayout), nil
	case domain.ModeDebug:
		return p.debug()
	default:
		return "", "", fmt.Errorf("%w: mode %s", domain.ErrContentUnavailable, mode)
	}
}

func (p *Provider) nowPlaying() (string, string, error) {
	if p.music == nil {
		return NoTrackLine1, NoTrackLine2, nil
	}
	m := p.music.Music(p.now())
	if !m.HasTrack {
		return NoTrackLine1, NoTrackLine2, nil
	}
	return p.translit.Transliterate(m.Track.Title), p.translit.Transliterate(m.Track.Artist), nil
}

func (p *Provider) debug() (string, string, error) {
	var calls int64
	if p.calls != nil {
		calls = p.calls.Calls()
	}
	status := "Ready"
	if p.music != nil {
		status = p.music.Music(p.now()).Status()
	}
	return fmt.Sprintf("API: %d | %s", calls, status), "Mode: " + domain.ModeDebug.String(), nil
}
