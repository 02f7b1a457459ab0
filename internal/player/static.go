package player

import (
	"context"
	"sync"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

// Static is a scripted player: a fixed playlist that responds to the
// transport buttons. The simulator and snapshot commands run on it.
type Static struct {
	mu      sync.Mutex
	tracks  []domain.Track
	idx     int
	playing bool
}

var _ domain.TrackSource = (*Static)(nil)

// NewStatic returns a playing source over tracks.
func NewStatic(tracks ...domain.Track) *Static {
	return &Static{tracks: tracks, playing: len(tracks) > 0}
}

// DemoTracks is the playlist used when no real player is configured.
func DemoTracks() []domain.Track {
	return []domain.Track{
		{ID: "demo-1", Title: "Bohemian Rhapsody", Artist: "Queen"},
		{ID: "demo-2", Title: "Déjà Vu", Artist: "Beyoncé, Jay-Z"},
		{ID: "demo-3", Title: "Lose Yourself to Dance", Artist: "Daft Punk, Pharrell Williams, Nile Rodgers"},
		{ID: "demo-4", Title: "Hi", Artist: "Yo"},
		{ID: "demo-5", Title: "プラスティック・ラブ", Artist: "竹内まりや"},
	}
}

// Current returns the selected track.
func (s *Static) Current(context.Context) (domain.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tracks) == 0 {
		return domain.Track{}, domain.ErrNoPlayer
	}
	tr := s.tracks[s.idx]
	tr.Playing = s.playing
	return tr, nil
}

// PlayPause toggles playback.
func (s *Static) PlayPause(context.Context) error {
	s.mu.Lock()
	s.playing = !s.playing
	s.mu.Unlock()
	return nil
}

// Next moves to the next track, wrapping around.
func (s *Static) Next(context.Context) error { return s.skip(1) }

// Previous moves to the previous track, wrapping around.
func (s *Static) Previous(context.Context) error { return s.skip(-1) }

func (s *Static) skip(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tracks) == 0 {
		return domain.ErrNoPlayer
	}
	s.idx = (s.idx + delta + len(s.tracks)) % len(s.tracks)
	s.playing = true
	return nil
}
