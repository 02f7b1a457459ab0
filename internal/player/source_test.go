package player

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

// fakeRunner answers commands from a table keyed by the joined argv.
type fakeRunner struct {
	mu      sync.Mutex
	answers map[string]string
	fail    map[string]bool
	calls   []string
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if f.fail[key] {
		return nil, errors.New("exit status 1")
	}
	return []byte(f.answers[key]), nil
}

func (f *fakeRunner) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func TestPickPlayer(t *testing.T) {
	tests := []struct {
		players []string
		want    string
	}{
		{nil, ""},
		{[]string{"firefox"}, "firefox"},
		{[]string{"vlc", "spotifyd.instance42"}, "spotifyd.instance42"},
		{[]string{"chromium.instance7", "ncspot"}, "ncspot"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.players, ","), func(t *testing.T) {
			if got := pickPlayer(tt.players); got != tt.want {
				t.Fatalf("pickPlayer(%v) = %q, want %q", tt.players, got, tt.want)
			}
		})
	}
}

func TestParsePlayerctl(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Track
	}{
		{"/org/mpris/spotify:track:4uLU6hMCjMI75M1A2tKUQC||Never Gonna Give You Up||Rick Astley",
			domain.Track{ID: "4uLU6hMCjMI75M1A2tKUQC", Title: "Never Gonna Give You Up", Artist: "Rick Astley"}},
		{"/org/mpris/MediaPlayer2/Track/7||Song||A, B",
			domain.Track{ID: "/org/mpris/MediaPlayer2/Track/7", Title: "Song", Artist: "A, B"}},
		{"||", domain.Track{Title: "Unknown", Artist: "Unknown"}},
	}
	for _, tt := range tests {
		if got := parsePlayerctl(tt.raw); got != tt.want {
			t.Fatalf("parsePlayerctl(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}
}

func TestPlayerctlCurrent(t *testing.T) {
	f := &fakeRunner{answers: map[string]string{
		"playerctl -l":                 "chromium.instance3\nspotifyd\n",
		"playerctl -p spotifyd status": "Playing\n",
		"playerctl -p spotifyd metadata --format " + playerctlFormat: "spotify:track:abc||Title||Artist\n",
	}}
	p := NewPlayerctl("", logger.New(logger.LevelOff, nil), WithRunner(f.run))

	tr, err := p.Current(context.Background())
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	want := domain.Track{ID: "abc", Title: "Title", Artist: "Artist", Playing: true}
	if tr != want {
		t.Fatalf("Current = %+v, want %+v", tr, want)
	}

	if err := p.Next(context.Background()); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !f.called("playerctl -p spotifyd next") {
		t.Fatal("next not sent to detected player")
	}
}

func TestPlayerctlNoPlayer(t *testing.T) {
	f := &fakeRunner{answers: map[string]string{"playerctl -l": ""}}
	p := NewPlayerctl("", logger.New(logger.LevelOff, nil), WithRunner(f.run))
	if _, err := p.Current(context.Background()); !errors.Is(err, domain.ErrNoPlayer) {
		t.Fatalf("Current err = %v, want ErrNoPlayer", err)
	}

	f = &fakeRunner{fail: map[string]bool{"playerctl -p vlc status": true}}
	p = NewPlayerctl("vlc", logger.New(logger.LevelOff, nil), WithRunner(f.run))
	if _, err := p.Current(context.Background()); !errors.Is(err, domain.ErrNoPlayer) {
		t.Fatalf("Current with failing status err = %v, want ErrNoPlayer", err)
	}
}

func TestParseSpotifyState(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want domain.Track
	}{
		{"playing", "playing||Song||Artist||spotify:track:xyz\n",
			domain.Track{ID: "xyz", Title: "Song", Artist: "Artist", Playing: true}},
		{"paused without artist", "paused||Song||||spotify:track:xyz",
			domain.Track{ID: "xyz", Title: "Song", Artist: "Paused or stopped"}},
		{"not running", "stopped||||||", domain.Track{}},
		{"garbage", "", domain.Track{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseSpotifyState(tt.raw); got != tt.want {
				t.Fatalf("parseSpotifyState = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestOSAScriptCommands(t *testing.T) {
	f := &fakeRunner{}
	o := NewOSAScript(logger.New(logger.LevelOff, nil), WithRunner(f.run))
	if err := o.PlayPause(context.Background()); err != nil {
		t.Fatalf("PlayPause: %v", err)
	}
	if !f.called(`osascript -e tell application "Spotify" to playpause`) {
		t.Fatalf("calls = %v", f.calls)
	}
}

func TestStaticTransport(t *testing.T) {
	ctx := context.Background()
	s := NewStatic(domain.Track{ID: "a"}, domain.Track{ID: "b"})

	tr, _ := s.Current(ctx)
	if tr.ID != "a" || !tr.Playing {
		t.Fatalf("initial = %+v", tr)
	}
	_ = s.Previous(ctx)
	if tr, _ = s.Current(ctx); tr.ID != "b" {
		t.Fatalf("after previous = %+v, want b", tr)
	}
	_ = s.PlayPause(ctx)
	if tr, _ = s.Current(ctx); tr.Playing {
		t.Fatal("still playing after pause")
	}
	_ = s.Next(ctx)
	if tr, _ = s.Current(ctx); tr.ID != "a" || !tr.Playing {
		t.Fatalf("after next = %+v", tr)
	}

	if _, err := NewStatic().Current(ctx); !errors.Is(err, domain.ErrNoPlayer) {
		t.Fatalf("empty static err = %v", err)
	}
}
