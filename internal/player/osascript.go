package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

const spotifyScript = `if application "Spotify" is running then
	tell application "Spotify"
		set s to (player state) as string
		try
			set t to current track
			set title to name of t
			set artist to artist of t
			set sid to id of t
		on error
			set title to ""
			set artist to ""
			set sid to ""
		end try
		return s & "||" & title & "||" & artist & "||" & sid
	end tell
else
	return "stopped||||||"
end if`

// OSAScript controls the Spotify desktop app on macOS through AppleScript.
type OSAScript struct {
	run Runner
	log *logger.Logger
}

var _ domain.TrackSource = (*OSAScript)(nil)

// NewOSAScript returns a macOS Spotify source.
func NewOSAScript(log *logger.Logger, opts ...SourceOption) *OSAScript {
	c := newSourceConfig(opts)
	return &OSAScript{run: c.run, log: log}
}

// Current returns the track loaded in Spotify. A stopped app with no
// track yields an empty Track.
func (o *OSAScript) Current(ctx context.Context) (domain.Track, error) {
	out, err := o.run(ctx, "osascript", "-e", spotifyScript)
	if err != nil {
		return domain.Track{}, fmt.Errorf("%w: %v", domain.ErrNoPlayer, err)
	}
	return parseSpotifyState(string(out)), nil
}

// PlayPause toggles playback.
func (o *OSAScript) PlayPause(ctx context.Context) error { return o.tell(ctx, "playpause") }

// Next skips to the next track.
func (o *OSAScript) Next(ctx context.Context) error { return o.tell(ctx, "next track") }

// Previous goes back one track.
func (o *OSAScript) Previous(ctx context.Context) error { return o.tell(ctx, "previous track") }

func (o *OSAScript) tell(ctx context.Context, verb string) error {
	script := fmt.Sprintf("tell application %q to %s", "Spotify", verb)
	if _, err := o.run(ctx, "osascript", "-e", script); err != nil {
		return fmt.Errorf("spotify %s: %w", verb, err)
	}
	return nil
}

// parseSpotifyState decodes "state||title||artist||uri".
func parseSpotifyState(raw string) domain.Track {
	f := splitFields(raw, 4)
	state, title, artist, uri := f[0], f[1], f[2], f[3]
	playing := state == "playing"
	if title == "" && uri == "" && !playing {
		return domain.Track{}
	}

	tr := domain.Track{Title: title, Artist: artist, Playing: playing}
	if strings.HasPrefix(uri, "spotify:track:") {
		tr.ID = uri[strings.LastIndex(uri, ":")+1:]
	}
	if tr.Title == "" {
		tr.Title = "Nothing playing"
	}
	if tr.Artist == "" && !playing {
		tr.Artist = "Paused or stopped"
	}
	return tr
}
