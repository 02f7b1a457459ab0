package player

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

// PreferredPlayers are picked first, in order, when several MPRIS
// players are running. Matching is by substring of the bus name.
var PreferredPlayers = []string{"spotify", "spotifyd", "ncspot", "librespot", "chromium", "vlc"}

const playerctlFormat = "{{mpris:trackid}}||{{xesam:title}}||{{join(xesam:artist, ', ')}}"

// PlayerctlAvailable reports whether the playerctl binary is installed.
func PlayerctlAvailable() bool {
	_, err := exec.LookPath("playerctl")
	return err == nil
}

// Playerctl reads and controls MPRIS players through the playerctl CLI.
type Playerctl struct {
	player string // fixed player name, empty to auto-detect
	run    Runner
	log    *logger.Logger
}

var _ domain.TrackSource = (*Playerctl)(nil)

// NewPlayerctl returns a playerctl source. An empty player auto-detects
// on every call, so players that start later are picked up.
func NewPlayerctl(player string, log *logger.Logger, opts ...SourceOption) *Playerctl {
	c := newSourceConfig(opts)
	return &Playerctl{player: player, run: c.run, log: log}
}

// Current returns the track of the selected player.
func (p *Playerctl) Current(ctx context.Context) (domain.Track, error) {
	player, err := p.resolve(ctx)
	if err != nil {
		return domain.Track{}, err
	}

	status, err := p.ctl(ctx, player, "status")
	if err != nil {
		return domain.Track{}, fmt.Errorf("%w: %v", domain.ErrNoPlayer, err)
	}

	raw, err := p.ctl(ctx, player, "metadata", "--format", playerctlFormat)
	if err != nil {
		p.log.Debug("metadata for %s: %v", player, err)
		raw = "||"
	}

	tr := parsePlayerctl(raw)
	tr.Playing = strings.EqualFold(strings.TrimSpace(status), "playing")
	return tr, nil
}

// PlayPause toggles playback.
func (p *Playerctl) PlayPause(ctx context.Context) error { return p.command(ctx, "play-pause") }

// Next skips to the next track.
func (p *Playerctl) Next(ctx context.Context) error { return p.command(ctx, "next") }

// Previous goes back one track.
func (p *Playerctl) Previous(ctx context.Context) error { return p.command(ctx, "previous") }

func (p *Playerctl) command(ctx context.Context, verb string) error {
	player, err := p.resolve(ctx)
	if err != nil {
		return err
	}
	if _, err := p.ctl(ctx, player, verb); err != nil {
		return fmt.Errorf("playerctl %s: %w", verb, err)
	}
	return nil
}

func (p *Playerctl) ctl(ctx context.Context, player string, args ...string) (string, error) {
	full := append([]string{"-p", player}, args...)
	out, err := p.run(ctx, "playerctl", full...)
	return strings.TrimSpace(string(out)), err
}

// resolve picks the player to talk to.
func (p *Playerctl) resolve(ctx context.Context) (string, error) {
	if p.player != "" {
		return p.player, nil
	}
	out, err := p.run(ctx, "playerctl", "-l")
	if err != nil {
		return "", fmt.Errorf("%w: listing players: %v", domain.ErrNoPlayer, err)
	}
	player := pickPlayer(strings.Fields(string(out)))
	if player == "" {
		return "", domain.ErrNoPlayer
	}
	return player, nil
}

// pickPlayer returns the first preferred player, else the first listed.
func pickPlayer(players []string) string {
	for _, pref := range PreferredPlayers {
		for _, name := range players {
			if strings.Contains(name, pref) {
				return name
			}
		}
	}
	if len(players) > 0 {
		return players[0]
	}
	return ""
}

// parsePlayerctl decodes a metadata line in playerctlFormat.
func parsePlayerctl(raw string) domain.Track {
	f := splitFields(raw, 3)
	tr := domain.Track{ID: f[0], Title: f[1], Artist: f[2]}
	if i := strings.Index(tr.ID, "spotify:track:"); i >= 0 {
		tr.ID = tr.ID[i+len("spotify:track:"):]
	}
	if tr.Title == "" {
		tr.Title = "Unknown"
	}
	if tr.Artist == "" {
		tr.Artist = "Unknown"
	}
	return tr
}
