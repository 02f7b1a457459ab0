package main

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hammamikhairi/nowplaying/internal/animation"
	"github.com/hammamikhairi/nowplaying/internal/config"
	"github.com/hammamikhairi/nowplaying/internal/content"
	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/driver"
	"github.com/hammamikhairi/nowplaying/internal/logger"
	"github.com/hammamikhairi/nowplaying/internal/player"
	"github.com/hammamikhairi/nowplaying/internal/surface"
	"github.com/hammamikhairi/nowplaying/internal/translit"
)

// defaultLogFile is used by the simulator when logs were sent to stderr,
// since the terminal belongs to the UI.
const defaultLogFile = "nowplaying.log"

// setupLogging opens the log output and redirects Go's std log to it.
func setupLogging(cfg config.Config, forceFile bool) (*logger.Logger, func(), error) {
	path := cfg.LogFile
	if forceFile && (path == "" || path == "stderr") {
		path = defaultLogFile
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" && path != "stderr" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create log dir: %w", err)
			}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		} else {
			out = f
			closeFn = func() { f.Close() }
		}
	}

	// periph and gpiocdev log through the std package.
	stdlog.SetOutput(out)
	stdlog.SetFlags(stdlog.Ltime)

	return logger.New(cfg.Level(), out), closeFn, nil
}

// newSource picks the track source for cfg.Player.
func newSource(cfg config.Config, log *logger.Logger) (domain.TrackSource, error) {
	plog := log.Named("player")
	switch cfg.Player {
	case config.PlayerPlayerctl:
		return player.NewPlayerctl(cfg.PlayerName, plog), nil
	case config.PlayerOSA:
		return player.NewOSAScript(plog), nil
	case config.PlayerStatic:
		return player.NewStatic(player.DemoTracks()...), nil
	case config.PlayerAuto:
		switch {
		case runtime.GOOS == "darwin":
			log.Info("player: Spotify via osascript")
			return player.NewOSAScript(plog), nil
		case player.PlayerctlAvailable():
			log.Info("player: playerctl")
			return player.NewPlayerctl(cfg.PlayerName, plog), nil
		default:
			log.Warn("no player backend found, using demo tracks")
			return player.NewStatic(player.DemoTracks()...), nil
		}
	default:
		return nil, fmt.Errorf("%w: unknown player %q", domain.ErrInvalidConfig, cfg.Player)
	}
}

// openSurface opens the hardware display named by cfg.Surface.
func openSurface(cfg config.Config, log *logger.Logger) (domain.Surface, func(), error) {
	slog := log.Named("lcd")
	noop := func() {}
	switch cfg.Surface {
	case config.SurfaceI2C:
		s, err := surface.OpenI2C(cfg.I2CBus, uint8(cfg.I2CAddr), cfg.Anim.Width, slog)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case config.SurfaceParallel:
		var opts []surface.ParallelOption
		if cfg.FixedDelays {
			opts = append(opts, surface.WithFixedDelays())
		}
		s, err := surface.OpenParallel(cfg.Pins, cfg.Anim.Width, slog, opts...)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case config.SurfaceMemory:
		return surface.NewMemory(cfg.Anim.Width), noop, nil
	default:
		return nil, nil, fmt.Errorf("%w: surface %q needs the sim command", domain.ErrInvalidConfig, cfg.Surface)
	}
}

// stack is everything between a track source and a surface.
type stack struct {
	cfg      config.Config
	log      *logger.Logger
	machine  *animation.Machine
	tracker  *player.Tracker
	poller   *player.Poller
	provider *content.Provider
}

// newStack builds the engine. now replaces the wall clock for page
// content when set.
func newStack(cfg config.Config, log *logger.Logger, source domain.TrackSource, now ...func() time.Time) (*stack, error) {
	machine, err := animation.NewMachine(cfg.Anim, nil, log.Named("anim"))
	if err != nil {
		return nil, err
	}

	poller := player.NewPoller(source, log.Named("poller"),
		player.WithActiveInterval(cfg.ActivePoll),
		player.WithIdleInterval(cfg.IdlePoll),
		player.WithSettleDelay(cfg.SettleDelay),
	)
	tracker := player.NewTracker(cfg.AutoSleep)

	var topts []translit.Option
	if !cfg.Kana {
		topts = append(topts, translit.WithoutKana())
	}
	copts := []content.Option{
		content.WithCounter(poller),
		content.WithTransliterator(translit.New(topts...)),
	}
	if len(now) > 0 && now[0] != nil {
		copts = append(copts, content.WithClock(now[0]))
	}

	return &stack{
		cfg:      cfg,
		log:      log,
		machine:  machine,
		tracker:  tracker,
		poller:   poller,
		provider: content.New(tracker, copts...),
	}, nil
}

// driver wires a driver to surf. opts are applied after the defaults.
func (s *stack) driver(surf domain.Surface, opts ...driver.Option) *driver.Driver {
	base := []driver.Option{
		driver.WithTickInterval(s.cfg.TickInterval),
		driver.WithWelcome(s.cfg.Welcome),
		driver.WithTracker(s.tracker),
		driver.WithEvents(s.poller.Events()),
		driver.WithCommands(s.poller.Send),
		driver.WithModeListener(s.poller.SetMode),
	}
	return driver.New(s.machine, surf, s.provider, s.log.Named("driver"), append(base, opts...)...)
}
