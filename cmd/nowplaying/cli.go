package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3/ffcli"

	"github.com/hammamikhairi/nowplaying/internal/config"
	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/driver"
	"github.com/hammamikhairi/nowplaying/internal/input"
	"github.com/hammamikhairi/nowplaying/internal/player"
	"github.com/hammamikhairi/nowplaying/internal/surface"
)

func buildCLI() *ffcli.Command {
	// ---- run

	runCfg := config.Default()
	runFlagSet := flag.NewFlagSet("nowplaying run", flag.ExitOnError)
	runCfg.Register(runFlagSet)
	runRecord := runFlagSet.Bool("record", false, "also save every frame as a PNG in -snapshot-dir")
	runRecordMax := runFlagSet.Int("record-max", surface.DefaultMaxFrames, "stop recording after this many PNG files (0 no limit)")

	runCmd := &ffcli.Command{
		Name:       "run",
		ShortUsage: "nowplaying run [flags]",
		ShortHelp:  "Drive the LCD with GPIO buttons",
		FlagSet:    runFlagSet,
		Options:    config.Options(),
		Exec: func(ctx context.Context, _ []string) error {
			return execRun(ctx, runCfg, *runRecord, *runRecordMax)
		},
	}

	// ---- sim

	simCfg := config.Default()
	simCfg.Player = config.PlayerStatic
	simCfg.Surface = config.SurfaceSim
	simFlagSet := flag.NewFlagSet("nowplaying sim", flag.ExitOnError)
	simCfg.Register(simFlagSet)

	simCmd := &ffcli.Command{
		Name:       "sim",
		ShortUsage: "nowplaying sim [flags]",
		ShortHelp:  "Simulate the display in the terminal",
		FlagSet:    simFlagSet,
		Options:    config.Options(),
		Exec: func(ctx context.Context, _ []string) error {
			return execSim(ctx, simCfg)
		},
	}

	// ---- snapshot

	snapCfg := config.Default()
	snapCfg.Player = config.PlayerStatic
	snapCfg.Surface = config.SurfaceMemory
	snapFlagSet := flag.NewFlagSet("nowplaying snapshot", flag.ExitOnError)
	snapCfg.Register(snapFlagSet)
	snapFrames := snapFlagSet.Int("frames", 60, "number of distinct frames to write")
	snapSkipAfter := snapFlagSet.Int("next-after", 30, "press NEXT after this many frames (0 never)")

	snapCmd := &ffcli.Command{
		Name:       "snapshot",
		ShortUsage: "nowplaying snapshot [flags]",
		ShortHelp:  "Render frames headless to PNG files",
		FlagSet:    snapFlagSet,
		Options:    config.Options(),
		Exec: func(ctx context.Context, _ []string) error {
			return execSnapshot(ctx, snapCfg, *snapFrames, *snapSkipAfter)
		},
	}

	return &ffcli.Command{
		Name:        "nowplaying",
		ShortUsage:  "nowplaying <subcommand> [flags]",
		ShortHelp:   "Now-playing display for a 16x2 character LCD",
		FlagSet:     flag.NewFlagSet("nowplaying", flag.ExitOnError),
		Subcommands: []*ffcli.Command{runCmd, simCmd, snapCmd},
		Exec: func(context.Context, []string) error {
			return flag.ErrHelp
		},
	}
}

// ---- Command execution

func execRun(ctx context.Context, cfg config.Config, record bool, recordMax int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, closeLog, err := setupLogging(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	surf, closeSurf, err := openSurface(cfg, log)
	if err != nil {
		return err
	}
	defer closeSurf()
	if record {
		rec, err := surface.NewRecorder(surf, cfg.Anim.Width, cfg.SnapshotDir, log.Named("record"),
			surface.WithMaxFrames(recordMax))
		if err != nil {
			return err
		}
		surf = rec
	}

	source, err := newSource(cfg, log)
	if err != nil {
		return err
	}
	s, err := newStack(cfg, log, source)
	if err != nil {
		return err
	}

	var events []<-chan domain.Event
	if cfg.GPIOChip != "" {
		buttons, err := input.OpenGPIO(cfg.GPIOChip, cfg.Offsets(), log.Named("buttons"), input.WithDebounce(cfg.Debounce))
		if err != nil {
			log.Warn("buttons disabled: %v", err)
		} else {
			defer buttons.Close()
			events = append(events, buttons.Events())
		}
	}

	drv := s.driver(surf, driver.WithEvents(events...))
	go s.poller.Run(ctx)
	drv.Start(ctx)
	log.Info("running (surface=%s, player=%s)", cfg.Surface, cfg.Player)

	<-ctx.Done()
	drv.Stop()
	if err := surf.Clear(); err != nil {
		log.Warn("clear on exit: %v", err)
	}
	log.Info("bye")
	return nil
}

func execSim(ctx context.Context, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, closeLog, err := setupLogging(cfg, true)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source, err := newSource(cfg, log)
	if err != nil {
		return err
	}
	s, err := newStack(cfg, log, source)
	if err != nil {
		return err
	}

	buttons := input.NewButtons(cfg.Offsets(), log.Named("keys"), input.WithDebounce(cfg.Debounce))
	var drv *driver.Driver
	term := surface.NewTerminal(cfg.Anim.Width, buttons,
		surface.WithStatus(func() string { return drv.Mode().String() }))
	drv = s.driver(term, driver.WithEvents(buttons.Events()))

	fmt.Println(renderBanner())
	fmt.Println(bannerStyle.Render(fmt.Sprintf("  player: %s   logs: %s", cfg.Player, cfg.LogFile)))
	fmt.Println()

	go s.poller.Run(ctx)
	drv.Start(ctx)
	go func() {
		select {
		case <-ctx.Done():
			log.Info("signal received, closing simulator")
			term.Quit()
		case <-term.QuitChan():
		}
	}()

	// Bubble Tea owns the terminal until quit.
	err = term.Run()
	cancel()
	drv.Stop()
	return err
}

func execSnapshot(ctx context.Context, cfg config.Config, frames, nextAfter int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if frames <= 0 {
		return fmt.Errorf("%w: -frames must be positive", domain.ErrInvalidConfig)
	}
	log, closeLog, err := setupLogging(cfg, false)
	if err != nil {
		return err
	}
	defer closeLog()

	source, err := newSource(cfg, log)
	if err != nil {
		return err
	}

	now := time.Now()
	clock := func() time.Time { return now }
	s, err := newStack(cfg, log, source, clock)
	if err != nil {
		return err
	}

	rec, err := surface.NewRecorder(nil, cfg.Anim.Width, cfg.SnapshotDir, log.Named("record"),
		surface.WithMaxFrames(frames))
	if err != nil {
		return err
	}

	// No poller: commands run inline and report the new track at once.
	events := make(chan domain.Event, 8)
	report := func() {
		t, err := source.Current(ctx)
		if err != nil {
			log.Warn("current track: %v", err)
			return
		}
		select {
		case events <- domain.Event{Kind: domain.EventTrackChanged, Track: t, At: now}:
		default:
		}
	}
	commands := func(c domain.Command) bool {
		if err := player.Execute(ctx, source, c); err != nil {
			log.Warn("%s: %v", c, err)
		}
		report()
		return true
	}
	report()

	drv := s.driver(rec,
		driver.WithClock(clock),
		driver.WithEvents(events),
		driver.WithCommands(commands))

	// Bound the run in case the display settles before enough frames.
	maxTicks := frames * 400
	pressed := nextAfter <= 0
	for i := 0; i < maxTicks && rec.Saved() < frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !pressed && rec.Saved() >= nextAfter {
			events <- domain.Event{Kind: domain.EventButton, Button: domain.ButtonNext, At: now}
			pressed = true
		}
		drv.Tick(now)
		now = now.Add(cfg.TickInterval)
	}

	fmt.Printf("wrote %d frames to %s\n", rec.Saved(), cfg.SnapshotDir)
	return nil
}
