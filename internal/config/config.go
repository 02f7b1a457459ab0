// Package config holds the runtime settings. Every setting is a flag;
// ff lets each one also come from a NOWPLAYING_* environment variable or
// a plain "name value" config file given with -config.
package config

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v3"

	"github.com/hammamikhairi/nowplaying/internal/animation"
	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/input"
	"github.com/hammamikhairi/nowplaying/internal/logger"
	"github.com/hammamikhairi/nowplaying/internal/surface"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "NOWPLAYING"

// Player backends.
const (
	PlayerAuto      = "auto"
	PlayerPlayerctl = "playerctl"
	PlayerOSA       = "osascript"
	PlayerStatic    = "static"
)

// Surfaces.
const (
	SurfaceI2C      = "i2c"
	SurfaceParallel = "parallel"
	SurfaceSim      = "sim"
	SurfaceMemory   = "memory"
)

// Config is the full set of settings.
type Config struct {
	Anim         animation.Config
	TickInterval time.Duration
	Welcome      time.Duration
	AutoSleep    time.Duration

	ActivePoll  time.Duration
	IdlePoll    time.Duration
	SettleDelay time.Duration
	Player      string
	PlayerName  string
	Kana        bool

	Surface     string
	I2CBus      string
	I2CAddr     uint
	Pins        surface.ParallelPins
	FixedDelays bool

	GPIOChip    string
	ButtonPrev  int
	ButtonPlay  int
	ButtonNext  int
	ButtonCycle int
	Debounce    time.Duration

	LogLevel    string
	LogFile     string
	SnapshotDir string

	dataPins string
}

// Default returns the stock settings.
func Default() Config {
	pins := surface.DefaultParallelPins()
	return Config{
		Anim:         animation.DefaultConfig(),
		TickInterval: 50 * time.Millisecond,
		Welcome:      3 * time.Second,
		AutoSleep:    30 * time.Second,

		ActivePoll:  8 * time.Second,
		IdlePoll:    30 * time.Second,
		SettleDelay: 500 * time.Millisecond,
		Player:      PlayerAuto,
		Kana:        true,

		Surface:  SurfaceI2C,
		I2CBus:   "",
		I2CAddr:  surface.DefaultI2CAddress,
		Pins:     pins,
		dataPins: strings.Join(pins.DB[:], ","),

		GPIOChip:    "gpiochip0",
		ButtonPrev:  17,
		ButtonPlay:  18,
		ButtonNext:  27,
		ButtonCycle: 22,
		Debounce:    input.DefaultDebounce,

		LogLevel:    "normal",
		LogFile:     "nowplaying.log",
		SnapshotDir: "frames",
	}
}

// Register binds every setting to a flag on fs, using the current
// values as defaults. It also registers -config.
func (c *Config) Register(fs *flag.FlagSet) {
	fs.String("config", "", "config file (optional)")

	fs.IntVar(&c.Anim.Width, "width", c.Anim.Width, "display width in characters (only 16 is supported)")
	fs.DurationVar(&c.Anim.WaveInterval, "wave-interval", c.Anim.WaveInterval, "reveal step interval")
	fs.DurationVar(&c.Anim.SlideInterval, "slide-interval", c.Anim.SlideInterval, "slide step interval")
	fs.DurationVar(&c.Anim.ScrollInterval, "scroll-interval", c.Anim.ScrollInterval, "scroll step interval")
	fs.DurationVar(&c.Anim.EndPause, "end-pause", c.Anim.EndPause, "pause at each end of a scroll")
	fs.DurationVar(&c.Anim.LandingPause, "landing-pause", c.Anim.LandingPause, "pause after a slide lands")
	fs.DurationVar(&c.TickInterval, "tick", c.TickInterval, "driver loop interval")
	fs.DurationVar(&c.Welcome, "welcome", c.Welcome, "how long the welcome page stays up (0 skips it)")
	fs.DurationVar(&c.AutoSleep, "auto-sleep", c.AutoSleep, "switch to the clock after this long without music (0 disables)")

	fs.DurationVar(&c.ActivePoll, "poll-active", c.ActivePoll, "player poll interval on the now playing page")
	fs.DurationVar(&c.IdlePoll, "poll-idle", c.IdlePoll, "player poll interval on other pages")
	fs.DurationVar(&c.SettleDelay, "poll-settle", c.SettleDelay, "delay before polling after a player command")
	fs.StringVar(&c.Player, "player", c.Player, "player backend: auto, playerctl, osascript or static")
	fs.StringVar(&c.PlayerName, "player-name", c.PlayerName, "playerctl player to follow (empty picks one)")
	fs.BoolVar(&c.Kana, "kana", c.Kana, "romanize Japanese kana")

	fs.StringVar(&c.Surface, "surface", c.Surface, "display: i2c, parallel, sim or memory")
	fs.StringVar(&c.I2CBus, "i2c-bus", c.I2CBus, "I2C bus name (empty picks the first)")
	fs.UintVar(&c.I2CAddr, "i2c-addr", c.I2CAddr, "I2C address of the LCD backpack")
	fs.StringVar(&c.Pins.RS, "pin-rs", c.Pins.RS, "parallel RS pin")
	fs.StringVar(&c.Pins.RW, "pin-rw", c.Pins.RW, "parallel RW pin")
	fs.StringVar(&c.Pins.E, "pin-e", c.Pins.E, "parallel E pin")
	fs.StringVar(&c.dataPins, "pin-data", c.dataPins, "parallel DB0-DB7 pins, comma separated")
	fs.BoolVar(&c.FixedDelays, "fixed-delays", c.FixedDelays, "wait fixed delays instead of reading the busy flag")

	fs.StringVar(&c.GPIOChip, "gpio-chip", c.GPIOChip, "GPIO chip for the buttons (empty disables them)")
	fs.IntVar(&c.ButtonPrev, "button-prev", c.ButtonPrev, "line offset of the PREV button")
	fs.IntVar(&c.ButtonPlay, "button-play", c.ButtonPlay, "line offset of the PLAY button")
	fs.IntVar(&c.ButtonNext, "button-next", c.ButtonNext, "line offset of the NEXT button")
	fs.IntVar(&c.ButtonCycle, "button-cycle", c.ButtonCycle, "line offset of the CYCLE button")
	fs.DurationVar(&c.Debounce, "debounce", c.Debounce, "minimum gap between presses of one button")

	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: off, normal or verbose")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, `log file, or "stderr"`)
	fs.StringVar(&c.SnapshotDir, "snapshot-dir", c.SnapshotDir, "where snapshot frames are written")
}

// Options are the ff options shared by every command.
func Options() []ff.Option {
	return []ff.Option{
		ff.WithEnvVarPrefix(EnvPrefix),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
		ff.WithAllowMissingConfigFile(true),
	}
}

// Parse registers c on fs and parses args, the environment and the
// config file, then validates the result.
func (c *Config) Parse(fs *flag.FlagSet, args []string) error {
	c.Register(fs)
	if err := ff.Parse(fs, args, Options()...); err != nil {
		return err
	}
	return c.Validate()
}

// Validate checks the settings and fills derived fields. Errors wrap
// domain.ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{domain.ErrInvalidConfig}, args...)...))
	}

	if err := c.Anim.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Anim.Width > 0 && c.Anim.Width != animation.DefaultWidth {
		bad("width must be %d, got %d", animation.DefaultWidth, c.Anim.Width)
	}
	if c.TickInterval <= 0 {
		bad("tick must be positive, got %s", c.TickInterval)
	}
	if c.Welcome < 0 {
		bad("welcome must not be negative, got %s", c.Welcome)
	}
	if c.ActivePoll <= 0 || c.IdlePoll <= 0 {
		bad("poll intervals must be positive, got %s and %s", c.ActivePoll, c.IdlePoll)
	}
	if c.SettleDelay < 0 {
		bad("poll-settle must not be negative, got %s", c.SettleDelay)
	}
	if c.Debounce < 0 {
		bad("debounce must not be negative, got %s", c.Debounce)
	}

	switch c.Player {
	case PlayerAuto, PlayerPlayerctl, PlayerOSA, PlayerStatic:
	default:
		bad("unknown player %q", c.Player)
	}
	switch c.Surface {
	case SurfaceI2C, SurfaceParallel, SurfaceSim, SurfaceMemory:
	default:
		bad("unknown surface %q", c.Surface)
	}
	if c.I2CAddr == 0 || c.I2CAddr > 0x7f {
		bad("i2c address %#x out of range", c.I2CAddr)
	}

	if c.dataPins != "" {
		names := strings.Split(c.dataPins, ",")
		if len(names) != len(c.Pins.DB) {
			bad("pin-data needs %d pins, got %d", len(c.Pins.DB), len(names))
		} else {
			for i, n := range names {
				c.Pins.DB[i] = strings.TrimSpace(n)
			}
		}
	}

	seen := make(map[int]bool)
	for _, off := range []int{c.ButtonPrev, c.ButtonPlay, c.ButtonNext, c.ButtonCycle} {
		if off < 0 {
			bad("button offset %d is negative", off)
		}
		if seen[off] {
			bad("button offset %d used twice", off)
		}
		seen[off] = true
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		bad("%v", err)
	}
	return errors.Join(errs...)
}

// Level is the parsed log level. Call after Validate.
func (c Config) Level() logger.Level {
	l, _ := logger.ParseLevel(c.LogLevel)
	return l
}

// Offsets maps the configured button lines.
func (c Config) Offsets() input.Offsets {
	return input.Offsets{
		c.ButtonPrev:  domain.ButtonPrev,
		c.ButtonPlay:  domain.ButtonPlay,
		c.ButtonNext:  domain.ButtonNext,
		c.ButtonCycle: domain.ButtonCycle,
	}
}
