package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

func parse(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	c := Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	err := c.Parse(fs, args)
	return c, err
}

func TestDefaultsAreValid(t *testing.T) {
	c, err := parse(t)
	if err != nil {
		t.Fatalf("defaults: %v", err)
	}
	if c.Anim.Width != 16 || c.Anim.WaveInterval != 150*time.Millisecond || c.Anim.ScrollInterval != 300*time.Millisecond {
		t.Fatalf("unexpected animation defaults %+v", c.Anim)
	}
	if c.I2CAddr != 0x27 || c.AutoSleep != 30*time.Second || c.ActivePoll != 8*time.Second || c.IdlePoll != 30*time.Second {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.Level() != logger.LevelNormal {
		t.Fatalf("level = %s", c.Level())
	}
}

func TestFlagsEnvAndFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "nowplaying.conf")
	body := "scroll-interval 250ms\nplayer static\n"
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NOWPLAYING_SURFACE", "memory")
	t.Setenv("NOWPLAYING_END_PAUSE", "2s")

	c, err := parse(t, "-config", file, "-end-pause", "3s", "-pin-data", "A,B,C,D,E,F,G,H")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Anim.ScrollInterval != 250*time.Millisecond || c.Player != PlayerStatic {
		t.Fatalf("config file not applied: %+v", c)
	}
	if c.Surface != SurfaceMemory {
		t.Fatalf("env not applied, surface = %q", c.Surface)
	}
	if c.Anim.EndPause != 3*time.Second {
		t.Fatalf("flag should beat env, end pause = %s", c.Anim.EndPause)
	}
	if c.Pins.DB[0] != "A" || c.Pins.DB[7] != "H" {
		t.Fatalf("data pins = %v", c.Pins.DB)
	}
}

func TestMissingConfigFileIsFine(t *testing.T) {
	if _, err := parse(t, "-config", filepath.Join(t.TempDir(), "nope.conf")); err != nil {
		t.Fatalf("missing config file: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero width", []string{"-width", "0"}},
		{"too wide", []string{"-width", "41"}},
		{"20 columns", []string{"-width", "20"}},
		{"8 columns", []string{"-width", "8"}},
		{"zero wave interval", []string{"-wave-interval", "0s"}},
		{"zero tick", []string{"-tick", "0s"}},
		{"unknown player", []string{"-player", "winamp"}},
		{"unknown surface", []string{"-surface", "vfd"}},
		{"bad address", []string{"-i2c-addr", "200"}},
		{"short data pins", []string{"-pin-data", "A,B"}},
		{"shared button line", []string{"-button-next", "17"}},
		{"bad log level", []string{"-log-level", "loud"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.args...)
			if !errors.Is(err, domain.ErrInvalidConfig) {
				t.Fatalf("parse(%v) = %v, want ErrInvalidConfig", tt.args, err)
			}
		})
	}
}

func TestOffsets(t *testing.T) {
	c, err := parse(t, "-button-cycle", "5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	off := c.Offsets()
	if off[5] != domain.ButtonCycle || off[17] != domain.ButtonPrev || len(off) != 4 {
		t.Fatalf("offsets = %v", off)
	}
}

func TestSixteenColumnsAccepted(t *testing.T) {
	c, err := parse(t, "-width", "16")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.Anim.Width != 16 {
		t.Fatalf("width = %d", c.Anim.Width)
	}
}
