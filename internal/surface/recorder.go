package surface

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

var _ domain.Surface = (*Recorder)(nil)
var _ domain.Flusher = (*Recorder)(nil)

// DefaultMaxFrames caps how many PNG files a Recorder writes.
const DefaultMaxFrames = 1000

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithMaxFrames stops saving after n files. Zero or less means no cap.
func WithMaxFrames(n int) RecorderOption {
	return func(r *Recorder) {
		r.max = n
	}
}

// Recorder copies every call into an in-memory grid, forwards it to an
// optional inner surface, and saves each new flushed frame as a PNG in
// dir (frame-0001.png, frame-0002.png, ...).
type Recorder struct {
	inner  domain.Surface
	mem    *Memory
	dir    string
	max    int
	seen   int
	saved  int
	capped bool
	log    *logger.Logger
}

// NewRecorder creates dir if needed. inner may be nil.
func NewRecorder(inner domain.Surface, width int, dir string, log *logger.Logger, opts ...RecorderOption) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	r := &Recorder{
		inner: inner,
		mem:   NewMemory(width, WithHistory(0)),
		dir:   dir,
		max:   DefaultMaxFrames,
		log:   log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Saved returns how many PNG files were written.
func (r *Recorder) Saved() int { return r.saved }

// Clear clears the inner surface, then the grid.
func (r *Recorder) Clear() error {
	if r.inner != nil {
		if err := r.inner.Clear(); err != nil {
			return err
		}
	}
	return r.mem.Clear()
}

// SetCursor moves the inner cursor, then the grid's.
func (r *Recorder) SetCursor(row, col int) error {
	if r.inner != nil {
		if err := r.inner.SetCursor(row, col); err != nil {
			return err
		}
	}
	return r.mem.SetCursor(row, col)
}

// Write writes to the inner surface, then the grid.
func (r *Recorder) Write(text string) error {
	if r.inner != nil {
		if err := r.inner.Write(text); err != nil {
			return err
		}
	}
	return r.mem.Write(text)
}

// Flush records the grid and saves it when it changed since the last
// saved frame.
func (r *Recorder) Flush() error {
	if f, ok := r.inner.(domain.Flusher); ok {
		if err := f.Flush(); err != nil {
			return err
		}
	}
	if err := r.mem.Flush(); err != nil {
		return err
	}

	frame, seq, ok := r.mem.Last()
	if !ok || seq == r.seen {
		return nil
	}
	if r.max > 0 && r.saved >= r.max {
		r.seen = seq
		if !r.capped {
			r.capped = true
			r.log.Warn("recorded %d frames, not saving more", r.saved)
		}
		return nil
	}

	path := filepath.Join(r.dir, fmt.Sprintf("frame-%04d.png", r.saved+1))
	if err := SavePNG(path, frame, r.mem.Width()); err != nil {
		return err
	}
	r.seen = seq
	r.saved++
	r.log.Debug("saved %s", path)
	return nil
}
