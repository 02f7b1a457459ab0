package animation

import (
	"fmt"
	"time"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

// State is the animation state of one display. It is a plain value:
// copying it snapshots every field, which is how the driver keeps a
// failed render from leaking into the committed state.
type State struct {
	Content    [Rows]string
	ScrollPos  [Rows]int
	ScrollDir  [Rows]int
	PauseUntil [Rows]time.Time
	Phase      Phase
	LastTick   time.Time

	shown   [Rows]string // last frame that reached the surface
	hasShow [Rows]bool
	seeded  bool // content has been committed at least once
	entered bool // a mode was entered and nothing has been classified since
}

// NewState returns the state of a display nothing was ever written to.
func NewState() State {
	return State{
		ScrollDir: [Rows]int{1, 1},
		Phase:     Wave{},
	}
}

// WaveComplete reports whether the typewriter reveal has finished.
func (s State) WaveComplete() bool {
	_, waving := s.Phase.(Wave)
	return !waving
}

// Transition returns the in-flight slide, if any.
func (s State) Transition() (Transition, bool) {
	sl, ok := s.Phase.(Sliding)
	return sl.Transition, ok
}

// Seeded reports whether content was ever committed.
func (s State) Seeded() bool { return s.seeded }

// SoftReset restarts animation bookkeeping without touching content.
// It is applied on every mode change; the next classification in a
// banner mode is then always significant.
func (s *State) SoftReset(now time.Time) {
	s.ScrollPos = [Rows]int{}
	s.ScrollDir = [Rows]int{1, 1}
	s.PauseUntil = [Rows]time.Time{}
	s.Phase = Wave{}
	s.LastTick = now
	s.entered = true
}

// Commit stores content without restarting any animation. It is the
// Minor path of the classifier.
func (s *State) Commit(line1, line2 string) {
	s.Content = [Rows]string{line1, line2}
	s.seeded = true
	s.entered = false
}

// Shown returns the last frame written for line i and whether one was.
func (s State) Shown(i int) (string, bool) {
	return s.shown[i], s.hasShow[i]
}

// MarkShown records text as the current physical contents of line i.
func (s *State) MarkShown(i int, text string) {
	s.shown[i] = text
	s.hasShow[i] = true
}

// MarkCleared records a full physical clear of the display.
func (s *State) MarkCleared(width int) {
	for i := range s.shown {
		s.MarkShown(i, fit("", width))
	}
}

// Visible is the exact window currently on screen for line i. When no
// frame was recorded it is reconstructed from content and scroll position.
func (s State) Visible(i, width int) string {
	if s.hasShow[i] {
		return fit(s.shown[i], width)
	}
	c := s.Content[i]
	if len(c) > width {
		return window(c, clamp(s.ScrollPos[i], 0, len(c)-width), width)
	}
	return fit(c, width)
}

// Check verifies the structural invariants of the scroll fields.
func (s State) Check(width int) error {
	for i := range s.Content {
		if err := s.checkLine(i, width); err != nil {
			return err
		}
	}
	return nil
}

func (s State) checkLine(i, width int) error {
	if d := s.ScrollDir[i]; d != 1 && d != -1 {
		return fmt.Errorf("%w: line %d scroll direction %d", domain.ErrInvariant, i+1, d)
	}
	if p, hi := s.ScrollPos[i], maxScroll(s.Content[i], width); p < 0 || p > hi {
		return fmt.Errorf("%w: line %d scroll position %d outside [0,%d]", domain.ErrInvariant, i+1, p, hi)
	}
	return nil
}

// repairLine drops line i back to a static left-justified render.
func (s *State) repairLine(i int) {
	s.ScrollPos[i] = 0
	s.ScrollDir[i] = 1
	s.PauseUntil[i] = time.Time{}
}
