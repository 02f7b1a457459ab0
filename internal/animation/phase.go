package animation

import (
	"fmt"
	"time"
)

// Phase is the animation currently driving both lines. Exactly one of
// [Wave], [Sliding] or [Scrolling] is active at a time.
type Phase interface {
	isPhase()
	String() string
}

// Wave is the typewriter reveal. Pos is the number of characters shown
// per line on the next tick.
type Wave struct {
	Pos [Rows]int
}

// Sliding is a directional transition from the old window to new content.
type Sliding struct {
	Transition Transition
}

// Scrolling is the steady state: static for short lines, pendulum for
// overflowing ones.
type Scrolling struct{}

func (Wave) isPhase()      {}
func (Sliding) isPhase()   {}
func (Scrolling) isPhase() {}

func (w Wave) String() string {
	return fmt.Sprintf("wave(%d,%d)", w.Pos[0], w.Pos[1])
}

func (s Sliding) String() string {
	return fmt.Sprintf("sliding(%d)", s.Transition.Step)
}

func (Scrolling) String() string { return "scrolling" }

// Transition is the in-flight part of a slide.
type Transition struct {
	Step        int          // columns shifted so far, 0..width
	PrevVisible [Rows]string // what was on screen when the slide began
	StartedAt   time.Time
}
