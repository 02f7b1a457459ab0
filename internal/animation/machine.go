package animation

import (
	"time"

	"github.com/hammamikhairi/nowplaying/internal/domain"
	"github.com/hammamikhairi/nowplaying/internal/logger"
)

// Frame is one rendered screen: exactly Width cells per line.
type Frame [Rows]string

// Machine advances a [State] through wave, slide and scroll phases.
// It holds no mutable state of its own and is safe for concurrent use.
type Machine struct {
	cfg   Config
	table Table
	log   *logger.Logger
}

// NewMachine validates cfg and returns a machine using table for mode
// policies. A nil table means [DefaultTable].
func NewMachine(cfg Config, table Table, log *logger.Logger) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if table == nil {
		table = DefaultTable()
	}
	if log == nil {
		log = logger.New(logger.LevelOff, nil)
	}
	return &Machine{cfg: cfg, table: table, log: log}, nil
}

// Config returns the machine's configuration.
func (m *Machine) Config() Config { return m.cfg }

// Policy returns the policy applied to mode.
func (m *Machine) Policy(mode domain.Mode) Policy { return m.table.Lookup(mode) }

// Classify applies the policy of mode to new content.
func (m *Machine) Classify(mode domain.Mode, st State, line1, line2 string) Change {
	return Classify(m.Policy(mode), st, line1, line2)
}

// Begin commits significant content into st, resets every animation
// field and picks the entry animation. Slide is used only when the mode
// asks for it and something was shown before; the first content ever
// displayed always waves in. The caller must clear the surface before
// drawing a wave entry.
func (m *Machine) Begin(mode domain.Mode, st *State, line1, line2 string, now time.Time) domain.Entry {
	p := m.Policy(mode)
	entry := domain.EntryWave
	if p.Entry == domain.EntrySlide && st.seeded {
		entry = domain.EntrySlide
	}

	var prev [Rows]string
	if entry == domain.EntrySlide {
		for i := range prev {
			prev[i] = st.Visible(i, m.cfg.Width)
		}
	}

	st.Commit(line1, line2)
	st.ScrollPos = [Rows]int{}
	st.ScrollDir = [Rows]int{1, 1}
	st.PauseUntil = [Rows]time.Time{}
	st.LastTick = now

	if entry == domain.EntrySlide {
		st.Phase = Sliding{Transition: Transition{PrevVisible: prev, StartedAt: now}}
	} else {
		st.Phase = Wave{}
	}
	return entry
}

// Interval is the cadence of the phase st is currently in.
func (m *Machine) Interval(st State) time.Duration {
	switch st.Phase.(type) {
	case Sliding:
		return m.cfg.SlideInterval
	case Scrolling:
		return m.cfg.ScrollInterval
	default:
		return m.cfg.WaveInterval
	}
}

// Advance performs one logical tick if the active phase's cadence has
// elapsed since st.LastTick. It returns the next state and the frame to
// draw; st itself is left untouched so the caller can drop both if the
// frame never reaches the display. due is false when nothing is owed yet.
func (m *Machine) Advance(st State, now time.Time) (next State, frame Frame, due bool) {
	if now.Sub(st.LastTick) < m.Interval(st) {
		return st, Frame{}, false
	}
	next = st
	next.LastTick = now

	switch ph := st.Phase.(type) {
	case Sliding:
		frame = m.slide(&next, ph.Transition, now)
	case Scrolling:
		frame = m.scroll(&next, now)
	case Wave:
		frame = m.wave(&next, ph)
	default:
		m.log.Warn("unknown phase %T, restarting reveal", st.Phase)
		next.Phase = Wave{}
		frame = m.wave(&next, Wave{})
	}

	for i := range frame {
		next.MarkShown(i, frame[i])
	}
	return next, frame, true
}

func (m *Machine) wave(st *State, w Wave) Frame {
	width := m.cfg.Width
	var frame Frame
	done := true
	for i := range frame {
		c := st.Content[i]
		limit := len(c)
		if limit > width {
			limit = width
		}
		pos := clamp(w.Pos[i], 0, limit+1)
		if pos <= limit {
			frame[i] = fit(c[:pos], width)
			pos++
		} else {
			frame[i] = fit(c[:limit], width)
		}
		w.Pos[i] = pos
		if pos <= limit {
			done = false
		}
	}

	if done {
		st.ScrollPos = [Rows]int{}
		st.ScrollDir = [Rows]int{1, 1}
		st.Phase = Scrolling{}
		m.log.Debug("reveal complete")
		return frame
	}
	st.Phase = w
	return frame
}

func (m *Machine) slide(st *State, tr Transition, now time.Time) Frame {
	width := m.cfg.Width
	var frame Frame

	if tr.Step > width {
		for i := range frame {
			frame[i] = fit(st.Content[i], width)
			st.ScrollPos[i] = 0
			st.ScrollDir[i] = 1
			st.PauseUntil[i] = now.Add(m.cfg.LandingPause)
		}
		st.Phase = Scrolling{}
		m.log.Debug("slide landed after %s", now.Sub(tr.StartedAt))
		return frame
	}

	for i := range frame {
		frame[i] = compose(tr.PrevVisible[i], st.Content[i], tr.Step, width)
	}
	tr.Step++
	st.Phase = Sliding{Transition: tr}
	return frame
}

func (m *Machine) scroll(st *State, now time.Time) Frame {
	width := m.cfg.Width
	var frame Frame

	for i := range frame {
		c := st.Content[i]
		if len(c) <= width {
			if st.ScrollPos[i] != 0 {
				// content shrank under a silent update
				st.repairLine(i)
			}
			frame[i] = fit(c, width)
			continue
		}

		if d := st.ScrollDir[i]; d != 1 && d != -1 {
			m.log.Error("%v, resetting line", st.checkLine(i, width))
			st.repairLine(i)
			frame[i] = fit(c, width)
			continue
		}

		hi := len(c) - width
		pos := clamp(st.ScrollPos[i], 0, hi)
		st.ScrollPos[i] = pos
		frame[i] = window(c, pos, width)

		if now.Before(st.PauseUntil[i]) {
			continue
		}

		switch {
		case pos >= hi && st.ScrollDir[i] == 1:
			st.ScrollDir[i] = -1
			st.PauseUntil[i] = now.Add(m.cfg.EndPause)
		case pos <= 0 && st.ScrollDir[i] == -1:
			st.ScrollDir[i] = 1
			st.PauseUntil[i] = now.Add(m.cfg.EndPause)
		default:
			st.ScrollPos[i] = pos + st.ScrollDir[i]
		}
	}

	for i := range frame {
		if err := st.checkLine(i, width); err != nil {
			m.log.Error("%v, resetting line", err)
			st.repairLine(i)
			frame[i] = fit(st.Content[i], width)
		}
	}
	return frame
}
