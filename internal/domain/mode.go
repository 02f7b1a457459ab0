// Package domain defines the core types and interfaces for the
// now-playing display. All other packages depend on domain; domain
// depends on nothing.
package domain

// Mode selects which content family is on the display.
type Mode int

const (
	ModeWelcome Mode = iota
	ModeNowPlaying
	ModeClock
	ModeDebug
)

// cycleOrder is the order the cycle button walks through. Welcome is
// only ever shown at startup.
var cycleOrder = []Mode{ModeNowPlaying, ModeClock, ModeDebug}

// String returns the mode name used in logs and on the debug page.
func (m Mode) String() string {
	switch m {
	case ModeWelcome:
		return "welcome"
	case ModeNowPlaying:
		return "now_playing"
	case ModeClock:
		return "clock"
	case ModeDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// Next returns the mode the cycle button moves to.
func (m Mode) Next() Mode {
	for i, c := range cycleOrder {
		if c == m {
			return cycleOrder[(i+1)%len(cycleOrder)]
		}
	}
	return cycleOrder[0]
}

// Family groups modes by how content changes are classified.
type Family int

const (
	// FamilyDefault treats any byte-level difference as significant.
	FamilyDefault Family = iota
	// FamilyTicking ignores changes after the first delimiter of line 1.
	FamilyTicking
	// FamilyBanner re-animates every time the mode is entered.
	FamilyBanner
)

// String returns a human-readable family name.
func (f Family) String() string {
	switch f {
	case FamilyDefault:
		return "default"
	case FamilyTicking:
		return "ticking"
	case FamilyBanner:
		return "banner"
	default:
		return "unknown"
	}
}

// Entry is the animation a significant change starts with.
type Entry int

const (
	EntryWave Entry = iota
	EntrySlide
)

// String returns a human-readable entry name.
func (e Entry) String() string {
	switch e {
	case EntryWave:
		return "wave"
	case EntrySlide:
		return "slide"
	default:
		return "unknown"
	}
}
