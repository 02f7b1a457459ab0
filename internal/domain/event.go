package domain

import "time"

// Button is one of the four front-panel buttons.
type Button int

const (
	ButtonPrev Button = iota
	ButtonPlay
	ButtonNext
	ButtonCycle
)

// String returns the button label.
func (b Button) String() string {
	switch b {
	case ButtonPrev:
		return "PREV"
	case ButtonPlay:
		return "PLAY"
	case ButtonNext:
		return "NEXT"
	case ButtonCycle:
		return "CYCLE"
	default:
		return "UNKNOWN"
	}
}

// Playback reports whether b controls the player rather than the display.
func (b Button) Playback() bool {
	return b == ButtonPrev || b == ButtonPlay || b == ButtonNext
}

// EventKind tags an Event.
type EventKind int

const (
	EventButton EventKind = iota
	EventTrackChanged
	EventPlaybackChanged
)

// String returns a human-readable event kind.
func (k EventKind) String() string {
	switch k {
	case EventButton:
		return "button"
	case EventTrackChanged:
		return "track_changed"
	case EventPlaybackChanged:
		return "playback_changed"
	default:
		return "unknown"
	}
}

// Event is the only way state crosses into the tick loop. Producers
// running on other goroutines send events; the driver consumes them at
// the start of each tick.
type Event struct {
	Kind   EventKind
	Button Button // EventButton
	Track  Track  // EventTrackChanged, EventPlaybackChanged
	At     time.Time
}

// Command is a request for the player, issued by the tick loop and
// executed off it.
type Command int

const (
	CommandPlayPause Command = iota
	CommandNext
	CommandPrevious
	// CommandRefresh asks for an immediate poll.
	CommandRefresh
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandPlayPause:
		return "play-pause"
	case CommandNext:
		return "next"
	case CommandPrevious:
		return "previous"
	case CommandRefresh:
		return "refresh"
	default:
		return "unknown"
	}
}

// CommandFor maps a playback button to its player command.
func CommandFor(b Button) (Command, bool) {
	switch b {
	case ButtonPrev:
		return CommandPrevious, true
	case ButtonPlay:
		return CommandPlayPause, true
	case ButtonNext:
		return CommandNext, true
	default:
		return 0, false
	}
}
