package domain

import "context"

// Surface is a character display addressed by row and column. Writes
// start at the cursor and never wrap to the next row; callers keep each
// write within the display width.
type Surface interface {
	Clear() error
	SetCursor(row, col int) error
	Write(text string) error
}

// Flusher is implemented by surfaces that batch writes. The driver
// calls Flush once a whole frame, or a clear, has been written.
type Flusher interface {
	Flush() error
}

// ContentProvider returns the two raw lines for a mode. Lines may be any
// length; the animation engine decides what fits.
type ContentProvider interface {
	Content(mode Mode) (line1, line2 string, err error)
}

// TrackSource talks to whatever is playing music. Implementations can be
// MPRIS, AppleScript, a web API, or a scripted list.
type TrackSource interface {
	Current(ctx context.Context) (Track, error)
	PlayPause(ctx context.Context) error
	Next(ctx context.Context) error
	Previous(ctx context.Context) error
}

// Transliterator maps arbitrary text onto the display's character set.
type Transliterator interface {
	Transliterate(s string) string
}

// TransliteratorFunc adapts a plain function to Transliterator.
type TransliteratorFunc func(string) string

// Transliterate calls f(s).
func (f TransliteratorFunc) Transliterate(s string) string { return f(s) }
