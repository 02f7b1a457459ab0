package animation

import "strings"

// fit left-justifies s into exactly width cells, truncating overflow.
// Cells are bytes: text is expected to be transliterated already.
func fit(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// window returns the width-cell slice of s starting at pos, padded.
func window(s string, pos, width int) string {
	if pos >= len(s) {
		return fit("", width)
	}
	end := pos + width
	if end > len(s) {
		end = len(s)
	}
	return fit(s[pos:end], width)
}

// maxScroll is the last valid pendulum position for s, 0 when s fits.
func maxScroll(s string, width int) int {
	if len(s) <= width {
		return 0
	}
	return len(s) - width
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// compose builds one slide frame: the outgoing window shifted left by
// step columns followed by the first step columns of the incoming text.
// At step == width the result is exactly fit(next, width).
func compose(prev, next string, step, width int) string {
	step = clamp(step, 0, width)
	outgoing := fit(prev, width)[step:]
	incoming := fit(next, width)[:step]
	return outgoing + incoming
}
