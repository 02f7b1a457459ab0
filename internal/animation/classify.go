package animation

import (
	"strings"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

// Change is the outcome of classifying new content.
type Change int

const (
	// Minor content is committed silently; the running animation continues.
	Minor Change = iota
	// Significant content restarts the animation through the selector.
	Significant
)

func (c Change) String() string {
	if c == Significant {
		return "significant"
	}
	return "minor"
}

// Classify decides whether (line1, line2) deserves a fresh animation
// compared to the content already held in st. Pure: st is not modified.
func Classify(p Policy, st State, line1, line2 string) Change {
	if !st.seeded {
		return Significant
	}
	old := st.Content

	switch p.Family {
	case domain.FamilyBanner:
		if st.entered {
			return Significant
		}
		return byteChange(old, line1, line2)

	case domain.FamilyTicking:
		if p.stablePrefix(old[0]) != p.stablePrefix(line1) {
			return Significant
		}
		if old[1] != line2 {
			return Significant
		}
		return Minor

	default:
		return byteChange(old, line1, line2)
	}
}

func byteChange(old [Rows]string, line1, line2 string) Change {
	if old[0] != line1 || old[1] != line2 {
		return Significant
	}
	return Minor
}

// stablePrefix is the part of s before the policy's cut point. Text
// without the delimiter is stable as a whole.
func (p Policy) stablePrefix(s string) string {
	if p.Delimiter == "" {
		return s
	}
	i := strings.Index(s, p.Delimiter)
	if p.CutLast {
		i = strings.LastIndex(s, p.Delimiter)
	}
	if i >= 0 {
		return s[:i]
	}
	return s
}
