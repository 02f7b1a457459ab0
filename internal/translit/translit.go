// Package translit maps arbitrary Unicode text onto the ASCII subset an
// HD44780 character ROM can draw.
package translit

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"

	"github.com/hammamikhairi/nowplaying/internal/domain"
)

// Replacement stands in for anything that has no ASCII spelling.
const Replacement = '?'

// punctuation maps typographic characters to their closest ASCII form.
var punctuation = map[rune]string{
	'‘': "'", '’': "'", '‚': ",", '′': "'",
	'“': `"`, '”': `"`, '„': `"`, '«': `"`, '»': `"`, '″': `"`,
	'‐': "-", '‑': "-", '‒': "-", '–': "-", '—': "-", '―': "-", '−': "-",
	'…': "...", '·': ".", '•': "*", '×': "x", '÷': "/",
	'\u00a0': " ", '\u3000': " ", '・': " ", '、': ",", '。': ".",
	'「': `"`, '」': `"`, '（': "(", '）': ")",
	'ß': "ss", 'æ': "ae", 'Æ': "AE", 'œ': "oe", 'Œ': "OE",
	'ø': "o", 'Ø': "O", 'ł': "l", 'Ł': "L", 'đ': "d", 'Đ': "D",
	'þ': "th", 'Þ': "Th", 'ð': "d", 'Ð': "D", 'ı': "i",
	'€': "EUR", '£': "GBP", '©': "(c)", '®': "(R)", '™': "TM",
}

// Option configures a Transliterator.
type Option func(*Transliterator)

// WithoutKana disables kana romanization; kana become Replacement.
func WithoutKana() Option {
	return func(t *Transliterator) {
		t.kana = false
	}
}

// Transliterator is safe for concurrent use.
type Transliterator struct {
	kana bool
}

var _ domain.Transliterator = (*Transliterator)(nil)

// New returns a transliterator with kana romanization enabled.
func New(opts ...Option) *Transliterator {
	t := &Transliterator{kana: true}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transliterate returns s using printable ASCII only.
func (t *Transliterator) Transliterate(s string) string {
	if isPrintableASCII(s) {
		return s
	}

	s = norm.NFC.String(width.Fold.String(s))
	if t.kana {
		s = romanize(s)
	}

	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(fold, s); err == nil {
		s = folded
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 0x20 && r < 0x7f:
			b.WriteRune(r)
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteByte(' ')
		case punctuation[r] != "":
			b.WriteString(punctuation[r])
		case unicode.IsControl(r) || unicode.In(r, unicode.Cf, unicode.Mn, unicode.Me) || runewidth.RuneWidth(r) == 0:
			// zero-width joiners, variation selectors and the like
		default:
			// wide runes take a single cell on the module
			b.WriteRune(Replacement)
		}
	}
	return b.String()
}

// String transliterates s with the default settings.
func String(s string) string {
	return New().Transliterate(s)
}

func isPrintableASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] >= 0x7f {
			return false
		}
	}
	return true
}
