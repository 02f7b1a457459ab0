package translit

import "strings"

// hiragana spelled in Hepburn. Katakana is shifted onto this table.
var hiragana = map[rune]string{
	'あ': "a", 'い': "i", 'う': "u", 'え': "e", 'お': "o",
	'か': "ka", 'き': "ki", 'く': "ku", 'け': "ke", 'こ': "ko",
	'が': "ga", 'ぎ': "gi", 'ぐ': "gu", 'げ': "ge", 'ご': "go",
	'さ': "sa", 'し': "shi", 'す': "su", 'せ': "se", 'そ': "so",
	'ざ': "za", 'じ': "ji", 'ず': "zu", 'ぜ': "ze", 'ぞ': "zo",
	'た': "ta", 'ち': "chi", 'つ': "tsu", 'て': "te", 'と': "to",
	'だ': "da", 'ぢ': "ji", 'づ': "zu", 'で': "de", 'ど': "do",
	'な': "na", 'に': "ni", 'ぬ': "nu", 'ね': "ne", 'の': "no",
	'は': "ha", 'ひ': "hi", 'ふ': "fu", 'へ': "he", 'ほ': "ho",
	'ば': "ba", 'び': "bi", 'ぶ': "bu", 'べ': "be", 'ぼ': "bo",
	'ぱ': "pa", 'ぴ': "pi", 'ぷ': "pu", 'ぺ': "pe", 'ぽ': "po",
	'ま': "ma", 'み': "mi", 'む': "mu", 'め': "me", 'も': "mo",
	'や': "ya", 'ゆ': "yu", 'よ': "yo",
	'ら': "ra", 'り': "ri", 'る': "ru", 'れ': "re", 'ろ': "ro",
	'わ': "wa", 'ゐ': "i", 'ゑ': "e", 'を': "o", 'ん': "n", 'ゔ': "vu",
}

// small kana modify the syllable before them.
var (
	smallY     = map[rune]string{'ゃ': "a", 'ゅ': "u", 'ょ': "o"}
	smallVowel = map[rune]string{'ぁ': "a", 'ぃ': "i", 'ぅ': "u", 'ぇ': "e", 'ぉ': "o", 'ゎ': "a"}
)

const (
	sokuon     = 'っ'
	longVowel  = 'ー'
	kataOffset = 'ア' - 'あ'
)

func toHiragana(r rune) rune {
	if r >= 'ァ' && r <= 'ヶ' {
		return r - kataOffset
	}
	return r
}

func isKana(r rune) bool {
	r = toHiragana(r)
	return (r >= 'ぁ' && r <= 'ゖ') || r == longVowel
}

// romanize spells hiragana and katakana in Latin letters, leaving every
// other rune untouched.
func romanize(s string) string {
	if !strings.ContainsFunc(s, isKana) {
		return s
	}

	in := []rune(s)
	var b strings.Builder
	double := false
	last := ""

	for i := 0; i < len(in); i++ {
		r := toHiragana(in[i])

		switch {
		case r == sokuon:
			double = true
			continue
		case r == longVowel:
			if v := lastVowel(last); v != "" {
				b.WriteString(v)
			}
			continue
		}

		syl, ok := hiragana[r]
		if !ok {
			if v, small := smallVowel[r]; small {
				syl = v
			} else if v, small := smallY[r]; small {
				syl = "y" + v
			} else {
				double = false
				b.WriteRune(in[i])
				last = ""
				continue
			}
		}

		if i+1 < len(in) {
			next := toHiragana(in[i+1])
			if v, ok := smallY[next]; ok && len(syl) > 1 {
				syl = palatal(syl) + v
				i++
			} else if v, ok := smallVowel[next]; ok && len(syl) > 0 {
				syl = glide(syl) + v
				i++
			}
		}

		if double && syl != "" {
			if strings.HasPrefix(syl, "ch") {
				b.WriteByte('t')
			} else if c := syl[0]; !strings.ContainsRune("aeioun", rune(c)) {
				b.WriteByte(c)
			}
		}
		double = false
		b.WriteString(syl)
		last = syl
	}
	return b.String()
}

// palatal turns "ki" into "ky", "shi" into "sh", "chi" into "ch".
func palatal(syl string) string {
	switch syl {
	case "shi":
		return "sh"
	case "chi":
		return "ch"
	case "ji":
		return "j"
	}
	return syl[:len(syl)-1] + "y"
}

// glide drops the vowel so a small vowel can replace it.
func glide(syl string) string {
	if syl == "u" {
		return "w"
	}
	return syl[:len(syl)-1]
}

func lastVowel(syl string) string {
	if syl == "" {
		return ""
	}
	c := syl[len(syl)-1]
	if strings.IndexByte("aeiou", c) >= 0 {
		return string(c)
	}
	return ""
}
