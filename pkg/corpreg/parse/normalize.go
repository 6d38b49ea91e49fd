package parse

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// NormalizeName canonicalizes a registered name before classification:
// half-width kana is widened, full-width ASCII is narrowed (width.Fold),
// ideographic spaces become plain spaces, whitespace runs collapse to a
// single space and the result is trimmed.
func NormalizeName(s string) string {
	s = width.Fold.String(s)
	s = combineKanaMarks(s)
	s = strings.ReplaceAll(s, "　", " ")

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// combineKanaMarks folds standalone and combining voiced sound marks into
// the preceding kana. width.Fold widens half-width kana but leaves the
// dakuten/handakuten as separate marks (ﾌﾟ becomes フ+゜), so プ has to be
// composed here.
func combineKanaMarks(s string) string {
	runes := []rune(s)
	out := runes[:0]
	for _, r := range runes {
		if len(out) > 0 {
			prev := out[len(out)-1]
			switch r {
			case '゙', '゛': // dakuten
				if v, ok := voicedKana(prev); ok {
					out[len(out)-1] = v
					continue
				}
			case '゚', '゜': // handakuten
				if v, ok := semiVoicedKana(prev); ok {
					out[len(out)-1] = v
					continue
				}
			}
		}
		out = append(out, r)
	}
	return string(out)
}

// voicedKana returns the dakuten form of a kana rune if one exists.
func voicedKana(r rune) (rune, bool) {
	base := r
	if isHiragana(r) {
		base = r + 0x60
	}
	switch base {
	case 'カ', 'キ', 'ク', 'ケ', 'コ',
		'サ', 'シ', 'ス', 'セ', 'ソ',
		'タ', 'チ', 'ツ', 'テ', 'ト',
		'ハ', 'ヒ', 'フ', 'ヘ', 'ホ':
		return r + 1, true
	case 'ウ':
		if base == r { // ヴ exists only in katakana
			return 'ヴ', true
		}
	}
	return r, false
}

// semiVoicedKana returns the handakuten form of a kana rune if one exists.
func semiVoicedKana(r rune) (rune, bool) {
	base := r
	if isHiragana(r) {
		base = r + 0x60
	}
	switch base {
	case 'ハ', 'ヒ', 'フ', 'ヘ', 'ホ':
		return r + 2, true
	}
	return r, false
}

// Script classes used when segmenting a brand name for reading estimation.

func isKatakana(r rune) bool {
	// Includes the prolonged sound mark and the katakana middle dot.
	return (r >= 0x30A0 && r <= 0x30FF) || r == 'ー'
}

func isHiragana(r rune) bool {
	return r >= 0x3041 && r <= 0x3096
}

func isKanji(r rune) bool {
	return unicode.Is(unicode.Han, r)
}

func isLatin(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// IsKanaOnly reports whether s consists entirely of kana (katakana or
// hiragana), prolonged marks and spaces. Used to judge whether a brand
// name already carries its own reading.
func IsKanaOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if isKatakana(r) || isHiragana(r) || r == ' ' || r == '・' {
			continue
		}
		return false
	}
	return true
}

// HiraganaToKatakana converts every hiragana rune to its katakana
// counterpart, leaving other runes untouched.
func HiraganaToKatakana(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isHiragana(r) {
			r += 0x60
		}
		b.WriteRune(r)
	}
	return b.String()
}

// trimSeparators removes leading and trailing separator punctuation left
// behind after a legal-form token is stripped out of a name.
func trimSeparators(s string) string {
	return strings.Trim(s, " ・()、,。.-‐")
}
