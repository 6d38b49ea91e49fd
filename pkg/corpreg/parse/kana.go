package parse

import "strings"

// KanaDict maps dictionary words (typically kanji compounds) to their
// katakana readings. Lookups are greedy longest-match, so compound entries
// take precedence over their parts.
type KanaDict map[string]string

// KanaEstimator derives a best-effort katakana reading for a brand name.
// Katakana passes through, hiragana is converted, kanji runs are resolved
// against the dictionary and Latin tokens against a fixed romaji ruleset.
// Segments with no deterministic reading are omitted rather than guessed.
type KanaEstimator struct {
	dict   KanaDict
	maxKey int // longest dictionary key in bytes
}

// NewKanaEstimator builds an estimator over an immutable dictionary.
func NewKanaEstimator(dict KanaDict) *KanaEstimator {
	e := &KanaEstimator{dict: dict}
	for k := range dict {
		if len(k) > e.maxKey {
			e.maxKey = len(k)
		}
	}
	return e
}

// Estimate returns the katakana reading of brand, or "" when no part of it
// has a deterministic reading.
func (e *KanaEstimator) Estimate(brand string) string {
	var out strings.Builder
	for _, seg := range segment(brand) {
		switch seg.class {
		case classKatakana:
			out.WriteString(seg.text)
		case classHiragana:
			out.WriteString(HiraganaToKatakana(seg.text))
		case classKanji:
			out.WriteString(e.readKanji(seg.text))
		case classLatin:
			out.WriteString(romajiToKatakana(seg.text))
		}
		// digits and symbols contribute nothing to the reading
	}
	return out.String()
}

// readKanji resolves a kanji run by greedy longest-match over the
// dictionary. A run is only readable when the dictionary covers it
// completely; partial readings would be misleading.
func (e *KanaEstimator) readKanji(run string) string {
	var out strings.Builder
	for i := 0; i < len(run); {
		matched := false
		max := e.maxKey
		if rest := len(run) - i; max > rest {
			max = rest
		}
		for n := max; n > 0; n-- {
			if reading, ok := e.dict[run[i:i+n]]; ok {
				out.WriteString(reading)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			return ""
		}
	}
	return out.String()
}

type segmentClass int

const (
	classOther segmentClass = iota
	classKatakana
	classHiragana
	classKanji
	classLatin
)

type nameSegment struct {
	text  string
	class segmentClass
}

func classOf(r rune) segmentClass {
	switch {
	case isKatakana(r):
		return classKatakana
	case isHiragana(r):
		return classHiragana
	case isKanji(r):
		return classKanji
	case isLatin(r):
		return classLatin
	}
	return classOther
}

// segment splits a brand name into maximal runs of a single script class.
func segment(s string) []nameSegment {
	var segs []nameSegment
	var cur strings.Builder
	curClass := classOther
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, nameSegment{text: cur.String(), class: curClass})
			cur.Reset()
		}
	}
	for _, r := range s {
		c := classOf(r)
		// The prolonged sound mark extends whatever kana run it follows.
		if r == 'ー' && curClass == classHiragana {
			c = classHiragana
		}
		if c != curClass {
			flush()
			curClass = c
		}
		cur.WriteRune(r)
	}
	flush()
	return segs
}

// romajiDigraphs are two- and three-letter syllables checked before the
// base table (longest first).
var romajiDigraphs = map[string]string{
	"kya": "キャ", "kyu": "キュ", "kyo": "キョ",
	"sha": "シャ", "shu": "シュ", "sho": "ショ", "shi": "シ",
	"cha": "チャ", "chu": "チュ", "cho": "チョ", "chi": "チ",
	"tsu": "ツ",
	"nya": "ニャ", "nyu": "ニュ", "nyo": "ニョ",
	"hya": "ヒャ", "hyu": "ヒュ", "hyo": "ヒョ",
	"mya": "ミャ", "myu": "ミュ", "myo": "ミョ",
	"rya": "リャ", "ryu": "リュ", "ryo": "リョ",
	"gya": "ギャ", "gyu": "ギュ", "gyo": "ギョ",
	"ja": "ジャ", "ju": "ジュ", "jo": "ジョ", "ji": "ジ",
	"bya": "ビャ", "byu": "ビュ", "byo": "ビョ",
	"pya": "ピャ", "pyu": "ピュ", "pyo": "ピョ",
	"fa": "ファ", "fi": "フィ", "fe": "フェ", "fo": "フォ", "fu": "フ",
	"va": "ヴァ", "vi": "ヴィ", "vu": "ヴ", "ve": "ヴェ", "vo": "ヴォ",
	"ti": "ティ", "di": "ディ",
	"wi": "ウィ", "we": "ウェ",
	"she": "シェ", "che": "チェ", "je": "ジェ",
}

// romajiBase maps consonant initials to their a-i-u-e-o column readings.
var romajiBase = map[byte][5]string{
	0:   {"ア", "イ", "ウ", "エ", "オ"},
	'k': {"カ", "キ", "ク", "ケ", "コ"},
	's': {"サ", "シ", "ス", "セ", "ソ"},
	't': {"タ", "チ", "ツ", "テ", "ト"},
	'n': {"ナ", "ニ", "ヌ", "ネ", "ノ"},
	'h': {"ハ", "ヒ", "フ", "ヘ", "ホ"},
	'm': {"マ", "ミ", "ム", "メ", "モ"},
	'y': {"ヤ", "イ", "ユ", "イェ", "ヨ"},
	'r': {"ラ", "リ", "ル", "レ", "ロ"},
	'w': {"ワ", "ウィ", "ウ", "ウェ", "ヲ"},
	'g': {"ガ", "ギ", "グ", "ゲ", "ゴ"},
	'z': {"ザ", "ジ", "ズ", "ゼ", "ゾ"},
	'd': {"ダ", "ヂ", "ヅ", "デ", "ド"},
	'b': {"バ", "ビ", "ブ", "ベ", "ボ"},
	'p': {"パ", "ピ", "プ", "ペ", "ポ"},
}

func vowelIndex(b byte) int {
	switch b {
	case 'a':
		return 0
	case 'i':
		return 1
	case 'u':
		return 2
	case 'e':
		return 3
	case 'o':
		return 4
	}
	return -1
}

func isRomajiConsonant(b byte) bool {
	_, ok := romajiBase[b]
	return ok || b == 'c' || b == 'f' || b == 'j' || b == 'v'
}

// romajiToKatakana transliterates a Latin token read as Hepburn romaji.
// Tokens that do not parse as a clean sequence of romaji syllables (foreign
// spellings with consonant clusters, trailing consonants and so on) yield
// "" because no deterministic reading exists for them.
func romajiToKatakana(token string) string {
	s := strings.ToLower(token)
	var out strings.Builder
	for i := 0; i < len(s); {
		// Geminate consonant → ッ (e.g. "sapporo" unaffected, "nippon" → ニッポン).
		if i+1 < len(s) && s[i] == s[i+1] && isRomajiConsonant(s[i]) && s[i] != 'n' {
			out.WriteString("ッ")
			i++
			continue
		}
		// Digraph syllables, longest first.
		matched := false
		for n := 3; n >= 2; n-- {
			if i+n <= len(s) {
				if kana, ok := romajiDigraphs[s[i:i+n]]; ok {
					out.WriteString(kana)
					i += n
					matched = true
					break
				}
			}
		}
		if matched {
			continue
		}
		// Syllabic n: before a consonant or at the end of the token.
		if s[i] == 'n' && (i+1 == len(s) || vowelIndex(s[i+1]) < 0 && s[i+1] != 'y') {
			out.WriteString("ン")
			i++
			continue
		}
		// Plain vowel.
		if v := vowelIndex(s[i]); v >= 0 {
			out.WriteString(romajiBase[0][v])
			i++
			continue
		}
		// Consonant + vowel.
		if col, ok := romajiBase[s[i]]; ok && i+1 < len(s) {
			if v := vowelIndex(s[i+1]); v >= 0 {
				out.WriteString(col[v])
				i += 2
				continue
			}
		}
		// Not parseable as romaji: no deterministic reading.
		return ""
	}
	return out.String()
}

// DefaultKanaDict returns the built-in reading dictionary covering common
// corporate vocabulary and major place names. Compound entries come before
// their parts by virtue of longest-match lookup.
func DefaultKanaDict() KanaDict {
	return KanaDict{
		"商事":   "ショウジ",
		"商会":   "ショウカイ",
		"商店":   "ショウテン",
		"工業":   "コウギョウ",
		"興業":   "コウギョウ",
		"産業":   "サンギョウ",
		"実業":   "ジツギョウ",
		"物産":   "ブッサン",
		"建設":   "ケンセツ",
		"工務店":  "コウムテン",
		"電気":   "デンキ",
		"電機":   "デンキ",
		"電子":   "デンシ",
		"通信":   "ツウシン",
		"情報":   "ジョウホウ",
		"自動車":  "ジドウシャ",
		"運輸":   "ウンユ",
		"運送":   "ウンソウ",
		"交通":   "コウツウ",
		"不動産":  "フドウサン",
		"住宅":   "ジュウタク",
		"製作所":  "セイサクショ",
		"製薬":   "セイヤク",
		"製鋼":   "セイコウ",
		"製菓":   "セイカ",
		"食品":   "ショクヒン",
		"水産":   "スイサン",
		"農園":   "ノウエン",
		"印刷":   "インサツ",
		"出版":   "シュッパン",
		"企画":   "キカク",
		"開発":   "カイハツ",
		"設計":   "セッケイ",
		"技研":   "ギケン",
		"総研":   "ソウケン",
		"銀行":   "ギンコウ",
		"証券":   "ショウケン",
		"保険":   "ホケン",
		"観光":   "カンコウ",
		"貿易":   "ボウエキ",
		"薬品":   "ヤクヒン",
		"化学":   "カガク",
		"化成":   "カセイ",
		"金属":   "キンゾク",
		"鉄工":   "テッコウ",
		"塗装":   "トソウ",
		"紙業":   "シギョウ",
		"日本":   "ニホン",
		"東京":   "トウキョウ",
		"大阪":   "オオサカ",
		"京都":   "キョウト",
		"名古屋":  "ナゴヤ",
		"横浜":   "ヨコハマ",
		"神戸":   "コウベ",
		"福岡":   "フクオカ",
		"札幌":   "サッポロ",
		"仙台":   "センダイ",
		"広島":   "ヒロシマ",
		"東":    "ヒガシ",
		"西":    "ニシ",
		"南":    "ミナミ",
		"北":    "キタ",
		"新":    "シン",
		"大":    "ダイ",
	}
}
