package parse

import "sort"

// LegalForm is one entry of the legal-form token table: a canonical
// entity-type token plus the surface variants that denote it (abbreviated
// and parenthesized spellings).
type LegalForm struct {
	Canonical string
	Variants  []string
}

// Position records where in the name a legal-form token was found.
type Position int

const (
	PositionNone Position = iota
	PositionPrefix
	PositionSuffix
	PositionEmbedded
)

func (p Position) String() string {
	switch p {
	case PositionPrefix:
		return "prefix"
	case PositionSuffix:
		return "suffix"
	case PositionEmbedded:
		return "embedded"
	}
	return "none"
}

// Match is the result of scanning a name for a legal-form token.
type Match struct {
	Canonical string
	Surface   string
	Position  Position
	Index     int
}

// LegalFormMatcher scans names against an immutable token table. Built once
// at startup and shared read-only across workers.
type LegalFormMatcher struct {
	canonical map[string]string // surface → canonical
	surfaces  []string          // all surfaces, longest first
}

// NewLegalFormMatcher builds a matcher from the given table. Surfaces are
// ordered longest first so that longest-match always wins within a
// position (一般社団法人 before 社団法人).
func NewLegalFormMatcher(forms []LegalForm) *LegalFormMatcher {
	m := &LegalFormMatcher{canonical: make(map[string]string)}
	add := func(surface, canonical string) {
		if surface == "" {
			return
		}
		if _, ok := m.canonical[surface]; ok {
			return
		}
		m.canonical[surface] = canonical
		m.surfaces = append(m.surfaces, surface)
	}
	for _, f := range forms {
		add(f.Canonical, f.Canonical)
		for _, v := range f.Variants {
			add(v, f.Canonical)
		}
	}
	sort.SliceStable(m.surfaces, func(i, j int) bool {
		return len(m.surfaces[i]) > len(m.surfaces[j])
	})
	return m
}

// Match scans name for a legal-form token. Candidate positions are checked
// in fixed priority order: prefix, then suffix, then embedded. The first
// position with any match wins; within a position the longest surface wins.
// Legal names rarely place the token ambiguously, so position priority is a
// policy rather than a disambiguation.
func (m *LegalFormMatcher) Match(name string) (Match, bool) {
	for _, s := range m.surfaces {
		if hasPrefix(name, s) {
			return Match{Canonical: m.canonical[s], Surface: s, Position: PositionPrefix, Index: 0}, true
		}
	}
	for _, s := range m.surfaces {
		if hasSuffix(name, s) {
			return Match{Canonical: m.canonical[s], Surface: s, Position: PositionSuffix, Index: len(name) - len(s)}, true
		}
	}
	for _, s := range m.surfaces {
		if i := index(name, s); i > 0 && i < len(name)-len(s) {
			return Match{Canonical: m.canonical[s], Surface: s, Position: PositionEmbedded, Index: i}, true
		}
	}
	return Match{}, false
}

// Strip removes the matched surface from name and trims separator
// punctuation left at the cut. When nothing but the token and punctuation
// remains, the original name is returned unchanged so that a non-empty
// input never yields an empty brand name.
func (m *LegalFormMatcher) Strip(name string, match Match) string {
	head := trimSeparators(name[:match.Index])
	tail := trimSeparators(name[match.Index+len(match.Surface):])
	switch {
	case head == "" && tail == "":
		return name
	case head == "":
		return tail
	case tail == "":
		return head
	}
	return head + " " + tail
}

// StripAll strips the matched surface and keeps re-scanning the remainder
// until no token is left, so a name carrying more than one token (prefix
// plus suffix, or a duplicated token) yields a brand free of table tokens.
// Strip's non-empty fallback is preserved: a remainder that is nothing but
// a token stays as is.
func (m *LegalFormMatcher) StripAll(name string, match Match) string {
	out := m.Strip(name, match)
	for {
		next, ok := m.Match(out)
		if !ok {
			return out
		}
		stripped := m.Strip(out, next)
		if stripped == out {
			return out
		}
		out = stripped
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func index(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// DefaultLegalForms returns the built-in legal-form token table covering
// the common corporate, association and cooperative forms. Narrower forms
// that are substrings of wider ones (社団法人 inside 一般社団法人) are safe
// because matching is longest-first.
func DefaultLegalForms() []LegalForm {
	return []LegalForm{
		{Canonical: "株式会社", Variants: []string{"㈱", "(株)"}},
		{Canonical: "有限会社", Variants: []string{"㈲", "(有)"}},
		{Canonical: "合同会社", Variants: []string{"(同)"}},
		{Canonical: "合名会社", Variants: []string{"(名)"}},
		{Canonical: "合資会社", Variants: []string{"(資)"}},
		{Canonical: "相互会社"},
		{Canonical: "特定目的会社"},
		{Canonical: "一般社団法人"},
		{Canonical: "一般財団法人"},
		{Canonical: "公益社団法人"},
		{Canonical: "公益財団法人"},
		{Canonical: "社団法人"},
		{Canonical: "財団法人"},
		{Canonical: "特定非営利活動法人", Variants: []string{"NPO法人"}},
		{Canonical: "医療法人社団"},
		{Canonical: "医療法人財団"},
		{Canonical: "医療法人"},
		{Canonical: "社会福祉法人"},
		{Canonical: "学校法人"},
		{Canonical: "宗教法人"},
		{Canonical: "独立行政法人"},
		{Canonical: "地方独立行政法人"},
		{Canonical: "国立大学法人"},
		{Canonical: "公立大学法人"},
		{Canonical: "農事組合法人"},
		{Canonical: "管理組合法人"},
		{Canonical: "弁護士法人"},
		{Canonical: "司法書士法人"},
		{Canonical: "行政書士法人"},
		{Canonical: "税理士法人"},
		{Canonical: "社会保険労務士法人"},
		{Canonical: "土地家屋調査士法人"},
		{Canonical: "特許業務法人"},
		{Canonical: "監査法人"},
		{Canonical: "投資法人"},
		{Canonical: "有限責任事業組合"},
		{Canonical: "企業組合"},
		{Canonical: "協業組合"},
		{Canonical: "信用金庫"},
		{Canonical: "信用組合"},
		{Canonical: "労働金庫"},
		{Canonical: "生活協同組合"},
		{Canonical: "農業協同組合"},
		{Canonical: "漁業協同組合"},
		{Canonical: "森林組合"},
		{Canonical: "商工組合"},
		{Canonical: "事業協同組合"},
		{Canonical: "協同組合"},
		{Canonical: "労働組合"},
		{Canonical: "共済組合"},
	}
}
