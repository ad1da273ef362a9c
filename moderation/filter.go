// Package moderation masks censored words in outbound message bodies
// before they are stored and fanned out. Matching is obfuscation-aware:
// leet substitutions, casing and interleaved punctuation do not defeat it.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Filter holds the compiled word automaton. An empty word list yields a
// disabled filter that returns bodies unchanged.
type Filter struct {
	matcher  *goahocorasick.Machine
	maskChar rune
}

// NewFilter compiles the censored word list into an Aho-Corasick
// automaton over normalized runes.
func NewFilter(words []string, maskChar rune) (Filter, error) {
	if len(words) == 0 {
		return Filter{maskChar: maskChar}, nil
	}
	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = normalizeWord([]rune(word))
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Filter{}, err
	}
	return Filter{matcher: m, maskChar: maskChar}, nil
}

// Enabled reports whether a word list was compiled.
func (f Filter) Enabled() bool { return f.matcher != nil }

// Mask replaces every censored span of body with the mask character,
// preserving length and spacing of the original text.
func (f Filter) Mask(body string) string {
	if f.matcher == nil {
		return body
	}

	origRunes := []rune(body)
	normalized, origIdx := normalizeBody(origRunes)
	if len(normalized) == 0 {
		return body
	}

	spans := f.matcher.MultiPatternSearch(normalized, false)
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		// Mask every original rune between the first and last matched
		// character, covering punctuation hidden inside the word.
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			origRunes[i] = f.maskChar
		}
	}
	return string(origRunes)
}

// normalizeBody lowers, de-leets and strips noise runes, keeping a map
// from normalized positions back to the original rune positions.
func normalizeBody(orig []rune) ([]rune, []int) {
	normalized := make([]rune, 0, len(orig))
	origIdx := make([]int, 0, len(orig))
	for i, r := range orig {
		clean := deleet(r)
		if isNoise(clean) {
			continue
		}
		normalized = append(normalized, unicode.ToLower(clean))
		origIdx = append(origIdx, i)
	}
	return normalized, origIdx
}

func normalizeWord(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := deleet(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// deleet maps common leet-speak characters back to letters.
func deleet(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
