// Package search decides whether a typed query should select a display name.
// Matching is substring containment after folding script and width variants,
// so カタカナ and ひらがな spellings, or full-width and half-width Latin
// input, find the same entries.
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// MinQueryLength is the shortest query, in UTF-16 code units, that can match.
// One and two character fragments hit most of a generation's list.
const MinQueryLength = 3

const (
	katakanaFirst  = 'ァ' // U+30A1
	katakanaLast   = 'ヶ' // U+30F6
	iterationMark  = 'ヽ' // U+30FD
	voicedIterMark = 'ヾ' // U+30FE
	longVowelMark  = 'ー' // U+30FC, no hiragana counterpart
	kanaOffset     = 0x60
)

// newFolder builds the normalization chain. Chained transformers carry
// state, so every call gets its own.
func newFolder() transform.Transformer {
	return transform.Chain(
		norm.NFKC,
		width.Fold,
		runes.Map(unicode.ToLower),
		runes.Map(toHiragana),
	)
}

func toHiragana(r rune) rune {
	switch {
	case r == longVowelMark:
		return r
	case r >= katakanaFirst && r <= katakanaLast:
		return r - kanaOffset
	case r == iterationMark, r == voicedIterMark:
		return r - kanaOffset
	}
	return r
}

// Normalize folds input into the form used for comparison: NFKC, full-width
// Latin letters and digits narrowed, lowercased, katakana shifted to
// hiragana. The long vowel mark is kept as is.
func Normalize(input string) string {
	if input == "" {
		return ""
	}
	out, _, err := transform.String(newFolder(), input)
	if err != nil {
		// only reachable on malformed UTF-8; fall back to the cheap folds
		return strings.Map(toHiragana, strings.ToLower(input))
	}
	return out
}

// IsPartialMatch reports whether candidate contains query.
//
// Empty arguments and queries shorter than MinQueryLength never match.
// A query made only of ASCII digits is compared literally so number search
// stays exact; anything else is compared after Normalize.
func IsPartialMatch(query, candidate string) bool {
	if candidate == "" || !IsSearchable(query) {
		return false
	}
	if isDigits(query) {
		return strings.Contains(candidate, query)
	}
	return strings.Contains(Normalize(candidate), Normalize(query))
}

// IsSearchable reports whether query is long enough to match anything.
func IsSearchable(query string) bool {
	return utf16Len(query) >= MinQueryLength
}

// MatchAny reports whether query partially matches any of the candidates.
func MatchAny(query string, candidates ...string) bool {
	for _, c := range candidates {
		if IsPartialMatch(query, c) {
			return true
		}
	}
	return false
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
			continue
		}
		n++
	}
	return n
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
