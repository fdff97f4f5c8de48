package parser

import (
	"strings"
	"unicode/utf8"
)

// contextWindow returns the slice of text covering up to radius runes
// before start and after end (byte offsets).
func contextWindow(text string, start, end, radius int) string {
	lo := start
	for i := 0; i < radius && lo > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:lo])
		lo -= size
	}
	hi := end
	for i := 0; i < radius && hi < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[hi:])
		hi += size
	}
	return text[lo:hi]
}

// runesBetween counts runes in text[a:b]. Callers guarantee a <= b.
func runesBetween(text string, a, b int) int {
	if a < 0 {
		a = 0
	}
	if b > len(text) {
		b = len(text)
	}
	if a >= b {
		return 0
	}
	return utf8.RuneCountInString(text[a:b])
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// joinGroups concatenates the capture groups of a SubmatchIndex result,
// dropping whatever separators the pattern matched between them. A pattern
// without groups contributes its whole match.
func joinGroups(text string, m []int) string {
	if len(m) <= 2 {
		return text[m[0]:m[1]]
	}
	var b strings.Builder
	for i := 2; i < len(m); i += 2 {
		if m[i] >= 0 {
			b.WriteString(text[m[i]:m[i+1]])
		}
	}
	if b.Len() == 0 {
		return text[m[0]:m[1]]
	}
	return b.String()
}
