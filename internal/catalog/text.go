package catalog

import (
	"strings"
	"unicode"
)

// EnglishText derives an English label from possibly bilingual source text.
// Text without any CJK passes through untouched, whitespace collapsed, so
// slashes in plain English (URLs, "read/write") never trigger the alternative
// split. For bilingual input, "中文说明 / English summary" pairs pick the best
// English candidate; without alternatives CJK runs are stripped outright.
// This is a heuristic, not a translation.
func EnglishText(s string) string {
	if !hasCJK(s) {
		return strings.Join(strings.Fields(s), " ")
	}
	if !strings.Contains(s, "/") {
		return stripCJK(s)
	}

	var alts []string
	for _, alt := range strings.Split(s, "/") {
		alts = append(alts, strings.TrimSpace(alt))
	}

	for _, alt := range alts {
		if hasLatin(alt) && !hasCJK(alt) {
			return stripCJK(alt)
		}
	}
	for _, alt := range alts {
		if !hasCJK(alt) {
			return stripCJK(alt)
		}
	}
	for _, alt := range alts {
		if hasLatin(alt) {
			return stripCJK(alt)
		}
	}

	return stripCJK(s)
}

// stripCJK removes CJK runs, collapses the resulting whitespace and trims.
func stripCJK(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if isCJK(r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isCJK(r rune) bool {
	if unicode.Is(unicode.Han, r) {
		return true
	}
	// CJK punctuation and fullwidth forms travel with the ideographs.
	return (r >= 0x3000 && r <= 0x303f) || (r >= 0xff00 && r <= 0xffef)
}

func hasCJK(s string) bool {
	for _, r := range s {
		if isCJK(r) {
			return true
		}
	}
	return false
}

func hasLatin(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Latin, r) {
			return true
		}
	}
	return false
}
