package extraction

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var closingQuote = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'“':  '”',
	'‘':  '’',
}

// apostrophe-like quotes double as apostrophes inside words ("Ender's").
func isApostrophe(r rune) bool {
	return r == '\'' || r == '’' || r == '‘'
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// quotedSpans returns the text enclosed by matching quotes, in order of
// appearance. A quoted span never crosses a line break. Single quotes only
// open after a non-word character and only close before one, so
// apostrophes in "Herbert's" or "Ender's Game" are not taken as quotes.
// A single quote that reaches a complete double-quoted span before its
// closer is treated as an apostrophe ("the '90s").
func quotedSpans(text string) []string {
	var spans []string

	for i := 0; i < len(text); {
		open, size := utf8.DecodeRuneInString(text[i:])
		closer, ok := closingQuote[open]
		if !ok || (isApostrophe(open) && !boundaryBefore(text, i)) {
			i += size
			continue
		}

		start := i + size
		end := findCloser(text, start, closer)
		if end >= 0 && isApostrophe(open) && containsDoubleQuoted(text[start:end]) {
			end = -1
		}
		if end < 0 {
			i += size
			continue
		}

		if strings.TrimSpace(text[start:end]) != "" {
			spans = append(spans, text[start:end])
		}
		_, csize := utf8.DecodeRuneInString(text[end:])
		i = end + csize
	}
	return spans
}

func findCloser(text string, from int, closer rune) int {
	for j := from; j < len(text); {
		r, size := utf8.DecodeRuneInString(text[j:])
		if r == '\n' {
			return -1
		}
		if r == closer && (!isApostrophe(closer) || boundaryAfter(text, j+size)) {
			return j
		}
		j += size
	}
	return -1
}

func containsDoubleQuoted(s string) bool {
	for i, r := range s {
		if isApostrophe(r) {
			continue
		}
		if closer, ok := closingQuote[r]; ok && findCloser(s, i+utf8.RuneLen(r), closer) >= 0 {
			return true
		}
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}
