package speech

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// splitText cuts text into pieces of at most max runes, preferring sentence ends,
// then word boundaries. Short text is returned unchanged as a single piece.
func splitText(text string, max int) []string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
		curLen = 0
	}

	for _, sentence := range splitSentences(text) {
		n := utf8.RuneCountInString(sentence)
		if n > max {
			flush()
			chunks = append(chunks, splitWords(sentence, max)...)
			continue
		}
		if curLen+n > max {
			flush()
		}
		cur.WriteString(sentence)
		curLen += n
	}
	flush()

	return chunks
}

// splitSentences keeps each terminator and the whitespace after it with its sentence.
func splitSentences(text string) []string {
	rs := []rune(text)
	var out []string
	start := 0

	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '.' && r != '!' && r != '?' && r != '\n' {
			continue
		}
		j := i + 1
		for j < len(rs) && unicode.IsSpace(rs[j]) {
			j++
		}
		if r == '\n' || j > i+1 || j == len(rs) {
			out = append(out, string(rs[start:j]))
			start = j
			i = j - 1
		}
	}
	if start < len(rs) {
		out = append(out, string(rs[start:]))
	}
	return out
}

func splitWords(s string, max int) []string {
	var (
		chunks []string
		cur    []rune
	)
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > max {
			if len(cur) > 0 {
				chunks = append(chunks, string(cur))
				cur = cur[:0]
			}
			chunks = append(chunks, string(w[:max]))
			w = w[max:]
		}
		extra := len(w)
		if len(cur) > 0 {
			extra++
		}
		if len(cur)+extra > max {
			chunks = append(chunks, string(cur))
			cur = cur[:0]
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, w...)
	}
	if len(cur) > 0 {
		chunks = append(chunks, string(cur))
	}
	return chunks
}
