// Package jsonscan finds JSON objects embedded in free-form text such as LLM replies.
package jsonscan

import "strings"

// FirstObject returns the first balanced {...} region of s.
//
// Braces inside JSON string literals do not count, and a backslash escapes the
// next character inside a string. When a candidate opening brace never closes,
// the scan restarts from the next '{' after it. The region is not validated as JSON.
//
// A failed candidate with no quote characters after it is resolved in the same
// pass, so runs like "{{{{" stay linear. Restarts only rescan when quotes are
// involved, which makes the worst case quadratic in the length of s; callers
// pass bounded model replies.
func FirstObject(s string) (string, bool) {
	offset := 0
	for {
		idx := strings.IndexByte(s[offset:], '{')
		if idx < 0 {
			return "", false
		}
		start := offset + idx
		m := matchBrace(s, start)
		if m.ok {
			return s[start : m.end+1], true
		}
		if !m.sawQuote {
			// Without strings the earliest closed inner pair is what a restart would find
			if m.innerStart < 0 {
				return "", false
			}
			return s[m.innerStart : m.innerEnd+1], true
		}
		offset = start + 1
	}
}

type braceMatch struct {
	end      int
	ok       bool
	sawQuote bool

	// earliest-opening pair closed during a failed scan, -1 when none
	innerStart int
	innerEnd   int
}

// matchBrace scans for the brace closing the one at start
func matchBrace(s string, start int) braceMatch {
	m := braceMatch{innerStart: -1}
	var open []int
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
			m.sawQuote = true
		case '{':
			open = append(open, i)
		case '}':
			p := open[len(open)-1]
			open = open[:len(open)-1]
			if len(open) == 0 {
				m.end, m.ok = i, true
				return m
			}
			if m.innerStart < 0 || p < m.innerStart {
				m.innerStart, m.innerEnd = p, i
			}
		}
	}
	return m
}
