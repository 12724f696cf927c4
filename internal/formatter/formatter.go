// Package formatter cleans generated text for plain display.
package formatter

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	listMarker = regexp.MustCompile(`(?m)^(?:[*•\-+]\s*)+`)
	extraBreak = regexp.MustCompile(`\n{3,}`)
)

// Format strips list markers and emphasis, collapses runs of blank lines and
// normalizes paragraph spacing. It is total and idempotent. Each step reaches
// its own fixed point in one call, so the outer loop settles in a pass or two.
func Format(raw string) string {
	out := raw
	for {
		next := formatOnce(out)
		if next == out {
			return out
		}
		out = next
	}
}

// formatOnce applies one cleanup pass. Apart from replacing invalid UTF-8
// with U+FFFD on the first pass, a pass only removes characters, so the loop
// in Format terminates.
func formatOnce(s string) string {
	s = listMarker.ReplaceAllString(s, "")
	for {
		next := stripEmphasis(s)
		if next == s {
			break
		}
		s = next
	}
	s = extraBreak.ReplaceAllString(s, "\n\n")
	s = strings.TrimFunc(s, unicode.IsSpace)

	paragraphs := strings.Split(s, "\n\n")
	kept := paragraphs[:0]
	for _, p := range paragraphs {
		p = strings.TrimFunc(p, unicode.IsSpace)
		if p != "" {
			kept = append(kept, p)
		}
	}

	return strings.Join(kept, "\n\n")
}

func isMarker(r rune) bool {
	return r == '*' || r == '_'
}

// stripEmphasis removes one or two '*' or '_' around a run of non-marker
// text. The opening marker must start the text or follow whitespace, and
// the closing marker must end the text or precede whitespace, which is kept.
func stripEmphasis(s string) string {
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(rs); {
		if i == 0 {
			if inner, end, ok := matchEmphasis(rs, 0); ok {
				b.WriteString(string(inner))
				i = end
				continue
			}
		}

		if unicode.IsSpace(rs[i]) {
			if inner, end, ok := matchEmphasis(rs, i+1); ok {
				b.WriteRune(rs[i])
				b.WriteString(string(inner))
				i = end
				continue
			}
		}

		b.WriteRune(rs[i])
		i++
	}

	return b.String()
}

// matchEmphasis tries to match an emphasized run starting at p and returns
// the enclosed text and the index just past the closing marker.
func matchEmphasis(rs []rune, p int) ([]rune, int, bool) {
	open := markerRun(rs, p)
	if open == 0 || open > 2 {
		return nil, 0, false
	}

	start := p + open
	end := start
	for end < len(rs) && !isMarker(rs[end]) {
		end++
	}
	if end == start || end == len(rs) {
		return nil, 0, false
	}

	closing := markerRun(rs, end)
	if closing > 2 {
		return nil, 0, false
	}

	after := end + closing
	if after < len(rs) && !unicode.IsSpace(rs[after]) {
		return nil, 0, false
	}

	return rs[start:end], after, true
}

func markerRun(rs []rune, p int) int {
	n := 0
	for p+n < len(rs) && isMarker(rs[p+n]) {
		n++
	}
	return n
}
