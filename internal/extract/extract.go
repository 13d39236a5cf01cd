package extract

import (
	"bytes"
	"strconv"
)

// entityScanBound caps how far past '&' the scanner looks for a terminating
// ';'. Pathological inputs full of bare ampersands stay linear because of it.
const entityScanBound = 10

// Text converts raw HTML bytes into readable plain text in a single forward
// pass, without building a DOM. It strips tags, discards the content of
// script/style/head and similar containers, decodes a small set of character
// references, collapses whitespace runs to single spaces, and inserts a
// newline at block-element boundaries.
//
// The input does not have to be well-formed HTML or valid UTF-8: only the
// ASCII structural bytes '<', '>', '&', ';' and ASCII whitespace are
// interpreted, everything else passes through untouched. Malformed markup
// degrades gracefully; the function always terminates and always returns some
// text. The result never starts or ends with ASCII whitespace.
func Text(html []byte) []byte {
	out := make([]byte, 0, len(html)/2)

	// Name of the currently open skip tag, or "" when not skipping. A single
	// marker, not a stack: nested same-named skip tags are a known limitation.
	skip := ""
	// True while the last emission was whitespace or a boundary. Starting
	// true suppresses leading whitespace.
	lastWS := true

	i := 0
	for i < len(html) {
		c := html[i]

		if c == '<' {
			rel := bytes.IndexByte(html[i+1:], '>')
			if rel < 0 {
				// Unterminated tag: drop the '<' and keep scanning.
				i++
				continue
			}
			inner := html[i+1 : i+1+rel]
			i += rel + 2

			if len(inner) > 0 && inner[0] == '/' {
				name := tagName(inner[1:])
				if skip != "" {
					if name == skip {
						skip = ""
					}
					continue
				}
				if blockTags[name] {
					out = boundary(out)
					lastWS = true
				}
				continue
			}

			if skip != "" {
				// Tags inside skipped content only matter when they close
				// the active skip element.
				continue
			}
			name := tagName(inner)
			if skipTags[name] {
				skip = name
				continue
			}
			if blockTags[name] || name == "br" {
				out = boundary(out)
				lastWS = true
			}
			continue
		}

		if skip != "" {
			i++
			continue
		}

		if c == '&' {
			semi := -1
			limit := i + 1 + entityScanBound
			if limit > len(html) {
				limit = len(html)
			}
			for j := i + 1; j < limit; j++ {
				if html[j] == ';' {
					semi = j
					break
				}
			}
			if semi < 0 {
				// No terminator in range: the ampersand is ordinary text.
				out = append(out, '&')
				lastWS = false
				i++
				continue
			}
			ref := html[i+1 : semi]
			i = semi + 1
			b, ok := decodeRef(ref)
			if !ok {
				// Well-formed but unrecognized references vanish.
				continue
			}
			if isSpace(b) {
				if !lastWS {
					out = append(out, ' ')
					lastWS = true
				}
				continue
			}
			out = append(out, b)
			lastWS = false
			continue
		}

		if isSpace(c) {
			if !lastWS {
				out = append(out, ' ')
				lastWS = true
			}
			i++
			continue
		}

		out = append(out, c)
		lastWS = false
		i++
	}

	for len(out) > 0 && isSpace(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

// boundary appends a line break unless the output is empty or already ends
// with one, so adjacent block tags never stack blank lines.
func boundary(out []byte) []byte {
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out
}

// tagName returns the lowercased element name at the start of a tag interior:
// the maximal prefix of bytes that are not whitespace, '/' or '>'.
func tagName(inner []byte) string {
	n := 0
	for n < len(inner) {
		c := inner[n]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '/' || c == '>' {
			break
		}
		n++
	}
	name := inner[:n]
	lower := make([]byte, len(name))
	for i, c := range name {
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}
	return string(lower)
}

// decodeRef decodes the interior of a character reference (the bytes between
// '&' and ';') to a single output byte. Numeric references accept decimal and
// x-prefixed hex forms limited to one byte; named references use the fixed
// entity table. ok is false when the reference is syntactically plausible but
// not decodable, in which case the caller drops it entirely.
func decodeRef(ref []byte) (byte, bool) {
	if len(ref) > 0 && ref[0] == '#' {
		num := ref[1:]
		base := 10
		if len(num) > 0 && (num[0] == 'x' || num[0] == 'X') {
			base = 16
			num = num[1:]
		}
		v, err := strconv.ParseUint(string(num), base, 8)
		if err != nil {
			return 0, false
		}
		return byte(v), true
	}
	b, ok := entities[string(ref)]
	return b, ok
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
