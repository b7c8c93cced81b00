package hydration

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Unquote evaluates a single- or double-quoted JavaScript string literal.
func Unquote(lit string) (string, error) {
	if len(lit) < 2 {
		return "", fmt.Errorf("literal too short: %q", lit)
	}
	q := lit[0]
	if (q != '"' && q != '\'') || lit[len(lit)-1] != q {
		return "", fmt.Errorf("not a quoted literal: %.32q", lit)
	}
	body := lit[1 : len(lit)-1]

	var b strings.Builder
	b.Grow(len(body))

	for i := 0; i < len(body); {
		c := body[i]
		switch {
		case c == q:
			return "", fmt.Errorf("unescaped quote at offset %d", i+1)
		case c == '\n' || c == '\r':
			return "", fmt.Errorf("unescaped line break at offset %d", i+1)
		case c != '\\':
			b.WriteByte(c)
			i++
			continue
		}

		// escape sequence
		if i+1 >= len(body) {
			return "", fmt.Errorf("dangling backslash at end of literal")
		}
		e := body[i+1]
		i += 2

		switch e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case 'x':
			if i+2 > len(body) {
				return "", fmt.Errorf("short \\x escape at offset %d", i)
			}
			n, err := strconv.ParseUint(body[i:i+2], 16, 8)
			if err != nil {
				return "", fmt.Errorf("bad \\x escape %q", body[i:i+2])
			}
			b.WriteRune(rune(n))
			i += 2
		case 'u':
			r, next, err := unicodeEscape(body, i)
			if err != nil {
				return "", err
			}
			i = next
			if utf16.IsSurrogate(r) {
				if lo, after, err := unicodeEscape(body, i+2); err == nil && strings.HasPrefix(body[i:], `\u`) {
					if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
						b.WriteRune(pair)
						i = after
						continue
					}
				}
				r = utf8.RuneError
			}
			b.WriteRune(r)
		default:
			// \" \' \\ \/ and any other non-escape character stand for
			// themselves
			b.WriteByte(e)
		}
	}

	return b.String(), nil
}

// unicodeEscape decodes the part after "\u" starting at body[i]: either
// four hex digits or a braced code point. It returns the rune and the index
// just past the escape.
func unicodeEscape(body string, i int) (rune, int, error) {
	if i < len(body) && body[i] == '{' {
		end := strings.IndexByte(body[i:], '}')
		if end == -1 {
			return 0, 0, fmt.Errorf("unterminated \\u{ escape at offset %d", i)
		}
		n, err := strconv.ParseUint(body[i+1:i+end], 16, 32)
		if err != nil || n > utf8.MaxRune {
			return 0, 0, fmt.Errorf("bad \\u{} escape %q", body[i:i+end+1])
		}
		return rune(n), i + end + 1, nil
	}
	if i+4 > len(body) {
		return 0, 0, fmt.Errorf("short \\u escape at offset %d", i)
	}
	n, err := strconv.ParseUint(body[i:i+4], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("bad \\u escape %q", body[i:i+4])
	}
	return rune(n), i + 4, nil
}
