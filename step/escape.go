package step

import (
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var codePages = map[byte]*charmap.Charmap{
	'A': charmap.ISO8859_1,
	'B': charmap.ISO8859_2,
	'C': charmap.ISO8859_3,
	'D': charmap.ISO8859_4,
	'E': charmap.ISO8859_5,
	'F': charmap.ISO8859_6,
	'G': charmap.ISO8859_7,
	'H': charmap.ISO8859_8,
	'I': charmap.ISO8859_9,
}

var (
	utf16be encoding.Encoding = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	utf32be encoding.Encoding = utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
)

// decodeString decodes the body of a string literal:
//
//	''            '
//	\\            \
//	\S\c          c+0x80 in the current code page
//	\X\HH         byte 0xHH in ISO 8859-1
//	\X2\hhhh\X0\  UTF-16BE
//	\X4\hhhh\X0\  UTF-32BE
//	\PA\ .. \PI\  select ISO 8859-1..9
//
// Unknown or malformed escapes are kept verbatim.
func decodeString(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	page := charmap.ISO8859_1
	var sb strings.Builder
	for i := 0; i < len(s); {
		c := s[i]
		if c == '\'' {
			sb.WriteByte('\'')
			if i+1 < len(s) && s[i+1] == '\'' {
				i++
			}
			i++
			continue
		}
		if c != '\\' {
			sb.WriteByte(c)
			i++
			continue
		}
		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, `\\`):
			sb.WriteByte('\\')
			i += 2
		case strings.HasPrefix(rest, `\S\`) && len(rest) > 3:
			sb.WriteRune(page.DecodeByte(rest[3] | 0x80))
			i += 4
		case strings.HasPrefix(rest, `\X\`) && len(rest) >= 5:
			b, err := hex.DecodeString(rest[3:5])
			if err != nil {
				sb.WriteByte(c)
				i++
				continue
			}
			sb.WriteRune(charmap.ISO8859_1.DecodeByte(b[0]))
			i += 5
		case strings.HasPrefix(rest, `\X2\`) || strings.HasPrefix(rest, `\X4\`):
			end := strings.Index(rest[4:], `\X0\`)
			if end < 0 {
				sb.WriteByte(c)
				i++
				continue
			}
			enc := utf16be
			if rest[2] == '4' {
				enc = utf32be
			}
			decoded, ok := decodeHex(enc, rest[4:4+end])
			if !ok {
				sb.WriteByte(c)
				i++
				continue
			}
			sb.WriteString(decoded)
			i += 4 + end + 4
		case len(rest) >= 4 && rest[1] == 'P' && rest[3] == '\\' && codePages[rest[2]] != nil:
			page = codePages[rest[2]]
			i += 4
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

func decodeHex(enc encoding.Encoding, h string) (string, bool) {
	b, err := hex.DecodeString(h)
	if err != nil {
		return "", false
	}
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func isPlain(r rune) bool {
	return r >= 0x20 && r <= 0x7e
}

// encodeString escapes quotes and backslashes and writes every run of
// characters outside printable ASCII as \X2\ (or \X4\ when the run has
// characters outside the BMP). Bytes that are not valid UTF-8 are written
// as \X\HH and so decode as ISO 8859-1.
func encodeString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if isPlain(r) {
			switch r {
			case '\'':
				sb.WriteString("''")
			case '\\':
				sb.WriteString(`\\`)
			default:
				sb.WriteRune(r)
			}
			i += size
			continue
		}
		if r == utf8.RuneError && size == 1 {
			sb.WriteString(`\X\`)
			sb.WriteString(strings.ToUpper(hex.EncodeToString([]byte{s[i]})))
			i++
			continue
		}
		start := i
		wide := false
		for i < len(s) {
			r, size := utf8.DecodeRuneInString(s[i:])
			if isPlain(r) || r == utf8.RuneError && size == 1 {
				break
			}
			wide = wide || r > 0xffff
			i += size
		}
		enc, tag := utf16be, `\X2\`
		if wide {
			enc, tag = utf32be, `\X4\`
		}
		b, err := enc.NewEncoder().String(s[start:i])
		if err != nil {
			continue
		}
		sb.WriteString(tag)
		sb.WriteString(strings.ToUpper(hex.EncodeToString([]byte(b))))
		sb.WriteString(`\X0\`)
	}
	return sb.String()
}
