package step

import "strings"

// SplitStatements splits the physical file text into ';'-terminated
// statements. A ';' only ends a statement outside string literals and at
// parenthesis depth 0. Comments (/* */) outside literals are dropped.
// The terminating ';' is not included in the result.
func SplitStatements(data string) []string {
	var stmts []string
	var sb strings.Builder
	flush := func() {
		if s := strings.TrimSpace(sb.String()); s != "" {
			stmts = append(stmts, s)
		}
		sb.Reset()
	}

	inStr := false
	depth := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		if inStr {
			sb.WriteByte(c)
			if c == '\'' {
				if i+1 < len(data) && data[i+1] == '\'' {
					sb.WriteByte('\'')
					i++
				} else {
					inStr = false
				}
			}
			continue
		}
		switch c {
		case '\'':
			inStr = true
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case '/':
			if i+1 < len(data) && data[i+1] == '*' {
				end := strings.Index(data[i+2:], "*/")
				if end < 0 {
					i = len(data)
				} else {
					i += end + 3
				}
				sb.WriteByte(' ')
				continue
			}
		case ';':
			if depth == 0 {
				flush()
				continue
			}
		}
		sb.WriteByte(c)
	}
	flush()
	return stmts
}

// SplitArgs splits the inside of a parenthesized argument list on top-level
// commas. Nested lists and string literals are kept intact. Tokens are
// trimmed. A blank body has no arguments.
func SplitArgs(body string) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}
	var args []string
	inStr := false
	depth := 0
	start := 0
	for i := 0; i < len(body); i++ {
		c := body[i]
		if inStr {
			if c == '\'' {
				if i+1 < len(body) && body[i+1] == '\'' {
					i++
				} else {
					inStr = false
				}
			}
			continue
		}
		switch c {
		case '\'':
			inStr = true
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(body[start:i]))
				start = i + 1
			}
		}
	}
	return append(args, strings.TrimSpace(body[start:]))
}

// ParseList returns the elements of a parenthesized list token, or nil if
// tok is not a list.
func ParseList(tok string) []string {
	tok = strings.TrimSpace(tok)
	if len(tok) < 2 || tok[0] != '(' || tok[len(tok)-1] != ')' {
		return nil
	}
	return SplitArgs(tok[1 : len(tok)-1])
}
