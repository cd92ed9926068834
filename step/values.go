package step

import (
	"math"
	"strconv"
	"strings"
)

// ParseRef parses a reference token "#<digits>".
func ParseRef(tok string) (int, bool) {
	tok = strings.TrimSpace(tok)
	if len(tok) < 2 || tok[0] != '#' {
		return 0, false
	}
	for _, c := range tok[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(tok[1:])
	return id, err == nil
}

// ParseRefList parses "(#a,#b,...)". Elements that are not references are
// dropped.
func ParseRefList(tok string) []int {
	var ids []int
	for _, item := range ParseList(tok) {
		if id, ok := ParseRef(item); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsNull reports whether tok is the unset ($) or derived (*) marker.
func IsNull(tok string) bool {
	tok = strings.TrimSpace(tok)
	return tok == "" || tok == "$" || tok == "*"
}

// ParseTyped splits a typed value such as IFCLINEINDEX((1,2)) into its
// upper-cased type name and argument tokens.
func ParseTyped(tok string) (string, []string, bool) {
	m := recordRe.FindStringSubmatch(strings.TrimSpace(tok))
	if m == nil {
		return "", nil, false
	}
	return strings.ToUpper(m[1]), SplitArgs(m[2]), true
}

// unwrapTyped strips a typed value such as IFCLABEL('x') or
// IFCLENGTHMEASURE(2.) down to its inner token.
func unwrapTyped(tok string) string {
	if _, args, ok := ParseTyped(tok); ok && len(args) == 1 {
		return args[0]
	}
	return strings.TrimSpace(tok)
}

// Unquote decodes a string literal, optionally wrapped in a typed value
// such as IFCLABEL('x'). Any other token, including $ and *, gives
// fallback.
func Unquote(tok, fallback string) string {
	tok = unwrapTyped(tok)
	if len(tok) < 2 || tok[0] != '\'' || tok[len(tok)-1] != '\'' {
		return fallback
	}
	return decodeString(tok[1 : len(tok)-1])
}

// Quote encodes s as a string literal. Unquote(Quote(s)) == s for valid
// UTF-8; stray bytes come back as their ISO 8859-1 characters.
func Quote(s string) string {
	return "'" + encodeString(s) + "'"
}

func ParseReal(tok string) (float64, bool) {
	tok = unwrapTyped(tok)
	if IsNull(tok) {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func ParseInt(tok string) (int, bool) {
	tok = unwrapTyped(tok)
	if v, err := strconv.Atoi(tok); err == nil {
		return v, true
	}
	if f, ok := ParseReal(tok); ok && f == math.Trunc(f) {
		return int(f), true
	}
	return 0, false
}

// ParseRealList parses "(1.,2.,3.)". ok is false if any element is not a
// number.
func ParseRealList(tok string) ([]float64, bool) {
	items := ParseList(tok)
	if items == nil {
		return nil, false
	}
	values := make([]float64, 0, len(items))
	for _, item := range items {
		v, ok := ParseReal(item)
		if !ok {
			return values, false
		}
		values = append(values, v)
	}
	return values, true
}

// ParseRealTuples parses a list of lists of numbers. Malformed tuples are
// kept as nil so positions stay aligned with their index.
func ParseRealTuples(tok string) [][]float64 {
	items := ParseList(tok)
	tuples := make([][]float64, len(items))
	for i, item := range items {
		if v, ok := ParseRealList(item); ok {
			tuples[i] = v
		}
	}
	return tuples
}

// ParseIntTuples parses a list of lists of integers such as a face index
// list. Elements that are not integers are dropped.
func ParseIntTuples(tok string) [][]int {
	items := ParseList(tok)
	tuples := make([][]int, 0, len(items))
	for _, item := range items {
		var tuple []int
		for _, s := range ParseList(item) {
			if v, ok := ParseInt(s); ok {
				tuple = append(tuple, v)
			}
		}
		tuples = append(tuples, tuple)
	}
	return tuples
}

// ParseEnum returns NAME for ".NAME." and "" otherwise.
func ParseEnum(tok string) string {
	tok = strings.TrimSpace(tok)
	if len(tok) < 3 || tok[0] != '.' || tok[len(tok)-1] != '.' {
		return ""
	}
	return strings.ToUpper(tok[1 : len(tok)-1])
}

// ParseBool parses .T. and .F.; .U. and anything else are not ok.
func ParseBool(tok string) (value bool, ok bool) {
	switch ParseEnum(unwrapTyped(tok)) {
	case "T":
		return true, true
	case "F":
		return false, true
	}
	return false, false
}

// FormatReal formats v as a REAL token. The mantissa always has a '.'.
func FormatReal(v float64) string {
	return formatReal(v, 64)
}

// FormatReal32 is FormatReal with the shortest digits that round-trip
// through float32.
func FormatReal32(v float32) string {
	return formatReal(float64(v), 32)
}

func formatReal(v float64, bitSize int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0."
	}
	s := strconv.FormatFloat(v, 'G', -1, bitSize)
	mantissa, exp := s, ""
	if i := strings.IndexByte(s, 'E'); i >= 0 {
		mantissa, exp = s[:i], s[i:]
	}
	if !strings.Contains(mantissa, ".") {
		mantissa += "."
	}
	return mantissa + exp
}

func FormatRef(id int) string {
	return "#" + strconv.Itoa(id)
}

func FormatRefList(ids []int) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(FormatRef(id))
	}
	sb.WriteByte(')')
	return sb.String()
}

// FormatRealTuple formats (x,y,z,...).
func FormatRealTuple(values ...float64) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, v := range values {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(FormatReal(v))
	}
	sb.WriteByte(')')
	return sb.String()
}

func FormatEnum(name string) string {
	return "." + name + "."
}
