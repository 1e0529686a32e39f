package vm

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Integers
// ---------------------------------------------------------------------------

// Itoa renders a decimal integer.
func Itoa(v int) string { return strconv.Itoa(v) }

// IsArrayIndex reports whether name is the canonical decimal rendering of a
// non-negative int32, and returns its value. "0" is an index; "00" and "+1"
// are not.
func IsArrayIndex(name string) (int, bool) {
	if name == "" {
		return 0, false
	}
	if name[0] == '0' {
		return 0, len(name) == 1
	}
	n := 0
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		if n >= math.MaxInt32/10 {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// NumberToInteger truncates toward zero. NaN and zero give 0; results
// outside the int32 range clamp to its bounds, so ±Infinity give the
// largest and smallest int32.
func NumberToInteger(n float64) int {
	if n == 0 || math.IsNaN(n) {
		return 0
	}
	n = math.Trunc(n)
	if n < math.MinInt32 {
		return math.MinInt32
	}
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

const (
	two32 = 4294967296.0
	two31 = 2147483648.0
)

// NumberToInt32 reduces n modulo 2^32 into the signed 32-bit range.
// Non-finite values and zero give 0.
func NumberToInt32(n float64) int32 {
	if math.IsNaN(n) || math.IsInf(n, 0) || n == 0 {
		return 0
	}
	n = math.Mod(n, two32)
	if n >= 0 {
		n = math.Floor(n)
	} else {
		n = math.Ceil(n) + two32
	}
	if n >= two31 {
		return int32(n - two32)
	}
	return int32(n)
}

func NumberToUint32(n float64) uint32 { return uint32(NumberToInt32(n)) }
func NumberToInt16(n float64) int16   { return int16(NumberToInt32(n)) }
func NumberToUint16(n float64) uint16 { return uint16(NumberToInt32(n)) }

// ---------------------------------------------------------------------------
// Number to string
// ---------------------------------------------------------------------------

// NumberToString formats f the way ECMAScript's Number::toString does:
// the shortest digit string that reads back as f, laid out in plain
// notation when the decimal point falls within [-5, 21] and in exponential
// notation otherwise.
func NumberToString(f float64) string {
	switch {
	case f == 0:
		return "0"
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	if f >= math.MinInt32 && f <= math.MaxInt32 {
		if i := int32(f); float64(i) == f {
			return strconv.Itoa(int(i))
		}
	}

	digits, point := shortestDigits(f)

	var b strings.Builder
	b.Grow(32)
	if math.Signbit(f) {
		b.WriteByte('-')
	}

	switch {
	case point < -5 || point > 21:
		b.WriteByte(digits[0])
		if len(digits) > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		writeExp(&b, point-1)

	case point <= 0:
		b.WriteString("0.")
		for ; point < 0; point++ {
			b.WriteByte('0')
		}
		b.WriteString(digits)

	default:
		if point < len(digits) {
			b.WriteString(digits[:point])
			b.WriteByte('.')
			b.WriteString(digits[point:])
		} else {
			b.WriteString(digits)
			for i := len(digits); i < point; i++ {
				b.WriteByte('0')
			}
		}
	}
	return b.String()
}

// shortestDigits returns the shortest round-tripping decimal digits of |f|
// and the position of the decimal point relative to the first digit, so
// |f| = 0.DIGITS * 10^point.
func shortestDigits(f float64) (string, int) {
	s := strconv.FormatFloat(math.Abs(f), 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exp)
	digits := strings.Replace(mant, ".", "", 1)
	return digits, e + 1
}

func writeExp(b *strings.Builder, e int) {
	b.WriteByte('e')
	if e < 0 {
		b.WriteByte('-')
		e = -e
	} else {
		b.WriteByte('+')
	}
	b.WriteString(strconv.Itoa(e))
}

// ---------------------------------------------------------------------------
// String to number
// ---------------------------------------------------------------------------

func isWhite(r rune) bool {
	switch r {
	case '\t', '\v', '\f', ' ', 0xA0, 0xFEFF:
		return true
	}
	return r >= utf8.RuneSelf && unicode.Is(unicode.Zs, r)
}

func isNewline(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x2028 || r == 0x2029
}

func skipSpace(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool { return isWhite(r) || isNewline(r) })
}

// StringToNumber converts string content to a number. Surrounding
// whitespace is ignored and an empty string is 0. Hexadecimal (0x...) and
// the Infinity literals are recognized. Anything left over after the
// numeral makes the result NaN.
func StringToNumber(s string) float64 {
	s = skipSpace(s)

	var n float64
	var rest string
	switch {
	case len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		n, rest = parseHex(s[2:])
	case strings.HasPrefix(s, "Infinity"):
		n, rest = math.Inf(1), s[8:]
	case strings.HasPrefix(s, "+Infinity"):
		n, rest = math.Inf(1), s[9:]
	case strings.HasPrefix(s, "-Infinity"):
		n, rest = math.Inf(-1), s[9:]
	default:
		n, rest = parseDecimal(s)
	}
	if skipSpace(rest) != "" {
		return math.NaN()
	}
	return n
}

func parseHex(s string) (float64, string) {
	var n float64
	i := 0
	for ; i < len(s); i++ {
		var d byte
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		default:
			return n, s[i:]
		}
		n = n*16 + float64(d)
	}
	return n, s[i:]
}

// parseDecimal scans [+-]digits[.digits][(e|E)[+-]digits] and converts the
// span. Plain integers of at most nine characters take the integer path.
// If the span does not convert cleanly nothing is consumed.
func parseDecimal(s string) (float64, string) {
	e := 0
	isFloat := false
	if e < len(s) && (s[e] == '+' || s[e] == '-') {
		e++
	}
	e = skipDigits(s, e)
	if e < len(s) && s[e] == '.' {
		e++
		isFloat = true
	}
	e = skipDigits(s, e)
	if e < len(s) && (s[e] == 'e' || s[e] == 'E') {
		e++
		if e < len(s) && (s[e] == '+' || s[e] == '-') {
			e++
		}
		e = skipDigits(s, e)
		isFloat = true
	}

	span := s[:e]
	if span == "" {
		return 0, s
	}
	var n float64
	if isFloat || len(span) > 9 {
		f, err := strconv.ParseFloat(span, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, s
		}
		n = f
	} else {
		i, err := strconv.Atoi(span)
		if err != nil {
			return 0, s
		}
		n = float64(i)
		if i == 0 && span[0] == '-' {
			n = math.Copysign(0, -1)
		}
	}
	return n, s[e:]
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
