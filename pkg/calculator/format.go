package calculator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

const (
	// MaxDigits is the most digits the display accepts from keypad entry.
	MaxDigits = 15

	// groupingDigits is the digit count from which the screen groups
	// thousands.
	groupingDigits = 10

	// fractionDigits bounds the fraction shown on screen and kept by
	// division.
	fractionDigits = 8
)

// FormatNumber returns the shortest decimal literal that parses back to f.
// Numbers at or above 1e21 or below 1e-6 in magnitude use exponential
// notation ("1.5e+21", "2e-7"). Infinities become the infinity marker and
// NaN becomes ErrDomain.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return string(ErrDomain)
	case math.IsInf(f, 1):
		return InfinityMarker
	case math.IsInf(f, -1):
		return "-" + InfinityMarker
	case f == 0:
		return "0"
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	// "d.ddde±XX" carries the shortest round-tripping digits.
	e := strconv.FormatFloat(f, 'e', -1, 64)
	mant, expPart, _ := strings.Cut(e, "e")
	digits := strings.Replace(mant, ".", "", 1)
	exp, _ := strconv.Atoi(expPart)

	k := len(digits)
	n := exp + 1 // position of the decimal point relative to digits

	var b strings.Builder
	b.WriteString(sign)
	switch {
	case k <= n && n <= 21:
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", n-k))
	case 0 < n && n <= 21:
		b.WriteString(digits[:n])
		b.WriteByte('.')
		b.WriteString(digits[n:])
	case -6 < n && n <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -n))
		b.WriteString(digits)
	default:
		b.WriteString(digits[:1])
		if k > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if n-1 >= 0 {
			b.WriteByte('+')
		}
		b.WriteString(strconv.Itoa(n - 1))
	}
	return b.String()
}

// ParseDisplay parses a display literal. It fails on error tags, NaN and
// anything that is not a decimal, exponential or infinity literal.
func ParseDisplay(s string) (float64, bool) {
	if s == "" || IsErrorTag(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// CountDigits counts the decimal digits in s, ignoring sign and separators.
func CountDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// Screen renders a display literal for presentation. Literals with more
// than MaxDigits digits switch to exponential form with 8 fractional
// digits, literals with 10 to 15 digits get thousands separators and at
// most 8 fractional digits. Error tags, exponential literals and the
// infinity marker are returned unchanged.
func Screen(display string) string {
	if IsErrorTag(display) || strings.ContainsAny(display, "eE") || strings.Contains(display, InfinityMarker) {
		return display
	}
	v, ok := ParseDisplay(display)
	if !ok {
		return display
	}

	switch digits := CountDigits(display); {
	case digits > MaxDigits:
		return toExponential(v, fractionDigits)
	case digits >= groupingDigits:
		return groupThousands(v, fractionDigits)
	default:
		return display
	}
}

// toExponential renders v as "d.dddddddde±X" with a minimal exponent.
func toExponential(v float64, frac int) string {
	s := strconv.FormatFloat(v, 'e', frac, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}

// groupThousands renders v with comma separated thousands and at most frac
// fractional digits, trailing zeros removed.
func groupThousands(v float64, frac int) string {
	s := strconv.FormatFloat(v, 'f', frac, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	fracPart = strings.TrimRight(fracPart, "0")

	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign = "-"
		intPart = intPart[1:]
	}

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// roundFraction limits the fraction of v to frac digits when its shortest
// literal carries more than that.
func roundFraction(v float64, frac int) float64 {
	s := FormatNumber(v)
	i := strings.IndexByte(s, '.')
	if i < 0 || len(s)-i-1 <= frac {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', frac, 64), 64)
	if err != nil {
		return v
	}
	return r
}
