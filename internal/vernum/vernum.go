package vernum

import (
	"fmt"
	"math"
)

// maxExponent caps the decimal exponent so that absurd inputs saturate
// instead of overflowing the accumulator.
const maxExponent = 1 << 16

// ParseLoose parses a leading decimal number from s. It reads a run of
// digits, an optional fractional part after '.', and an optional exponent
// after 'e' or 'E' with an optional sign. Anything after the recognized
// prefix is ignored. Empty or non-numeric input yields 0.
func ParseLoose(s string) float64 {
	var mantissa float64
	exp := 0
	i := 0

	for i < len(s) && isDigit(s[i]) {
		mantissa = mantissa*10 + float64(s[i]-'0')
		i++
	}

	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			mantissa = mantissa*10 + float64(s[i]-'0')
			exp--
			i++
		}
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		sign := 1
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			if s[i] == '-' {
				sign = -1
			}
			i++
		}
		n := 0
		for i < len(s) && isDigit(s[i]) {
			if n < maxExponent {
				n = n*10 + int(s[i]-'0')
			}
			i++
		}
		exp += sign * n
	}

	if mantissa == 0 {
		return 0
	}
	// An overflowed mantissa stays infinite; scaling it down would be Inf/Inf.
	if math.IsInf(mantissa, 0) {
		return mantissa
	}
	switch {
	case exp > 0:
		return mantissa * math.Pow10(exp)
	case exp < 0:
		return mantissa / math.Pow10(-exp)
	}
	return mantissa
}

// Greater reports whether version key a orders after version key b.
func Greater(a, b string) bool {
	return ParseLoose(a) > ParseLoose(b)
}

// Key builds a catalog version key from optional major and minor parts.
// The result is "major" or "major.minor"; ok is false when major is empty.
func Key(major, minor string) (key string, ok bool) {
	if major == "" {
		return "", false
	}
	if minor == "" {
		return major, true
	}
	return major + "." + minor, true
}

// RegKey returns the version key the host registers a library under.
// Both parts are written in lower-case hexadecimal.
func RegKey(major, minor uint16) string {
	return fmt.Sprintf("%x.%x", major, minor)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
