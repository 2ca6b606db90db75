// Package money converts between decimal amount strings and integer minor
// units (cents). All arithmetic elsewhere in the service is done on minor
// units; decimal strings exist only at the API boundary.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseDecimalToMinor converts a non-negative decimal string to minor units
// with half-up rounding on the third decimal place. Both dot (12.34) and
// comma (12,34) separators are accepted.
//
// Examples:
//
//	ParseDecimalToMinor("12.34")  -> 1234
//	ParseDecimalToMinor("12,34")  -> 1234
//	ParseDecimalToMinor("12.345") -> 1234 (rounds down)
//	ParseDecimalToMinor("12.346") -> 1235 (rounds up)
func ParseDecimalToMinor(s string) (int64, error) {
	minor, neg, err := parse(s)
	if err != nil {
		return 0, err
	}
	if neg {
		return 0, ErrInvalidAmount
	}
	return minor, nil
}

// ParseSignedDecimalToMinor is ParseDecimalToMinor with an optional leading
// sign, used for adjustment inputs which are legitimately negative.
func ParseSignedDecimalToMinor(s string) (int64, error) {
	minor, neg, err := parse(s)
	if err != nil {
		return 0, err
	}
	if neg {
		return -minor, nil
	}
	return minor, nil
}

// FormatMinor renders minor units as a decimal string with two places,
// e.g. 1234 -> "12.34", -5 -> "-0.05".
func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func parse(s string) (minor int64, negative bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, ErrInvalidAmount
	}
	// Normalize decimal comma to dot.
	s = strings.ReplaceAll(s, ",", ".")

	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, false, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		if fracPart == "" {
			return 0, false, ErrInvalidAmount
		}
		intPart = "0"
	}
	// ASCII digits only: the minor-unit math below does byte arithmetic.
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, false, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if r < '0' || r > '9' {
			return 0, false, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false, ErrInvalidAmount
	}
	// Guard the *100 + fracMinor below.
	const maxSafe = (1<<63 - 1) / 100
	if iv >= maxSafe {
		return 0, false, ErrInvalidAmount
	}

	// First two fractional digits, half-up rounding on the third.
	var fracMinor int64
	if len(fracPart) > 0 {
		fracMinor = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracMinor += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracMinor++
			}
		}
	}
	return iv*100 + fracMinor, negative, nil
}
