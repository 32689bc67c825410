// Package isbn implements the ISBN-10 and ISBN-13 check-digit rules.
package isbn

import "strings"

// IsValid10 reports whether candidate carries a correct ISBN-10 check digit.
// Everything outside [0-9X] is ignored after uppercasing.
func IsValid10(candidate string) bool {
	s := keep(strings.ToUpper(candidate), func(r rune) bool {
		return isDigit(r) || r == 'X'
	})
	if len(s) != 10 {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		if !isDigit(rune(s[i])) {
			return false
		}
		sum += (i + 1) * int(s[i]-'0')
	}

	switch last := s[9]; {
	case last == 'X':
		sum += 10 * 10
	case isDigit(rune(last)):
		sum += 10 * int(last-'0')
	default:
		return false
	}
	return sum%11 == 0
}

// IsValid13 reports whether candidate carries a correct ISBN-13 check digit.
// Non-digit characters are ignored.
func IsValid13(candidate string) bool {
	s := keep(candidate, isDigit)
	if len(s) != 13 {
		return false
	}

	sum := 0
	for i := 0; i < 13; i++ {
		d := int(s[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += 3 * d
		}
	}
	return sum%10 == 0
}

// IsValid reports whether candidate is a valid ISBN-10 or ISBN-13.
func IsValid(candidate string) bool {
	return IsValid10(candidate) || IsValid13(candidate)
}

// Normalize drops hyphens and spaces.
func Normalize(candidate string) string {
	return keep(candidate, func(r rune) bool {
		return r != '-' && r != ' '
	})
}

// IsDigits1013 is the loose form rule used when books are created: the value
// must be made of digits only and be 10 or 13 long. No checksum is applied.
func IsDigits1013(s string) bool {
	if len(s) != 10 && len(s) != 13 {
		return false
	}
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	return true
}

func keep(s string, ok func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if ok(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
