package utils

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BaseName strips a parenthesized argument-list suffix from a completion
// label, so every member of an overload set shares one base name.
// "append(contentsOf:)" and "append(_:)" both reduce to "append".
func BaseName(label string) string {
	if i := strings.IndexByte(label, '('); i >= 0 {
		return label[:i]
	}
	return label
}

// IsSeparator checks if a rune separates identifier words
func IsSeparator(r rune) bool {
	return r == ' ' || r == '_' || r == '-' || r == '.' || r == '/'
}

// EqualFold performs case-insensitive rune equality check
func EqualFold(a, b rune) bool {
	if a == b {
		return true
	}

	// Try simple ASCII case folding first (faster)
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		return a == b
	}

	// Use Unicode's more comprehensive case folding
	return strings.EqualFold(string(a), string(b))
}

// IsValidPrefix checks if a typed prefix is worth completing against.
// Rejects empty input and input with characters that can never start an
// identifier or keyword.
func IsValidPrefix(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' {
			continue
		}
		if unicode.IsDigit(r) && i > 0 {
			continue
		}
		return false
	}
	return true
}

// FormatWithCommas renders an integer with thousands separators for the
// debug CLI output.
func FormatWithCommas(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
