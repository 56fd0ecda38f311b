package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims surrounding whitespace from user input and caps it at
// maxLen bytes. A maxLen of zero or less means no cap.
func SanitizeString(input string, maxLen int) string {
	return Truncate(strings.TrimSpace(input), maxLen)
}

// Truncate caps input at maxLen bytes without splitting a multi-byte rune, so
// the result is always valid UTF-8 when the input is.
func Truncate(input string, maxLen int) string {
	if maxLen <= 0 || len(input) <= maxLen {
		return input
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(input[cut]) {
		cut--
	}
	return input[:cut]
}
