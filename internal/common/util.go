package common

import "strings"

// StripBearer removes a leading "Bearer " (case-insensitive) and surrounding
// whitespace, so that both raw tokens and header values can be stored.
func StripBearer(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len(BearerPrefix) && strings.EqualFold(s[:len(BearerPrefix)], BearerPrefix) {
		return strings.TrimSpace(s[len(BearerPrefix):])
	}
	return s
}

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
