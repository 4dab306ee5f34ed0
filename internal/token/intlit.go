package token

import (
	"strconv"
	"strings"
)

// IntValue returns the value of an integer literal's text. Digit separators
// and u/l/z suffixes are dropped. Only C and C++ spellings are accepted: the
// base comes from a 0x, 0b or leading 0 prefix, never from strconv's own
// prefix and underscore rules.
func IntValue(text string) (uint64, bool) {
	s := strings.ReplaceAll(text, "'", "")
	s = strings.TrimRight(s, "uUlLzZ")
	base := 10
	switch {
	case len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X'):
		base, s = 16, s[2:]
	case len(s) > 2 && s[0] == '0' && (s[1] == 'b' || s[1] == 'B'):
		base, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, s = 8, s[1:]
	}
	if s == "" || strings.IndexByte(s, '_') >= 0 || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	v, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
