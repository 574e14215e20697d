package util

import (
	"strconv"
	"strings"
)

const UserAgent = "LeadGen/1.0 (+local)"

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// ParseCount keeps the digits of s: "11-50 employees" -> 1150, as company
// size widgets are parsed. ok is false when s has no digits.
func ParseCount(s string) (n int, ok bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return n, true
}

// InBand reports whether n lies in [lo, hi]. A zero bound is open.
func InBand(n, lo, hi int) bool {
	if lo > 0 && n < lo {
		return false
	}
	if hi > 0 && n > hi {
		return false
	}
	return true
}
