package normalizer

import (
	"strconv"
	"strings"
)

// ParsePrice converts an Indonesian-formatted price string to a number.
// "1.234.567,89 (+1,2%)" parses to 1234567.89: the parenthetical change
// annotation and anything after a line break are dropped, dots are thousands
// separators and the comma is the decimal separator. Empty or unparseable
// input yields 0, not an error.
func ParsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	s = keepNumeric(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseWeight converts a weight string like "0,25" to 0.25. Only the comma
// decimal separator is rewritten; empty or unparseable input yields 0.
func ParseWeight(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0
	}
	return v
}

func keepNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
