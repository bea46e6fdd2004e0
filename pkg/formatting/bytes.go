// Package formatting converts byte sizes between their integer and
// human-readable forms ("10MB", "256 KB").
package formatting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

const base = 1024

var units = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest base-1024 unit that keeps the value
// at or above one. Negative precision is treated as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)
	if n < base {
		return strconv.FormatInt(n, 10) + " B"
	}

	size := float64(n)
	i := 0
	for size >= base && i < len(units)-1 {
		size /= base
		i++
	}
	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses a size such as "10MB", "1.5 gb" or "4096". A bare number
// is a byte count. Units are case-insensitive and base-1024.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if number == "" {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	exp, err := unitExponent(unit)
	if err != nil {
		return 0, err
	}

	bytes := value * math.Pow(base, float64(exp))
	if bytes > math.MaxInt64 {
		return 0, fmt.Errorf("byte size %q overflows", s)
	}
	return int64(bytes), nil
}

func unitExponent(unit string) (int, error) {
	if unit == "" {
		return 0, nil
	}
	unit = strings.ToUpper(unit)
	for i, u := range units {
		if unit == u || (i > 0 && unit == u[:1]) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown byte size unit %q", unit)
}
