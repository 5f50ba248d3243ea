package util

import (
	"fmt"
	"math"
	"strconv"
)

// MustParseUint converts a string to an unsigned integer, returning 0 on failure.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// FormatPercent rounds a percentage for display only. Internal comparisons
// always use the unrounded value.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(v)))
}

// FormatClock renders a countdown as m:ss.
func FormatClock(d int) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%d:%02d", d/60, d%60)
}
