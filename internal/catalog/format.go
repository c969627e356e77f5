package catalog

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatFileSize renders a byte count for display using power-of-1024 units
// and two-decimal rounding with trailing zeros trimmed. Negative counts
// render as "N/A", zero as exactly "0 B".
func FormatFileSize(n int64) string {
	if n < 0 {
		return "N/A"
	}
	if n == 0 {
		return "0 B"
	}
	v := float64(n)
	i := 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d B", n)
	}
	s := strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + " " + sizeUnits[i]
}
