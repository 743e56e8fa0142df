package normalize

import (
	"math"
	"strconv"
	"strings"
)

// ParsePrice cleans a provider price string such as "₹1,234.50 approx" and
// returns the whole-rupee amount. Anything that does not survive cleanup as a
// finite, non-negative number yields 0.
func ParsePrice(raw string) int {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)
	if cleaned == "" {
		return 0
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return 0
	}
	return int(v)
}
