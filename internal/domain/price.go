package domain

import (
	"math"
	"strconv"
)

// RoundPrice rounds a price to 2 decimal places, the quoting tick size
// shared by every agent. Uses math.Round after scaling to handle
// floating-point representation issues (e.g., 4.35 * 100 = 434.9999...).
func RoundPrice(p float64) float64 {
	return math.Round(p*100) / 100
}

// FormatPrice renders a price with 2 decimal places for tables and
// CSV records.
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 2, 64)
}
