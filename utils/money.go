package utils

import (
	"fmt"
	"math"
)

// Round2 rounds a monetary value to 2 decimal places.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatAmount renders a monetary value with exactly 2 decimals.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
