// Package core display formatting helpers.
//
// Computation keeps full float64 precision; these functions round only for
// presentation.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatAmount renders a monetary value with up to three decimal places,
// trimming trailing zeros. No currency symbol is attached.
//
// Examples:
//
//	FormatAmount(62314.3) -> "62314.3"
//	FormatAmount(106.5)   -> "106.5"
//	FormatAmount(100)     -> "100"
func FormatAmount(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s
}

// FormatPercent renders a ratio as a percentage with two decimal places.
//
//	FormatPercent(0.05) -> "5.00%"
func FormatPercent(value float64) string {
	return fmt.Sprintf("%.2f%%", value*100)
}
