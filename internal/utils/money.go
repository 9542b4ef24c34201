// internal/utils/money.go
package utils

import "math"

// Round2 rounds a monetary amount to cents.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ToMinorUnits converts a decimal amount to the gateway's minor currency
// unit (cents).
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
