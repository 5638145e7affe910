package market

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatPrice renders p with the instrument's display precision. Rounding
// happens only here; stored and computed prices keep full precision.
// Non-finite values print as NaN, +Inf or -Inf.
func FormatPrice(i Instrument, p float64) string {
	digits := i.Meta().DisplayDigits
	if !IsFinite(p) {
		return strconv.FormatFloat(p, 'f', digits, 64)
	}
	return decimal.NewFromFloat(p).StringFixed(int32(digits))
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// PipSize returns the price distance of one pip for i.
func PipSize(i Instrument) float64 {
	return math.Pow(10, float64(i.Meta().PipLocation))
}

// Pips converts a price distance into pips for i.
func Pips(i Instrument, distance float64) float64 {
	return math.Abs(distance) / PipSize(i)
}
