// Package formatter turns raw magnitudes into the display strings stored on a quote.
package formatter

import (
	"fmt"
	"math"

	"stock-screener/src/models"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// NotAvailable is shown when the provider did not report a value.
const NotAvailable = "N/A"

const (
	trillion = 1e12
	billion  = 1e9
	million  = 1e6
	thousand = 1e3
)

// -----------------------------------------------------------------------------

// FormatMagnitude renders a market capitalization: "$2.50B", "$1.23T", "$950,000".
func FormatMagnitude(value models.MOptionalFloat) string {
	v, ok := value.Get()
	if !ok {
		return NotAvailable
	}
	switch {
	case v >= trillion:
		return fmt.Sprintf("$%.2fT", v/trillion)
	case v >= billion:
		return fmt.Sprintf("$%.2fB", v/billion)
	case v >= million:
		return fmt.Sprintf("$%.2fM", v/million)
	default:
		return "$" + groupInteger(v)
	}
}

// -----------------------------------------------------------------------------

// FormatVolume renders a share count without currency: "1.20K", "45.67M".
func FormatVolume(value models.MOptionalFloat) string {
	v, ok := value.Get()
	if !ok {
		return NotAvailable
	}
	switch {
	case v >= billion:
		return fmt.Sprintf("%.2fB", v/billion)
	case v >= million:
		return fmt.Sprintf("%.2fM", v/million)
	case v >= thousand:
		return fmt.Sprintf("%.2fK", v/thousand)
	default:
		return groupInteger(v)
	}
}

// -----------------------------------------------------------------------------

// Round2 rounds to two decimal places. Stored prices go through here exactly
// once; display code must not round again.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// -----------------------------------------------------------------------------

// groupInteger rounds half to even and inserts thousands separators.
func groupInteger(v float64) string {
	return humanize.Comma(int64(math.RoundToEven(v)))
}
