package server

import (
	"fmt"
	"html/template"

	"stock-screener/src/models"
)

// -----------------------------------------------------------------------------

var templateFuncs = template.FuncMap{
	"optional": formatOptional,
	"signed":   formatSigned,
}

// formatOptional renders an absent ratio as N/A.
func formatOptional(v models.MOptionalFloat) string {
	f, ok := v.Get()
	if !ok {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", f)
}

func formatSigned(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}

// -----------------------------------------------------------------------------

// filterQuotes keeps the quotes whose ticker is listed, preserving order. An
// empty list keeps everything.
func filterQuotes(quotes []models.MQuote, tickers []string) []models.MQuote {
	if len(tickers) == 0 {
		return quotes
	}
	out := make([]models.MQuote, 0, len(tickers))
	for _, q := range quotes {
		if contains(tickers, q.Ticker) {
			out = append(out, q)
		}
	}
	return out
}

// -----------------------------------------------------------------------------

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
