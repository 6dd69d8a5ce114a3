// Package format renders currency and duration figures for display.
package format

import (
	"github.com/iwvelando/greenseat-forecast/pkg/constants"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency returns a whole-yen string with thousands separators (e.g., "-¥1,235").
// Halves round away from zero.
func Currency(amount float64) string {
	rounded := decimal.NewFromFloat(amount).Round(constants.CurrencyDisplayPlaces)
	if rounded.Sign() < 0 {
		return printer.Sprintf("-¥%d", rounded.Abs().IntPart())
	}
	return printer.Sprintf("¥%d", rounded.IntPart())
}

// NumericCurrency returns whole yen without a symbol or separators (e.g., "-1235"),
// suitable for CSV.
func NumericCurrency(amount float64) string {
	return decimal.NewFromFloat(amount).Round(constants.CurrencyDisplayPlaces).String()
}

// Hours returns an hour count with at most two fractional digits (e.g., "1.5 h").
func Hours(hours float64) string {
	return trimmed(hours) + " h"
}

// Minutes returns a minute count with at most two fractional digits (e.g., "90 min").
func Minutes(minutes float64) string {
	return trimmed(minutes) + " min"
}

func trimmed(value float64) string {
	return decimal.NewFromFloat(value).Round(constants.DurationDisplayPlaces).String()
}
