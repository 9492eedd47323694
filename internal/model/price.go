package model

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyCode is the single currency all prices are expressed in.
const CurrencyCode = "LKR"

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders an integer price with thousands grouping,
// e.g. 25000 → "LKR 25,000".
func FormatPrice(amount int64) string {
	return pricePrinter.Sprintf("%s %d", CurrencyCode, amount)
}
