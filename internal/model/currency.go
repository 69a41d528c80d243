package model

import "github.com/shopspring/decimal"

// Currency is session-scope display configuration, passed explicitly
// to whatever renders amounts instead of living in global state.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
}

// DefaultCurrency is used when the caller supplies none.
var DefaultCurrency = Currency{Code: "USD", Symbol: "$"}

// Currencies whose symbol conventionally follows the amount.
var suffixCurrencies = map[string]bool{
	"SEK": true, "NOK": true, "DKK": true,
	"PLN": true, "CZK": true, "HUF": true, "TRY": true,
}

// Format renders an amount with the currency symbol in its
// conventional position, always with two decimal places.
func (c Currency) Format(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	if suffixCurrencies[c.Code] {
		return fixed + " " + c.Symbol
	}
	return c.Symbol + fixed
}
