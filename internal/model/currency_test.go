package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrencyFormat(t *testing.T) {
	cases := []struct {
		currency Currency
		amount   string
		want     string
	}{
		{DefaultCurrency, "1234.5", "$1234.50"},
		{Currency{Code: "EUR", Symbol: "€"}, "10", "€10.00"},
		{Currency{Code: "SEK", Symbol: "kr"}, "99.9", "99.90 kr"},
		{Currency{Code: "PLN", Symbol: "zł"}, "5", "5.00 zł"},
		{DefaultCurrency, "-12.345", "$-12.35"},
	}
	for _, tc := range cases {
		amount, err := decimal.NewFromString(tc.amount)
		if err != nil {
			t.Fatalf("bad amount %q: %v", tc.amount, err)
		}
		if got := tc.currency.Format(amount); got != tc.want {
			t.Errorf("%s Format(%s) = %q, want %q", tc.currency.Code, tc.amount, got, tc.want)
		}
	}
}
