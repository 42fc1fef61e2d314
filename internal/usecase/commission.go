package usecase

import (
	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies have no minor unit; everything else rounds to two
// decimal places.
var zeroDecimalCurrencies = map[string]struct{}{
	"JPY": {},
	"KRW": {},
	"VND": {},
	"CLP": {},
	"ISK": {},
}

// CurrencyExponent returns the number of decimal places for a currency code.
func CurrencyExponent(currency string) int32 {
	if _, ok := zeroDecimalCurrencies[currency]; ok {
		return 0
	}
	return 2
}

// Commission computes the platform's cut of a booking: total * rate / 100,
// rounded half away from zero to the currency's precision. The result is
// frozen on the booking at creation; later rate changes never touch
// existing rows.
func Commission(total, rate decimal.Decimal, currency string) decimal.Decimal {
	return total.Mul(rate).Div(decimal.NewFromInt(100)).Round(CurrencyExponent(currency))
}
