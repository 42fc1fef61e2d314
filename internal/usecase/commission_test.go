package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCommission(t *testing.T) {
	cases := []struct {
		name     string
		total    string
		rate     string
		currency string
		want     string
	}{
		{"ten percent of hundred", "100", "10", "USD", "10"},
		{"fractional result rounds to cents", "99.99", "12.5", "USD", "12.5"},
		{"repeating fraction", "10", "33.33", "USD", "3.33"},
		{"rounds half away from zero", "0.10", "25", "USD", "0.03"},
		{"truncating fraction", "10.10", "12.5", "USD", "1.26"},
		{"zero rate", "250", "0", "USD", "0"},
		{"zero-decimal currency rounds to whole units", "1000", "7.5", "JPY", "75"},
		{"zero-decimal currency drops fraction", "999", "7.5", "JPY", "75"},
		{"small amount", "0.99", "10", "USD", "0.1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Commission(dec(tc.total), dec(tc.rate), tc.currency)
			assert.True(t, dec(tc.want).Equal(got),
				"want %s, got %s", tc.want, got.String())
		})
	}
}

func TestCommissionIsDeterministic(t *testing.T) {
	total := dec("123.45")
	rate := dec("8.75")

	first := Commission(total, rate, "USD")
	for i := 0; i < 100; i++ {
		assert.True(t, first.Equal(Commission(total, rate, "USD")))
	}
}

func TestCurrencyExponent(t *testing.T) {
	assert.Equal(t, int32(2), CurrencyExponent("USD"))
	assert.Equal(t, int32(2), CurrencyExponent("EUR"))
	assert.Equal(t, int32(0), CurrencyExponent("JPY"))
	assert.Equal(t, int32(0), CurrencyExponent("KRW"))
}
