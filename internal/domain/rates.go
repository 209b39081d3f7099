package domain

import (
	"fmt"

	"github.com/go-petr/pet-ledger/pkg/currencypkg"
	"github.com/shopspring/decimal"
)

// RateTable maps currency codes to units of that currency per one unit of Base.
type RateTable struct {
	Base  string
	Rates map[string]decimal.Decimal
}

// Rate returns the rate of the code. The base currency always has rate 1.
func (rt RateTable) Rate(code string) (decimal.Decimal, error) {
	code = currencypkg.Normalize(code)

	if code == rt.Base {
		return decimal.NewFromInt(1), nil
	}

	rate, ok := rt.Rates[code]
	if !ok || !rate.IsPositive() {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, code)
	}

	return rate, nil
}
