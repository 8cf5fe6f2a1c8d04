package domain

import "github.com/shopspring/decimal"

// FeeSchedule computes the platform escrow fee for a deposited principal.
// Percent is expressed in percent points (2.5 means 2.5%).
type FeeSchedule struct {
	Percent decimal.Decimal
}

var feeDivisor = decimal.NewFromInt(100)

// Fee returns amount * percent / 100, rounded to currency minor units.
func (f FeeSchedule) Fee(amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, ErrInvalidInput
	}
	return amount.Mul(f.Percent).Div(feeDivisor).Round(2), nil
}
