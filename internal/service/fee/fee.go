package fee

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultRate is the platform's cut of every escrow-to-available move
const DefaultRate = "0.30"

// Fee splits amounts between the platform and the freelancer.
// Constructed once from config and injected everywhere money is divided,
// so the rate is never duplicated at call sites.
type Fee struct {
	rate decimal.Decimal
}

func New(rate string) (Fee, error) {
	r, err := decimal.NewFromString(rate)
	if err != nil {
		return Fee{}, fmt.Errorf("can't parse fee rate %q: %w", rate, err)
	}
	if r.IsNegative() || r.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return Fee{}, fmt.Errorf("fee rate %q must be in [0, 1)", rate)
	}

	return Fee{rate: r}, nil
}

func MustDefault() Fee {
	f, err := New(DefaultRate)
	if err != nil {
		panic(err)
	}
	return f
}

// Split divides amount into the platform's cut and the freelancer's share.
// Decimal arithmetic keeps the parts exact: platform + freelancer == amount.
func (f Fee) Split(amount decimal.Decimal) (platform, freelancer decimal.Decimal) {
	platform = amount.Mul(f.rate)
	freelancer = amount.Sub(platform)
	return platform, freelancer
}

// Percent reports the rate as a percentage, e.g. 30.0 for a 0.30 rate
func (f Fee) Percent() float64 {
	p, _ := f.rate.Mul(decimal.NewFromInt(100)).Float64()
	return p
}
