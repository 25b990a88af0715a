package stats

import "github.com/shopspring/decimal"

// sqrtDecimal returns the square root of a non-negative decimal via
// Newton-Raphson iteration; shopspring/decimal has no native Sqrt.
func sqrtDecimal(d decimal.Decimal) decimal.Decimal {
	if !d.IsPositive() {
		return decimal.Zero
	}
	guess := d
	half := decimal.NewFromFloat(0.5)
	epsilon := decimal.New(1, -18)
	for i := 0; i < 64; i++ {
		next := guess.Add(d.Div(guess)).Mul(half)
		converged := next.Sub(guess).Abs().LessThan(epsilon)
		guess = next
		if converged {
			break
		}
	}
	return guess
}
