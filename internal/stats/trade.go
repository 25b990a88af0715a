// Package stats computes the trade-statistics panel (PnL, drawdown, ratio)
// strategy reports depend on, from a closed sequence of trades.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"backtestcore/internal/symbol"
)

// Direction is the side a trade held.
type Direction int

const (
	Long Direction = iota
	Short
)

// Trade is a single closed round-trip, immutable once constructed.
type Trade struct {
	Symbol     symbol.Symbol
	EntryTime  time.Time
	EntryPrice decimal.Decimal
	ExitTime   time.Time
	ExitPrice  decimal.Decimal
	Direction  Direction
	Quantity   decimal.Decimal
	ProfitLoss decimal.Decimal
	TotalFees  decimal.Decimal
	MAE        decimal.Decimal // most adverse excursion while open; zero or negative
	MFE        decimal.Decimal // most favorable excursion while open; zero or positive

	// IsWin overrides the profitLoss-sign convention for win/loss
	// classification when set.
	IsWin *bool
}

// Duration is the holding period of the trade.
func (t Trade) Duration() time.Duration {
	return t.ExitTime.Sub(t.EntryTime)
}

func (t Trade) isWinning() bool {
	if t.IsWin != nil {
		return *t.IsWin
	}
	return t.ProfitLoss.IsPositive()
}

func (t Trade) isLosing() bool {
	if t.IsWin != nil {
		return !*t.IsWin
	}
	return t.ProfitLoss.IsNegative()
}
