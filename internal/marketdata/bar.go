// Package marketdata holds the bar/tick primitives the fill engine prices
// orders against, and the snapshot extractor that picks among them.
package marketdata

import (
	"time"

	"github.com/shopspring/decimal"

	"backtestcore/internal/symbol"
)

// OHLC is the open/high/low/close quadruple shared by trade and quote sides.
type OHLC struct {
	Open  decimal.Decimal
	High  decimal.Decimal
	Low   decimal.Decimal
	Close decimal.Decimal
}

// TradeBar aggregates trades over Period ending at EndTime.
type TradeBar struct {
	Time          time.Time
	Symbol        symbol.Symbol
	OHLC          OHLC
	Volume        decimal.Decimal
	Period        time.Duration
	IsFillForward bool
}

// EndTime is the bar's close timestamp.
func (b TradeBar) EndTime() time.Time {
	return b.Time.Add(b.Period)
}

// QuoteBar aggregates the best bid/ask over Period ending at EndTime.
type QuoteBar struct {
	Time          time.Time
	Symbol        symbol.Symbol
	Bid           OHLC
	BidSize       decimal.Decimal
	Ask           OHLC
	AskSize       decimal.Decimal
	Period        time.Duration
	IsFillForward bool
}

// EndTime is the bar's close timestamp.
func (b QuoteBar) EndTime() time.Time {
	return b.Time.Add(b.Period)
}

// HasBid reports whether the bid side was ever quoted during the period.
func (b QuoteBar) HasBid() bool {
	return !b.Bid.Close.IsZero() || !b.BidSize.IsZero()
}

// HasAsk reports whether the ask side was ever quoted during the period.
func (b QuoteBar) HasAsk() bool {
	return !b.Ask.Close.IsZero() || !b.AskSize.IsZero()
}

// TickType distinguishes trade, quote, and open-interest observations.
type TickType int

const (
	TickTrade TickType = iota
	TickQuote
	TickOpenInterest
)

// Tick is a single point-in-time trade or quote observation.
type Tick struct {
	Time          time.Time
	Symbol        symbol.Symbol
	TickType      TickType
	Value         decimal.Decimal
	BidPrice      decimal.Decimal
	AskPrice      decimal.Decimal
	BidSize       decimal.Decimal
	AskSize       decimal.Decimal
	IsFillForward bool
}

// HasQuote reports whether both sides of a quote tick are populated.
func (t Tick) HasQuote() bool {
	return t.TickType == TickQuote && !t.BidPrice.IsZero() && !t.AskPrice.IsZero()
}

// Mid returns the midpoint of a quote tick.
func (t Tick) Mid() decimal.Decimal {
	return t.BidPrice.Add(t.AskPrice).Div(decimal.NewFromInt(2))
}
