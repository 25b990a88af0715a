package marketdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side an order would transact on, used to pick which
// side of a quote the extractor returns.
type Direction int

const (
	Buy Direction = iota
	Sell
	Hold
)

// Prices is the snapshot the fill evaluators consume.
type Prices struct {
	Open    decimal.Decimal
	High    decimal.Decimal
	Low     decimal.Decimal
	Close   decimal.Decimal
	Current decimal.Decimal
	EndTime time.Time
}

// allZero is the terminal fallback when no market data is available at all.
var allZero = Prices{}

// Extract returns the best available price snapshot for cache, following
// this selection order:
//
//  1. a cached quote tick with both bid and ask (subscriptions are not
//     consulted; only what the cache holds);
//  2. a same-or-newer QuoteBar alongside a cached TradeBar;
//  3. a cached TradeBar alone;
//  4. a cached trade tick alone;
//  5. all zeros.
func Extract(cache *Cache, direction Direction) Prices {
	if cache == nil {
		return allZero
	}

	if qt, ok := cache.LatestQuoteTick(); ok && qt.HasQuote() {
		var current decimal.Decimal
		switch direction {
		case Buy:
			current = qt.AskPrice
		case Sell:
			current = qt.BidPrice
		default:
			if tt, ok := cache.LatestTradeTick(); ok {
				current = tt.Value
			} else {
				current = qt.Mid()
			}
		}
		return Prices{Open: current, High: current, Low: current, Close: current, Current: current, EndTime: qt.Time}
	}

	qb, hasQB := cache.LatestQuoteBar()
	tb, hasTB := cache.LatestTradeBar()

	if hasQB && hasTB && !qb.EndTime().Before(tb.EndTime()) {
		switch direction {
		case Sell:
			return ohlcSnapshot(qb.Bid, qb.EndTime())
		case Buy:
			return ohlcSnapshot(qb.Ask, qb.EndTime())
		default:
			return Prices{Open: tb.OHLC.Close, High: tb.OHLC.Close, Low: tb.OHLC.Close, Close: tb.OHLC.Close, Current: tb.OHLC.Close, EndTime: tb.EndTime()}
		}
	}

	if hasTB {
		return Prices{Open: tb.OHLC.Open, High: tb.OHLC.High, Low: tb.OHLC.Low, Close: tb.OHLC.Close, Current: tb.OHLC.Close, EndTime: tb.EndTime()}
	}

	if tt, ok := cache.LatestTradeTick(); ok {
		return Prices{Open: tt.Value, High: tt.Value, Low: tt.Value, Close: tt.Value, Current: tt.Value, EndTime: tt.Time}
	}

	return allZero
}

// ExtractLatestPrice is the crypto/latest-price fill model variant: it picks
// whichever of {latest trade data, latest QuoteBar} has the strictly
// greater end time, with ties favoring trade data.
func ExtractLatestPrice(cache *Cache, direction Direction) Prices {
	if cache == nil {
		return allZero
	}

	var tradeEnd time.Time
	tradePrices, haveTrade := Prices{}, false
	if tt, ok := cache.LatestTradeTick(); ok {
		tradeEnd = tt.Time
		tradePrices = Prices{Open: tt.Value, High: tt.Value, Low: tt.Value, Close: tt.Value, Current: tt.Value, EndTime: tt.Time}
		haveTrade = true
	}
	if tb, ok := cache.LatestTradeBar(); ok && tb.EndTime().After(tradeEnd) {
		tradeEnd = tb.EndTime()
		tradePrices = Prices{Open: tb.OHLC.Open, High: tb.OHLC.High, Low: tb.OHLC.Low, Close: tb.OHLC.Close, Current: tb.OHLC.Close, EndTime: tb.EndTime()}
		haveTrade = true
	}

	qb, hasQB := cache.LatestQuoteBar()
	if !hasQB {
		if haveTrade {
			return tradePrices
		}
		return allZero
	}
	if !haveTrade || qb.EndTime().After(tradeEnd) {
		switch direction {
		case Sell:
			return ohlcSnapshot(qb.Bid, qb.EndTime())
		case Buy:
			return ohlcSnapshot(qb.Ask, qb.EndTime())
		default:
			return ohlcSnapshot(qb.Ask, qb.EndTime())
		}
	}
	return tradePrices
}

func ohlcSnapshot(side OHLC, end time.Time) Prices {
	return Prices{Open: side.Open, High: side.High, Low: side.Low, Close: side.Close, Current: side.Close, EndTime: end}
}

// TradeOnly returns a snapshot sourced exclusively from trade data (a
// TradeBar, else a trade Tick), ignoring any cached quote. Limit,
// StopMarket, StopLimit and TrailingStop(Limit) evaluators use this — they
// never fill from quote-only data.
func TradeOnly(cache *Cache) (Prices, bool) {
	if cache == nil {
		return Prices{}, false
	}
	if tb, ok := cache.LatestTradeBar(); ok {
		return Prices{Open: tb.OHLC.Open, High: tb.OHLC.High, Low: tb.OHLC.Low, Close: tb.OHLC.Close, Current: tb.OHLC.Close, EndTime: tb.EndTime()}, true
	}
	if tt, ok := cache.LatestTradeTick(); ok {
		return Prices{Open: tt.Value, High: tt.Value, Low: tt.Value, Close: tt.Value, Current: tt.Value, EndTime: tt.Time}, true
	}
	return Prices{}, false
}

// QuoteOnly returns a one-sided snapshot (bid for Sell, ask for Buy)
// sourced exclusively from quote data (a QuoteBar or quote Tick), whichever
// is newer; it reports ok=false if that side was never quoted.
// LimitIfTouched's fill phase uses this — the touch is observed on trades,
// but the working limit is a quote-book limit.
func QuoteOnly(cache *Cache, direction Direction) (Prices, bool) {
	if cache == nil {
		return Prices{}, false
	}
	qt, hasQt := cache.LatestQuoteTick()
	qb, hasQb := cache.LatestQuoteBar()

	useTick := hasQt && (!hasQb || !qb.EndTime().After(qt.Time))
	if useTick {
		if !qt.HasQuote() {
			return Prices{}, false
		}
		var v decimal.Decimal
		if direction == Sell {
			v = qt.BidPrice
		} else {
			v = qt.AskPrice
		}
		return Prices{Open: v, High: v, Low: v, Close: v, Current: v, EndTime: qt.Time}, true
	}
	if hasQb {
		if direction == Sell {
			if !qb.HasBid() {
				return Prices{}, false
			}
			return ohlcSnapshot(qb.Bid, qb.EndTime()), true
		}
		if !qb.HasAsk() {
			return Prices{}, false
		}
		return ohlcSnapshot(qb.Ask, qb.EndTime()), true
	}
	return Prices{}, false
}
