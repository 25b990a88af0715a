package fill

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"backtestcore/internal/marketdata"
	"backtestcore/internal/order"
	"backtestcore/internal/security"
)

func mdDirectionOf(d order.Direction) marketdata.Direction {
	if d == order.DirBuy {
		return marketdata.Buy
	}
	return marketdata.Sell
}

// limitFill applies the worst-case Limit fill rule to a trade-only price
// snapshot: buy fills iff low <= limitPrice at min(open, limitPrice); sell
// fills iff high >= limitPrice at max(open, limitPrice). Shared by Limit,
// StopLimit (post-trigger phase) and ComboLegLimit.
func limitFill(p marketdata.Prices, o *order.Order) (decimal.Decimal, bool) {
	if o.Direction() == order.DirBuy {
		if p.Low.GreaterThan(o.LimitPrice) {
			return decimal.Zero, false
		}
		return decimal.Min(p.Open, o.LimitPrice), true
	}
	if p.High.LessThan(o.LimitPrice) {
		return decimal.Zero, false
	}
	return decimal.Max(p.Open, o.LimitPrice), true
}

func evaluateMarket(sec *security.Security, o *order.Order) (order.Event, error) {
	p := marketdata.Extract(sec.Cache, mdDirectionOf(o.Direction()))
	if p.EndTime.IsZero() {
		return order.Event{}, fmt.Errorf("%w: %s", ErrCannotGetPrice, o.Symbol)
	}
	return order.Filled(o, p.Current, p.EndTime), nil
}

func evaluateLimit(sec *security.Security, o *order.Order) order.Event {
	p, ok := marketdata.TradeOnly(sec.Cache)
	if !ok {
		return order.None(o, "")
	}
	price, filled := limitFill(p, o)
	if !filled {
		return order.None(o, "")
	}
	return order.Filled(o, price, p.EndTime)
}

// evaluateStopMarket implements StopMarket, and, with an already-updated
// StopPrice, TrailingStop.
func evaluateStopMarket(sec *security.Security, o *order.Order) order.Event {
	p, ok := marketdata.TradeOnly(sec.Cache)
	if !ok {
		return order.None(o, "")
	}
	if o.Direction() == order.DirBuy {
		if p.High.LessThan(o.StopPrice) {
			return order.None(o, "")
		}
		return order.Filled(o, decimal.Max(p.Open, o.StopPrice), p.EndTime)
	}
	if p.Low.GreaterThan(o.StopPrice) {
		return order.None(o, "")
	}
	return order.Filled(o, decimal.Min(p.Open, o.StopPrice), p.EndTime)
}

// evaluateStopLimit implements StopLimit, and, with already-updated
// StopPrice/LimitPrice, TrailingStopLimit. The trigger check and the limit
// check both run against the same trade-only snapshot, so a bar that both
// triggers and satisfies the limit fills in this same call.
func evaluateStopLimit(sec *security.Security, o *order.Order) order.Event {
	p, ok := marketdata.TradeOnly(sec.Cache)
	if !ok {
		return order.None(o, "")
	}

	if !o.StopTriggered() {
		var triggered bool
		if o.Direction() == order.DirBuy {
			triggered = p.High.GreaterThanOrEqual(o.StopPrice)
		} else {
			triggered = p.Low.LessThanOrEqual(o.StopPrice)
		}
		if !triggered {
			return order.None(o, "")
		}
		o.MarkStopTriggered()
	}

	price, filled := limitFill(p, o)
	if !filled {
		return order.None(o, "")
	}
	return order.Filled(o, price, p.EndTime)
}

// evaluateLimitIfTouched runs the trade-only trigger phase followed by the
// quote-only fill phase: the touch is observed on trades, but the working
// limit is a quote-book limit.
func evaluateLimitIfTouched(sec *security.Security, o *order.Order) order.Event {
	if !o.TriggerTouched() {
		if tp, ok := marketdata.TradeOnly(sec.Cache); ok {
			var touched bool
			if o.Direction() == order.DirBuy {
				touched = tp.Low.LessThanOrEqual(o.TriggerPrice)
			} else {
				touched = tp.High.GreaterThanOrEqual(o.TriggerPrice)
			}
			if touched {
				o.MarkTriggerTouched()
			}
		}
	}
	if !o.TriggerTouched() {
		return order.None(o, "")
	}

	qp, ok := marketdata.QuoteOnly(sec.Cache, mdDirectionOf(o.Direction()))
	if !ok {
		return order.None(o, "")
	}
	if o.Direction() == order.DirBuy {
		if qp.Current.GreaterThan(o.LimitPrice) {
			return order.None(o, "")
		}
	} else if qp.Current.LessThan(o.LimitPrice) {
		return order.None(o, "")
	}
	return order.Filled(o, o.LimitPrice, qp.EndTime)
}

// evaluateMarketOnOpen fills at the open of the latest TradeBar once that
// bar starts at or after moOpenFloor, refusing orders submitted inside the
// configured blackout window.
func evaluateMarketOnOpen(sec *security.Security, o *order.Order, blackoutStart, blackoutEnd string) order.Event {
	if inBlackout(o.CreatedTimeUtc, blackoutStart, blackoutEnd) {
		return order.Invalid(o, fmt.Sprintf("%s: order submitted inside market-on-open blackout window", o.Symbol))
	}
	tb, ok := sec.Cache.LatestTradeBar()
	if !ok {
		return order.None(o, "")
	}
	floor, ok := moOpenFloor(sec, o)
	if !ok {
		return order.None(o, "")
	}
	if tb.Time.Before(floor) {
		return order.None(o, "")
	}
	return order.Filled(o, tb.OHLC.Open, tb.EndTime())
}

// evaluateMarketOnClose fills on the first TradeBar covering the official
// session close, at that bar's close price.
func evaluateMarketOnClose(sec *security.Security, o *order.Order) order.Event {
	tb, ok := sec.Cache.LatestTradeBar()
	if !ok {
		return order.None(o, "")
	}
	closeTime, ok := sec.Hours.RegularMarketClose(o.CreatedTimeUtc)
	if !ok {
		return order.None(o, "")
	}
	if tb.Time.After(closeTime) || tb.EndTime().Before(closeTime) {
		return order.None(o, "")
	}
	return order.Filled(o, tb.OHLC.Close, tb.EndTime())
}

// EvaluateOptionExercise fills an option-exercise order directly at its
// strike, bypassing market data. Negative quantity marks an assignment.
func EvaluateOptionExercise(o *order.Order, strike decimal.Decimal, utcTime time.Time) order.Event {
	ev := order.Filled(o, strike, utcTime)
	ev.IsAssignment = o.Quantity.IsNegative()
	return ev
}

// inBlackout reports whether t's time-of-day falls in [start, end).
// Malformed bounds or a non-forward window (start >= end) never blackout.
func inBlackout(t time.Time, startHHMM, endHHMM string) bool {
	start, err1 := time.Parse("15:04", startHHMM)
	end, err2 := time.Parse("15:04", endHHMM)
	if err1 != nil || err2 != nil {
		return false
	}
	tod := t.Hour()*60 + t.Minute()
	startTod := start.Hour()*60 + start.Minute()
	endTod := end.Hour()*60 + end.Minute()
	if startTod >= endTod {
		return false
	}
	return tod >= startTod && tod < endTod
}
