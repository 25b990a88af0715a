package fill

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"backtestcore/internal/marketdata"
	"backtestcore/internal/order"
	"backtestcore/internal/security"
)

// Dispatcher selects the per-variant evaluator for an order, drives its
// pre-evaluation trailing-state update, and runs the freshness gate around
// the result.
type Dispatcher struct {
	StaleThreshold            time.Duration
	MarketOnOpenBlackoutStart string
	MarketOnOpenBlackoutEnd   string
}

// NewDispatcher returns a Dispatcher with the given freshness window and
// MarketOnOpen submission blackout, both normally sourced from config.Config.
func NewDispatcher(staleThreshold time.Duration, blackoutStart, blackoutEnd string) *Dispatcher {
	return &Dispatcher{
		StaleThreshold:            staleThreshold,
		MarketOnOpenBlackoutStart: blackoutStart,
		MarketOnOpenBlackoutEnd:   blackoutEnd,
	}
}

// Fill runs the dispatch algorithm for a single order against its security's
// current market data. It holds the order's lock for the duration of the
// call, so a concurrent Cancel either completes first (Fill then observes
// the terminal status and no-ops) or blocks until Fill has committed its own
// status transition.
func (d *Dispatcher) Fill(sec *security.Security, o *order.Order) (order.Event, error) {
	o.Lock()
	defer o.Unlock()

	if o.Status.IsTerminal() {
		return order.None(o, ""), nil
	}

	d.updateTrailingState(sec, o)

	if !fresh(sec, o, d.StaleThreshold) {
		// The evaluator may latch StopLimit/TrailingStopLimit's stop-trigger
		// or LimitIfTouched's touch state; this call is diagnostic-only, so
		// any latch it sets off stale data is undone before returning.
		snap := o.SnapshotTriggers()
		wouldFill, err := d.evaluate(sec, o)
		o.RestoreTriggers(snap)
		if err != nil {
			return order.Event{}, err
		}
		if wouldFill.Status == order.StatusFilled {
			return order.None(o, fmt.Sprintf("%s (%s)", staleMessagePrefix, o.Symbol)), nil
		}
		return order.None(o, ""), nil
	}

	ev, err := d.evaluate(sec, o)
	if err != nil {
		return order.Event{}, err
	}

	if o.Status.IsTerminal() {
		return order.None(o, ""), nil
	}
	switch ev.Status {
	case order.StatusFilled:
		o.TransitionTo(order.StatusFilled)
	case order.StatusInvalid:
		o.TransitionTo(order.StatusInvalid)
	}
	ev.EventID = uuid.New().String()
	if ev.UtcTime.IsZero() {
		ev.UtcTime = sec.UtcTime()
	}
	return ev, nil
}

// updateTrailingState applies the pre-evaluation trailing-stop update for
// TrailingStop/TrailingStopLimit orders. It runs ahead of the freshness
// gate so the stop still improves monotonically even against data that
// later turns out to be too stale to fill on.
func (d *Dispatcher) updateTrailingState(sec *security.Security, o *order.Order) {
	switch o.Type {
	case order.TrailingStop:
		p := marketdata.Extract(sec.Cache, mdDirectionOf(o.Direction()))
		if !p.EndTime.IsZero() {
			o.UpdateTrailingStop(p.Current)
		}
	case order.TrailingStopLimit:
		if o.StopTriggered() {
			return
		}
		p := marketdata.Extract(sec.Cache, mdDirectionOf(o.Direction()))
		if !p.EndTime.IsZero() {
			o.UpdateTrailingStopLimit(p.Current)
		}
	}
}

func (d *Dispatcher) evaluate(sec *security.Security, o *order.Order) (order.Event, error) {
	switch o.Type {
	case order.Market:
		return evaluateMarket(sec, o)
	case order.Limit:
		return evaluateLimit(sec, o), nil
	case order.StopMarket, order.TrailingStop:
		return evaluateStopMarket(sec, o), nil
	case order.StopLimit, order.TrailingStopLimit:
		return evaluateStopLimit(sec, o), nil
	case order.LimitIfTouched:
		return evaluateLimitIfTouched(sec, o), nil
	case order.MarketOnOpen:
		return evaluateMarketOnOpen(sec, o, d.MarketOnOpenBlackoutStart, d.MarketOnOpenBlackoutEnd), nil
	case order.MarketOnClose:
		return evaluateMarketOnClose(sec, o), nil
	default:
		return order.Event{}, fmt.Errorf("%w: %s (use EvaluateCombo/EvaluateOptionExercise instead)", ErrUnsupportedOrderType, o.Type)
	}
}
