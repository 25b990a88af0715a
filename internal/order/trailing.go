package order

import (
	"github.com/shopspring/decimal"
)

// Lock/Unlock serialize trailing-state mutation and status transitions for
// this order. The dispatcher re-checks Status under this lock before
// emitting a fill, so a concurrent cancel observed first wins.
func (o *Order) Lock()   { o.mu.Lock() }
func (o *Order) Unlock() { o.mu.Unlock() }

// StopTriggered reports the StopLimit/TrailingStopLimit trigger latch.
// Callers should hold the lock if they need a consistent read-modify-write.
func (o *Order) StopTriggered() bool {
	return o.stopTriggered
}

// TriggerTouched reports the LimitIfTouched trigger latch.
func (o *Order) TriggerTouched() bool {
	return o.triggerTouched
}

// MarkStopTriggered sets the stop-triggered latch. Monotonic: once true,
// it is never reset.
func (o *Order) MarkStopTriggered() {
	o.stopTriggered = true
}

// MarkTriggerTouched sets the touch latch. Monotonic, same as above.
func (o *Order) MarkTriggerTouched() {
	o.triggerTouched = true
}

// TriggerSnapshot captures the mutable trigger latches so a caller can run
// an evaluator purely for its return value and then discard any latch
// mutation it performed.
type TriggerSnapshot struct {
	stopTriggered  bool
	triggerTouched bool
}

// SnapshotTriggers captures the current latch state. Callers must hold the
// lock.
func (o *Order) SnapshotTriggers() TriggerSnapshot {
	return TriggerSnapshot{stopTriggered: o.stopTriggered, triggerTouched: o.triggerTouched}
}

// RestoreTriggers resets the latch state to a previously captured snapshot,
// undoing any MarkStopTriggered/MarkTriggerTouched call made since. Callers
// must hold the lock.
func (o *Order) RestoreTriggers(s TriggerSnapshot) {
	o.stopTriggered = s.stopTriggered
	o.triggerTouched = s.triggerTouched
}

// Cancel transitions the order to Canceled, unless it already reached a
// terminal state. Safe to call concurrently with a dispatcher fill attempt:
// whichever of Cancel or the fill dispatcher acquires the lock first wins.
func (o *Order) Cancel() bool {
	o.Lock()
	defer o.Unlock()
	return o.TransitionTo(StatusCanceled)
}

// TransitionTo moves the order to next if the current status is not already
// terminal (Filled/Canceled/Invalid are sinks; any non-terminal state may
// transition to Canceled). Callers must hold the lock. Returns false (no-op)
// if the order already reached a terminal state — this is how a cancel
// observed first beats a concurrently-evaluating fill.
func (o *Order) TransitionTo(next Status) bool {
	if o.Status.IsTerminal() {
		return false
	}
	o.Status = next
	return true
}

// UpdateTrailingStop applies the TrailingStop pre-evaluation update against
// the current market price. It only ever moves the stop in the trader's
// favor (buy: down, sell: up) and reports whether it changed.
func (o *Order) UpdateTrailingStop(current decimal.Decimal) bool {
	if o.StopTriggered() {
		return false
	}
	candidate := trailingCandidate(current, o.TrailingAmount, o.TrailingPercent, o.Direction())
	if o.Direction() == DirBuy {
		if o.StopPrice.IsZero() || candidate.LessThan(o.StopPrice) {
			o.StopPrice = candidate
			return true
		}
		return false
	}
	if o.StopPrice.IsZero() || candidate.GreaterThan(o.StopPrice) {
		o.StopPrice = candidate
		return true
	}
	return false
}

// UpdateTrailingStopLimit applies the TrailingStopLimit pre-evaluation
// update: the trailing stop update above, and whenever the stop changes,
// LimitPrice is recomputed as newStop ± LimitOffset (plus for buy, minus
// for sell).
func (o *Order) UpdateTrailingStopLimit(current decimal.Decimal) bool {
	changed := o.UpdateTrailingStop(current)
	if changed {
		if o.Direction() == DirBuy {
			o.LimitPrice = o.StopPrice.Add(o.LimitOffset)
		} else {
			o.LimitPrice = o.StopPrice.Sub(o.LimitOffset)
		}
	}
	return changed
}

func trailingCandidate(current, trailingAmount decimal.Decimal, asPercentage bool, dir Direction) decimal.Decimal {
	if asPercentage {
		one := decimal.NewFromInt(1)
		if dir == DirBuy {
			return current.Mul(one.Add(trailingAmount))
		}
		return current.Mul(one.Sub(trailingAmount))
	}
	if dir == DirBuy {
		return current.Add(trailingAmount)
	}
	return current.Sub(trailingAmount)
}
