package fill

import (
	"strings"
	"testing"
	"time"

	"backtestcore/internal/order"
)

// TestTrailingStopStopPriceSequence drives the sell-side trailing update
// through a price walk and checks the stop only ever improves (moves up),
// then confirms the dispatcher fills once the stop is finally touched.
func TestTrailingStopStopPriceSequence(t *testing.T) {
	sec := newTestSecurity(testSymbol)
	o := &order.Order{
		ID: "o1", Symbol: testSymbol, Type: order.TrailingStop,
		Quantity: dec(t, "-100"), TrailingAmount: dec(t, "5"),
	}

	d := NewDispatcher(time.Hour, "09:31", "16:00")

	base := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	steps := []struct {
		price string
		want  string
	}{
		{"100", "95"},
		{"102.5", "97.5"},
		{"101", "97.5"},
		{"99", "97.5"},
		{"110", "105"},
	}
	for i, step := range steps {
		at := base.Add(time.Duration(i) * time.Minute)
		sec.Cache.SetTradeBar(tradeBar(at, step.price, step.price, step.price, step.price, t))
		d.updateTrailingState(sec, o)
		if !o.StopPrice.Equal(dec(t, step.want)) {
			t.Fatalf("step %d (price=%s): stopPrice=%s, want %s", i, step.price, o.StopPrice, step.want)
		}
	}

	o.CreatedTimeUtc = base
	fillBar := tradeBar(base.Add(5*time.Minute), "110", "110", "102", "103", t)
	sec.Cache.SetTradeBar(fillBar)
	sec.SetLocalTime(fillBar.EndTime())

	ev, err := d.Fill(sec, o)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if ev.Status != order.StatusFilled || !ev.FillPrice.Equal(dec(t, "105")) {
		t.Fatalf("status=%v price=%v, want Filled at 105", ev.Status, ev.FillPrice)
	}
	if !o.StopPrice.Equal(dec(t, "105")) {
		t.Fatalf("stopPrice after fill bar = %s, want 105 (unchanged, bar's own current doesn't improve it)", o.StopPrice)
	}
}

func TestTrailingStopLimitRecomputesLimitWhenStopMoves(t *testing.T) {
	sec := newTestSecurity(testSymbol)
	o := &order.Order{
		ID: "o1", Symbol: testSymbol, Type: order.TrailingStopLimit,
		Quantity: dec(t, "100"), TrailingAmount: dec(t, "2"), LimitOffset: dec(t, "0.5"),
	}
	d := NewDispatcher(time.Hour, "09:31", "16:00")

	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	sec.Cache.SetTradeBar(tradeBar(now, "100", "100", "100", "100", t))
	d.updateTrailingState(sec, o)

	if !o.StopPrice.Equal(dec(t, "102")) {
		t.Fatalf("stopPrice = %s, want 102 (100 + trailingAmount for a buy)", o.StopPrice)
	}
	if !o.LimitPrice.Equal(dec(t, "102.5")) {
		t.Fatalf("limitPrice = %s, want 102.5 (stop + limitOffset for a buy)", o.LimitPrice)
	}
}

func TestDispatcherFillReportsStaleFillDiagnostic(t *testing.T) {
	sec := newTestSecurity(testSymbol)
	d := NewDispatcher(time.Minute, "09:31", "16:00")

	barTime := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	sec.Cache.SetTradeBar(tradeBar(barTime, "100", "101", "99", "100.5", t))
	sec.SetLocalTime(barTime.Add(time.Hour)) // long past the stale threshold

	o := &order.Order{
		ID: "o1", Symbol: testSymbol, Type: order.Market,
		Quantity: dec(t, "100"), CreatedTimeUtc: barTime, Status: order.StatusSubmitted,
	}
	ev, err := d.Fill(sec, o)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if ev.Status != order.StatusNone {
		t.Fatalf("status=%v, want None (stale data never actually fills)", ev.Status)
	}
	if !strings.Contains(ev.Message, "stale") {
		t.Fatalf("message=%q, want a diagnostic mentioning staleness", ev.Message)
	}
	if o.Status != order.StatusSubmitted {
		t.Fatalf("order status=%v, want unchanged Submitted (a None event never transitions the order)", o.Status)
	}
}

func TestDispatcherFillNoopsOnAlreadyTerminalOrder(t *testing.T) {
	sec := newTestSecurity(testSymbol)
	d := NewDispatcher(time.Hour, "09:31", "16:00")

	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	sec.Cache.SetTradeBar(tradeBar(now, "100", "101", "99", "100.5", t))
	sec.SetLocalTime(now.Add(time.Minute))

	o := &order.Order{
		ID: "o1", Symbol: testSymbol, Type: order.Market,
		Quantity: dec(t, "100"), CreatedTimeUtc: now, Status: order.StatusSubmitted,
	}
	if !o.Cancel() {
		t.Fatal("Cancel on a non-terminal order must succeed")
	}

	ev, err := d.Fill(sec, o)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if ev.Status != order.StatusNone {
		t.Fatalf("status=%v, want None (a canceled order never fills)", ev.Status)
	}
	if o.Status != order.StatusCanceled {
		t.Fatalf("order status=%v, want Canceled (unchanged by the no-op Fill)", o.Status)
	}
}

func TestDispatcherFillFreshDataFillsAndTransitionsOrder(t *testing.T) {
	sec := newTestSecurity(testSymbol)
	d := NewDispatcher(time.Hour, "09:31", "16:00")

	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	sec.Cache.SetTradeBar(tradeBar(now, "100", "101", "99", "100.5", t))
	sec.SetLocalTime(now.Add(time.Minute))

	o := &order.Order{
		ID: "o1", Symbol: testSymbol, Type: order.Market,
		Quantity: dec(t, "100"), CreatedTimeUtc: now, Status: order.StatusSubmitted,
	}
	ev, err := d.Fill(sec, o)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if ev.Status != order.StatusFilled {
		t.Fatalf("status=%v, want Filled", ev.Status)
	}
	if o.Status != order.StatusFilled {
		t.Fatalf("order status=%v, want Filled (committed by the dispatcher)", o.Status)
	}
	if ev.EventID == "" {
		t.Error("expected a non-empty EventID on a real fill")
	}
}

// TestDispatcherFillDoesNotLatchTriggerFromStaleData guards against the
// stale-data diagnostic evaluation permanently latching a StopLimit order's
// trigger: the bar here crosses the stop but misses the limit, and is stale
// enough that the dispatcher must never actually act on it.
func TestDispatcherFillDoesNotLatchTriggerFromStaleData(t *testing.T) {
	sec := newTestSecurity(testSymbol)
	d := NewDispatcher(time.Minute, "09:31", "16:00")

	staleTime := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	sec.Cache.SetTradeBar(tradeBar(staleTime, "102", "103", "102", "102.5", t))
	sec.SetLocalTime(staleTime.Add(time.Hour)) // long past the stale threshold

	o := &order.Order{
		ID: "o1", Symbol: testSymbol, Type: order.StopLimit,
		Quantity: dec(t, "100"), StopPrice: dec(t, "101"), LimitPrice: dec(t, "101.75"),
		CreatedTimeUtc: staleTime, Status: order.StatusSubmitted,
	}

	ev, err := d.Fill(sec, o)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if ev.Status != order.StatusNone {
		t.Fatalf("status=%v, want None (stale bar never actually fills or triggers)", ev.Status)
	}
	if o.StopTriggered() {
		t.Fatal("stop-triggered latch must not survive a stale-data evaluation")
	}
	if o.Status != order.StatusSubmitted {
		t.Fatalf("order status=%v, want unchanged Submitted", o.Status)
	}
}

// TestDispatcherFillTransitionsInvalidOrderToTerminal guards against an
// Invalid order re-evaluating and re-emitting Invalid on every subsequent
// Fill call: a MarketOnOpen order submitted inside the blackout window must
// reach a terminal status on the first call.
func TestDispatcherFillTransitionsInvalidOrderToTerminal(t *testing.T) {
	sec := newTestSecurity(testSymbol)
	d := NewDispatcher(time.Hour, "09:31", "16:00")

	submitted := time.Date(2024, 1, 2, 9, 45, 0, 0, time.UTC) // inside the blackout window
	sec.Cache.SetTradeBar(tradeBar(submitted.Add(time.Minute), "100", "101", "99", "100.5", t))
	sec.SetLocalTime(submitted.Add(2 * time.Minute))

	o := &order.Order{
		ID: "o1", Symbol: testSymbol, Type: order.MarketOnOpen,
		Quantity: dec(t, "100"), CreatedTimeUtc: submitted, Status: order.StatusSubmitted,
	}

	ev, err := d.Fill(sec, o)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if ev.Status != order.StatusInvalid {
		t.Fatalf("status=%v, want Invalid (submission inside the blackout window)", ev.Status)
	}
	if o.Status != order.StatusInvalid {
		t.Fatalf("order status=%v, want Invalid (committed as a terminal status)", o.Status)
	}

	ev, err = d.Fill(sec, o)
	if err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if ev.Status != order.StatusNone {
		t.Fatalf("status=%v, want None (a terminal order must short-circuit instead of re-evaluating)", ev.Status)
	}
}
