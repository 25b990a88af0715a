package fill

import (
	"testing"
	"time"

	"backtestcore/internal/order"
)

func comboLeg(t *testing.T, id string, qty, limit string) (ComboLeg, *order.Order) {
	o := &order.Order{ID: id, Symbol: testSymbol, Type: order.ComboLegLimit, Quantity: dec(t, qty), LimitPrice: dec(t, limit)}
	sec := newTestSecurity(testSymbol)
	return ComboLeg{Security: sec, Order: o}, o
}

func TestEvaluateComboMarketFillsEachLegIndependentlyAndMarksGroup(t *testing.T) {
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	legA, oA := comboLeg(t, "a", "100", "0")
	oA.Type = order.ComboMarket
	legA.Security.Cache.SetTradeBar(tradeBar(now, "50", "50.5", "49.5", "50", t))
	legB, oB := comboLeg(t, "b", "-100", "0")
	oB.Type = order.ComboMarket
	legB.Security.Cache.SetTradeBar(tradeBar(now, "60", "60.5", "59.5", "60", t))

	gom := order.NewGroupOrderManager("g1", 2, dec(t, "0"), order.DirBuy)
	gom.AddLeg("a", dec(t, "100"))
	gom.AddLeg("b", dec(t, "-100"))

	events, err := EvaluateCombo([]ComboLeg{legA, legB}, gom)
	if err != nil {
		t.Fatalf("EvaluateCombo: %v", err)
	}
	for i, ev := range events {
		if ev.Status != order.StatusFilled {
			t.Fatalf("leg %d: status=%v, want Filled", i, ev.Status)
		}
	}
	if !gom.IsClosed() {
		t.Fatal("expected group to be closed once every leg reports filled")
	}
}

func TestEvaluateComboLimitAllLegsOrNone(t *testing.T) {
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	legA, oA := comboLeg(t, "a", "100", "0")
	oA.Type = order.ComboLimit
	legA.Security.Cache.SetTradeBar(tradeBar(now, "50", "50.5", "49.5", "50", t))
	legB, oB := comboLeg(t, "b", "-100", "0")
	oB.Type = order.ComboLimit
	legB.Security.Cache.SetTradeBar(tradeBar(now, "60", "60.5", "59.5", "60", t))

	// combination = 50*100 + 60*(-100) = 5000 - 6000 = -1000, group wants <= -500 (buy)
	gom := order.NewGroupOrderManager("g1", 2, dec(t, "-500"), order.DirBuy)
	gom.AddLeg("a", dec(t, "100"))
	gom.AddLeg("b", dec(t, "-100"))

	events, err := EvaluateCombo([]ComboLeg{legA, legB}, gom)
	if err != nil {
		t.Fatalf("EvaluateCombo: %v", err)
	}
	for i, ev := range events {
		if ev.Status != order.StatusFilled {
			t.Fatalf("leg %d: status=%v, want Filled (combination crosses the group limit)", i, ev.Status)
		}
	}

	gom.Reset()
	// Now require a combination the legs can't reach: <= -5000.
	gom2 := order.NewGroupOrderManager("g2", 2, dec(t, "-5000"), order.DirBuy)
	gom2.AddLeg("a", dec(t, "100"))
	gom2.AddLeg("b", dec(t, "-100"))
	events, err = EvaluateCombo([]ComboLeg{legA, legB}, gom2)
	if err != nil {
		t.Fatalf("EvaluateCombo: %v", err)
	}
	for i, ev := range events {
		if ev.Status != order.StatusNone {
			t.Fatalf("leg %d: status=%v, want None (combination doesn't cross the group limit)", i, ev.Status)
		}
	}
}

func TestEvaluateComboLegLimitRequiresEveryLegToSatisfyItsOwnLimit(t *testing.T) {
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	legA, _ := comboLeg(t, "a", "100", "50.5")
	legA.Security.Cache.SetTradeBar(tradeBar(now, "50", "50.5", "49.5", "50", t))
	legB, _ := comboLeg(t, "b", "-100", "100") // will fail: bar never reaches 100
	legB.Security.Cache.SetTradeBar(tradeBar(now, "60", "60.5", "59.5", "60", t))

	gom := order.NewGroupOrderManager("g1", 2, dec(t, "0"), order.DirBuy)
	gom.AddLeg("a", dec(t, "100"))
	gom.AddLeg("b", dec(t, "-100"))

	events, err := EvaluateCombo([]ComboLeg{legA, legB}, gom)
	if err != nil {
		t.Fatalf("EvaluateCombo: %v", err)
	}
	for i, ev := range events {
		if ev.Status != order.StatusNone {
			t.Fatalf("leg %d: status=%v, want None (one leg's limit is unreachable so neither leg fills)", i, ev.Status)
		}
	}
	if gom.IsClosed() {
		t.Fatal("group must not be closed when legs didn't fill")
	}
}
