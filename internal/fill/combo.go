package fill

import (
	"fmt"

	"github.com/shopspring/decimal"

	"backtestcore/internal/marketdata"
	"backtestcore/internal/order"
	"backtestcore/internal/security"
)

// ComboLeg pairs a combo order's leg with the security it prices against.
type ComboLeg struct {
	Security *security.Security
	Order    *order.Order
}

// EvaluateCombo evaluates every leg of a combo order together, reporting
// one event per leg. Legs share lifecycle: either all legs fill in this
// call or none do.
func EvaluateCombo(legs []ComboLeg, gom *order.GroupOrderManager) ([]order.Event, error) {
	if len(legs) == 0 {
		return nil, nil
	}
	switch legs[0].Order.Type {
	case order.ComboMarket:
		return evaluateComboMarket(legs, gom)
	case order.ComboLimit:
		return evaluateComboLimit(legs, gom)
	case order.ComboLegLimit:
		return evaluateComboLegLimit(legs, gom)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOrderType, legs[0].Order.Type)
	}
}

func evaluateComboMarket(legs []ComboLeg, gom *order.GroupOrderManager) ([]order.Event, error) {
	events := make([]order.Event, len(legs))
	for i, leg := range legs {
		ev, err := evaluateMarket(leg.Security, leg.Order)
		if err != nil {
			return nil, err
		}
		events[i] = ev
	}
	for i, leg := range legs {
		if events[i].Status == order.StatusFilled {
			gom.MarkLegFilled(leg.Order.ID)
		}
	}
	return events, nil
}

// evaluateComboLimit fills every leg iff the quantity-weighted combination
// of leg close prices crosses the group limit; otherwise no leg fills.
func evaluateComboLimit(legs []ComboLeg, gom *order.GroupOrderManager) ([]order.Event, error) {
	prices := make([]marketdata.Prices, len(legs))
	combination := decimal.Zero
	for i, leg := range legs {
		p, ok := marketdata.TradeOnly(leg.Security.Cache)
		if !ok {
			return noneForAll(legs), nil
		}
		prices[i] = p
		combination = combination.Add(p.Close.Mul(leg.Order.Quantity))
	}

	var crossed bool
	if gom.Direction == order.DirBuy {
		crossed = combination.LessThanOrEqual(gom.GroupLimitPrice)
	} else {
		crossed = combination.GreaterThanOrEqual(gom.GroupLimitPrice)
	}
	if !crossed {
		return noneForAll(legs), nil
	}

	events := make([]order.Event, len(legs))
	for i, leg := range legs {
		events[i] = order.Filled(leg.Order, prices[i].Close, prices[i].EndTime)
		gom.MarkLegFilled(leg.Order.ID)
	}
	return events, nil
}

// evaluateComboLegLimit fills every leg iff each leg independently
// satisfies its own limit against the same data slice.
func evaluateComboLegLimit(legs []ComboLeg, gom *order.GroupOrderManager) ([]order.Event, error) {
	prices := make([]marketdata.Prices, len(legs))
	fillPrices := make([]decimal.Decimal, len(legs))
	for i, leg := range legs {
		p, ok := marketdata.TradeOnly(leg.Security.Cache)
		if !ok {
			return noneForAll(legs), nil
		}
		price, filled := limitFill(p, leg.Order)
		if !filled {
			return noneForAll(legs), nil
		}
		prices[i] = p
		fillPrices[i] = price
	}

	events := make([]order.Event, len(legs))
	for i, leg := range legs {
		events[i] = order.Filled(leg.Order, fillPrices[i], prices[i].EndTime)
		gom.MarkLegFilled(leg.Order.ID)
	}
	return events, nil
}

func noneForAll(legs []ComboLeg) []order.Event {
	events := make([]order.Event, len(legs))
	for i, leg := range legs {
		events[i] = order.None(leg.Order, "")
	}
	return events
}
