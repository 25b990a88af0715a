package order

import (
	"time"

	"github.com/shopspring/decimal"

	"backtestcore/internal/symbol"
)

// Event is the append-only fill-engine output. Each event has a unique
// (OrderID, EventID) pair; events are never mutated after return.
type Event struct {
	EventID           string
	OrderID           string
	Symbol            symbol.Symbol
	UtcTime           time.Time
	Status            Status
	Direction         Direction
	FillPrice         decimal.Decimal
	FillPriceCurrency string
	FillQuantity      decimal.Decimal
	Quantity          decimal.Decimal
	OrderFee          decimal.Decimal
	Message           string
	IsAssignment      bool
	LimitPrice        *decimal.Decimal
	StopPrice         *decimal.Decimal
	TriggerPrice      *decimal.Decimal
}

// None builds the universal "nothing happened" event: FillQuantity is zero
// and Status is StatusNone.
func None(o *Order, message string) Event {
	return Event{
		OrderID:      o.ID,
		Symbol:       o.Symbol,
		Status:       StatusNone,
		Direction:    o.Direction(),
		FillQuantity: decimal.Zero,
		Quantity:     o.Quantity,
		Message:      message,
	}
}

// Filled builds a Filled event at fillPrice for the order's full quantity.
func Filled(o *Order, fillPrice decimal.Decimal, utcTime time.Time) Event {
	return Event{
		OrderID:      o.ID,
		Symbol:       o.Symbol,
		UtcTime:      utcTime,
		Status:       StatusFilled,
		Direction:    o.Direction(),
		FillPrice:    fillPrice,
		FillQuantity: o.Quantity,
		Quantity:     o.Quantity,
	}
}

// Invalid builds an Invalid event, used when an evaluator must refuse to
// fill an order submitted outside its allowed window (e.g. MarketOnOpen
// submitted inside the configured blackout window).
func Invalid(o *Order, message string) Event {
	return Event{
		OrderID:      o.ID,
		Symbol:       o.Symbol,
		Status:       StatusInvalid,
		Direction:    o.Direction(),
		FillQuantity: decimal.Zero,
		Quantity:     o.Quantity,
		Message:      message,
	}
}
