// Package order holds the order tagged union, trailing-parameter state
// machine, and OrderEvent/GroupOrderManager types the fill engine operates
// on.
package order

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"backtestcore/internal/symbol"
)

// Type is the closed tag of the order variant union; the dispatcher
// matches on this tag instead of using virtual dispatch.
type Type int

const (
	Market Type = iota
	Limit
	StopMarket
	StopLimit
	LimitIfTouched
	TrailingStop
	TrailingStopLimit
	MarketOnOpen
	MarketOnClose
	OptionExercise
	ComboMarket
	ComboLimit
	ComboLegLimit
)

func (t Type) String() string {
	switch t {
	case Market:
		return "Market"
	case Limit:
		return "Limit"
	case StopMarket:
		return "StopMarket"
	case StopLimit:
		return "StopLimit"
	case LimitIfTouched:
		return "LimitIfTouched"
	case TrailingStop:
		return "TrailingStop"
	case TrailingStopLimit:
		return "TrailingStopLimit"
	case MarketOnOpen:
		return "MarketOnOpen"
	case MarketOnClose:
		return "MarketOnClose"
	case OptionExercise:
		return "OptionExercise"
	case ComboMarket:
		return "ComboMarket"
	case ComboLimit:
		return "ComboLimit"
	case ComboLegLimit:
		return "ComboLegLimit"
	default:
		return "Unknown"
	}
}

// Status is the order lifecycle state.
type Status int

const (
	StatusNone Status = iota
	StatusNew
	StatusSubmitted
	StatusPartiallyFilled
	StatusFilled
	StatusCanceled
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusNone:
		return "None"
	case StatusNew:
		return "New"
	case StatusSubmitted:
		return "Submitted"
	case StatusPartiallyFilled:
		return "PartiallyFilled"
	case StatusFilled:
		return "Filled"
	case StatusCanceled:
		return "Canceled"
	case StatusInvalid:
		return "Invalid"
	default:
		return "Unknown"
	}
}

// IsTerminal reports whether the status is a terminal state.
func (s Status) IsTerminal() bool {
	return s == StatusFilled || s == StatusCanceled || s == StatusInvalid
}

// TimeInForce is the order's duration-in-force tag.
type TimeInForce string

const (
	GTC TimeInForce = "GTC"
	GTD TimeInForce = "GTD"
	DAY TimeInForce = "DAY"
	IOC TimeInForce = "IOC"
	FOK TimeInForce = "FOK"
)

// PriceAdjustmentMode controls how historical corporate actions are folded
// into stored limit/stop prices. The adjustment logic itself lives with the
// (out-of-scope) symbol master; this core only carries the tag through.
type PriceAdjustmentMode int

const (
	AdjustmentRaw PriceAdjustmentMode = iota
	AdjustmentSplitAdjusted
	AdjustmentSplitAndDividendAdjusted
)

// Order is the common header plus every variant's immutable parameters and
// mutable trigger state: a closed tagged union plus a shared header record,
// with no virtual dispatch.
type Order struct {
	ID              string
	Symbol          symbol.Symbol
	Type            Type
	Quantity        decimal.Decimal // signed: positive=buy, negative=sell
	CreatedTimeUtc  time.Time
	Status          Status
	Tag             string
	TimeInForce     TimeInForce
	GoodTilDate     time.Time // expiry for TimeInForce == GTD
	BrokerIDs       []string
	PriceAdjustment PriceAdjustmentMode

	// Variant parameters. Only the fields relevant to Type are ever read by
	// the evaluators; see internal/fill. StopPrice and LimitPrice are
	// updated in place by the trailing-stop mutators for TrailingStop and
	// TrailingStopLimit orders.
	LimitPrice      decimal.Decimal // Limit, StopLimit, TrailingStopLimit
	StopPrice       decimal.Decimal // StopMarket, StopLimit, TrailingStop, TrailingStopLimit
	TriggerPrice    decimal.Decimal // LimitIfTouched
	TrailingAmount  decimal.Decimal // TrailingStop, TrailingStopLimit
	TrailingPercent bool            // true: TrailingAmount is a fraction of price, not absolute
	LimitOffset     decimal.Decimal // TrailingStopLimit

	// Combo orders reference their group by id only, avoiding a reference
	// cycle between order and group.
	GroupOrderManagerID string
	LegIndex            int

	mu              sync.Mutex
	stopTriggered   bool
	triggerTouched  bool
}

// Direction returns Buy/Sell from the sign of Quantity: buy iff positive.
func (o *Order) Direction() Direction {
	if o.Quantity.IsPositive() {
		return DirBuy
	}
	return DirSell
}

// Direction is order.Direction, kept distinct from marketdata.Direction
// (which also carries Hold) so order-side logic can't accidentally compare
// against the extractor's Hold case.
type Direction int

const (
	DirBuy Direction = iota
	DirSell
)

// Validate checks the invariants the core, rather than the broker, is
// responsible for catching at construction/first dispatch.
func (o *Order) Validate() error {
	if o.Quantity.IsZero() {
		return invalidOrder(fmt.Sprintf("%s: quantity must be non-zero", o.Symbol))
	}
	switch o.Type {
	case Limit, StopLimit, TrailingStopLimit:
		if !o.LimitPrice.IsPositive() {
			return invalidOrder(fmt.Sprintf("%s: limit price must be positive", o.Symbol))
		}
	}
	switch o.Type {
	case StopMarket, StopLimit, TrailingStop, TrailingStopLimit:
		if !o.StopPrice.IsPositive() {
			return invalidOrder(fmt.Sprintf("%s: stop price must be positive", o.Symbol))
		}
	}
	if o.Type == LimitIfTouched && !o.TriggerPrice.IsPositive() {
		return invalidOrder(fmt.Sprintf("%s: trigger price must be positive", o.Symbol))
	}
	if o.Type == OptionExercise && !o.Symbol.SecurityType.IsOption() {
		return invalidOrder(fmt.Sprintf("%s: option exercise on a non-option security", o.Symbol))
	}
	return nil
}
