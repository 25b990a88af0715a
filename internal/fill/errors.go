// Package fill implements the freshness gate, per-variant fill evaluators,
// and dispatcher that together decide whether an order becomes fillable on
// a market data arrival.
package fill

import "errors"

// Sentinel error kinds. Invariant violations throw; ordinary "can't fill
// right now" conditions return an Event with Status=None instead rather
// than being logged and swallowed.
var (
	// ErrMissingSubscription: the security has no data subscription capable
	// of pricing the order (e.g. a Market order on an indicator-only feed).
	ErrMissingSubscription = errors.New("fill: missing subscription capable of pricing this order")

	// ErrUnsupportedOrderType: a combination a specific asset-class fill
	// model does not implement (e.g. options on Forex).
	ErrUnsupportedOrderType = errors.New("fill: unsupported order type for this security")

	// ErrCannotGetPrice: Market order fill attempted with neither a
	// quote nor a trade price available.
	ErrCannotGetPrice = errors.New("fill: cannot get a price to fill this order")
)
