package fill

import (
	"time"

	"backtestcore/internal/order"
	"backtestcore/internal/security"
)

// staleMessagePrefix prefixes the warning message attached to the None event
// returned when the data is not fresh but the order would otherwise have
// filled on it.
const staleMessagePrefix = "Warning: fill at stale price"

// fresh reports whether the security's latest market data is recent enough
// to fill against. Fill-forward data is never fresh. For MarketOnOpen
// orders the submission-time floor is moOpenFloor's value instead of
// order.CreatedTimeUtc.
func fresh(sec *security.Security, o *order.Order, staleThreshold time.Duration) bool {
	if sec.Cache.LatestIsFillForward() {
		return false
	}

	dataEndUtc := sec.Cache.LatestEndTime()
	if dataEndUtc.IsZero() {
		return false
	}

	nowUtc := sec.UtcTime()
	if nowUtc.Sub(dataEndUtc) > staleThreshold {
		return false
	}

	submitUtc := o.CreatedTimeUtc
	if o.Type == order.MarketOnOpen {
		if floor, ok := moOpenFloor(sec, o); ok {
			submitUtc = floor
		}
	}
	return !dataEndUtc.Before(submitUtc)
}

// moOpenFloor returns the earliest data time a MarketOnOpen order may fill
// on: the regular-session open of the submission's calendar day, or the
// submission time itself when the order was submitted after that open. The
// following session's open is not looked up.
func moOpenFloor(sec *security.Security, o *order.Order) (time.Time, bool) {
	open, ok := sec.Hours.RegularMarketOpen(o.CreatedTimeUtc)
	if !ok {
		return time.Time{}, false
	}
	if open.Before(o.CreatedTimeUtc) {
		return o.CreatedTimeUtc, true
	}
	return open, true
}
