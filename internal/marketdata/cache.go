package marketdata

import (
	"sync"
	"time"
)

// Cache holds the most recently received bar/tick of each kind for one
// security. A Security owns exactly one Cache; the owning data-feed thread
// is the only writer. One RWMutex guards the handful of typed slots below,
// since a single security's data doesn't need symbol sharding.
type Cache struct {
	mu sync.RWMutex

	tradeBar     *TradeBar
	quoteBar     *QuoteBar
	tradeTick    *Tick
	quoteTick    *Tick
	openInterest *Tick
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// SetTradeBar records the latest trade bar.
func (c *Cache) SetTradeBar(b TradeBar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bb := b
	c.tradeBar = &bb
}

// SetQuoteBar records the latest quote bar.
func (c *Cache) SetQuoteBar(b QuoteBar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	bb := b
	c.quoteBar = &bb
}

// SetTick records the latest tick, filed under trade/quote/open-interest.
func (c *Cache) SetTick(t Tick) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tt := t
	switch t.TickType {
	case TickTrade:
		c.tradeTick = &tt
	case TickQuote:
		c.quoteTick = &tt
	case TickOpenInterest:
		c.openInterest = &tt
	}
}

// LatestTradeBar returns the cached trade bar, if any.
func (c *Cache) LatestTradeBar() (TradeBar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tradeBar == nil {
		return TradeBar{}, false
	}
	return *c.tradeBar, true
}

// LatestQuoteBar returns the cached quote bar, if any.
func (c *Cache) LatestQuoteBar() (QuoteBar, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.quoteBar == nil {
		return QuoteBar{}, false
	}
	return *c.quoteBar, true
}

// LatestTradeTick returns the cached trade tick, if any.
func (c *Cache) LatestTradeTick() (Tick, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tradeTick == nil {
		return Tick{}, false
	}
	return *c.tradeTick, true
}

// LatestQuoteTick returns the cached quote tick, if any.
func (c *Cache) LatestQuoteTick() (Tick, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.quoteTick == nil {
		return Tick{}, false
	}
	return *c.quoteTick, true
}

// LatestEndTime returns the latest of the cached tick times and bar end
// times, for the fresh-data check. Subscriptions are not consulted.
func (c *Cache) LatestEndTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var latest time.Time
	consider := func(t time.Time) {
		if t.After(latest) {
			latest = t
		}
	}
	if c.tradeTick != nil {
		consider(c.tradeTick.Time)
	}
	if c.quoteTick != nil {
		consider(c.quoteTick.Time)
	}
	if c.tradeBar != nil {
		consider(c.tradeBar.EndTime())
	}
	if c.quoteBar != nil {
		consider(c.quoteBar.EndTime())
	}
	return latest
}

// LatestIsFillForward reports whether the most recent datum considered by
// LatestEndTime was synthetically fill-forwarded rather than a genuine
// market observation.
func (c *Cache) LatestIsFillForward() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var latest time.Time
	ff := false
	consider := func(t time.Time, isFF bool) {
		if t.After(latest) {
			latest = t
			ff = isFF
		}
	}
	if c.tradeTick != nil {
		consider(c.tradeTick.Time, c.tradeTick.IsFillForward)
	}
	if c.quoteTick != nil {
		consider(c.quoteTick.Time, c.quoteTick.IsFillForward)
	}
	if c.tradeBar != nil {
		consider(c.tradeBar.EndTime(), c.tradeBar.IsFillForward)
	}
	if c.quoteBar != nil {
		consider(c.quoteBar.EndTime(), c.quoteBar.IsFillForward)
	}
	return ff
}
