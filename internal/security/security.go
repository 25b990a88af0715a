// Package security provides the externally-owned Security container the
// fill engine reads market data and session state from. Everything here is
// a thin interface boundary: the real exchange-calendar database and data
// feed live outside this package and are injected by the caller.
package security

import (
	"time"

	"backtestcore/internal/marketdata"
	"backtestcore/internal/symbol"
)

// Resolution is the finest period a subscription delivers data at.
type Resolution int

const (
	ResolutionTick Resolution = iota
	ResolutionSecond
	ResolutionMinute
	ResolutionHour
	ResolutionDay
)

// Subscription describes what market data is available for a symbol: which
// data types are subscribed, and at what resolution.
type Subscription struct {
	HasTradeBar  bool
	HasQuoteBar  bool
	HasTradeTick bool
	HasQuoteTick bool
	Resolution   Resolution
}

// ConfigProvider resolves the subscription in force for a symbol.
type ConfigProvider interface {
	SubscriptionFor(sym symbol.Symbol) Subscription
}

// ExchangeHours is the opaque exchange-calendar collaborator. A real
// implementation is backed by an exchange-calendar database; that database
// lives outside this package.
type ExchangeHours interface {
	IsOpen(utcTime time.Time, extendedHours bool) bool
	// RegularMarketOpen returns the scheduled regular-session open for the
	// session containing localDate, if the exchange trades that day.
	RegularMarketOpen(localDate time.Time) (time.Time, bool)
	// RegularMarketClose returns the scheduled regular-session close for
	// the session containing localDate, if the exchange trades that day.
	RegularMarketClose(localDate time.Time) (time.Time, bool)
}

// TimeKeeper converts a security's local clock to UTC.
type TimeKeeper interface {
	ToUTC(local time.Time) time.Time
}

// Security is the mutable, externally-owned container the fill engine reads.
// It is mutated by exactly one data-feed thread; the fill engine only reads it.
type Security struct {
	Symbol        symbol.Symbol
	Hours         ExchangeHours
	Clock         TimeKeeper
	Cache         *marketdata.Cache
	Subscriptions ConfigProvider

	localTime time.Time
}

// NewSecurity constructs a Security with a fresh, empty data cache.
func NewSecurity(sym symbol.Symbol, hours ExchangeHours, clock TimeKeeper, subs ConfigProvider) *Security {
	return &Security{
		Symbol:        sym,
		Hours:         hours,
		Clock:         clock,
		Cache:         marketdata.NewCache(),
		Subscriptions: subs,
	}
}

// SetLocalTime advances the security's local clock; called by the data feed
// on each bar/tick arrival.
func (s *Security) SetLocalTime(t time.Time) {
	s.localTime = t
}

// LocalTime returns the security's local clock.
func (s *Security) LocalTime() time.Time {
	return s.localTime
}

// UtcTime converts the security's local clock to UTC via its TimeKeeper.
func (s *Security) UtcTime() time.Time {
	if s.Clock == nil {
		return s.localTime.UTC()
	}
	return s.Clock.ToUTC(s.localTime)
}

// Subscription resolves this security's current subscription config.
func (s *Security) Subscription() Subscription {
	if s.Subscriptions == nil {
		return Subscription{}
	}
	return s.Subscriptions.SubscriptionFor(s.Symbol)
}
