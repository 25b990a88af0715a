package fill

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"backtestcore/internal/security"
	"backtestcore/internal/symbol"
)

func dec(t *testing.T, v string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(v)
	if err != nil {
		t.Fatalf("decimal.NewFromString(%q): %v", v, err)
	}
	return d
}

// testHours is always open with a fixed 09:30/16:00 regular session, every
// calendar day, so blackout/open-floor logic has something concrete to check
// against without dragging in an exchange-calendar database.
type testHours struct{}

func (testHours) IsOpen(utcTime time.Time, extendedHours bool) bool { return true }

func (testHours) RegularMarketOpen(localDate time.Time) (time.Time, bool) {
	return time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 9, 30, 0, 0, time.UTC), true
}

func (testHours) RegularMarketClose(localDate time.Time) (time.Time, bool) {
	return time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 16, 0, 0, 0, time.UTC), true
}

type testClock struct{}

func (testClock) ToUTC(local time.Time) time.Time { return local.UTC() }

type testSubs struct{}

func (testSubs) SubscriptionFor(sym symbol.Symbol) security.Subscription {
	return security.Subscription{HasTradeBar: true, HasQuoteBar: true, HasTradeTick: true, HasQuoteTick: true, Resolution: security.ResolutionMinute}
}

func newTestSecurity(sym symbol.Symbol) *security.Security {
	return security.NewSecurity(sym, testHours{}, testClock{}, testSubs{})
}

var testSymbol = symbol.Symbol{CanonicalID: "TEST", SecurityType: symbol.Equity, Market: "demo"}

// touch advances the security's local clock to t, so the freshness gate sees
// "now" as exactly the latest bar's end time.
func touch(sec *security.Security, t time.Time) {
	sec.SetLocalTime(t)
}
