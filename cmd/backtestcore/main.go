// Command backtestcore is the thin engine shell around the fill core: it
// wires a mock market-data feed, a handful of demo orders, the dispatcher,
// notification manager, and trade-statistics aggregator together the way a
// real backtest runner would, and prints a summary on shutdown.
package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"backtestcore/internal/events"
	"backtestcore/internal/fill"
	"backtestcore/internal/marketdata"
	"backtestcore/internal/notify"
	"backtestcore/internal/order"
	"backtestcore/internal/security"
	"backtestcore/internal/stats"
	"backtestcore/internal/symbol"
	"backtestcore/pkg/config"
)

// fixedHours treats every day as a trading day with a fixed open/close,
// standing in for the (out-of-scope) exchange-calendar database.
type fixedHours struct {
	open, close time.Duration // offsets from local midnight
}

func (h fixedHours) IsOpen(utcTime time.Time, extendedHours bool) bool { return true }

func (h fixedHours) RegularMarketOpen(localDate time.Time) (time.Time, bool) {
	midnight := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 0, 0, 0, 0, localDate.Location())
	return midnight.Add(h.open), true
}

func (h fixedHours) RegularMarketClose(localDate time.Time) (time.Time, bool) {
	midnight := time.Date(localDate.Year(), localDate.Month(), localDate.Day(), 0, 0, 0, 0, localDate.Location())
	return midnight.Add(h.close), true
}

// utcClock is the no-op TimeKeeper used when the demo feed already runs in UTC.
type utcClock struct{}

func (utcClock) ToUTC(local time.Time) time.Time { return local.UTC() }

// staticSubscription reports trade and quote bars subscribed at minute resolution.
type staticSubscription struct{}

func (staticSubscription) SubscriptionFor(sym symbol.Symbol) security.Subscription {
	return security.Subscription{HasTradeBar: true, HasQuoteBar: true, Resolution: security.ResolutionMinute}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	log.Printf("starting backtestcore (live=%v, staleThreshold=%s, symbols=%v)", cfg.LiveMode, cfg.StaleThreshold, cfg.Symbols)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := events.NewBus()
	hours := fixedHours{open: 9*time.Hour + 30*time.Minute, close: 16 * time.Hour}

	securities := make(map[string]*security.Security, len(cfg.Symbols))
	for _, s := range cfg.Symbols {
		sym := symbol.Symbol{CanonicalID: s, SecurityType: symbol.Equity, Market: "demo"}
		securities[s] = security.NewSecurity(sym, hours, utcClock{}, staticSubscription{})
	}

	dispatcher := fill.NewDispatcher(cfg.StaleThreshold, cfg.MarketOnOpenBlackoutStart, cfg.MarketOnOpenBlackoutEnd)

	notifyManager := notify.NewManager(cfg, notify.NewRestyTransport("", nil, ""))

	orders := demoOrders(securities, cfg.Symbols)

	filledSub, unsubFilled := bus.Subscribe(events.TopicOrderFilled, 100)
	defer unsubFilled()

	entries := make(map[string]stats.Trade) // symbol -> open long entry
	var closedTrades []stats.Trade
	go func() {
		for msg := range filledSub {
			ev, ok := msg.(order.Event)
			if !ok {
				continue
			}
			if ev.Direction == order.DirBuy {
				entries[ev.Symbol.CanonicalID] = stats.Trade{
					Symbol:     ev.Symbol,
					Direction:  stats.Long,
					EntryTime:  ev.UtcTime,
					EntryPrice: ev.FillPrice,
					Quantity:   ev.FillQuantity,
				}
				continue
			}
			entry, ok := entries[ev.Symbol.CanonicalID]
			if !ok {
				continue
			}
			delete(entries, ev.Symbol.CanonicalID)
			entry.ExitTime = ev.UtcTime
			entry.ExitPrice = ev.FillPrice
			entry.ProfitLoss = ev.FillPrice.Sub(entry.EntryPrice).Mul(entry.Quantity)
			closedTrades = append(closedTrades, entry)
			log.Printf("closed trade %s: pnl=%s", entry.Symbol, entry.ProfitLoss)
		}
	}()

	runMockFeed(ctx, securities, cfg.Symbols)

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, o := range orders {
					sec := securities[o.Symbol.CanonicalID]
					ev, err := dispatcher.Fill(sec, o)
					if err != nil {
						log.Printf("dispatch error for order %s: %v", o.ID, err)
						continue
					}
					events.PublishOrderEvent(bus, ev)
					if ev.Status == order.StatusFilled {
						log.Printf("order %s filled at %s", o.ID, ev.FillPrice)
						if err := notifyManager.Email(ctx, "desk@example.com", strPtr("Fill"), strPtr("order filled"), nil, nil); err != nil && err != notify.ErrNotLive {
							log.Printf("notify: %v", err)
						}
					}
				}
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	cancel()
	log.Println("shutting down")

	summary := stats.Aggregate(closedTrades)
	log.Printf("trade summary: total=%d winRate=%s totalPnL=%s sharpe=%s",
		summary.Total, summary.WinRate, summary.TotalProfitLoss, summary.SharpeRatio)
}

func strPtr(s string) *string { return &s }

// demoOrders builds one Market buy and one Limit sell per symbol, enough to
// exercise a round-trip trade under the mock feed.
func demoOrders(securities map[string]*security.Security, symbols []string) []*order.Order {
	var out []*order.Order
	now := time.Now().UTC()
	for _, s := range symbols {
		sec := securities[s]
		out = append(out,
			&order.Order{
				ID:             uuid.New().String(),
				Symbol:         sec.Symbol,
				Type:           order.Market,
				Quantity:       decimal.NewFromInt(100),
				CreatedTimeUtc: now,
				Status:         order.StatusSubmitted,
				TimeInForce:    order.GTC,
			},
			&order.Order{
				ID:             uuid.New().String(),
				Symbol:         sec.Symbol,
				Type:           order.Limit,
				Quantity:       decimal.NewFromInt(-100),
				LimitPrice:     decimal.NewFromInt(101),
				CreatedTimeUtc: now,
				Status:         order.StatusSubmitted,
				TimeInForce:    order.GTC,
			},
		)
	}
	return out
}

// runMockFeed starts one goroutine per symbol pushing a synthetic random
// walk of one-minute trade bars into its Security's cache.
func runMockFeed(ctx context.Context, securities map[string]*security.Security, symbols []string) {
	for _, s := range symbols {
		sec := securities[s]
		go func(sec *security.Security) {
			price := decimal.NewFromInt(100)
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					now := time.Now().UTC()
					step := decimal.NewFromFloat(rand.Float64()*2 - 1)
					open := price
					price = price.Add(step)
					high := decimal.Max(open, price)
					low := decimal.Min(open, price)
					sec.Cache.SetTradeBar(marketdata.TradeBar{
						Time:   now,
						Symbol: sec.Symbol,
						OHLC:   marketdata.OHLC{Open: open, High: high, Low: low, Close: price},
						Volume: decimal.NewFromInt(1000),
						Period: time.Minute,
					})
					sec.SetLocalTime(now)
				}
			}
		}(sec)
	}
}
