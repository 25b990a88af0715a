package stats

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"backtestcore/internal/symbol"
)

func dec(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate(nil)
	if s.Total != 0 || !s.TotalProfitLoss.IsZero() || s.AverageTradeDuration != 0 {
		t.Fatalf("expected zero-valued Summary for empty input, got %+v", s)
	}
}

func TestAggregateThreeLongWinners(t *testing.T) {
	sym := symbol.Symbol{CanonicalID: "AAPL", SecurityType: symbol.Equity, Market: "USA"}
	base := time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)

	mk := func(pl, mae, mfe string, offset time.Duration) Trade {
		return Trade{
			Symbol:     sym,
			Direction:  Long,
			EntryTime:  base.Add(offset),
			ExitTime:   base.Add(offset + time.Hour),
			ProfitLoss: dec(pl),
			MAE:        dec(mae),
			MFE:        dec(mfe),
			TotalFees:  dec("2"),
		}
	}

	trades := []Trade{
		mk("20", "-5", "30", 0),
		mk("20", "-30", "40", 2*time.Hour),
		mk("10", "-15", "30", 4*time.Hour),
	}

	s := Aggregate(trades)

	if got, want := s.TotalProfitLoss, dec("50"); !got.Equal(want) {
		t.Errorf("totalProfitLoss = %s, want %s", got, want)
	}
	wantAvgProfit := dec("16.666666666666666667")
	if diff := s.AverageProfit.Sub(wantAvgProfit).Abs(); diff.GreaterThan(dec("0.0001")) {
		t.Errorf("averageProfit = %s, want ~%s", s.AverageProfit, wantAvgProfit)
	}
	if got, want := s.ProfitFactor, dec("10"); !got.Equal(want) {
		t.Errorf("profitFactor = %s, want %s (no losers)", got, want)
	}
	wantSharpe := dec("2.886")
	if diff := s.SharpeRatio.Sub(wantSharpe).Abs(); diff.GreaterThan(dec("0.01")) {
		t.Errorf("sharpeRatio = %s, want ~%s", s.SharpeRatio, wantSharpe)
	}
	wantStdDev := dec("5.7735")
	if diff := s.ProfitLossStandardDeviation.Sub(wantStdDev).Abs(); diff.GreaterThan(dec("0.001")) {
		t.Errorf("profitLossStandardDeviation = %s, want ~%s", s.ProfitLossStandardDeviation, wantStdDev)
	}
	wantIntraDD := dec("-70")
	if got := s.MaximumIntraTradeDrawdown; !got.Equal(wantIntraDD) {
		t.Errorf("maximumIntraTradeDrawdown = %s, want %s", got, wantIntraDD)
	}
}

func TestCountRatioPerfectRun(t *testing.T) {
	if got := countRatio(5, 0); !got.Equal(dec("10")) {
		t.Errorf("countRatio(5,0) = %s, want 10", got)
	}
	if got := countRatio(0, 0); !got.IsZero() {
		t.Errorf("countRatio(0,0) = %s, want 0", got)
	}
}

func TestSqrtDecimal(t *testing.T) {
	got := sqrtDecimal(dec("33.333333333333333333"))
	want := dec("5.7735")
	if diff := got.Sub(want).Abs(); diff.GreaterThan(dec("0.001")) {
		t.Errorf("sqrtDecimal = %s, want ~%s", got, want)
	}
	if got := sqrtDecimal(decimal.Zero); !got.IsZero() {
		t.Errorf("sqrtDecimal(0) = %s, want 0", got)
	}
}
