package stats

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary is the flat numeric panel computed over a closed trade sequence.
// An empty sequence produces the zero Summary: every numeric field zero,
// every duration zero.
type Summary struct {
	Total, Winning, Losing int

	TotalProfitLoss decimal.Decimal
	TotalProfit     decimal.Decimal
	TotalLoss       decimal.Decimal
	TotalFees       decimal.Decimal

	LargestProfit decimal.Decimal
	LargestLoss   decimal.Decimal
	LargestMAE    decimal.Decimal
	LargestMFE    decimal.Decimal

	AverageProfitLoss       decimal.Decimal
	AverageProfit           decimal.Decimal
	AverageLoss             decimal.Decimal
	AverageMAE              decimal.Decimal
	AverageMFE              decimal.Decimal
	AverageEndTradeDrawdown decimal.Decimal

	AverageTradeDuration        time.Duration
	AverageWinningTradeDuration time.Duration
	AverageLosingTradeDuration  time.Duration
	MaximumDrawdownDuration     time.Duration

	MaxConsecutiveWinningTrades int
	MaxConsecutiveLosingTrades  int

	WinRate                  decimal.Decimal
	LossRate                 decimal.Decimal
	ProfitLossRatio          decimal.Decimal
	WinLossRatio             decimal.Decimal
	ProfitFactor             decimal.Decimal
	ProfitToMaxDrawdownRatio decimal.Decimal

	ProfitLossStandardDeviation decimal.Decimal
	ProfitLossDownsideDeviation decimal.Decimal
	SharpeRatio                 decimal.Decimal
	SortinoRatio                decimal.Decimal

	MaximumClosedTradeDrawdown decimal.Decimal
	MaximumIntraTradeDrawdown  decimal.Decimal
	MaximumEndTradeDrawdown    decimal.Decimal
}

// Aggregate computes the full statistics panel over a closed trade
// sequence, running peak/drawdown tracking over decimal arithmetic across
// three distinct peak-tracking passes (realized-only, MFE-extended, and
// per-trade-close) rather than one counter.
func Aggregate(trades []Trade) Summary {
	var s Summary
	n := len(trades)
	if n == 0 {
		return s
	}

	var (
		totalDur, winDur, loseDur time.Duration
		consecWin, consecLose     int
		maeSum, mfeSum            = decimal.Zero, decimal.Zero
	)

	for _, t := range trades {
		s.Total++
		s.TotalProfitLoss = s.TotalProfitLoss.Add(t.ProfitLoss)
		s.TotalFees = s.TotalFees.Add(t.TotalFees)
		totalDur += t.Duration()
		maeSum = maeSum.Add(t.MAE)
		mfeSum = mfeSum.Add(t.MFE)

		if s.Total == 1 || t.ProfitLoss.GreaterThan(s.LargestProfit) {
			s.LargestProfit = t.ProfitLoss
		}
		if s.Total == 1 || t.ProfitLoss.LessThan(s.LargestLoss) {
			s.LargestLoss = t.ProfitLoss
		}
		if s.Total == 1 || t.MAE.LessThan(s.LargestMAE) {
			s.LargestMAE = t.MAE
		}
		if s.Total == 1 || t.MFE.GreaterThan(s.LargestMFE) {
			s.LargestMFE = t.MFE
		}

		switch {
		case t.isWinning():
			s.Winning++
			s.TotalProfit = s.TotalProfit.Add(t.ProfitLoss)
			winDur += t.Duration()
			consecWin++
			consecLose = 0
		case t.isLosing():
			s.Losing++
			s.TotalLoss = s.TotalLoss.Add(t.ProfitLoss)
			loseDur += t.Duration()
			consecLose++
			consecWin = 0
		default:
			consecWin, consecLose = 0, 0
		}
		if consecWin > s.MaxConsecutiveWinningTrades {
			s.MaxConsecutiveWinningTrades = consecWin
		}
		if consecLose > s.MaxConsecutiveLosingTrades {
			s.MaxConsecutiveLosingTrades = consecLose
		}
	}

	nd := decimal.NewFromInt(int64(n))
	s.AverageProfitLoss = s.TotalProfitLoss.Div(nd)
	s.AverageMAE = maeSum.Div(nd)
	s.AverageMFE = mfeSum.Div(nd)
	s.AverageTradeDuration = totalDur / time.Duration(n)
	if s.Winning > 0 {
		s.AverageProfit = s.TotalProfit.Div(decimal.NewFromInt(int64(s.Winning)))
		s.AverageWinningTradeDuration = winDur / time.Duration(s.Winning)
	}
	if s.Losing > 0 {
		s.AverageLoss = s.TotalLoss.Div(decimal.NewFromInt(int64(s.Losing)))
		s.AverageLosingTradeDuration = loseDur / time.Duration(s.Losing)
	}

	s.WinRate = decimal.NewFromInt(int64(s.Winning)).Div(nd)
	s.LossRate = decimal.NewFromInt(int64(s.Losing)).Div(nd)
	s.ProfitLossRatio = ratioOrZero(s.AverageProfit, s.AverageLoss.Abs())
	s.WinLossRatio = countRatio(s.Winning, s.Losing)
	s.ProfitFactor = countRatioDecimal(s.TotalProfit, s.TotalLoss.Abs(), s.Winning, s.Losing)

	computeDrawdowns(trades, &s)
	computeDistribution(trades, &s)

	s.ProfitToMaxDrawdownRatio = ratioOrZero(s.TotalProfitLoss, s.MaximumIntraTradeDrawdown.Abs())

	return s
}

// computeDrawdowns runs three peak-tracking passes over the running
// cumulative PnL: a realized-only pass (closed-trade drawdown), a pass
// extended by each trade's own MFE/MAE excursion (intra-trade drawdown),
// and a per-close pass against the MFE-extended peak (end-trade drawdown).
func computeDrawdowns(trades []Trade, s *Summary) {
	var (
		cum           = decimal.Zero
		realizedPeak  = decimal.Zero
		extendedPeak  = decimal.Zero
		maxClosedDD   = decimal.Zero
		maxIntraDD    = decimal.Zero
		maxEndDD      = decimal.Zero
		endDDSum      = decimal.Zero
		ddStart       time.Time
		peakTime      time.Time
		inDrawdown    bool
		maxDDDuration time.Duration
	)

	for i, t := range trades {
		entryCum := cum

		intraHigh := entryCum.Add(t.MFE)
		if intraHigh.GreaterThan(extendedPeak) {
			extendedPeak = intraHigh
		}
		intraLow := entryCum.Add(t.MAE)
		intraDD := extendedPeak.Sub(intraLow)
		if intraDD.GreaterThan(maxIntraDD) {
			maxIntraDD = intraDD
		}

		cum = cum.Add(t.ProfitLoss)

		endDD := extendedPeak.Sub(cum)
		if endDD.GreaterThan(maxEndDD) {
			maxEndDD = endDD
		}
		endDDSum = endDDSum.Add(endDD)

		if cum.GreaterThanOrEqual(realizedPeak) {
			if inDrawdown {
				d := t.ExitTime.Sub(ddStart)
				if d > maxDDDuration {
					maxDDDuration = d
				}
				inDrawdown = false
			}
			realizedPeak = cum
			peakTime = t.ExitTime
		} else {
			if !inDrawdown {
				inDrawdown = true
				ddStart = peakTime
			}
		}
		closedDD := realizedPeak.Sub(cum)
		if closedDD.GreaterThan(maxClosedDD) {
			maxClosedDD = closedDD
		}
		if i == len(trades)-1 && inDrawdown {
			d := t.ExitTime.Sub(ddStart)
			if d > maxDDDuration {
				maxDDDuration = d
			}
		}
	}

	nd := decimal.NewFromInt(int64(len(trades)))
	s.MaximumClosedTradeDrawdown = maxClosedDD.Neg()
	s.MaximumIntraTradeDrawdown = maxIntraDD.Neg()
	s.MaximumEndTradeDrawdown = maxEndDD.Neg()
	s.AverageEndTradeDrawdown = endDDSum.Div(nd).Neg()
	s.MaximumDrawdownDuration = maxDDDuration
}

func computeDistribution(trades []Trade, s *Summary) {
	n := len(trades)

	variance := decimal.Zero
	for _, t := range trades {
		diff := t.ProfitLoss.Sub(s.AverageProfitLoss)
		variance = variance.Add(diff.Mul(diff))
	}
	if n > 1 {
		s.ProfitLossStandardDeviation = sqrtDecimal(variance.Div(decimal.NewFromInt(int64(n - 1))))
	}

	var losingReturns []decimal.Decimal
	for _, t := range trades {
		if t.isLosing() {
			losingReturns = append(losingReturns, t.ProfitLoss)
		}
	}
	if len(losingReturns) > 1 {
		lossSum := decimal.Zero
		for _, r := range losingReturns {
			lossSum = lossSum.Add(r)
		}
		lossMean := lossSum.Div(decimal.NewFromInt(int64(len(losingReturns))))
		downsideVar := decimal.Zero
		for _, r := range losingReturns {
			diff := r.Sub(lossMean)
			downsideVar = downsideVar.Add(diff.Mul(diff))
		}
		s.ProfitLossDownsideDeviation = sqrtDecimal(downsideVar.Div(decimal.NewFromInt(int64(len(losingReturns) - 1))))
	}

	s.SharpeRatio = ratioOrZero(s.AverageProfitLoss, s.ProfitLossStandardDeviation)
	s.SortinoRatio = ratioOrZero(s.AverageProfitLoss, s.ProfitLossDownsideDeviation)
}

func ratioOrZero(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator)
}

// countRatio implements winLossRatio: winners/losers, with the convention
// that a perfect run (no losers, some winners) reports 10 rather than
// dividing by zero, and a losers-only/empty run reports 0.
func countRatio(winners, losers int) decimal.Decimal {
	if losers == 0 {
		if winners > 0 {
			return decimal.NewFromInt(10)
		}
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(winners)).Div(decimal.NewFromInt(int64(losers)))
}

// countRatioDecimal implements profitFactor with the same 10/0 convention
// as countRatio, applied to the profit/loss decimal sums rather than counts.
func countRatioDecimal(totalProfit, totalLossAbs decimal.Decimal, winners, losers int) decimal.Decimal {
	if losers == 0 {
		if winners > 0 {
			return decimal.NewFromInt(10)
		}
		return decimal.Zero
	}
	if winners == 0 {
		return decimal.Zero
	}
	return ratioOrZero(totalProfit, totalLossAbs)
}
