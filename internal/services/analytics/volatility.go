package analytics

import (
	"math"
	"strings"

	"DivScope/internal/domain/models"
	"DivScope/internal/services/divclass"
)

const minVolatilityPayments = 4

// weeklyScaleCorrection rescales a weekly CV onto a monthly percentage
// basis so cadences measure comparably: sqrt(52/12).
var weeklyScaleCorrection = math.Sqrt(52.0 / 12.0)

// VolatilityEstimator derives payment-to-payment variability from a
// classified dividend series. SD and CV are computed on the raw per-payment
// amounts, not on annualized figures, to preserve true payment variance.
type VolatilityEstimator struct {
	weeklyTickers map[string]struct{}
}

// NewVolatilityEstimator builds an estimator with an optional list of tickers
// known to pay weekly regardless of what their gap history suggests.
func NewVolatilityEstimator(weeklyTickers []string) *VolatilityEstimator {
	set := make(map[string]struct{}, len(weeklyTickers))
	for _, t := range weeklyTickers {
		set[strings.ToUpper(t)] = struct{}{}
	}
	return &VolatilityEstimator{weeklyTickers: set}
}

// Estimate computes SD, CV and an estimated annual dividend over the
// non-special positive payments of one ticker's classified series. Fewer
// than four qualifying payments yields an undefined result with nil stats.
func (e *VolatilityEstimator) Estimate(ticker string, series []models.ClassifiedDividend) models.VolatilityResult {
	res := models.VolatilityResult{Ticker: ticker}

	amounts := make([]float64, 0, len(series))
	gaps := make([]int, 0, len(series))
	for _, cd := range series {
		if cd.PaymentType == models.PaymentSpecial {
			continue
		}
		amt := cd.Amount()
		if amt <= 0 {
			continue
		}
		amounts = append(amounts, amt)
		if cd.DaysSincePrevious != nil && *cd.DaysSincePrevious > 0 {
			gaps = append(gaps, *cd.DaysSincePrevious)
		}
	}
	if len(amounts) < minVolatilityPayments {
		return res
	}
	res.DataPoints = len(amounts)

	mean := meanOf(amounts)
	sd := sampleStdDev(amounts, mean)
	cv := 0.0
	if mean > 0 {
		cv = 100 * sd / mean
	}

	avgGap := 0.0
	if len(gaps) > 0 {
		sum := 0
		for _, g := range gaps {
			sum += g
		}
		avgGap = float64(sum) / float64(len(gaps))
	}

	if e.isWeekly(ticker, avgGap, len(series)) {
		cv *= weeklyScaleCorrection
		res.WeeklyAdjusted = true
	}

	sdOut := roundTo(sd, 6)
	cvOut := roundTo(cv, 1)
	res.DividendSD = &sdOut
	res.DividendCV = &cvOut
	res.Label = volatilityLabel(cvOut)

	freq := 12
	if avgGap > 0 {
		freq = divclass.FrequencyFromGap(int(math.Round(avgGap)))
	}
	annual := roundTo(mean*float64(freq), 2)
	res.AnnualDividend = &annual
	return res
}

// isWeekly detects a weekly cadence from the known-ticker list, a short
// average gap, or a total observed payment count too dense for anything
// slower. The count covers the whole series, specials included.
func (e *VolatilityEstimator) isWeekly(ticker string, avgGap float64, payments int) bool {
	if _, ok := e.weeklyTickers[strings.ToUpper(ticker)]; ok {
		return true
	}
	if avgGap > 0 && avgGap <= 10 {
		return true
	}
	return payments >= 40
}

func volatilityLabel(cv float64) string {
	switch {
	case cv < 5:
		return "Very Low"
	case cv < 10:
		return "Low"
	case cv < 20:
		return "Moderate"
	case cv < 30:
		return "High"
	default:
		return "Very High"
	}
}

func meanOf(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev is the ddof=1 standard deviation.
func sampleStdDev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
