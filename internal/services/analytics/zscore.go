package analytics

import (
	"math"
	"sort"
	"time"

	"DivScope/internal/domain/models"
)

// minZScoreRows is one trading year; series shorter than this inside the
// lookback window report insufficient data instead of a score.
const minZScoreRows = 252

// zScoreLookbackYears bounds the premium/discount window.
const zScoreLookbackYears = 3

const (
	ZScoreActive       = "active"
	ZScoreInsufficient = "insufficient_data"
	ZScoreNoData       = "no_data"
)

// ZScoreCalculator derives the 3-year premium/discount z-score of a
// closed-end fund from its market price and NAV close series.
type ZScoreCalculator struct{}

func NewZScoreCalculator() *ZScoreCalculator {
	return &ZScoreCalculator{}
}

// Calculate merges the two series by date, windows them to the last three
// years ending at the newest date on or before asOf, and scores the current
// premium/discount against the window mean using the population standard
// deviation. A flat window scores 0 rather than dividing by zero.
func (c *ZScoreCalculator) Calculate(ticker string, prices, navs []models.PricePoint, asOf time.Time) models.ZScoreResult {
	res := models.ZScoreResult{Ticker: ticker, Status: ZScoreNoData}

	rows := mergeByDate(prices, navs, asOf)
	if len(rows) == 0 {
		return res
	}

	end := rows[len(rows)-1].date
	start := end.AddDate(-zScoreLookbackYears, 0, 0)
	window := rows[:0:0]
	for _, r := range rows {
		if !r.date.Before(start) {
			window = append(window, r)
		}
	}

	res.DataPoints = len(window)
	res.StartDate = start
	res.EndDate = end
	if len(window) < minZScoreRows {
		res.Status = ZScoreInsufficient
		return res
	}

	pds := make([]float64, len(window))
	for i, r := range window {
		pds[i] = r.price/r.nav - 1
	}
	current := pds[len(pds)-1]
	avg := meanOf(pds)
	sd := populationStdDev(pds, avg)

	z := 0.0
	if sd > 0 {
		z = (current - avg) / sd
	}

	currentPct := current * 100
	avgPct := avg * 100
	sdPct := sd * 100
	res.ZScore = &z
	res.CurrentPD = &current
	res.CurrentPDPct = &currentPct
	res.AvgPD = &avg
	res.AvgPDPct = &avgPct
	res.StdDevPD = &sd
	res.StdDevPDPct = &sdPct
	res.Status = ZScoreActive
	return res
}

type pdRow struct {
	date  time.Time
	price float64
	nav   float64
}

// mergeByDate inner-joins the two close series on calendar date, dropping
// rows where either side is missing or non-positive, and rows after asOf.
func mergeByDate(prices, navs []models.PricePoint, asOf time.Time) []pdRow {
	navByDate := make(map[string]float64, len(navs))
	for _, n := range navs {
		if n.Close > 0 {
			navByDate[n.Date.Format("2006-01-02")] = n.Close
		}
	}

	rows := make([]pdRow, 0, len(prices))
	for _, p := range prices {
		if p.Close <= 0 || p.Date.After(asOf) {
			continue
		}
		nav, ok := navByDate[p.Date.Format("2006-01-02")]
		if !ok {
			continue
		}
		rows = append(rows, pdRow{date: p.Date, price: p.Close, nav: nav})
	}
	sort.Slice(rows, func(a, b int) bool { return rows[a].date.Before(rows[b].date) })
	return rows
}

// populationStdDev is the ddof=0 standard deviation.
func populationStdDev(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
