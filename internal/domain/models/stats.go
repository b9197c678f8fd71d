package models

import "time"

// VolatilityResult summarizes payment-to-payment variability of the regular
// dividend stream. All pointer fields are nil when fewer than the minimum
// qualifying payments exist (DataPoints is then 0).
type VolatilityResult struct {
	Ticker         string
	DividendSD     *float64 // sample standard deviation of raw payments
	DividendCV     *float64 // coefficient of variation, percent
	AnnualDividend *float64 // mean payment x inferred payments/year
	DataPoints     int
	WeeklyAdjusted bool   // sqrt(52/12) scale correction applied
	Label          string // Very Low .. Very High
}

// ZScoreResult is the 3-year premium/discount z-score of a closed-end fund
// versus its NAV series.
type ZScoreResult struct {
	Ticker       string
	ZScore       *float64
	CurrentPD    *float64 // premium/discount as decimal
	CurrentPDPct *float64
	AvgPD        *float64
	AvgPDPct     *float64
	StdDevPD     *float64 // population standard deviation
	StdDevPDPct  *float64
	DataPoints   int
	StartDate    time.Time
	EndDate      time.Time
	Status       string // active | insufficient_data | no_data
}

// PricePoint is one EOD close used by the z-score calculator.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// AggregateStats bundles the per-ticker analytics computed in one request.
// Sub-results that failed are omitted and their errors keyed by name.
type AggregateStats struct {
	Ticker     string
	Kind       FundKind
	Timestamp  time.Time
	Volatility *VolatilityResult
	ZScore     *ZScoreResult
	Errors     map[string]string
}
