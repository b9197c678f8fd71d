package service

import (
	"time"

	"DivScope/internal/domain/models"
)

// Classifier labels one ticker's raw dividend series and resolves cadence.
// Implementations are pure and synchronous; no context is taken because no
// I/O happens.
type Classifier interface {
	Classify(ticker string, events []models.DividendEvent) []models.ClassifiedDividend
	Kind(ticker string) models.FundKind
}

// VolatilityEstimator summarizes payment-to-payment variability of an
// already-classified series.
type VolatilityEstimator interface {
	Estimate(ticker string, series []models.ClassifiedDividend) models.VolatilityResult
}

// ZScoreCalculator scores the current premium/discount of a closed-end fund
// against its trailing window.
type ZScoreCalculator interface {
	Calculate(ticker string, prices, navs []models.PricePoint, asOf time.Time) models.ZScoreResult
}
