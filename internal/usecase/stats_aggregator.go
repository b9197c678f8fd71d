package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"DivScope/internal/domain/models"
	domrepo "DivScope/internal/domain/repository"
	domsvc "DivScope/internal/domain/service"
)

// volatilitySeriesDepth bounds how much classified history feeds the
// volatility estimate.
const volatilitySeriesDepth = 120

// zScoreFetchYears covers the 3-year scoring window with slack for holidays
// and listing gaps.
const zScoreFetchYears = 4

// StatsAggregator computes per-ticker analytics off the classified store and
// the EOD price source.
type StatsAggregator struct {
	reader     domrepo.DividendReader
	prices     domrepo.PriceSource
	engine     domsvc.Classifier
	vol        domsvc.VolatilityEstimator
	zscore     domsvc.ZScoreCalculator
	navSymbols map[string]string // CEF ticker -> NAV symbol
}

func NewStatsAggregator(
	reader domrepo.DividendReader,
	prices domrepo.PriceSource,
	engine domsvc.Classifier,
	vol domsvc.VolatilityEstimator,
	zscore domsvc.ZScoreCalculator,
	navSymbols map[string]string,
) *StatsAggregator {
	normalized := make(map[string]string, len(navSymbols))
	for t, nav := range navSymbols {
		normalized[strings.ToUpper(t)] = strings.ToUpper(nav)
	}
	return &StatsAggregator{
		reader:     reader,
		prices:     prices,
		engine:     engine,
		vol:        vol,
		zscore:     zscore,
		navSymbols: normalized,
	}
}

// Volatility estimates payment variability from the stored classified series.
func (a *StatsAggregator) Volatility(ctx context.Context, ticker string) (models.VolatilityResult, error) {
	series, err := a.reader.GetLatestN(ctx, ticker, volatilitySeriesDepth)
	if err != nil {
		return models.VolatilityResult{}, err
	}
	return a.vol.Estimate(ticker, series), nil
}

// ZScore computes the premium/discount z-score for a closed-end fund. The
// NAV series comes from the fund's NAV symbol, which trades like an ordinary
// ticker on the price source.
func (a *StatsAggregator) ZScore(ctx context.Context, ticker string) (models.ZScoreResult, error) {
	if a.engine.Kind(ticker) != models.FundCEF {
		return models.ZScoreResult{}, fmt.Errorf("z-score requires a closed-end fund: %s", ticker)
	}
	navSymbol, ok := a.navSymbols[strings.ToUpper(ticker)]
	if !ok {
		return models.ZScoreResult{}, fmt.Errorf("no NAV symbol configured for %s", ticker)
	}

	now := time.Now().UTC()
	from := now.AddDate(-zScoreFetchYears, 0, 0)

	prices, err := a.prices.Closes(ctx, ticker, from, now)
	if err != nil {
		return models.ZScoreResult{}, fmt.Errorf("prices %s: %w", ticker, err)
	}
	navs, err := a.prices.Closes(ctx, navSymbol, from, now)
	if err != nil {
		return models.ZScoreResult{}, fmt.Errorf("navs %s: %w", navSymbol, err)
	}
	return a.zscore.Calculate(ticker, prices, navs, now), nil
}
