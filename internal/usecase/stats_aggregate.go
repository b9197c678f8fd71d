package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"DivScope/internal/domain/models"
	domrepo "DivScope/internal/domain/repository"
	domsvc "DivScope/internal/domain/service"
	"DivScope/pkg/logger"
)

// StatsAggregateUseCase fans per-ticker analytics out in parallel and merges
// the results. Sub-results degrade independently: a z-score failure still
// returns the volatility half. Complete snapshots are persisted best-effort
// so the latest stats survive restarts.
type StatsAggregateUseCase struct {
	agg     *StatsAggregator
	engine  domsvc.Classifier
	store   domrepo.StatsStore
	l       *logger.Logger
	timeout time.Duration
}

func NewStatsAggregateUseCase(agg *StatsAggregator, engine domsvc.Classifier, store domrepo.StatsStore, l *logger.Logger) *StatsAggregateUseCase {
	return &StatsAggregateUseCase{agg: agg, engine: engine, store: store, l: l, timeout: 15 * time.Second}
}

func (uc *StatsAggregateUseCase) GetStats(ctx context.Context, ticker string) (*models.AggregateStats, error) {
	if ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	kind := uc.engine.Kind(ticker)
	res := &models.AggregateStats{
		Ticker:    ticker,
		Kind:      kind,
		Timestamp: time.Now(),
		Errors:    map[string]string{},
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.agg.Volatility(ctx, ticker)
		ch <- item{"volatility", v, err}
	}()
	if kind == models.FundCEF {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := uc.agg.ZScore(ctx, ticker)
			ch <- item{"zscore", v, err}
		}()
	}

	go func() { wg.Wait(); close(ch) }()

	for it := range ch {
		if it.err != nil {
			res.Errors[it.name] = it.err.Error()
			continue
		}
		switch it.name {
		case "volatility":
			v := it.val.(models.VolatilityResult)
			res.Volatility = &v
		case "zscore":
			v := it.val.(models.ZScoreResult)
			res.ZScore = &v
		}
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
		if uc.store != nil {
			if err := uc.store.UpsertStats(ctx, *res); err != nil {
				uc.l.Warn("stats snapshot upsert failed",
					logger.String("ticker", ticker), logger.Error(err))
			}
		}
	}
	return res, nil
}
