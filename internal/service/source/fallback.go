package source

import (
	"context"
	"time"

	"DivScope/internal/domain/models"
	drepo "DivScope/internal/domain/repository"
	"DivScope/pkg/logger"
)

// FallbackDividendSource tries each source in order and returns the first
// non-empty series. A source erroring or coming back empty hands over to the
// next one; only when every source fails does the last error surface.
type FallbackDividendSource struct {
	sources []drepo.DividendSource
	l       *logger.Logger
}

func NewFallbackDividendSource(l *logger.Logger, sources ...drepo.DividendSource) *FallbackDividendSource {
	return &FallbackDividendSource{sources: sources, l: l}
}

func (f *FallbackDividendSource) Dividends(ctx context.Context, ticker string, from time.Time) ([]models.DividendEvent, error) {
	var lastErr error
	for i, s := range f.sources {
		events, err := s.Dividends(ctx, ticker, from)
		if err != nil {
			lastErr = err
			f.l.Warn("dividend source failed, trying next",
				logger.String("ticker", ticker),
				logger.Int("source", i),
				logger.Error(err))
			continue
		}
		if len(events) > 0 {
			return events, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

var _ drepo.DividendSource = (*FallbackDividendSource)(nil)
