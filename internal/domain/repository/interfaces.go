package repository

import (
	"context"
	"time"

	"DivScope/internal/domain/models"
)

// DividendSource supplies raw dividend events for one ticker, newest data
// included. Implementations own split-adjustment correctness.
type DividendSource interface {
	Dividends(ctx context.Context, ticker string, from time.Time) ([]models.DividendEvent, error)
}

// PriceSource supplies end-of-day closes for the z-score calculator.
type PriceSource interface {
	Closes(ctx context.Context, ticker string, from, to time.Time) ([]models.PricePoint, error)
}

type Publisher interface {
	Publish(ctx context.Context, d *models.ClassifiedDividend) error
	PublishBatch(ctx context.Context, divs []*models.ClassifiedDividend) error
	Close() error
}

type Storage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Upsert(ctx context.Context, d *models.ClassifiedDividend) error
	UpsertBatch(ctx context.Context, divs []*models.ClassifiedDividend) error
	Query(ctx context.Context, ticker string, from, to time.Time, limit int) ([]*models.ClassifiedDividend, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// StatsStore persists the latest analytics snapshot for a ticker.
type StatsStore interface {
	UpsertStats(ctx context.Context, stats models.AggregateStats) error
}

type Metrics interface {
	RecordClassified(engine, ticker string)
	RecordError(kind string)
	RecordLastAnnualized(ticker string, amount float64)
	RecordLatency(op string, seconds float64)
	RecordQueueDepth(queue string, depth float64)
}
