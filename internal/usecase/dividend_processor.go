package usecase

import (
	"context"
	"fmt"
	"time"

	"DivScope/internal/domain/models"
	drepo "DivScope/internal/domain/repository"
	domsvc "DivScope/internal/domain/service"
	"DivScope/internal/service/cache"
	pkgcache "DivScope/pkg/cache"
)

// Broadcaster pushes classified updates to connected realtime clients.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// DividendProcessor orchestrates one ticker refresh: fetch the raw series,
// classify it, persist, publish, and invalidate derived caches.
type DividendProcessor struct {
	source  drepo.DividendSource
	engine  domsvc.Classifier
	store   drepo.Storage
	pub     drepo.Publisher
	cache   cache.BytesCache
	hub     Broadcaster
	metrics drepo.Metrics
}

// NewDividendProcessor creates a new DividendProcessor instance.
func NewDividendProcessor(
	source drepo.DividendSource,
	engine domsvc.Classifier,
	store drepo.Storage,
	pub drepo.Publisher,
	c cache.BytesCache,
	hub Broadcaster,
	metrics drepo.Metrics,
) *DividendProcessor {
	return &DividendProcessor{
		source:  source,
		engine:  engine,
		store:   store,
		pub:     pub,
		cache:   c,
		hub:     hub,
		metrics: metrics,
	}
}

// Refresh re-fetches and re-classifies the full history of one ticker.
// Classification is a whole-series transform, so even a single new event
// means redoing the ticker from scratch.
func (p *DividendProcessor) Refresh(ctx context.Context, ticker string) error {
	if ticker == "" {
		return fmt.Errorf("ticker is empty")
	}

	start := time.Now()
	events, err := p.source.Dividends(ctx, ticker, time.Time{})
	if err != nil {
		p.metrics.RecordError("fetch")
		return fmt.Errorf("fetch dividends %s: %w", ticker, err)
	}
	if len(events) == 0 {
		return nil
	}

	classified := p.engine.Classify(ticker, events)
	return p.storeAndFanOut(ctx, ticker, classified, start)
}

// Reclassify runs the engine over an already-fetched series. Used by the
// Kafka ingestion path, which carries the events in the message stream.
func (p *DividendProcessor) Reclassify(ctx context.Context, ticker string, events []models.DividendEvent) error {
	if len(events) == 0 {
		return nil
	}
	classified := p.engine.Classify(ticker, events)
	return p.storeAndFanOut(ctx, ticker, classified, time.Now())
}

func (p *DividendProcessor) storeAndFanOut(ctx context.Context, ticker string, classified []models.ClassifiedDividend, start time.Time) error {
	divs := make([]*models.ClassifiedDividend, len(classified))
	for i := range classified {
		divs[i] = &classified[i]
	}

	if err := p.store.UpsertBatch(ctx, divs); err != nil {
		p.metrics.RecordError("store_batch")
		return fmt.Errorf("store classified %s: %w", ticker, err)
	}
	if err := p.pub.PublishBatch(ctx, divs); err != nil {
		p.metrics.RecordError("publish_batch")
		return fmt.Errorf("publish classified %s: %w", ticker, err)
	}

	engine := string(p.engine.Kind(ticker))
	for range classified {
		p.metrics.RecordClassified(engine, ticker)
	}
	if latest := latestAnnualized(classified); latest != nil {
		p.metrics.RecordLastAnnualized(ticker, *latest)
	}
	p.invalidate(ticker)

	if p.hub != nil {
		p.hub.Broadcast("dividends.classified", map[string]interface{}{
			"ticker": ticker,
			"engine": engine,
			"count":  len(classified),
		})
	}
	p.metrics.RecordLatency("refresh", time.Since(start).Seconds())
	return nil
}

// invalidate drops cached API responses derived from this ticker's series.
func (p *DividendProcessor) invalidate(ticker string) {
	if p.cache == nil {
		return
	}
	for _, key := range []string{
		pkgcache.GenerateKey("dividends", ticker),
		pkgcache.GenerateKey("volatility", ticker),
		pkgcache.GenerateKey("zscore", ticker),
	} {
		_ = p.cache.DeleteBytes(key)
	}
}

func latestAnnualized(classified []models.ClassifiedDividend) *float64 {
	for i := len(classified) - 1; i >= 0; i-- {
		if classified[i].PaymentType != models.PaymentSpecial && classified[i].AnnualizedAmount != nil {
			return classified[i].AnnualizedAmount
		}
	}
	return nil
}

// Close closes underlying resources if available.
func (p *DividendProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
