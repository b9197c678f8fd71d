package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"DivScope/internal/domain/models"
	domrepo "DivScope/internal/domain/repository"
)

// Refresher is the minimal processor interface the pipeline needs.
type Refresher interface {
	Refresh(ctx context.Context, ticker string) error
}

// ReclassifyPipeline sits between the raw-event consumer and the processor.
// Classification is a whole-series transform, so per-event processing would
// reclassify a ticker once per message. The pipeline instead debounces:
// each offered event arms (or re-arms) a per-ticker timer, and only when a
// ticker has been quiet for the debounce window does one refresh run.
type ReclassifyPipeline struct {
	refresher Refresher
	metrics   domrepo.Metrics

	debounce   time.Duration
	maxPending int
	tick       time.Duration

	mu       sync.Mutex
	pending  map[string]time.Time // ticker -> earliest refresh time
	attempts map[string]int
	started  bool
	stopCh   chan struct{}
}

type PipelineOption func(*ReclassifyPipeline)

// WithDebounce sets the per-ticker quiet window before a refresh fires.
func WithDebounce(d time.Duration) PipelineOption {
	return func(p *ReclassifyPipeline) {
		if d > 0 {
			p.debounce = d
		}
	}
}

// WithMaxPending caps how many tickers may await refresh at once.
func WithMaxPending(n int) PipelineOption {
	return func(p *ReclassifyPipeline) {
		if n > 0 {
			p.maxPending = n
		}
	}
}

// NewReclassifyPipeline creates a new pipeline.
func NewReclassifyPipeline(refresher Refresher, metrics domrepo.Metrics, opts ...PipelineOption) *ReclassifyPipeline {
	p := &ReclassifyPipeline{
		refresher:  refresher,
		metrics:    metrics,
		debounce:   5 * time.Second,
		maxPending: 1000,
		tick:       500 * time.Millisecond,
		pending:    make(map[string]time.Time),
		attempts:   make(map[string]int),
		stopCh:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the background refresh loop.
func (p *ReclassifyPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		ticker := time.NewTicker(p.tick)
		defer ticker.Stop()
		for {
			select {
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				p.flushDue(ctx, now)
			}
		}
	}()
}

// Stop stops the background refresh loop.
func (p *ReclassifyPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Offer validates a raw event and arms the ticker's debounce timer.
func (p *ReclassifyPipeline) Offer(ctx context.Context, ev *models.DividendEvent) error {
	if err := validateEvent(ev); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, queued := p.pending[ev.Ticker]; !queued && len(p.pending) >= p.maxPending {
		p.metrics.RecordError("pipeline_pending_full")
		return fmt.Errorf("pipeline pending full, dropped %s", ev.Ticker)
	}
	p.pending[ev.Ticker] = time.Now().Add(p.debounce)
	p.metrics.RecordQueueDepth("pipeline_pending", float64(len(p.pending)))
	return nil
}

// flushDue refreshes every ticker whose quiet window has elapsed. A failed
// refresh re-arms the ticker with a growing delay; after five attempts the
// ticker is dropped.
func (p *ReclassifyPipeline) flushDue(ctx context.Context, now time.Time) {
	p.mu.Lock()
	due := make([]string, 0, 4)
	for t, at := range p.pending {
		if !now.Before(at) {
			due = append(due, t)
			delete(p.pending, t)
		}
	}
	depth := len(p.pending)
	p.mu.Unlock()
	p.metrics.RecordQueueDepth("pipeline_pending", float64(depth))

	for _, t := range due {
		start := time.Now()
		if err := p.refresher.Refresh(ctx, t); err != nil {
			p.metrics.RecordError("pipeline_refresh")
			p.requeue(t)
			continue
		}
		p.mu.Lock()
		delete(p.attempts, t)
		p.mu.Unlock()
		p.metrics.RecordLatency("pipeline_refresh", time.Since(start).Seconds())
	}
}

func (p *ReclassifyPipeline) requeue(ticker string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.attempts[ticker]++
	if p.attempts[ticker] >= 5 {
		delete(p.attempts, ticker)
		p.metrics.RecordError("pipeline_refresh_drop")
		return
	}
	delay := p.debounce * time.Duration(1<<p.attempts[ticker])
	if delay > 2*time.Minute {
		delay = 2 * time.Minute
	}
	p.pending[ticker] = time.Now().Add(delay)
}

// Pending reports how many tickers await refresh.
func (p *ReclassifyPipeline) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

func validateEvent(ev *models.DividendEvent) error {
	if ev == nil {
		return fmt.Errorf("event nil")
	}
	if ev.Ticker == "" {
		return fmt.Errorf("ticker empty")
	}
	if ev.ExDate.IsZero() {
		return fmt.Errorf("ex_date invalid")
	}
	if ev.CashAmount < 0 {
		return fmt.Errorf("negative amount")
	}
	if ev.AdjustedAmount != nil && *ev.AdjustedAmount < 0 {
		return fmt.Errorf("negative adjusted amount")
	}
	return nil
}
