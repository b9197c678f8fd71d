package middleware

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"DivScope/internal/domain/models"
)

type fakeRefresher struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (f *fakeRefresher) Refresh(_ context.Context, ticker string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ticker)
	if f.fail {
		return fmt.Errorf("refresh failed")
	}
	return nil
}

func (f *fakeRefresher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type nopMetrics struct{}

func (nopMetrics) RecordClassified(string, string)      {}
func (nopMetrics) RecordError(string)                   {}
func (nopMetrics) RecordLastAnnualized(string, float64) {}
func (nopMetrics) RecordLatency(string, float64)        {}
func (nopMetrics) RecordQueueDepth(string, float64)     {}

// captureMetrics records the gauge and histogram calls made by the pipeline.
type captureMetrics struct {
	nopMetrics
	mu      sync.Mutex
	depths  []float64
	latency []string
}

func (c *captureMetrics) RecordQueueDepth(queue string, depth float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if queue == "pipeline_pending" {
		c.depths = append(c.depths, depth)
	}
}

func (c *captureMetrics) RecordLatency(op string, _ float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latency = append(c.latency, op)
}

func rawEvent(ticker string) *models.DividendEvent {
	return &models.DividendEvent{
		Ticker:     ticker,
		ExDate:     time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
		CashAmount: 0.25,
	}
}

func TestOfferValidates(t *testing.T) {
	p := NewReclassifyPipeline(&fakeRefresher{}, nopMetrics{})
	if err := p.Offer(context.Background(), nil); err == nil {
		t.Fatalf("nil event should error")
	}
	if err := p.Offer(context.Background(), &models.DividendEvent{Ticker: "PDI"}); err == nil {
		t.Fatalf("zero ex-date should error")
	}
	ev := rawEvent("PDI")
	neg := -0.1
	ev.AdjustedAmount = &neg
	if err := p.Offer(context.Background(), ev); err == nil {
		t.Fatalf("negative adjusted amount should error")
	}
	if p.Pending() != 0 {
		t.Fatalf("invalid events must not arm the pipeline")
	}
}

func TestOfferCoalescesPerTicker(t *testing.T) {
	p := NewReclassifyPipeline(&fakeRefresher{}, nopMetrics{})
	for i := 0; i < 5; i++ {
		if err := p.Offer(context.Background(), rawEvent("PDI")); err != nil {
			t.Fatalf("offer failed: %v", err)
		}
	}
	if err := p.Offer(context.Background(), rawEvent("JEPI")); err != nil {
		t.Fatalf("offer failed: %v", err)
	}
	if got := p.Pending(); got != 2 {
		t.Fatalf("expected 2 pending tickers, got %d", got)
	}
}

func TestFlushAfterQuietWindow(t *testing.T) {
	ref := &fakeRefresher{}
	p := NewReclassifyPipeline(ref, nopMetrics{}, WithDebounce(time.Second))
	if err := p.Offer(context.Background(), rawEvent("PDI")); err != nil {
		t.Fatalf("offer failed: %v", err)
	}

	p.flushDue(context.Background(), time.Now())
	if ref.count() != 0 {
		t.Fatalf("refresh fired before the quiet window elapsed")
	}

	p.flushDue(context.Background(), time.Now().Add(2*time.Second))
	if ref.count() != 1 {
		t.Fatalf("expected 1 refresh, got %d", ref.count())
	}
	if p.Pending() != 0 {
		t.Fatalf("refreshed ticker should leave the pending set")
	}
}

func TestFailedRefreshRequeues(t *testing.T) {
	ref := &fakeRefresher{fail: true}
	p := NewReclassifyPipeline(ref, nopMetrics{}, WithDebounce(time.Millisecond))
	if err := p.Offer(context.Background(), rawEvent("PDI")); err != nil {
		t.Fatalf("offer failed: %v", err)
	}

	// each flush fails and re-arms with backoff until the attempt cap drops it
	for i := 0; i < 10; i++ {
		p.flushDue(context.Background(), time.Now().Add(time.Hour))
	}
	if ref.count() != 5 {
		t.Fatalf("expected 5 attempts before drop, got %d", ref.count())
	}
	if p.Pending() != 0 {
		t.Fatalf("dropped ticker should not stay pending")
	}
}

func TestPendingDepthRecordedAsGauge(t *testing.T) {
	m := &captureMetrics{}
	p := NewReclassifyPipeline(&fakeRefresher{}, m, WithDebounce(time.Millisecond))
	if err := p.Offer(context.Background(), rawEvent("PDI")); err != nil {
		t.Fatalf("offer failed: %v", err)
	}
	if err := p.Offer(context.Background(), rawEvent("JEPI")); err != nil {
		t.Fatalf("offer failed: %v", err)
	}
	if len(m.depths) != 2 || m.depths[0] != 1 || m.depths[1] != 2 {
		t.Fatalf("expected depth gauge 1 then 2, got %v", m.depths)
	}

	p.flushDue(context.Background(), time.Now().Add(time.Second))
	if got := m.depths[len(m.depths)-1]; got != 0 {
		t.Fatalf("flushed pipeline should gauge depth 0, got %v", got)
	}
	for _, op := range m.latency {
		if op == "pipeline_pending" || op == "pipeline_pending_depth" {
			t.Fatalf("pending depth must not land in the latency histogram")
		}
	}
}

func TestMaxPendingDropsNewTickers(t *testing.T) {
	p := NewReclassifyPipeline(&fakeRefresher{}, nopMetrics{}, WithMaxPending(1))
	if err := p.Offer(context.Background(), rawEvent("PDI")); err != nil {
		t.Fatalf("offer failed: %v", err)
	}
	if err := p.Offer(context.Background(), rawEvent("JEPI")); err == nil {
		t.Fatalf("second ticker should be rejected at the cap")
	}
	// re-offering a queued ticker is still allowed
	if err := p.Offer(context.Background(), rawEvent("PDI")); err != nil {
		t.Fatalf("re-offer of queued ticker failed: %v", err)
	}
}
