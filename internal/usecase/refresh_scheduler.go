package usecase

import (
	"context"
	"fmt"

	"DivScope/pkg/logger"
	"DivScope/pkg/queue"

	"github.com/robfig/cron/v3"
)

// RefreshScheduler enqueues a refresh for every configured ticker on a cron
// schedule. Dividends are end-of-day data, so one run per day after market
// close is the usual setup.
type RefreshScheduler struct {
	c       *cron.Cron
	queue   queue.QueueService
	tickers []string
	spec    string
	l       *logger.Logger
}

func NewRefreshScheduler(q queue.QueueService, tickers []string, spec string, l *logger.Logger) *RefreshScheduler {
	return &RefreshScheduler{
		c:       cron.New(),
		queue:   q,
		tickers: tickers,
		spec:    spec,
		l:       l,
	}
}

// Start registers the cron entry and starts the scheduler. An empty spec
// disables scheduling entirely.
func (s *RefreshScheduler) Start() error {
	if s.spec == "" {
		s.l.Info("refresh scheduler disabled")
		return nil
	}
	if _, err := s.c.AddFunc(s.spec, s.enqueueAll); err != nil {
		return fmt.Errorf("cron spec %q: %w", s.spec, err)
	}
	s.c.Start()
	s.l.Info("refresh scheduler started",
		logger.String("spec", s.spec),
		logger.Int("tickers", len(s.tickers)))
	return nil
}

// Stop halts the scheduler, waiting for a running enqueue pass to finish.
func (s *RefreshScheduler) Stop() {
	ctx := s.c.Stop()
	<-ctx.Done()
}

// EnqueueAll queues a refresh for every ticker immediately.
func (s *RefreshScheduler) EnqueueAll(ctx context.Context) {
	for _, t := range s.tickers {
		if err := s.queue.PublishMessage(ctx, RefreshMessageType, RefreshPayload{Ticker: t}); err != nil {
			s.l.Error("enqueue refresh failed", logger.String("ticker", t), logger.Error(err))
		}
	}
}

func (s *RefreshScheduler) enqueueAll() {
	s.l.Info("scheduled refresh run", logger.Int("tickers", len(s.tickers)))
	s.EnqueueAll(context.Background())
}
