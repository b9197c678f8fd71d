package usecase

import (
	"context"
	"fmt"

	"DivScope/pkg/logger"
	"DivScope/pkg/queue"
)

// RefreshMessageType is the queue message type for per-ticker refreshes.
const RefreshMessageType = "dividends.refresh"

// RefreshPayload is the body of a refresh queue message.
type RefreshPayload struct {
	Ticker string `json:"ticker"`
}

// RefreshJob consumes refresh messages from the Redis queue and drives the
// processor. Failed refreshes retry through the queue's retry/DLQ machinery.
type RefreshJob struct {
	proc *DividendProcessor
	l    *logger.Logger
}

func NewRefreshJob(proc *DividendProcessor, l *logger.Logger) *RefreshJob {
	return &RefreshJob{proc: proc, l: l}
}

func (j *RefreshJob) Name() string { return "dividend-refresh" }

func (j *RefreshJob) Type() string { return RefreshMessageType }

func (j *RefreshJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RefreshPayload](payload)
	if err != nil {
		return fmt.Errorf("parse refresh payload: %w", err)
	}
	if p.Ticker == "" {
		return fmt.Errorf("refresh payload missing ticker")
	}

	j.l.Info("refreshing ticker", logger.String("ticker", p.Ticker))
	if err := j.proc.Refresh(ctx, p.Ticker); err != nil {
		j.l.Error("refresh failed", logger.String("ticker", p.Ticker), logger.Error(err))
		return err
	}
	return nil
}

var _ queue.Job = (*RefreshJob)(nil)
