package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"DivScope/internal/domain/models"
	domrepo "DivScope/internal/domain/repository"
	mid "DivScope/internal/middleware"
	pkgkafka "DivScope/pkg/kafka"
	"DivScope/pkg/util"
)

// KafkaDividendsHandler consumes raw dividend events and feeds them into the
// reclassification pipeline. One message never classifies alone; the
// pipeline coalesces a ticker's burst into a single refresh.
type KafkaDividendsHandler struct {
	topic   string
	pipe    *mid.ReclassifyPipeline
	metrics domrepo.Metrics
}

func NewKafkaDividendsHandler(topic string, pipe *mid.ReclassifyPipeline, metrics domrepo.Metrics) *KafkaDividendsHandler {
	return &KafkaDividendsHandler{topic: topic, pipe: pipe, metrics: metrics}
}

func (h *KafkaDividendsHandler) Topic() string { return h.topic }

// incoming message schema: {ticker, ex_date, cash, adj}
func (h *KafkaDividendsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Ticker string   `json:"ticker"`
		ExDate string   `json:"ex_date"`
		Cash   float64  `json:"cash"`
		Adj    *float64 `json:"adj"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	exDate, ok := util.ParseDate(m.ExDate)
	if !ok {
		h.metrics.RecordError("consumer_bad_date")
		return fmt.Errorf("bad ex_date %q for %s", m.ExDate, m.Ticker)
	}
	start := time.Now()

	ev := &models.DividendEvent{
		Ticker:         strings.ToUpper(m.Ticker),
		ExDate:         exDate,
		CashAmount:     m.Cash,
		AdjustedAmount: m.Adj,
	}
	err := h.pipe.Offer(ctx, ev)
	h.metrics.RecordLatency("kafka_handle_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_pipeline")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaDividendsHandler)(nil)
