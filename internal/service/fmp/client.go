package fmp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"DivScope/internal/domain/models"
	drepo "DivScope/internal/domain/repository"
	"DivScope/internal/service/ratelimit"
	pkghttp "DivScope/pkg/http"
	"DivScope/pkg/util"
)

const limiterKey = "fmp"

// Client implements a DividendSource backed by the Financial Modeling Prep
// historical dividend endpoint.
type Client struct {
	apiKey  string
	baseURL string
	http    *pkghttp.Client
	limiter *ratelimit.Limiter

	// tokens per second derived from the configured per-minute quota
	capacity float64
	refill   float64
}

// New creates a new FMP DividendSource. requestsPerMinute bounds outbound
// calls across all tickers sharing this client.
func New(apiKey, baseURL string, timeout time.Duration, requestsPerMinute int) drepo.DividendSource {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 300
	}
	return &Client{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		limiter:  ratelimit.New(),
		capacity: float64(requestsPerMinute),
		refill:   float64(requestsPerMinute) / 60.0,
	}
}

type fmpDividend struct {
	Date        string  `json:"date"` // ex-date
	Dividend    float64 `json:"dividend"`
	AdjDividend float64 `json:"adjDividend"`
	PaymentDate string  `json:"paymentDate"`
	RecordDate  string  `json:"recordDate"`
}

type fmpDividendHistory struct {
	Symbol     string        `json:"symbol"`
	Historical []fmpDividend `json:"historical"`
}

// Dividends fetches the full dividend history for one ticker and returns the
// events on or after from, ascending by ex-date. The endpoint has no lower
// date bound, so filtering happens client-side.
func (c *Client) Dividends(ctx context.Context, ticker string, from time.Time) ([]models.DividendEvent, error) {
	if err := c.limiter.Wait(ctx, limiterKey, c.capacity, c.refill); err != nil {
		return nil, fmt.Errorf("fmp rate limit: %w", err)
	}

	var hist fmpDividendHistory
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/api/v3/historical-price-full/stock_dividend/%s", c.baseURL, strings.ToUpper(ticker)),
		QueryParams: map[string][]string{
			"apikey": {c.apiKey},
		},
	}, &hist)
	if err != nil {
		return nil, fmt.Errorf("fmp dividends %s: %w", ticker, err)
	}

	events := make([]models.DividendEvent, 0, len(hist.Historical))
	for _, d := range hist.Historical {
		exDate, ok := util.ParseDate(d.Date)
		if !ok || (!from.IsZero() && exDate.Before(from)) {
			continue
		}
		if d.Dividend <= 0 && d.AdjDividend <= 0 {
			continue
		}
		ev := models.DividendEvent{
			Ticker:     strings.ToUpper(ticker),
			ExDate:     exDate,
			CashAmount: d.Dividend,
		}
		if d.AdjDividend > 0 {
			adj := d.AdjDividend
			ev.AdjustedAmount = &adj
		}
		events = append(events, ev)
	}
	sort.Slice(events, func(a, b int) bool { return events[a].ExDate.Before(events[b].ExDate) })
	return events, nil
}
