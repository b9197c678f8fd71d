package tiingo

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

const limiterKey = "tiingo"

// Client implements a PriceSource backed by the Tiingo EOD endpoint. It
// serves both market prices and NAV proxies (the X-prefixed NAV symbols are
// ordinary tickers on Tiingo).
type Client struct {
	apiKey  string
	baseURL string
	http    *pkghttp.Client
	limiter *ratelimit.Limiter

	capacity float64
	refill   float64
}

// New creates a new Tiingo PriceSource.
func New(apiKey, baseURL string, timeout time.Duration, requestsPerMinute int) drepo.PriceSource {
	return newClient(apiKey, baseURL, timeout, requestsPerMinute)
}

// NewDividendSource creates a Tiingo-backed DividendSource reading divCash
// off the daily price rows. It is the fallback behind the primary dividend
// feed; adjusted amounts are not available here.
func NewDividendSource(apiKey, baseURL string, timeout time.Duration, requestsPerMinute int) drepo.DividendSource {
	return newClient(apiKey, baseURL, timeout, requestsPerMinute)
}

func newClient(apiKey, baseURL string, timeout time.Duration, requestsPerMinute int) *Client {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
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

type tiingoPrice struct {
	Date    string  `json:"date"`
	Close   float64 `json:"close"`
	DivCash float64 `json:"divCash"`
}

// Closes fetches end-of-day closes for ticker over [from, to], ascending.
func (c *Client) Closes(ctx context.Context, ticker string, from, to time.Time) ([]models.PricePoint, error) {
	if err := c.limiter.Wait(ctx, limiterKey, c.capacity, c.refill); err != nil {
		return nil, fmt.Errorf("tiingo rate limit: %w", err)
	}

	var prices []tiingoPrice
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/tiingo/daily/%s/prices", c.baseURL, strings.ToUpper(ticker)),
		QueryParams: map[string][]string{
			"startDate": {util.DayString(from)},
			"endDate":   {util.DayString(to)},
			"token":     {c.apiKey},
		},
	}, &prices)
	if err != nil {
		return nil, fmt.Errorf("tiingo prices %s: %w", ticker, err)
	}

	points := make([]models.PricePoint, 0, len(prices))
	for _, p := range prices {
		date, ok := util.ParseDate(p.Date)
		if !ok || p.Close <= 0 {
			continue
		}
		points = append(points, models.PricePoint{Date: date, Close: p.Close})
	}
	sort.Slice(points, func(a, b int) bool { return points[a].Date.Before(points[b].Date) })
	return points, nil
}

// Dividends extracts cash dividends from the daily price rows since from,
// ascending by ex-date.
func (c *Client) Dividends(ctx context.Context, ticker string, from time.Time) ([]models.DividendEvent, error) {
	if err := c.limiter.Wait(ctx, limiterKey, c.capacity, c.refill); err != nil {
		return nil, fmt.Errorf("tiingo rate limit: %w", err)
	}

	var prices []tiingoPrice
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    fmt.Sprintf("%s/tiingo/daily/%s/prices", c.baseURL, strings.ToUpper(ticker)),
		QueryParams: map[string][]string{
			"startDate": {util.DayString(from)},
			"endDate":   {util.DayString(time.Now().UTC())},
			"token":     {c.apiKey},
		},
	}, &prices)
	if err != nil {
		return nil, fmt.Errorf("tiingo dividends %s: %w", ticker, err)
	}

	events := make([]models.DividendEvent, 0, 16)
	for _, p := range prices {
		if p.DivCash <= 0 {
			continue
		}
		date, ok := util.ParseDate(p.Date)
		if !ok {
			continue
		}
		events = append(events, models.DividendEvent{
			Ticker:     strings.ToUpper(ticker),
			ExDate:     date,
			CashAmount: p.DivCash,
		})
	}
	sort.Slice(events, func(a, b int) bool { return events[a].ExDate.Before(events[b].ExDate) })
	return events, nil
}
