package api

import (
	"encoding/json"
	"net/http"
	"time"

	models "DivScope/internal/domain/models"
	icache "DivScope/internal/service/cache"
	"DivScope/internal/service/metrics"
	"DivScope/internal/service/ratelimit"
	"DivScope/internal/usecase"
	pkgcache "DivScope/pkg/cache"
	xhttp "DivScope/pkg/http"
	applogger "DivScope/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StatsEchoHandler serves the analytics endpoints. Responses are cached as
// raw bytes keyed by ticker; the processor invalidates those keys whenever a
// ticker is reclassified.
type StatsEchoHandler struct {
	stats *usecase.StatsAggregateUseCase
	agg   *usecase.StatsAggregator
	cache icache.BytesCache
	rl    *ratelimit.Limiter
	l     *applogger.Logger
}

func NewStatsEchoHandler(l *applogger.Logger, stats *usecase.StatsAggregateUseCase, agg *usecase.StatsAggregator) *StatsEchoHandler {
	metrics.Register()
	return &StatsEchoHandler{stats: stats, agg: agg, rl: ratelimit.New(), l: l}
}

func (h *StatsEchoHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *StatsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/volatility", h.Volatility)
	g.GET("/zscore", h.ZScore)
	g.GET("/stats", h.Stats)
}

func (h *StatsEchoHandler) Volatility(c echo.Context) error {
	start := time.Now()
	endpoint := "volatility"
	defer func() { metrics.AnalyticsLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.VolatilityRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":volatility", 5, 2) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	if b, ok := h.cached(pkgcache.GenerateKey("volatility", req.Ticker)); ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}

	res, err := h.agg.Volatility(c.Request().Context(), req.Ticker)
	if err != nil {
		metrics.AnalyticsErrors.WithLabelValues(endpoint).Inc()
		h.l.Error("volatility usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(pkgcache.GenerateKey("volatility", req.Ticker), res, 5*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *StatsEchoHandler) ZScore(c echo.Context) error {
	start := time.Now()
	endpoint := "zscore"
	defer func() { metrics.AnalyticsLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ZScoreRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// z-score hits the upstream price API twice; throttle harder
	if !h.rl.Allow(c.RealIP()+":zscore", 3, 1) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	if b, ok := h.cached(pkgcache.GenerateKey("zscore", req.Ticker)); ok {
		return xhttp.SuccessResponse(c, json.RawMessage(b))
	}

	res, err := h.agg.ZScore(c.Request().Context(), req.Ticker)
	if err != nil {
		metrics.AnalyticsErrors.WithLabelValues(endpoint).Inc()
		h.l.Error("zscore usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.store(pkgcache.GenerateKey("zscore", req.Ticker), res, 30*time.Minute)
	return xhttp.SuccessResponse(c, res)
}

func (h *StatsEchoHandler) Stats(c echo.Context) error {
	start := time.Now()
	endpoint := "stats"
	defer func() { metrics.AnalyticsLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.StatsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":stats", 3, 1) {
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limited")
	}

	res, err := h.stats.GetStats(c.Request().Context(), req.Ticker)
	if err != nil {
		metrics.AnalyticsErrors.WithLabelValues(endpoint).Inc()
		h.l.Error("stats usecase error", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *StatsEchoHandler) cached(key string) ([]byte, bool) {
	if h.cache == nil {
		return nil, false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.l.Warn("cache get error", applogger.String("key", key), applogger.Error(err))
		return nil, false
	}
	if ok {
		h.l.Debug("cache hit", applogger.String("key", key))
	}
	return b, ok
}

func (h *StatsEchoHandler) store(key string, v interface{}, ttl time.Duration) {
	if h.cache == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := h.cache.SetBytes(key, b, ttl); err != nil {
		h.l.Warn("cache set error", applogger.String("key", key), applogger.Error(err))
	}
}
