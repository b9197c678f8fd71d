package api

import (
	"time"

	models "DivScope/internal/domain/models"
	domrepo "DivScope/internal/domain/repository"
	"DivScope/internal/usecase"
	xhttp "DivScope/pkg/http"
	xlogger "DivScope/pkg/logger"
	"DivScope/pkg/queue"

	"github.com/labstack/echo/v4"
)

// DividendsEchoHandler implements Echo-based HTTP handlers following Clean Architecture.
type DividendsEchoHandler struct {
	logger *xlogger.Logger
	divs   *usecase.DividendsUseCase
	queue  queue.QueueService
}

func NewDividendsEchoHandler(logger *xlogger.Logger, divs *usecase.DividendsUseCase, queue queue.QueueService) *DividendsEchoHandler {
	return &DividendsEchoHandler{logger: logger, divs: divs, queue: queue}
}

func (h *DividendsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/dividends", h.Dividends)
	g.POST("/refresh", h.Refresh)
}

// Dividends returns the classified series for one ticker, ascending by
// ex-date.
func (h *DividendsEchoHandler) Dividends(c echo.Context) error {
	req := &models.DividendsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.divs.GetDividends(c.Request().Context(), usecase.GetDividendsParams{
		Ticker: req.Ticker,
		Window: domrepo.NormalizeWindow(req.Range),
		Limit:  req.Limit,
	})
	if err != nil {
		h.logger.Error("dividends usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=300")
	return xhttp.SuccessResponse(c, res)
}

// Refresh enqueues a background re-fetch and reclassification of one ticker.
// The response acknowledges the enqueue, not the completion.
func (h *DividendsEchoHandler) Refresh(c echo.Context) error {
	req := &models.RefreshRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	err := h.queue.PublishMessage(c.Request().Context(), usecase.RefreshMessageType, usecase.RefreshPayload{Ticker: req.Ticker})
	if err != nil {
		h.logger.Error("refresh enqueue error", xlogger.String("ticker", req.Ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	h.logger.Info("refresh enqueued", xlogger.String("ticker", req.Ticker))
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"ticker":   req.Ticker,
		"queued":   true,
		"queuedAt": time.Now().UTC(),
	})
}
