package api

import (
	"github.com/labstack/echo/v4"
)

// Router bundles the HTTP surface into a single route registrar: the
// dividend endpoints, the analytics endpoints, and the websocket hub.
type Router struct {
	dividends *DividendsEchoHandler
	stats     *StatsEchoHandler
	hub       *WSHub
}

func NewRouter(dividends *DividendsEchoHandler, stats *StatsEchoHandler, hub *WSHub) *Router {
	return &Router{dividends: dividends, stats: stats, hub: hub}
}

func (r *Router) RegisterRoutes(e *echo.Echo) {
	r.dividends.RegisterRoutes(e)
	r.stats.RegisterRoutes(e)
	if r.hub != nil {
		r.hub.RegisterRoutes(e)
	}
}
