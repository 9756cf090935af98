package metrics

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Observer is satisfied by *metrics.Metrics.
type Observer interface {
	ObserveRequest(method, route string, code int, start time.Time)
}

// Middleware labels requests with the route template, never the raw path.
func Middleware(obs Observer) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()
		next(ctx)
		obs.ObserveRequest(ctx.Method(), ctx.Operation().Path, ctx.Status(), start)
	}
}
