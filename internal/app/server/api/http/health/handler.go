package health

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Pinger is implemented by storages that can check their connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	log        *slog.Logger
	middleware huma.Middlewares
	pinger     Pinger
}

// NewHandler builds the health handler. pinger may be nil.
func NewHandler(log *slog.Logger, middleware huma.Middlewares, pinger Pinger) *Handler {
	return &Handler{
		log:        log,
		middleware: middleware,
		pinger:     pinger,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.healthCheckOp(), h.healthCheck)
}

func (h *Handler) healthCheck(ctx context.Context, _ *Input) (*Output, error) {
	h.log.Debug("health check request received")

	out := &Output{Body: Response{Status: "OK"}}
	if h.pinger == nil {
		return out, nil
	}
	if err := h.pinger.Ping(ctx); err != nil {
		h.log.Error("storage ping failed", "error", err)
		return nil, huma.Error503ServiceUnavailable("storage unavailable")
	}
	out.Body.Storage = "OK"
	return out, nil
}
