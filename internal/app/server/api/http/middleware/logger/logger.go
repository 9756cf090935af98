package logger

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

// Logger writes one record per vault API call. Liveness probes are logged
// at debug, client errors at warn and server errors at error.
type Logger struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Logger {
	return &Logger{log: log.With(slog.String("component", "api_access"))}
}

func (l *Logger) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		start := time.Now()
		next(ctx)

		op := ctx.Operation()
		status := ctx.Status()
		l.log.Log(ctx.Context(), levelFor(op, status), "vault api call",
			slog.String("op", op.OperationID),
			slog.String("route", ctx.Method()+" "+op.Path),
			slog.String("path", ctx.URL().Path),
			slog.Int("status", status),
			slog.Duration("took", time.Since(start)),
			slog.String("peer", ctx.RemoteAddr()),
		)
	}
}

func levelFor(op *huma.Operation, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case len(op.Tags) > 0 && op.Tags[0] == "system":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
