// Package auth guards the API with a static bearer token.
package auth

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

type Auth struct {
	token []byte
	log   *slog.Logger
}

// New returns a middleware accepting only "Authorization: Bearer <token>".
func New(token string, log *slog.Logger) *Auth {
	return &Auth{
		token: []byte(token),
		log:   log.With("component", "auth_middleware"),
	}
}

func (a *Auth) Middleware() func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		header := ctx.Header("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), a.token) != 1 {
			a.log.Warn("rejected request", "path", ctx.URL().Path, "remote_addr", ctx.RemoteAddr())
			ctx.SetHeader("Content-Type", "application/json")
			ctx.SetStatus(http.StatusUnauthorized)
			if err := json.NewEncoder(ctx.BodyWriter()).Encode(map[string]any{
				"status": http.StatusUnauthorized,
				"title":  "Unauthorized",
				"detail": "Unauthorized",
			}); err != nil {
				a.log.Error("failed to write response", "error", err)
			}
			return
		}
		next(ctx)
	}
}
