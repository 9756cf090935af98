package logger

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/slog"
)

func TestLevelFor(t *testing.T) {
	vaultOp := &huma.Operation{Tags: []string{"services"}}
	healthOp := &huma.Operation{Tags: []string{"system"}}

	tests := []struct {
		name   string
		op     *huma.Operation
		status int
		want   slog.Level
	}{
		{"ok call", vaultOp, http.StatusOK, slog.LevelInfo},
		{"locked vault", vaultOp, http.StatusConflict, slog.LevelWarn},
		{"backend failure", vaultOp, http.StatusInternalServerError, slog.LevelError},
		{"liveness probe", healthOp, http.StatusOK, slog.LevelDebug},
		{"storage down", healthOp, http.StatusServiceUnavailable, slog.LevelError},
		{"untagged", &huma.Operation{}, http.StatusNoContent, slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, levelFor(tt.op, tt.status))
		})
	}
}
