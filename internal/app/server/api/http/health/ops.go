package health

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const healthPath = "/api/v1/health"

func (h *Handler) healthCheckOp() huma.Operation {
	op := huma.Operation{
		OperationID:   "get-health",
		Method:        http.MethodGet,
		Path:          healthPath,
		Summary:       "Report server liveness",
		Description:   "Reports OK while the server runs. When the vault storage supports pings, its status is reported too and a failed ping answers 503.",
		Tags:          []string{"system"},
		DefaultStatus: http.StatusOK,
		Middlewares:   h.middleware,
	}
	if h.pinger == nil {
		op.Description = "Reports OK while the server runs. The configured storage has no connection to ping."
	}
	return op
}
