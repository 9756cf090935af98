package vault

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) op(id, method, path, summary string, status int) huma.Operation {
	return huma.Operation{
		OperationID:   id,
		Method:        method,
		Path:          path,
		Summary:       summary,
		Tags:          []string{"vault"},
		DefaultStatus: status,
		Security:      h.security,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) existsOp() huma.Operation {
	return h.op("vault-exists", http.MethodGet, "/api/v1/vault/exists", "Report whether a vault exists", http.StatusOK)
}

func (h *Handler) unlockOp() huma.Operation {
	return h.op("vault-unlock", http.MethodPost, "/api/v1/vault/unlock", "Unlock the vault", http.StatusOK)
}

func (h *Handler) createOp() huma.Operation {
	return h.op("vault-create", http.MethodPost, "/api/v1/vault", "Create the vault", http.StatusCreated)
}

func (h *Handler) lockOp() huma.Operation {
	return h.op("vault-lock", http.MethodPost, "/api/v1/vault/lock", "Lock the vault and drop the session key", http.StatusNoContent)
}

func (h *Handler) getOp() huma.Operation {
	return h.op("vault-get", http.MethodGet, "/api/v1/vault", "Fetch the full decrypted vault", http.StatusOK)
}

func (h *Handler) defaultsOp() huma.Operation {
	op := h.op("service-types-defaults", http.MethodGet, "/api/v1/service-types/defaults", "List the built-in service type library", http.StatusOK)
	op.Tags = []string{"service-types"}
	return op
}

func (h *Handler) settingsOp() huma.Operation {
	return h.op("vault-settings", http.MethodPut, "/api/v1/vault/settings", "Replace vault settings", http.StatusNoContent)
}

func (h *Handler) passwordOp() huma.Operation {
	return h.op("vault-password", http.MethodPut, "/api/v1/vault/password", "Change the master password", http.StatusNoContent)
}
