package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"credvault/internal/app/server/api/http/httperr"
	"credvault/internal/model"
)

type Servicer interface {
	AddAccount(ctx context.Context, account model.Account) error
	UpdateAccount(ctx context.Context, account model.Account) error
	DeleteAccount(ctx context.Context, accountID string) error
	LinkServicesToAccount(ctx context.Context, accountID string, serviceIDs []string) error
	BulkCreateAccounts(ctx context.Context, request model.BulkCreateRequest) error
}

type Handler struct {
	service    Servicer
	log        *slog.Logger
	middleware huma.Middlewares
	security   []map[string][]string
}

func NewHandler(service Servicer, log *slog.Logger, mws huma.Middlewares, security []map[string][]string) *Handler {
	return &Handler{
		service:    service,
		log:        log.With("component", "account_handler"),
		middleware: mws,
		security:   security,
	}
}

type createInput struct {
	Body model.Account
}

type updateInput struct {
	ID   string `path:"id" doc:"Account id"`
	Body model.Account
}

type deleteInput struct {
	ID string `path:"id" doc:"Account id"`
}

type linkInput struct {
	ID   string `path:"id" doc:"Account id"`
	Body linkRequest
}

type linkRequest struct {
	ServiceIDs []string `json:"serviceIds"`
}

type bulkInput struct {
	Body model.BulkCreateRequest
}

func (h *Handler) op(id, method, path, summary string) huma.Operation {
	return huma.Operation{
		OperationID:   id,
		Method:        method,
		Path:          path,
		Summary:       summary,
		Tags:          []string{"accounts"},
		DefaultStatus: http.StatusNoContent,
		Security:      h.security,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.op("accounts-create", http.MethodPost, "/api/v1/accounts", "Add an account"), h.create)
	huma.Register(api, h.op("accounts-update", http.MethodPut, "/api/v1/accounts/{id}", "Replace an account"), h.update)
	huma.Register(api, h.op("accounts-delete", http.MethodDelete, "/api/v1/accounts/{id}", "Delete an account"), h.delete)
	huma.Register(api, h.op("accounts-link", http.MethodPost, "/api/v1/accounts/{id}/services", "Link services to an account"), h.link)
	huma.Register(api, h.op("accounts-bulk", http.MethodPost, "/api/v1/accounts/bulk", "Create numbered accounts with linked services"), h.bulk)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*struct{}, error) {
	return nil, httperr.From(h.service.AddAccount(ctx, input.Body))
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*struct{}, error) {
	if input.Body.ID != input.ID {
		return nil, huma.Error422UnprocessableEntity("path id does not match body id")
	}
	return nil, httperr.From(h.service.UpdateAccount(ctx, input.Body))
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*struct{}, error) {
	return nil, httperr.From(h.service.DeleteAccount(ctx, input.ID))
}

func (h *Handler) link(ctx context.Context, input *linkInput) (*struct{}, error) {
	return nil, httperr.From(h.service.LinkServicesToAccount(ctx, input.ID, input.Body.ServiceIDs))
}

func (h *Handler) bulk(ctx context.Context, input *bulkInput) (*struct{}, error) {
	h.log.Info("bulk create", "count", input.Body.AccountConfig.Count, "link_services", input.Body.LinkServices)
	return nil, httperr.From(h.service.BulkCreateAccounts(ctx, input.Body))
}
