package service

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"credvault/internal/app/server/api/http/httperr"
	"credvault/internal/model"
)

type Servicer interface {
	AddService(ctx context.Context, service model.Service, accountID string) error
	AddServices(ctx context.Context, services []model.Service) error
	UpdateService(ctx context.Context, service model.Service) error
	DeleteService(ctx context.Context, serviceID string) error
	DeleteServices(ctx context.Context, serviceIDs []string) error
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
		log:        log.With("component", "service_handler"),
		middleware: mws,
		security:   security,
	}
}

type createInput struct {
	Body createRequest
}

type createRequest struct {
	Service   model.Service `json:"service"`
	AccountID string        `json:"accountId" required:"false" doc:"Account the new service is linked to, empty for none"`
}

type batchInput struct {
	Body batchRequest
}

type batchRequest struct {
	Services []model.Service `json:"services"`
}

type updateInput struct {
	ID   string `path:"id" doc:"Service id"`
	Body model.Service
}

type deleteInput struct {
	ID string `path:"id" doc:"Service id"`
}

type deleteBatchInput struct {
	Body deleteBatchRequest
}

type deleteBatchRequest struct {
	IDs []string `json:"ids"`
}

func (h *Handler) op(id, method, path, summary string) huma.Operation {
	return huma.Operation{
		OperationID:   id,
		Method:        method,
		Path:          path,
		Summary:       summary,
		Tags:          []string{"services"},
		DefaultStatus: http.StatusNoContent,
		Security:      h.security,
		Middlewares:   h.middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.op("services-create", http.MethodPost, "/api/v1/services", "Add a service linked to an account"), h.create)
	huma.Register(api, h.op("services-create-batch", http.MethodPost, "/api/v1/services/batch", "Add services in one write"), h.createBatch)
	huma.Register(api, h.op("services-update", http.MethodPut, "/api/v1/services/{id}", "Replace a service"), h.update)
	huma.Register(api, h.op("services-delete", http.MethodDelete, "/api/v1/services/{id}", "Delete a service"), h.delete)
	huma.Register(api, h.op("services-delete-batch", http.MethodPost, "/api/v1/services/delete", "Delete services in one write"), h.deleteBatch)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*struct{}, error) {
	return nil, httperr.From(h.service.AddService(ctx, input.Body.Service, input.Body.AccountID))
}

func (h *Handler) createBatch(ctx context.Context, input *batchInput) (*struct{}, error) {
	h.log.Debug("adding services", "count", len(input.Body.Services))
	return nil, httperr.From(h.service.AddServices(ctx, input.Body.Services))
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*struct{}, error) {
	if input.Body.ID != input.ID {
		return nil, huma.Error422UnprocessableEntity("path id does not match body id")
	}
	return nil, httperr.From(h.service.UpdateService(ctx, input.Body))
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*struct{}, error) {
	return nil, httperr.From(h.service.DeleteService(ctx, input.ID))
}

func (h *Handler) deleteBatch(ctx context.Context, input *deleteBatchInput) (*struct{}, error) {
	return nil, httperr.From(h.service.DeleteServices(ctx, input.Body.IDs))
}
