package servicetype

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"credvault/internal/app/server/api/http/httperr"
	"credvault/internal/model"
)

type Servicer interface {
	AddServiceType(ctx context.Context, serviceType model.ServiceType) error
	UpdateServiceType(ctx context.Context, serviceType model.ServiceType) error
	DeleteServiceType(ctx context.Context, serviceTypeID string) error
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
		log:        log.With("component", "service_type_handler"),
		middleware: mws,
		security:   security,
	}
}

type createInput struct {
	Body model.ServiceType
}

type updateInput struct {
	ID   string `path:"id" doc:"Service type id"`
	Body model.ServiceType
}

type deleteInput struct {
	ID string `path:"id" doc:"Service type id"`
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "service-types-create",
		Method:        http.MethodPost,
		Path:          "/api/v1/service-types",
		Summary:       "Add a service type",
		Tags:          []string{"service-types"},
		DefaultStatus: http.StatusNoContent,
		Security:      h.security,
		Middlewares:   h.middleware,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID:   "service-types-update",
		Method:        http.MethodPut,
		Path:          "/api/v1/service-types/{id}",
		Summary:       "Replace a service type",
		Tags:          []string{"service-types"},
		DefaultStatus: http.StatusNoContent,
		Security:      h.security,
		Middlewares:   h.middleware,
	}, h.update)
	huma.Register(api, huma.Operation{
		OperationID:   "service-types-delete",
		Method:        http.MethodDelete,
		Path:          "/api/v1/service-types/{id}",
		Summary:       "Delete a service type",
		Description:   "Services of the type are kept and show up as an unknown type.",
		Tags:          []string{"service-types"},
		DefaultStatus: http.StatusNoContent,
		Security:      h.security,
		Middlewares:   h.middleware,
	}, h.delete)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*struct{}, error) {
	return nil, httperr.From(h.service.AddServiceType(ctx, input.Body))
}

func (h *Handler) update(ctx context.Context, input *updateInput) (*struct{}, error) {
	if input.Body.ID != input.ID {
		return nil, huma.Error422UnprocessableEntity("path id does not match body id")
	}
	return nil, httperr.From(h.service.UpdateServiceType(ctx, input.Body))
}

func (h *Handler) delete(ctx context.Context, input *deleteInput) (*struct{}, error) {
	return nil, httperr.From(h.service.DeleteServiceType(ctx, input.ID))
}
