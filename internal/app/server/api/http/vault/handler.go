package vault

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"credvault/internal/app/server/api/http/httperr"
	"credvault/internal/model"
)

// Servicer is the part of the backend gateway this handler serves.
type Servicer interface {
	VaultExists(ctx context.Context) (bool, error)
	UnlockVault(ctx context.Context, password string) (*model.Vault, error)
	CreateVault(ctx context.Context, password string, settings model.Settings, selectedServiceTypeIDs []string) (*model.Vault, error)
	LockVault(ctx context.Context) error
	GetVault(ctx context.Context) (*model.Vault, error)
	DefaultServiceTypes(ctx context.Context) ([]model.ServiceType, error)
	UpdateSettings(ctx context.Context, settings model.Settings) error
	ChangeMasterPassword(ctx context.Context, oldPassword, newPassword string) error
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
		log:        log.With("component", "vault_handler"),
		middleware: mws,
		security:   security,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.existsOp(), h.exists)
	huma.Register(api, h.unlockOp(), h.unlock)
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.lockOp(), h.lock)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.defaultsOp(), h.defaults)
	huma.Register(api, h.settingsOp(), h.settings)
	huma.Register(api, h.passwordOp(), h.password)
}

func (h *Handler) exists(ctx context.Context, _ *struct{}) (*existsOutput, error) {
	ok, err := h.service.VaultExists(ctx)
	if err != nil {
		return nil, httperr.From(err)
	}
	return &existsOutput{Body: existsResponse{Exists: ok}}, nil
}

func (h *Handler) unlock(ctx context.Context, input *unlockInput) (*vaultOutput, error) {
	v, err := h.service.UnlockVault(ctx, input.Body.Password)
	if err != nil {
		h.log.Warn("unlock failed", "error", err)
		return nil, httperr.From(err)
	}
	return &vaultOutput{Body: v}, nil
}

func (h *Handler) create(ctx context.Context, input *createInput) (*vaultOutput, error) {
	v, err := h.service.CreateVault(ctx, input.Body.Password, input.Body.Settings, input.Body.ServiceTypeIDs)
	if err != nil {
		return nil, httperr.From(err)
	}
	return &vaultOutput{Body: v}, nil
}

func (h *Handler) lock(ctx context.Context, _ *struct{}) (*struct{}, error) {
	return nil, httperr.From(h.service.LockVault(ctx))
}

func (h *Handler) get(ctx context.Context, _ *struct{}) (*vaultOutput, error) {
	v, err := h.service.GetVault(ctx)
	if err != nil {
		return nil, httperr.From(err)
	}
	return &vaultOutput{Body: v}, nil
}

func (h *Handler) defaults(ctx context.Context, _ *struct{}) (*typesOutput, error) {
	types, err := h.service.DefaultServiceTypes(ctx)
	if err != nil {
		return nil, httperr.From(err)
	}
	return &typesOutput{Body: types}, nil
}

func (h *Handler) settings(ctx context.Context, input *settingsInput) (*struct{}, error) {
	return nil, httperr.From(h.service.UpdateSettings(ctx, input.Body))
}

func (h *Handler) password(ctx context.Context, input *passwordInput) (*struct{}, error) {
	return nil, httperr.From(h.service.ChangeMasterPassword(ctx, input.Body.OldPassword, input.Body.NewPassword))
}
