package catalog

import (
	"context"

	"credvault/internal/model"
)

// Gateway is the backend that encrypts and persists the vault.
// Every call either fully succeeds or fails without a persisted effect.
type Gateway interface {
	VaultExists(ctx context.Context) (bool, error)
	UnlockVault(ctx context.Context, password string) (*model.Vault, error)
	CreateVault(ctx context.Context, password string, settings model.Settings, selectedServiceTypeIDs []string) (*model.Vault, error)
	LockVault(ctx context.Context) error
	GetVault(ctx context.Context) (*model.Vault, error)
	DefaultServiceTypes(ctx context.Context) ([]model.ServiceType, error)

	UpdateSettings(ctx context.Context, settings model.Settings) error
	ChangeMasterPassword(ctx context.Context, oldPassword, newPassword string) error

	AddServiceType(ctx context.Context, serviceType model.ServiceType) error
	UpdateServiceType(ctx context.Context, serviceType model.ServiceType) error
	DeleteServiceType(ctx context.Context, serviceTypeID string) error

	AddService(ctx context.Context, service model.Service, accountID string) error
	AddServices(ctx context.Context, services []model.Service) error
	UpdateService(ctx context.Context, service model.Service) error
	DeleteService(ctx context.Context, serviceID string) error
	DeleteServices(ctx context.Context, serviceIDs []string) error

	AddAccount(ctx context.Context, account model.Account) error
	UpdateAccount(ctx context.Context, account model.Account) error
	DeleteAccount(ctx context.Context, accountID string) error
	LinkServicesToAccount(ctx context.Context, accountID string, serviceIDs []string) error

	BulkCreateAccounts(ctx context.Context, request model.BulkCreateRequest) error
}
