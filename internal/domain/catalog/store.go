package catalog

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"credvault/internal/domain/bulk"
	"credvault/internal/domain/importer"
	"credvault/internal/domain/schema"
	"credvault/internal/model"
)

// UnknownTypeName is shown for services whose type no longer exists.
const UnknownTypeName = "Unknown type"

type Status string

const (
	StatusUnknown    Status = "unknown"
	StatusNeedsSetup Status = "needs_setup"
	StatusLocked     Status = "locked"
	StatusUnlocked   Status = "unlocked"
)

// Recorder receives one observation per store operation.
type Recorder interface {
	ObserveOperation(op string, start time.Time, err error)
}

type noopRecorder struct{}

func (noopRecorder) ObserveOperation(string, time.Time, error) {}

// Store holds the single authoritative vault snapshot of a session.
//
// Every mutation calls the gateway first and replaces the snapshot only after
// the gateway succeeded. The snapshot is never modified in place, so a value
// returned by Snapshot stays valid and unchanged forever. Callers must wait for
// one mutation to finish before issuing the next one.
type Store struct {
	gateway  Gateway
	log      *slog.Logger
	recorder Recorder
	newID    func() string

	mu     sync.RWMutex
	vault  *model.Vault
	status Status
}

type Option func(*Store)

// WithRecorder reports operations to r.
func WithRecorder(r Recorder) Option {
	return func(s *Store) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithIDGenerator replaces uuid generation, mostly for tests.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewStore(gateway Gateway, log *slog.Logger, opts ...Option) *Store {
	s := &Store{
		gateway:  gateway,
		log:      log.With("component", "catalog_store"),
		recorder: noopRecorder{},
		newID:    uuid.NewString,
		status:   StatusUnknown,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current vault or nil when nothing is unlocked.
// The returned value must be treated as read-only.
func (s *Store) Snapshot() *model.Vault {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vault
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Store) replace(v *model.Vault, status Status) {
	s.mu.Lock()
	s.vault = v
	s.status = status
	s.mu.Unlock()
}

func (s *Store) commit(v *model.Vault) {
	s.replace(v, StatusUnlocked)
}

// next returns a shallow copy of the current snapshot to build the replacement on.
func next(v *model.Vault) *model.Vault {
	cp := *v
	return &cp
}

func (s *Store) call(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	s.recorder.ObserveOperation(op, start, err)
	if err != nil {
		s.log.Error("backend call failed", "op", op, "error", err)
		return backendErr(op, err)
	}
	s.log.Debug("backend call succeeded", "op", op, "duration", time.Since(start))
	return nil
}

// CheckStatus asks the backend whether a vault exists and reports the resulting state.
func (s *Store) CheckStatus(ctx context.Context) (Status, error) {
	var exists bool
	err := s.call(ctx, "vault_exists", func(ctx context.Context) error {
		var err error
		exists, err = s.gateway.VaultExists(ctx)
		return err
	})
	if err != nil {
		return StatusUnknown, fmt.Errorf("check vault status: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.vault != nil:
		s.status = StatusUnlocked
	case exists:
		s.status = StatusLocked
	default:
		s.status = StatusNeedsSetup
	}
	return s.status, nil
}

func (s *Store) Unlock(ctx context.Context, password string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	var v *model.Vault
	err := s.call(ctx, "unlock_vault", func(ctx context.Context) error {
		var err error
		v, err = s.gateway.UnlockVault(ctx, password)
		return err
	})
	if err != nil {
		return fmt.Errorf("unlock vault: %w", err)
	}

	s.commit(v)
	s.log.Info("vault unlocked", "services", len(v.Services), "accounts", len(v.Accounts))
	return nil
}

func (s *Store) CreateVault(ctx context.Context, password string, settings model.Settings, selectedServiceTypeIDs []string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	var v *model.Vault
	err := s.call(ctx, "create_vault", func(ctx context.Context) error {
		var err error
		v, err = s.gateway.CreateVault(ctx, password, settings, selectedServiceTypeIDs)
		return err
	})
	if err != nil {
		return fmt.Errorf("create vault: %w", err)
	}

	s.commit(v)
	s.log.Info("vault created", "service_types", len(v.ServiceTypes))
	return nil
}

func (s *Store) Lock(ctx context.Context) error {
	if err := s.call(ctx, "lock_vault", s.gateway.LockVault); err != nil {
		return fmt.Errorf("lock vault: %w", err)
	}
	s.replace(nil, StatusLocked)
	s.log.Info("vault locked")
	return nil
}

// Refresh replaces the snapshot with the vault the backend currently holds.
func (s *Store) Refresh(ctx context.Context) error {
	if s.Snapshot() == nil {
		return nil
	}

	var v *model.Vault
	err := s.call(ctx, "get_vault", func(ctx context.Context) error {
		var err error
		v, err = s.gateway.GetVault(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("refresh vault: %w", err)
	}

	s.commit(v)
	return nil
}

// DefaultServiceTypes lists the built-in library offered at vault creation.
// It does not need an unlocked vault.
func (s *Store) DefaultServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	var types []model.ServiceType
	err := s.call(ctx, "default_service_types", func(ctx context.Context) error {
		var err error
		types, err = s.gateway.DefaultServiceTypes(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("default service types: %w", err)
	}
	return types, nil
}

func (s *Store) UpdateSettings(ctx context.Context, settings model.Settings) error {
	cur := s.Snapshot()
	if cur == nil {
		return nil
	}

	err := s.call(ctx, "update_settings", func(ctx context.Context) error {
		return s.gateway.UpdateSettings(ctx, settings)
	})
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	nv := next(cur)
	nv.Settings = settings
	s.commit(nv)
	return nil
}

func (s *Store) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	if s.Snapshot() == nil {
		return nil
	}
	if newPassword == "" {
		return ErrEmptyPassword
	}

	err := s.call(ctx, "change_master_password", func(ctx context.Context) error {
		return s.gateway.ChangeMasterPassword(ctx, oldPassword, newPassword)
	})
	if err != nil {
		return fmt.Errorf("change master password: %w", err)
	}

	s.log.Info("master password changed")
	return nil
}

func (s *Store) Unlocked() bool {
	return s.Snapshot() != nil
}

func (s *Store) checkLinkedTypes(cur *model.Vault, st model.ServiceType) error {
	for _, f := range st.Fields {
		if f.Type != model.FieldLinkedService || f.LinkedServiceTypeID == st.ID {
			continue
		}
		if _, ok := cur.ServiceType(f.LinkedServiceTypeID); !ok {
			return fmt.Errorf("%w: field %q links to %q", ErrUnknownServiceType, f.Key, f.LinkedServiceTypeID)
		}
	}
	return nil
}

func (s *Store) AddServiceType(ctx context.Context, serviceType model.ServiceType) error {
	cur := s.Snapshot()
	if cur == nil {
		return nil
	}
	if err := schema.ValidateServiceType(serviceType); err != nil {
		return err
	}
	if _, exists := cur.ServiceType(serviceType.ID); exists {
		return fmt.Errorf("%w: %q", ErrServiceTypeExists, serviceType.ID)
	}
	if err := s.checkLinkedTypes(cur, serviceType); err != nil {
		return err
	}

	serviceType = serviceType.Clone()
	err := s.call(ctx, "add_service_type", func(ctx context.Context) error {
		return s.gateway.AddServiceType(ctx, serviceType)
	})
	if err != nil {
		return fmt.Errorf("add service type: %w", err)
	}

	nv := next(cur)
	nv.ServiceTypes = slices.Concat(cur.ServiceTypes, []model.ServiceType{serviceType})
	s.commit(nv)
	s.log.Info("service type added", "service_type_id", serviceType.ID)
	return nil
}

func (s *Store) UpdateServiceType(ctx context.Context, serviceType model.ServiceType) error {
	cur := s.Snapshot()
	if cur == nil {
		return nil
	}
	if err := schema.ValidateServiceType(serviceType); err != nil {
		return err
	}
	if _, exists := cur.ServiceType(serviceType.ID); !exists {
		return fmt.Errorf("%w: %q", ErrUnknownServiceType, serviceType.ID)
	}
	if err := s.checkLinkedTypes(cur, serviceType); err != nil {
		return err
	}

	serviceType = serviceType.Clone()
	err := s.call(ctx, "update_service_type", func(ctx context.Context) error {
		return s.gateway.UpdateServiceType(ctx, serviceType)
	})
	if err != nil {
		return fmt.Errorf("update service type: %w", err)
	}

	nv := next(cur)
	nv.ServiceTypes = replaceWhere(cur.ServiceTypes, func(st model.ServiceType) bool { return st.ID == serviceType.ID }, serviceType)
	s.commit(nv)
	s.log.Info("service type updated", "service_type_id", serviceType.ID, "fields", len(serviceType.Fields))
	return nil
}

// DeleteServiceType removes the type only. Services and fields that still
// reference it keep the dangling id and are rendered as unknown.
func (s *Store) DeleteServiceType(ctx context.Context, serviceTypeID string) error {
	cur := s.Snapshot()
	if cur == nil {
		return nil
	}

	err := s.call(ctx, "delete_service_type", func(ctx context.Context) error {
		return s.gateway.DeleteServiceType(ctx, serviceTypeID)
	})
	if err != nil {
		return fmt.Errorf("delete service type: %w", err)
	}

	nv := next(cur)
	nv.ServiceTypes = without(cur.ServiceTypes, func(st model.ServiceType) bool { return st.ID == serviceTypeID })
	s.commit(nv)

	orphans := 0
	for _, svc := range cur.Services {
		if svc.ServiceTypeID == serviceTypeID {
			orphans++
		}
	}
	if orphans > 0 {
		s.log.Warn("deleted service type is still referenced", "service_type_id", serviceTypeID, "services", orphans)
	}
	return nil
}

// AddService validates the service against its type, assigns an id when it has none
// and, when accountID is set, links the new service to that account.
func (s *Store) AddService(ctx context.Context, service model.Service, accountID string) (model.Service, error) {
	cur := s.Snapshot()
	if cur == nil {
		return model.Service{}, nil
	}

	st, ok := cur.ServiceType(service.ServiceTypeID)
	if !ok {
		return model.Service{}, fmt.Errorf("%w: %q", ErrUnknownServiceType, service.ServiceTypeID)
	}
	if err := schema.ValidateServiceData(st, service.Label, service.Data); err != nil {
		return model.Service{}, err
	}
	if accountID != "" {
		if _, ok := cur.Account(accountID); !ok {
			return model.Service{}, fmt.Errorf("%w: %q", ErrUnknownAccount, accountID)
		}
	}

	service = normalizeService(service.Clone())
	if service.ID == "" {
		service.ID = s.newID()
	}

	err := s.call(ctx, "add_service", func(ctx context.Context) error {
		return s.gateway.AddService(ctx, service, accountID)
	})
	if err != nil {
		return model.Service{}, fmt.Errorf("add service: %w", err)
	}

	nv := next(cur)
	nv.Services = slices.Concat(cur.Services, []model.Service{service})
	if accountID != "" {
		nv.Accounts = mapWhere(cur.Accounts, func(a model.Account) bool { return a.ID == accountID }, func(a model.Account) model.Account {
			a.LinkedServices = model.UnionIDs(a.LinkedServices, service.ID)
			return a
		})
	}
	s.commit(nv)
	s.log.Info("service added", "service_id", service.ID, "service_type_id", service.ServiceTypeID, "account_id", accountID)
	return service, nil
}

// AddServices appends a batch in one backend call. It is the commit path of imports.
func (s *Store) AddServices(ctx context.Context, services []model.Service) error {
	cur := s.Snapshot()
	if cur == nil || len(services) == 0 {
		return nil
	}

	batch := make([]model.Service, len(services))
	for i, svc := range services {
		if _, ok := cur.ServiceType(svc.ServiceTypeID); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownServiceType, svc.ServiceTypeID)
		}
		svc = normalizeService(svc.Clone())
		if svc.ID == "" {
			svc.ID = s.newID()
		}
		batch[i] = svc
	}

	err := s.call(ctx, "add_services", func(ctx context.Context) error {
		return s.gateway.AddServices(ctx, batch)
	})
	if err != nil {
		return fmt.Errorf("add services: %w", err)
	}

	nv := next(cur)
	nv.Services = slices.Concat(cur.Services, batch)
	s.commit(nv)
	s.log.Info("services added", "count", len(batch))
	return nil
}

func (s *Store) UpdateService(ctx context.Context, service model.Service) error {
	cur := s.Snapshot()
	if cur == nil {
		return nil
	}
	stored, ok := cur.Service(service.ID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, service.ID)
	}
	st, ok := cur.ServiceType(service.ServiceTypeID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownServiceType, service.ServiceTypeID)
	}
	if err := schema.ValidateServiceEdit(st, service.Label, service.Data, stored.Data); err != nil {
		return err
	}

	service = normalizeService(service.Clone())
	err := s.call(ctx, "update_service", func(ctx context.Context) error {
		return s.gateway.UpdateService(ctx, service)
	})
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}

	nv := next(cur)
	nv.Services = replaceWhere(cur.Services, func(svc model.Service) bool { return svc.ID == service.ID }, service)
	s.commit(nv)
	s.log.Info("service updated", "service_id", service.ID)
	return nil
}

func (s *Store) DeleteService(ctx context.Context, serviceID string) error {
	cur := s.Snapshot()
	if cur == nil {
		return nil
	}

	err := s.call(ctx, "delete_service", func(ctx context.Context) error {
		return s.gateway.DeleteService(ctx, serviceID)
	})
	if err != nil {
		return fmt.Errorf("delete service: %w", err)
	}

	s.commit(removeServices(cur, []string{serviceID}))
	s.log.Info("service deleted", "service_id", serviceID)
	return nil
}

func (s *Store) DeleteServices(ctx context.Context, serviceIDs []string) error {
	cur := s.Snapshot()
	if cur == nil || len(serviceIDs) == 0 {
		return nil
	}

	ids := slices.Clone(serviceIDs)
	err := s.call(ctx, "delete_services", func(ctx context.Context) error {
		return s.gateway.DeleteServices(ctx, ids)
	})
	if err != nil {
		return fmt.Errorf("delete services: %w", err)
	}

	s.commit(removeServices(cur, ids))
	s.log.Info("services deleted", "count", len(ids))
	return nil
}

func (s *Store) AddAccount(ctx context.Context, account model.Account) (model.Account, error) {
	cur := s.Snapshot()
	if cur == nil {
		return model.Account{}, nil
	}
	if strings.TrimSpace(account.Label) == "" {
		return model.Account{}, schema.ErrEmptyLabel
	}

	account = normalizeAccount(account.Clone())
	if account.ID == "" {
		account.ID = s.newID()
	}

	err := s.call(ctx, "add_account", func(ctx context.Context) error {
		return s.gateway.AddAccount(ctx, account)
	})
	if err != nil {
		return model.Account{}, fmt.Errorf("add account: %w", err)
	}

	nv := next(cur)
	nv.Accounts = slices.Concat(cur.Accounts, []model.Account{account})
	s.commit(nv)
	s.log.Info("account added", "account_id", account.ID)
	return account, nil
}

func (s *Store) UpdateAccount(ctx context.Context, account model.Account) error {
	cur := s.Snapshot()
	if cur == nil {
		return nil
	}
	if _, ok := cur.Account(account.ID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAccount, account.ID)
	}
	if strings.TrimSpace(account.Label) == "" {
		return schema.ErrEmptyLabel
	}

	account = normalizeAccount(account.Clone())
	err := s.call(ctx, "update_account", func(ctx context.Context) error {
		return s.gateway.UpdateAccount(ctx, account)
	})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}

	nv := next(cur)
	nv.Accounts = replaceWhere(cur.Accounts, func(a model.Account) bool { return a.ID == account.ID }, account)
	s.commit(nv)
	s.log.Info("account updated", "account_id", account.ID)
	return nil
}

func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	cur := s.Snapshot()
	if cur == nil {
		return nil
	}

	err := s.call(ctx, "delete_account", func(ctx context.Context) error {
		return s.gateway.DeleteAccount(ctx, accountID)
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}

	nv := next(cur)
	nv.Accounts = without(cur.Accounts, func(a model.Account) bool { return a.ID == accountID })
	s.commit(nv)
	s.log.Info("account deleted", "account_id", accountID)
	return nil
}

// LinkServicesToAccount unions serviceIDs into the account's linked set.
// Linking an already linked service is a no-op.
func (s *Store) LinkServicesToAccount(ctx context.Context, accountID string, serviceIDs []string) error {
	cur := s.Snapshot()
	if cur == nil {
		return nil
	}
	if _, ok := cur.Account(accountID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAccount, accountID)
	}
	for _, id := range serviceIDs {
		if _, ok := cur.Service(id); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownService, id)
		}
	}

	ids := slices.Clone(serviceIDs)
	err := s.call(ctx, "link_services_to_account", func(ctx context.Context) error {
		return s.gateway.LinkServicesToAccount(ctx, accountID, ids)
	})
	if err != nil {
		return fmt.Errorf("link services: %w", err)
	}

	nv := next(cur)
	nv.Accounts = mapWhere(cur.Accounts, func(a model.Account) bool { return a.ID == accountID }, func(a model.Account) model.Account {
		a.LinkedServices = model.UnionIDs(a.LinkedServices, ids...)
		return a
	})
	s.commit(nv)
	s.log.Info("services linked", "account_id", accountID, "count", len(ids))
	return nil
}

// BulkCreateAccounts validates the request, lets the backend expand it and then
// reloads the whole vault: ids of generated entities are only known once echoed back.
func (s *Store) BulkCreateAccounts(ctx context.Context, request model.BulkCreateRequest) error {
	cur := s.Snapshot()
	if cur == nil {
		return nil
	}
	if err := bulk.Validate(request); err != nil {
		return err
	}
	preview, err := bulk.Generate(cur, request, s.newID)
	if err != nil {
		return err
	}
	if len(preview.Collisions) > 0 {
		s.log.Warn("bulk labels collide with existing accounts", "labels", preview.Collisions)
	}

	err = s.call(ctx, "bulk_create_accounts", func(ctx context.Context) error {
		return s.gateway.BulkCreateAccounts(ctx, request)
	})
	if err != nil {
		return fmt.Errorf("bulk create accounts: %w", err)
	}

	var v *model.Vault
	err = s.call(ctx, "get_vault", func(ctx context.Context) error {
		var err error
		v, err = s.gateway.GetVault(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("reload vault after bulk create: %w", err)
	}

	s.commit(v)
	s.log.Info("accounts bulk created", "accounts", len(preview.Accounts), "services", len(preview.Services))
	return nil
}

// Import commits an accepted import batch with a single AddServices call.
func (s *Store) Import(ctx context.Context, result importer.Result) (int, error) {
	if len(result.Services) == 0 {
		return 0, nil
	}
	if err := s.AddServices(ctx, result.Services); err != nil {
		return 0, err
	}
	s.log.Info("import committed", "accepted", result.Accepted, "skipped", result.Skipped)
	return len(result.Services), nil
}
