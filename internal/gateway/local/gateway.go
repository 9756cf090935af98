// Package local is the reference backend: it keeps the decrypted vault in
// memory for one session and re-seals the whole vault into a BlobStore after
// every mutation.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"

	"credvault/internal/app/client/crypto"
	"credvault/internal/domain/bulk"
	"credvault/internal/domain/catalog"
	"credvault/internal/domain/schema"
	"credvault/internal/infrastructure/storage"
	"credvault/internal/model"
)

type Gateway struct {
	store storage.BlobStore
	name  string
	kdf   crypto.KDF
	lock  *flock.Flock
	newID func() string
	log   *slog.Logger

	mu    sync.Mutex
	vault *model.Vault
	key   *crypto.Key
}

var _ catalog.Gateway = (*Gateway)(nil)

type Option func(*Gateway)

func WithKDF(kdf crypto.KDF) Option {
	return func(g *Gateway) { g.kdf = kdf }
}

// WithLockFile holds an exclusive lock on path while the vault is unlocked.
func WithLockFile(path string) Option {
	return func(g *Gateway) { g.lock = flock.New(path) }
}

func WithVaultName(name string) Option {
	return func(g *Gateway) { g.name = name }
}

func WithIDGenerator(newID func() string) Option {
	return func(g *Gateway) { g.newID = newID }
}

func New(store storage.BlobStore, log *slog.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		store: store,
		name:  storage.DefaultVault,
		kdf:   crypto.DefaultKDF(),
		newID: uuid.NewString,
		log:   log.With("component", "local_gateway"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) VaultExists(ctx context.Context) (bool, error) {
	return g.store.Exists(ctx, g.name)
}

func (g *Gateway) UnlockVault(ctx context.Context, password string) (*model.Vault, error) {
	blob, err := g.store.Load(ctx, g.name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrVaultNotFound
		}
		return nil, err
	}

	key, plaintext, err := crypto.Open(password, blob)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearMemory(plaintext)

	var v model.Vault
	if err := json.Unmarshal(plaintext, &v); err != nil {
		key.Wipe()
		return nil, fmt.Errorf("decode vault: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.acquire(); err != nil {
		key.Wipe()
		return nil, err
	}
	g.setSession(&v, key)
	g.log.Info("vault unlocked")
	return v.Clone(), nil
}

func (g *Gateway) CreateVault(ctx context.Context, password string, settings model.Settings, selectedServiceTypeIDs []string) (*model.Vault, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	exists, err := g.store.Exists(ctx, g.name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrVaultExists
	}

	v := &model.Vault{
		Version:      model.VaultVersion,
		ServiceTypes: schema.SelectDefaults(selectedServiceTypeIDs),
		Services:     []model.Service{},
		Accounts:     []model.Account{},
		Settings:     settings,
	}
	key, err := crypto.NewKey(password, g.kdf)
	if err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.acquire(); err != nil {
		key.Wipe()
		return nil, err
	}
	if err := g.persist(ctx, key, v); err != nil {
		key.Wipe()
		g.release()
		return nil, err
	}
	g.setSession(v, key)
	g.log.Info("vault created", "service_types", len(v.ServiceTypes))
	return v.Clone(), nil
}

func (g *Gateway) LockVault(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.setSession(nil, nil)
	g.release()
	return nil
}

func (g *Gateway) GetVault(ctx context.Context) (*model.Vault, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.vault == nil {
		return nil, ErrVaultLocked
	}
	return g.vault.Clone(), nil
}

func (g *Gateway) DefaultServiceTypes(ctx context.Context) ([]model.ServiceType, error) {
	return schema.Defaults(), nil
}

func (g *Gateway) UpdateSettings(ctx context.Context, settings model.Settings) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		v.Settings = settings
		return nil
	})
}

func (g *Gateway) ChangeMasterPassword(ctx context.Context, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrEmptyPassword
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.vault == nil {
		return ErrVaultLocked
	}

	blob, err := g.store.Load(ctx, g.name)
	if err != nil {
		return err
	}
	oldKey, plaintext, err := crypto.Open(oldPassword, blob)
	if err != nil {
		if errors.Is(err, crypto.ErrAuth) {
			return ErrInvalidOldPassword
		}
		return err
	}
	crypto.ClearMemory(plaintext)
	oldKey.Wipe()

	newKey, err := crypto.NewKey(newPassword, g.kdf)
	if err != nil {
		return err
	}
	if err := g.persist(ctx, newKey, g.vault); err != nil {
		newKey.Wipe()
		return err
	}
	g.key.Wipe()
	g.key = newKey
	g.log.Info("master password changed")
	return nil
}

func (g *Gateway) AddServiceType(ctx context.Context, serviceType model.ServiceType) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		if _, ok := v.ServiceType(serviceType.ID); ok {
			return fmt.Errorf("%w: %s", ErrServiceTypeExists, serviceType.ID)
		}
		v.ServiceTypes = append(v.ServiceTypes, serviceType.Clone())
		return nil
	})
}

func (g *Gateway) UpdateServiceType(ctx context.Context, serviceType model.ServiceType) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		i := slices.IndexFunc(v.ServiceTypes, func(st model.ServiceType) bool { return st.ID == serviceType.ID })
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrServiceTypeNotFound, serviceType.ID)
		}
		v.ServiceTypes[i] = serviceType.Clone()
		return nil
	})
}

// DeleteServiceType leaves services of the type in place.
func (g *Gateway) DeleteServiceType(ctx context.Context, serviceTypeID string) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		n := len(v.ServiceTypes)
		v.ServiceTypes = slices.DeleteFunc(v.ServiceTypes, func(st model.ServiceType) bool { return st.ID == serviceTypeID })
		if len(v.ServiceTypes) == n {
			return fmt.Errorf("%w: %s", ErrServiceTypeNotFound, serviceTypeID)
		}
		return nil
	})
}

// AddService links the new service to accountID unless it is empty.
func (g *Gateway) AddService(ctx context.Context, service model.Service, accountID string) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		v.Services = append(v.Services, service.Clone())
		if accountID == "" {
			return nil
		}
		i := accountIndex(v, accountID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		v.Accounts[i].LinkedServices = model.UnionIDs(v.Accounts[i].LinkedServices, service.ID)
		return nil
	})
}

func (g *Gateway) AddServices(ctx context.Context, services []model.Service) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		for _, s := range services {
			v.Services = append(v.Services, s.Clone())
		}
		return nil
	})
}

func (g *Gateway) UpdateService(ctx context.Context, service model.Service) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		i := slices.IndexFunc(v.Services, func(s model.Service) bool { return s.ID == service.ID })
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrServiceNotFound, service.ID)
		}
		v.Services[i] = service.Clone()
		return nil
	})
}

func (g *Gateway) DeleteService(ctx context.Context, serviceID string) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		if _, ok := v.Service(serviceID); !ok {
			return fmt.Errorf("%w: %s", ErrServiceNotFound, serviceID)
		}
		removeServices(v, serviceID)
		return nil
	})
}

// DeleteServices ignores ids that do not exist.
func (g *Gateway) DeleteServices(ctx context.Context, serviceIDs []string) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		removeServices(v, serviceIDs...)
		return nil
	})
}

func (g *Gateway) AddAccount(ctx context.Context, account model.Account) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		v.Accounts = append(v.Accounts, account.Clone())
		return nil
	})
}

func (g *Gateway) UpdateAccount(ctx context.Context, account model.Account) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		i := accountIndex(v, account.ID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, account.ID)
		}
		v.Accounts[i] = account.Clone()
		return nil
	})
}

func (g *Gateway) DeleteAccount(ctx context.Context, accountID string) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		i := accountIndex(v, accountID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		v.Accounts = slices.Delete(v.Accounts, i, i+1)
		return nil
	})
}

func (g *Gateway) LinkServicesToAccount(ctx context.Context, accountID string, serviceIDs []string) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		i := accountIndex(v, accountID)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		v.Accounts[i].LinkedServices = model.UnionIDs(v.Accounts[i].LinkedServices, serviceIDs...)
		return nil
	})
}

func (g *Gateway) BulkCreateAccounts(ctx context.Context, request model.BulkCreateRequest) error {
	return g.mutate(ctx, func(v *model.Vault) error {
		plan, err := bulk.Generate(v, request, g.newID)
		if err != nil {
			return err
		}
		if len(plan.Collisions) > 0 {
			g.log.Warn("bulk labels collide", "labels", plan.Collisions)
		}
		*v = *plan.Apply(v)
		return nil
	})
}

// mutate applies fn to a copy of the session vault, persists the copy and only
// then makes it current. A failure anywhere leaves memory and storage unchanged.
func (g *Gateway) mutate(ctx context.Context, fn func(v *model.Vault) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.vault == nil {
		return ErrVaultLocked
	}

	next := g.vault.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := g.persist(ctx, g.key, next); err != nil {
		return err
	}
	g.vault = next
	return nil
}

func (g *Gateway) persist(ctx context.Context, key *crypto.Key, v *model.Vault) error {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode vault: %w", err)
	}
	defer crypto.ClearMemory(plaintext)

	blob, err := key.Seal(plaintext)
	if err != nil {
		return err
	}
	if err := g.store.Save(ctx, g.name, blob); err != nil {
		g.log.Error("failed to save vault", "error", err)
		return err
	}
	return nil
}

func (g *Gateway) setSession(v *model.Vault, key *crypto.Key) {
	if g.key != nil && g.key != key {
		g.key.Wipe()
	}
	g.vault = v
	g.key = key
}

func (g *Gateway) acquire() error {
	if g.lock == nil || g.lock.Locked() {
		return nil
	}
	ok, err := g.lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock vault: %w", err)
	}
	if !ok {
		return ErrVaultBusy
	}
	return nil
}

func (g *Gateway) release() {
	if g.lock == nil || !g.lock.Locked() {
		return
	}
	if err := g.lock.Unlock(); err != nil {
		g.log.Warn("failed to release vault lock", "error", err)
	}
}

func accountIndex(v *model.Vault, id string) int {
	return slices.IndexFunc(v.Accounts, func(a model.Account) bool { return a.ID == id })
}

func removeServices(v *model.Vault, ids ...string) {
	v.Services = slices.DeleteFunc(v.Services, func(s model.Service) bool { return slices.Contains(ids, s.ID) })
	for i := range v.Accounts {
		v.Accounts[i].LinkedServices = slices.DeleteFunc(v.Accounts[i].LinkedServices, func(id string) bool {
			return slices.Contains(ids, id)
		})
	}
}
