package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"

	"credvault/internal/app/client/crypto"
	"credvault/internal/infrastructure/storage"
	"credvault/internal/model"
)

type memStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{blobs: map[string][]byte{}}
}

func (m *memStore) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[name]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *memStore) Save(_ context.Context, name string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.blobs[name] = append([]byte(nil), blob...)
	return nil
}

func (m *memStore) Exists(_ context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[name]
	return ok, nil
}

func (m *memStore) Close() error { return nil }

func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGateway(t *testing.T, store storage.BlobStore, opts ...Option) *Gateway {
	t.Helper()
	opts = append([]Option{WithKDF(crypto.FastKDF()), WithIDGenerator(seqID())}, opts...)
	return New(store, discardLogger(), opts...)
}

func newUnlocked(t *testing.T) (*Gateway, *memStore) {
	t.Helper()
	store := newMemStore()
	g := newGateway(t, store)
	_, err := g.CreateVault(context.Background(), "pw", model.Settings{AutoLockMinutes: 5}, []string{"email", "discord"})
	require.NoError(t, err)
	return g, store
}

func TestCreateAndUnlock(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	g := newGateway(t, store)

	exists, err := g.VaultExists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = g.UnlockVault(ctx, "pw")
	assert.ErrorIs(t, err, ErrVaultNotFound)

	v, err := g.CreateVault(ctx, "pw", model.Settings{AutoLockMinutes: 5}, []string{"email", "discord"})
	require.NoError(t, err)
	assert.Equal(t, model.VaultVersion, v.Version)
	require.Len(t, v.ServiceTypes, 2)
	// library order, not selection order
	assert.Equal(t, "discord", v.ServiceTypes[0].ID)
	assert.Equal(t, "email", v.ServiceTypes[1].ID)
	assert.NotNil(t, v.Services)
	assert.NotNil(t, v.Accounts)

	_, err = g.CreateVault(ctx, "pw", model.Settings{}, nil)
	assert.ErrorIs(t, err, ErrVaultExists)

	require.NoError(t, g.AddAccount(ctx, model.Account{ID: "a1", Label: "Work1"}))
	require.NoError(t, g.LockVault(ctx))

	_, err = g.GetVault(ctx)
	assert.ErrorIs(t, err, ErrVaultLocked)
	assert.ErrorIs(t, g.AddAccount(ctx, model.Account{ID: "a2"}), ErrVaultLocked)

	_, err = g.UnlockVault(ctx, "wrong")
	assert.ErrorIs(t, err, ErrAuth)

	// a fresh process sees the same vault
	other := newGateway(t, store)
	v, err = other.UnlockVault(ctx, "pw")
	require.NoError(t, err)
	require.Len(t, v.Accounts, 1)
	assert.Equal(t, "Work1", v.Accounts[0].Label)
	assert.Equal(t, uint32(5), v.Settings.AutoLockMinutes)
}

func TestCreateVault_EmptyPassword(t *testing.T) {
	g := newGateway(t, newMemStore())
	_, err := g.CreateVault(context.Background(), "", model.Settings{}, nil)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestBlobIsSealed(t *testing.T) {
	g, store := newUnlocked(t)
	require.NoError(t, g.AddAccount(context.Background(), model.Account{ID: "a1", Label: "very-visible-label"}))

	assert.NotContains(t, string(store.blobs[storage.DefaultVault]), "very-visible-label")
}

func TestSaveFailureLeavesVaultUnchanged(t *testing.T) {
	ctx := context.Background()
	g, store := newUnlocked(t)
	before, err := g.GetVault(ctx)
	require.NoError(t, err)
	blob := store.blobs[storage.DefaultVault]

	store.saveErr = errors.New("disk full")
	err = g.AddAccount(ctx, model.Account{ID: "a1", Label: "x"})
	assert.EqualError(t, err, "disk full")

	after, err := g.GetVault(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, blob, store.blobs[storage.DefaultVault])
}

func TestGetVaultReturnsCopy(t *testing.T) {
	ctx := context.Background()
	g, _ := newUnlocked(t)

	v, err := g.GetVault(ctx)
	require.NoError(t, err)
	v.ServiceTypes[0].Name = "changed"

	again, err := g.GetVault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Discord", again.ServiceTypes[0].Name)
}

func TestServiceTypes(t *testing.T) {
	ctx := context.Background()
	g, _ := newUnlocked(t)

	st := model.ServiceType{ID: "steam", Name: "Steam", Fields: []model.ServiceField{{ID: "f1", Key: "login", Label: "Login", Type: model.FieldText}}}
	require.NoError(t, g.AddServiceType(ctx, st))
	assert.ErrorIs(t, g.AddServiceType(ctx, st), ErrServiceTypeExists)

	st.Name = "Steam Games"
	require.NoError(t, g.UpdateServiceType(ctx, st))
	assert.ErrorIs(t, g.UpdateServiceType(ctx, model.ServiceType{ID: "nope"}), ErrServiceTypeNotFound)

	require.NoError(t, g.AddService(ctx, model.Service{ID: "s1", ServiceTypeID: "steam", Label: "main"}, mustAccount(t, g, "a1")))
	require.NoError(t, g.DeleteServiceType(ctx, "steam"))
	assert.ErrorIs(t, g.DeleteServiceType(ctx, "steam"), ErrServiceTypeNotFound)

	v, err := g.GetVault(ctx)
	require.NoError(t, err)
	_, ok := v.ServiceType("steam")
	assert.False(t, ok)
	_, ok = v.Service("s1")
	assert.True(t, ok, "services of a deleted type are kept")
}

func mustAccount(t *testing.T, g *Gateway, id string) string {
	t.Helper()
	require.NoError(t, g.AddAccount(context.Background(), model.Account{ID: id, Label: id}))
	return id
}

func TestServicesAndLinks(t *testing.T) {
	ctx := context.Background()
	g, _ := newUnlocked(t)
	acc := mustAccount(t, g, "a1")

	assert.ErrorIs(t, g.AddService(ctx, model.Service{ID: "s0"}, "missing"), ErrAccountNotFound)

	require.NoError(t, g.AddService(ctx, model.Service{ID: "s1", ServiceTypeID: "email", Label: "m1"}, acc))
	require.NoError(t, g.AddServices(ctx, []model.Service{
		{ID: "s2", ServiceTypeID: "email", Label: "m2"},
		{ID: "s3", ServiceTypeID: "discord", Label: "d1"},
	}))
	require.NoError(t, g.LinkServicesToAccount(ctx, acc, []string{"s2", "s1", "s3"}))
	assert.ErrorIs(t, g.LinkServicesToAccount(ctx, "missing", []string{"s1"}), ErrAccountNotFound)

	v, err := g.GetVault(ctx)
	require.NoError(t, err)
	a, _ := v.Account(acc)
	assert.Equal(t, []string{"s1", "s2", "s3"}, a.LinkedServices)

	require.NoError(t, g.UpdateService(ctx, model.Service{ID: "s2", ServiceTypeID: "email", Label: "m2 renamed"}))
	assert.ErrorIs(t, g.UpdateService(ctx, model.Service{ID: "nope"}), ErrServiceNotFound)

	require.NoError(t, g.DeleteService(ctx, "s1"))
	assert.ErrorIs(t, g.DeleteService(ctx, "s1"), ErrServiceNotFound)
	require.NoError(t, g.DeleteServices(ctx, []string{"s3", "ghost"}))

	v, err = g.GetVault(ctx)
	require.NoError(t, err)
	require.Len(t, v.Services, 1)
	assert.Equal(t, "m2 renamed", v.Services[0].Label)
	a, _ = v.Account(acc)
	assert.Equal(t, []string{"s2"}, a.LinkedServices)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	g, _ := newUnlocked(t)
	mustAccount(t, g, "a1")

	require.NoError(t, g.UpdateAccount(ctx, model.Account{ID: "a1", Label: "Renamed", Tags: []string{"eu"}}))
	assert.ErrorIs(t, g.UpdateAccount(ctx, model.Account{ID: "a9"}), ErrAccountNotFound)

	v, err := g.GetVault(ctx)
	require.NoError(t, err)
	a, _ := v.Account("a1")
	assert.Equal(t, "Renamed", a.Label)

	require.NoError(t, g.DeleteAccount(ctx, "a1"))
	assert.ErrorIs(t, g.DeleteAccount(ctx, "a1"), ErrAccountNotFound)
}

func TestSettings(t *testing.T) {
	ctx := context.Background()
	g, _ := newUnlocked(t)

	require.NoError(t, g.UpdateSettings(ctx, model.Settings{AutoLockMinutes: 30}))
	v, err := g.GetVault(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(30), v.Settings.AutoLockMinutes)
}

func TestChangeMasterPassword(t *testing.T) {
	ctx := context.Background()
	g, store := newUnlocked(t)

	assert.ErrorIs(t, g.ChangeMasterPassword(ctx, "wrong", "new"), ErrInvalidOldPassword)
	assert.ErrorIs(t, g.ChangeMasterPassword(ctx, "pw", ""), ErrEmptyPassword)
	require.NoError(t, g.ChangeMasterPassword(ctx, "pw", "new"))

	// later writes use the new key
	mustAccount(t, g, "a1")

	other := newGateway(t, store)
	_, err := other.UnlockVault(ctx, "pw")
	assert.ErrorIs(t, err, ErrAuth)
	v, err := other.UnlockVault(ctx, "new")
	require.NoError(t, err)
	assert.Len(t, v.Accounts, 1)

	require.NoError(t, g.LockVault(ctx))
	assert.ErrorIs(t, g.ChangeMasterPassword(ctx, "new", "newer"), ErrVaultLocked)
}

func TestBulkCreateAccounts(t *testing.T) {
	ctx := context.Background()
	g, _ := newUnlocked(t)

	req := model.BulkCreateRequest{
		AccountConfig: model.BulkAccountConfig{Count: 3, NameTemplate: "Work%n%", StartNumber: 5, Tags: []string{"farm"}},
		LinkServices:  true,
		ServiceConfigs: []model.ServiceLinkConfig{
			{ServiceTypeID: "email", NameTemplate: "mail %n%"},
			{ServiceTypeID: "discord", NameTemplate: "dc %n%"},
		},
	}
	require.NoError(t, g.BulkCreateAccounts(ctx, req))

	v, err := g.GetVault(ctx)
	require.NoError(t, err)
	require.Len(t, v.Accounts, 3)
	assert.Len(t, v.Services, 6)
	assert.Equal(t, "Work5", v.Accounts[0].Label)
	assert.Equal(t, "Work7", v.Accounts[2].Label)
	for _, a := range v.Accounts {
		assert.Len(t, a.LinkedServices, 2)
		for _, id := range a.LinkedServices {
			_, ok := v.Service(id)
			assert.True(t, ok)
		}
	}

	req.ServiceConfigs[0].ServiceTypeID = "steam"
	err = g.BulkCreateAccounts(ctx, req)
	assert.ErrorIs(t, err, model.ErrReferential)

	v, err = g.GetVault(ctx)
	require.NoError(t, err)
	assert.Len(t, v.Accounts, 3)
}

func TestDefaultServiceTypes(t *testing.T) {
	g := newGateway(t, newMemStore())
	types, err := g.DefaultServiceTypes(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, types)
}

func TestLockFile(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	lockPath := filepath.Join(t.TempDir(), "vault.lock")

	first := newGateway(t, store, WithLockFile(lockPath))
	_, err := first.CreateVault(ctx, "pw", model.Settings{}, nil)
	require.NoError(t, err)

	second := newGateway(t, store, WithLockFile(lockPath))
	_, err = second.UnlockVault(ctx, "pw")
	assert.ErrorIs(t, err, ErrVaultBusy)

	require.NoError(t, first.LockVault(ctx))
	_, err = second.UnlockVault(ctx, "pw")
	require.NoError(t, err)
	require.NoError(t, second.LockVault(ctx))
}

func TestAddServiceWithoutAccount(t *testing.T) {
	ctx := context.Background()
	g, _ := newUnlocked(t)

	require.NoError(t, g.AddService(ctx, model.Service{ID: "solo", ServiceTypeID: "email", Label: "m"}, ""))

	v, err := g.GetVault(ctx)
	require.NoError(t, err)
	_, ok := v.Service("solo")
	assert.True(t, ok)
}
