package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVault_Clone(t *testing.T) {
	v := &Vault{
		Version: VaultVersion,
		ServiceTypes: []ServiceType{{
			ID: "email", Name: "Email",
			Fields: []ServiceField{{ID: "f1", Key: "address", Label: "Address", Type: FieldText}},
		}},
		Services: []Service{{ID: "s1", ServiceTypeID: "email", Label: "main", Data: map[string]string{"address": "a@x.com"}, Tags: []string{"work"}}},
		Accounts: []Account{{ID: "a1", Label: "Work1", LinkedServices: []string{"s1"}}},
		Settings: Settings{AutoLockMinutes: 5},
	}

	c := v.Clone()
	require.Equal(t, v, c)

	c.Services[0].Data["address"] = "b@x.com"
	c.Services[0].Tags[0] = "home"
	c.Accounts[0].LinkedServices[0] = "s2"
	c.ServiceTypes[0].Fields[0].Key = "changed"

	assert.Equal(t, "a@x.com", v.Services[0].Data["address"])
	assert.Equal(t, "work", v.Services[0].Tags[0])
	assert.Equal(t, "s1", v.Accounts[0].LinkedServices[0])
	assert.Equal(t, "address", v.ServiceTypes[0].Fields[0].Key)

	var nilVault *Vault
	assert.Nil(t, nilVault.Clone())
}

func TestUnionIDs(t *testing.T) {
	base := []string{"a", "b"}

	out := UnionIDs(base, "b", "c", "c")
	assert.Equal(t, []string{"a", "b", "c"}, out)
	assert.Equal(t, []string{"a", "b"}, base)

	again := UnionIDs(out, "c")
	assert.Len(t, again, 3)
}

func TestVault_Lookups(t *testing.T) {
	v := &Vault{
		ServiceTypes: []ServiceType{{ID: "email", Fields: []ServiceField{{Key: "address"}}}},
		Services:     []Service{{ID: "s1"}},
		Accounts:     []Account{{ID: "a1"}},
	}

	st, ok := v.ServiceType("email")
	require.True(t, ok)
	_, ok = st.Field("address")
	assert.True(t, ok)
	_, ok = st.Field("missing")
	assert.False(t, ok)

	_, ok = v.ServiceType("gone")
	assert.False(t, ok)
	_, ok = v.Service("s1")
	assert.True(t, ok)
	_, ok = v.Account("nope")
	assert.False(t, ok)
}

func TestBackendError(t *testing.T) {
	cause := errors.New("Vault is locked or not yet created.")
	err := fmt.Errorf("add service: %w", &BackendError{Op: "add_service", Err: cause})

	assert.ErrorIs(t, err, ErrBackend)
	assert.ErrorIs(t, err, cause)

	var be *BackendError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Vault is locked or not yet created.", be.Error())
}

func TestFieldType_Valid(t *testing.T) {
	for _, ft := range []FieldType{FieldText, FieldSecret, FieldTextarea, FieldURL, FieldLinkedService, FieldTwoFactor} {
		assert.True(t, ft.Valid(), ft)
	}
	assert.False(t, FieldType("checkbox").Valid())
}
