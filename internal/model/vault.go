package model

import "slices"

// Version of vaults created by this client.
const VaultVersion = "0.2.0"

type FieldType string

const (
	FieldText          FieldType = "text"
	FieldSecret        FieldType = "secret"
	FieldTextarea      FieldType = "textarea"
	FieldURL           FieldType = "url"
	FieldLinkedService FieldType = "linked_service"
	FieldTwoFactor     FieldType = "2fa"
)

// Valid reports whether t is one of the known field types.
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldSecret, FieldTextarea, FieldURL, FieldLinkedService, FieldTwoFactor:
		return true
	}
	return false
}

func (t FieldType) String() string {
	return string(t)
}

// ServiceField describes one typed slot of a ServiceType.
// Key is the storage key into Service.Data.
type ServiceField struct {
	ID                  string    `json:"id"`
	Key                 string    `json:"key"`
	Label               string    `json:"label"`
	Type                FieldType `json:"type"`
	Masked              bool      `json:"masked"`
	Required            bool      `json:"required"`
	LinkedServiceTypeID string    `json:"linkedServiceTypeId,omitempty"`
}

// ServiceType is a user-defined schema that services instantiate.
// ID is derived from Name once, at creation, and never changes afterwards.
type ServiceType struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Icon   string         `json:"icon"`
	Fields []ServiceField `json:"fields"`
}

// Field returns the field with the given key.
func (t ServiceType) Field(key string) (ServiceField, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return ServiceField{}, false
}

type Service struct {
	ID            string            `json:"id"`
	ServiceTypeID string            `json:"serviceTypeId"`
	Label         string            `json:"label"`
	Data          map[string]string `json:"data"`
	Tags          []string          `json:"tags"`
}

type Account struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Notes          string   `json:"notes"`
	Tags           []string `json:"tags"`
	LinkedServices []string `json:"linkedServices"`
}

type Settings struct {
	AutoLockMinutes uint32 `json:"autoLockMinutes"`
}

// Vault is the full decrypted snapshot held for one session.
type Vault struct {
	Version      string        `json:"version"`
	ServiceTypes []ServiceType `json:"serviceTypes"`
	Services     []Service     `json:"services"`
	Accounts     []Account     `json:"accounts"`
	Settings     Settings      `json:"settings"`
}

// Clone returns a deep copy of the vault.
func (v *Vault) Clone() *Vault {
	if v == nil {
		return nil
	}
	out := &Vault{
		Version:      v.Version,
		ServiceTypes: make([]ServiceType, len(v.ServiceTypes)),
		Services:     make([]Service, len(v.Services)),
		Accounts:     make([]Account, len(v.Accounts)),
		Settings:     v.Settings,
	}
	for i, st := range v.ServiceTypes {
		out.ServiceTypes[i] = st.Clone()
	}
	for i, s := range v.Services {
		out.Services[i] = s.Clone()
	}
	for i, a := range v.Accounts {
		out.Accounts[i] = a.Clone()
	}
	return out
}

func (t ServiceType) Clone() ServiceType {
	t.Fields = slices.Clone(t.Fields)
	return t
}

func (s Service) Clone() Service {
	if s.Data != nil {
		data := make(map[string]string, len(s.Data))
		for k, v := range s.Data {
			data[k] = v
		}
		s.Data = data
	}
	s.Tags = slices.Clone(s.Tags)
	return s
}

func (a Account) Clone() Account {
	a.Tags = slices.Clone(a.Tags)
	a.LinkedServices = slices.Clone(a.LinkedServices)
	return a
}

// ServiceType looks up a type by id.
func (v *Vault) ServiceType(id string) (ServiceType, bool) {
	for _, st := range v.ServiceTypes {
		if st.ID == id {
			return st, true
		}
	}
	return ServiceType{}, false
}

func (v *Vault) Service(id string) (Service, bool) {
	for _, s := range v.Services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}

func (v *Vault) Account(id string) (Account, bool) {
	for _, a := range v.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return Account{}, false
}

// UnionIDs appends ids to base keeping the first occurrence of every id.
// The result never aliases base.
func UnionIDs(base []string, ids ...string) []string {
	out := make([]string, 0, len(base)+len(ids))
	seen := make(map[string]struct{}, len(base)+len(ids))
	for _, id := range append(slices.Clone(base), ids...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
