package catalog

import (
	"slices"
	"strings"

	"credvault/internal/model"
)

// ServiceType returns the type with the given id from the current snapshot.
func (s *Store) ServiceType(id string) (model.ServiceType, bool) {
	v := s.Snapshot()
	if v == nil {
		return model.ServiceType{}, false
	}
	return v.ServiceType(id)
}

// ServiceTypeName resolves the display name of a type, tolerating dangling ids.
func (s *Store) ServiceTypeName(id string) string {
	if st, ok := s.ServiceType(id); ok {
		return st.Name
	}
	return UnknownTypeName
}

// LinkedServices returns the services linked to the account in link order.
// Ids that no longer resolve are skipped.
func (s *Store) LinkedServices(accountID string) []model.Service {
	v := s.Snapshot()
	if v == nil {
		return nil
	}
	acc, ok := v.Account(accountID)
	if !ok {
		return nil
	}

	out := make([]model.Service, 0, len(acc.LinkedServices))
	for _, id := range acc.LinkedServices {
		if svc, ok := v.Service(id); ok {
			out = append(out, svc)
		}
	}
	return out
}

// BrokenLinks returns the linked_service fields of the service that are empty,
// point at a missing service or at a service of another type, or whose linked
// type was deleted.
func (s *Store) BrokenLinks(service model.Service) []model.ServiceField {
	v := s.Snapshot()
	if v == nil {
		return nil
	}
	st, ok := v.ServiceType(service.ServiceTypeID)
	if !ok {
		return nil
	}

	var out []model.ServiceField
	for _, f := range st.Fields {
		if f.Type != model.FieldLinkedService {
			continue
		}
		if _, ok := v.ServiceType(f.LinkedServiceTypeID); !ok {
			out = append(out, f)
			continue
		}
		target, ok := v.Service(service.Data[f.Key])
		if !ok || target.ServiceTypeID != f.LinkedServiceTypeID {
			out = append(out, f)
		}
	}
	return out
}

func replaceWhere[T any](items []T, match func(T) bool, with T) []T {
	return mapWhere(items, match, func(T) T { return with })
}

func mapWhere[T any](items []T, match func(T) bool, fn func(T) T) []T {
	out := make([]T, len(items))
	for i, it := range items {
		if match(it) {
			it = fn(it)
		}
		out[i] = it
	}
	return out
}

func without[T any](items []T, drop func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if !drop(it) {
			out = append(out, it)
		}
	}
	return out
}

// removeServices drops the services and strips them from every account's links.
func removeServices(cur *model.Vault, ids []string) *model.Vault {
	drop := func(id string) bool { return slices.Contains(ids, id) }

	nv := next(cur)
	nv.Services = without(cur.Services, func(svc model.Service) bool { return drop(svc.ID) })
	nv.Accounts = mapWhere(cur.Accounts,
		func(a model.Account) bool { return slices.ContainsFunc(a.LinkedServices, drop) },
		func(a model.Account) model.Account {
			a.LinkedServices = without(a.LinkedServices, drop)
			return a
		})
	return nv
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return model.UnionIDs(nil, out...)
}

func normalizeService(svc model.Service) model.Service {
	svc.Label = strings.TrimSpace(svc.Label)
	svc.Tags = normalizeTags(svc.Tags)
	if svc.Data == nil {
		svc.Data = map[string]string{}
	}
	return svc
}

func normalizeAccount(acc model.Account) model.Account {
	acc.Label = strings.TrimSpace(acc.Label)
	acc.Tags = normalizeTags(acc.Tags)
	acc.LinkedServices = model.UnionIDs(nil, acc.LinkedServices...)
	return acc
}
