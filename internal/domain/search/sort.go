package search

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"credvault/internal/model"
)

// newCollator is called per sort: a Collator keeps internal buffers and is not safe
// for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.Numeric, collate.Loose)
}

// NaturalCompare orders strings with digit runs compared by value, ignoring case
// and diacritics. "Work2" sorts before "Work10".
func NaturalCompare(a, b string) int {
	return newCollator().CompareString(a, b)
}

// SortStrings sorts in place in natural order.
func SortStrings(ss []string) {
	c := newCollator()
	sort.SliceStable(ss, func(i, j int) bool { return c.CompareString(ss[i], ss[j]) < 0 })
}

type SortOrder string

const (
	SortNone SortOrder = "none"
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Next cycles none -> asc -> desc -> none.
func (o SortOrder) Next() SortOrder {
	switch o {
	case SortAsc:
		return SortDesc
	case SortDesc:
		return SortNone
	default:
		return SortAsc
	}
}

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(s); o {
	case "", SortNone:
		return SortNone, nil
	case SortAsc, SortDesc:
		return o, nil
	}
	return SortNone, fmt.Errorf("%w: unknown sort order %q", model.ErrValidation, s)
}

type SortKey string

const (
	ByName SortKey = "name"
	ByType SortKey = "type"
)

func sortBy[T any](items []T, order SortOrder, key func(T) string) []T {
	out := make([]T, len(items))
	copy(out, items)
	if order != SortAsc && order != SortDesc {
		return out
	}

	c := newCollator()
	sort.SliceStable(out, func(i, j int) bool {
		cmp := c.CompareString(key(out[i]), key(out[j]))
		if order == SortDesc {
			cmp = -cmp
		}
		return cmp < 0
	})
	return out
}

// SortAccounts returns a sorted copy ordered by label.
func SortAccounts(accounts []model.Account, order SortOrder) []model.Account {
	return sortBy(accounts, order, func(a model.Account) string { return a.Label })
}

// SortServices returns a sorted copy ordered by label or by type name.
// Services of a deleted type sort as if their type name were empty.
func SortServices(services []model.Service, types []model.ServiceType, by SortKey, order SortOrder) []model.Service {
	if by != ByType {
		return sortBy(services, order, func(s model.Service) string { return s.Label })
	}

	names := make(map[string]string, len(types))
	for _, t := range types {
		names[t.ID] = t.Name
	}
	return sortBy(services, order, func(s model.Service) string { return names[s.ServiceTypeID] })
}
