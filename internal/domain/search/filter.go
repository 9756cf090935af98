package search

import (
	"slices"
	"sort"
	"strings"

	"credvault/internal/model"
)

// AccountFilter selects accounts. Every non-empty criterion must hold.
type AccountFilter struct {
	Query     string
	Tag       string
	Threshold float64
}

// ServiceFilter selects services. Every non-empty criterion must hold.
type ServiceFilter struct {
	Query     string
	TypeID    string
	Tag       string
	Threshold float64
}

func threshold(t float64) float64 {
	if t <= 0 {
		return DefaultThreshold
	}
	return t
}

type ranked[T any] struct {
	item  T
	score float64
}

// rank keeps items scoring within limit, best first. Ties keep input order.
func rank[T any](items []T, query string, limit float64, keys func(T) []string) []T {
	if strings.TrimSpace(query) == "" {
		return slices.Clone(items)
	}

	hits := make([]ranked[T], 0, len(items))
	for _, it := range items {
		if s := BestScore(query, keys(it)...); s <= limit {
			hits = append(hits, ranked[T]{item: it, score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score < hits[j].score })

	out := make([]T, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}

// Accounts matches the query against label, notes and tags, then applies the exact tag filter.
func Accounts(accounts []model.Account, f AccountFilter) []model.Account {
	out := rank(accounts, f.Query, threshold(f.Threshold), func(a model.Account) []string {
		return append([]string{a.Label, a.Notes}, a.Tags...)
	})
	if f.Tag != "" {
		out = slices.DeleteFunc(out, func(a model.Account) bool { return !slices.Contains(a.Tags, f.Tag) })
	}
	return out
}

// Services matches the query against label and tags, then applies the exact type and tag filters.
// Services whose type no longer exists are kept and only drop out through TypeID.
func Services(services []model.Service, f ServiceFilter) []model.Service {
	out := rank(services, f.Query, threshold(f.Threshold), func(s model.Service) []string {
		return append([]string{s.Label}, s.Tags...)
	})
	if f.TypeID != "" {
		out = slices.DeleteFunc(out, func(s model.Service) bool { return s.ServiceTypeID != f.TypeID })
	}
	if f.Tag != "" {
		out = slices.DeleteFunc(out, func(s model.Service) bool { return !slices.Contains(s.Tags, f.Tag) })
	}
	return out
}

// AllTags lists the distinct account tags in natural order.
func AllTags(accounts []model.Account) []string {
	var tags []string
	for _, a := range accounts {
		tags = model.UnionIDs(tags, a.Tags...)
	}
	SortStrings(tags)
	return tags
}
