package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credvault/internal/model"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		value   string
		matches bool
	}{
		{name: "exact", query: "Discord", value: "Discord", matches: true},
		{name: "substring", query: "cord", value: "Discord main", matches: true},
		{name: "case insensitive", query: "DISCORD", value: "discord", matches: true},
		{name: "one typo", query: "Disxord", value: "Discord", matches: true},
		{name: "missing letter", query: "Discrd", value: "My Discord account", matches: true},
		{name: "typo inside longer text", query: "twiter", value: "work twitter 2", matches: true},
		{name: "unrelated", query: "xyz", value: "Discord", matches: false},
		{name: "unrelated word", query: "proxy", value: "Discord", matches: false},
		{name: "empty value", query: "a", value: "", matches: false},
		{name: "empty query", query: "", value: "anything", matches: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Score(tt.query, tt.value)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
			assert.Equal(t, tt.matches, s <= DefaultThreshold, "score %.3f", s)
		})
	}
}

func TestScore_CloserIsLower(t *testing.T) {
	assert.Less(t, Score("Disxord", "Discord"), Score("Dixxord", "Discord"))
	assert.Equal(t, 0.0, Score("work", "Work10"))
}

func accounts() []model.Account {
	return []model.Account{
		{ID: "1", Label: "Work10", Tags: []string{"farm", "eu"}},
		{ID: "2", Label: "Work2", Tags: []string{"farm"}},
		{ID: "3", Label: "Personal", Notes: "old discord", Tags: []string{"eu"}},
		{ID: "4", Label: "Wrk1", Tags: []string{"eu"}},
	}
}

func labels[T any](items []T, label func(T) string) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = label(it)
	}
	return out
}

func accountLabels(as []model.Account) []string {
	return labels(as, func(a model.Account) string { return a.Label })
}

func serviceLabels(ss []model.Service) []string {
	return labels(ss, func(s model.Service) string { return s.Label })
}

func TestAccounts(t *testing.T) {
	t.Run("no query keeps order", func(t *testing.T) {
		assert.Equal(t, []string{"Work10", "Work2", "Personal", "Wrk1"}, accountLabels(Accounts(accounts(), AccountFilter{})))
	})

	t.Run("exact matches rank before typos", func(t *testing.T) {
		got := Accounts(accounts(), AccountFilter{Query: "work"})
		assert.Equal(t, []string{"Work10", "Work2", "Wrk1"}, accountLabels(got))
	})

	t.Run("notes are searched", func(t *testing.T) {
		got := Accounts(accounts(), AccountFilter{Query: "discord"})
		assert.Equal(t, []string{"Personal"}, accountLabels(got))
	})

	t.Run("tag filter is intersective with the query", func(t *testing.T) {
		got := Accounts(accounts(), AccountFilter{Query: "work", Tag: "eu"})
		assert.Equal(t, []string{"Work10", "Wrk1"}, accountLabels(got))

		got = Accounts(accounts(), AccountFilter{Query: "discord", Tag: "farm"})
		assert.Empty(t, got)
	})

	t.Run("tag alone", func(t *testing.T) {
		got := Accounts(accounts(), AccountFilter{Tag: "farm"})
		assert.Equal(t, []string{"Work10", "Work2"}, accountLabels(got))
	})
}

func TestServices(t *testing.T) {
	services := []model.Service{
		{ID: "1", ServiceTypeID: "email", Label: "gmail main", Tags: []string{"primary"}},
		{ID: "2", ServiceTypeID: "discord", Label: "discord alt"},
		{ID: "3", ServiceTypeID: "deleted-type", Label: "gmail old"},
		{ID: "4", ServiceTypeID: "email", Label: "outlook", Tags: []string{"gmal"}},
	}

	assert.Equal(t, []string{"gmail main", "gmail old", "outlook"}, serviceLabels(Services(services, ServiceFilter{Query: "gmail"})))
	assert.Equal(t, []string{"gmail main", "outlook"}, serviceLabels(Services(services, ServiceFilter{Query: "gmail", TypeID: "email"})))
	assert.Equal(t, []string{"gmail main"}, serviceLabels(Services(services, ServiceFilter{Query: "gmail", TypeID: "email", Tag: "primary"})))
	assert.Equal(t, []string{"gmail old"}, serviceLabels(Services(services, ServiceFilter{TypeID: "deleted-type"})))
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	in := accounts()
	out := Accounts(in, AccountFilter{Tag: "eu"})
	require.NotEmpty(t, out)
	out[0].Label = "changed"
	assert.Equal(t, "Work10", in[0].Label)
}

func TestNaturalCompare(t *testing.T) {
	assert.Negative(t, NaturalCompare("Work2", "Work10"))
	assert.Positive(t, NaturalCompare("Work10", "Work2"))
	assert.Negative(t, NaturalCompare("a", "B"))

	for _, x := range []string{"", "Work2", "Ünïcode 10", "abc"} {
		assert.Zero(t, NaturalCompare(x, x), x)
	}
}

func TestSortOrder_Next(t *testing.T) {
	o := SortNone
	seen := []SortOrder{o}
	for i := 0; i < 3; i++ {
		o = o.Next()
		seen = append(seen, o)
	}
	assert.Equal(t, []SortOrder{SortNone, SortAsc, SortDesc, SortNone}, seen)
}

func TestParseSortOrder(t *testing.T) {
	o, err := ParseSortOrder("desc")
	require.NoError(t, err)
	assert.Equal(t, SortDesc, o)

	o, err = ParseSortOrder("")
	require.NoError(t, err)
	assert.Equal(t, SortNone, o)

	_, err = ParseSortOrder("up")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestSortAccounts(t *testing.T) {
	in := accounts()[:2]
	in = append(in, model.Account{Label: "Work1"})

	assert.Equal(t, []string{"Work1", "Work2", "Work10"}, accountLabels(SortAccounts(in, SortAsc)))
	assert.Equal(t, []string{"Work10", "Work2", "Work1"}, accountLabels(SortAccounts(in, SortDesc)))
	assert.Equal(t, []string{"Work10", "Work2", "Work1"}, accountLabels(SortAccounts(in, SortNone)))
	assert.Equal(t, "Work10", in[0].Label)
}

func TestSortServicesByType(t *testing.T) {
	types := []model.ServiceType{{ID: "email", Name: "Email"}, {ID: "discord", Name: "Discord"}}
	services := []model.Service{
		{Label: "m1", ServiceTypeID: "email"},
		{Label: "orphan", ServiceTypeID: "gone"},
		{Label: "d1", ServiceTypeID: "discord"},
	}

	assert.Equal(t, []string{"orphan", "d1", "m1"}, serviceLabels(SortServices(services, types, ByType, SortAsc)))
	assert.Equal(t, []string{"m1", "d1", "orphan"}, serviceLabels(SortServices(services, types, ByType, SortDesc)))
	assert.Equal(t, []string{"d1", "m1", "orphan"}, serviceLabels(SortServices(services, types, ByName, SortAsc)))
}

func TestAllTags(t *testing.T) {
	assert.Equal(t, []string{"eu", "farm"}, AllTags(accounts()))
}
