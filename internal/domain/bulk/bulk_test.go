package bulk

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credvault/internal/model"
)

func seqID() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func testVault() *model.Vault {
	return &model.Vault{
		Version: model.VaultVersion,
		ServiceTypes: []model.ServiceType{
			{ID: "email", Name: "Email", Fields: []model.ServiceField{{ID: "f1", Key: "address", Type: model.FieldText}}},
			{ID: "proxy", Name: "Proxy"},
		},
		Accounts: []model.Account{{ID: "a0", Label: "Work6"}},
	}
}

func TestValidate(t *testing.T) {
	valid := model.BulkCreateRequest{AccountConfig: model.BulkAccountConfig{Count: 3, NameTemplate: "Work%n%", StartNumber: 1}}

	tests := []struct {
		name    string
		mutate  func(r *model.BulkCreateRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(r *model.BulkCreateRequest) {}},
		{name: "blank template", mutate: func(r *model.BulkCreateRequest) { r.AccountConfig.NameTemplate = "  " }, wantErr: ErrEmptyTemplate},
		{name: "no placeholder", mutate: func(r *model.BulkCreateRequest) { r.AccountConfig.NameTemplate = "Work" }, wantErr: ErrMissingPlaceholder},
		{name: "zero count", mutate: func(r *model.BulkCreateRequest) { r.AccountConfig.Count = 0 }, wantErr: ErrCountOutOfRange},
		{name: "count above max", mutate: func(r *model.BulkCreateRequest) { r.AccountConfig.Count = 101 }, wantErr: ErrCountOutOfRange},
		{name: "count at max", mutate: func(r *model.BulkCreateRequest) { r.AccountConfig.Count = 100 }},
		{name: "link without configs", mutate: func(r *model.BulkCreateRequest) { r.LinkServices = true }, wantErr: ErrNoServiceConfigs},
		{
			name: "config without type",
			mutate: func(r *model.BulkCreateRequest) {
				r.LinkServices = true
				r.ServiceConfigs = []model.ServiceLinkConfig{{NameTemplate: "%n%"}}
			},
			wantErr: ErrIncompleteConfig,
		},
		{
			name: "config without template",
			mutate: func(r *model.BulkCreateRequest) {
				r.LinkServices = true
				r.ServiceConfigs = []model.ServiceLinkConfig{{ServiceTypeID: "email"}}
			},
			wantErr: ErrIncompleteConfig,
		},
		{
			name: "configs ignored when not linking",
			mutate: func(r *model.BulkCreateRequest) {
				r.ServiceConfigs = []model.ServiceLinkConfig{{}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := Validate(req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestRender(t *testing.T) {
	assert.Equal(t, "Work7", Render("Work%n%", 7))
	assert.Equal(t, "a3-b3", Render("a%n%-b%n%", 3))
	assert.Equal(t, "static", Render("static", 3))
}

func TestGenerate_Numbering(t *testing.T) {
	req := model.BulkCreateRequest{AccountConfig: model.BulkAccountConfig{
		Count: 3, NameTemplate: "Work%n%", StartNumber: 5, Tags: []string{"farm"}, Notes: "batch",
	}}

	plan, err := Generate(&model.Vault{}, req, seqID())
	require.NoError(t, err)
	require.Len(t, plan.Accounts, 3)

	labels := make([]string, 0, 3)
	for _, a := range plan.Accounts {
		labels = append(labels, a.Label)
		assert.Equal(t, []string{"farm"}, a.Tags)
		assert.Equal(t, "batch", a.Notes)
		assert.Empty(t, a.LinkedServices)
	}
	assert.Equal(t, []string{"Work5", "Work6", "Work7"}, labels)
	assert.Empty(t, plan.Services)
	assert.Empty(t, plan.Collisions)
}

func TestGenerate_LinkedServices(t *testing.T) {
	req := model.BulkCreateRequest{
		AccountConfig: model.BulkAccountConfig{Count: 2, NameTemplate: "Acc%n%", StartNumber: 1},
		LinkServices:  true,
		ServiceConfigs: []model.ServiceLinkConfig{
			{ServiceTypeID: "email", NameTemplate: "mail%n%", Tags: []string{"gmail"}},
			{ServiceTypeID: "proxy", NameTemplate: "proxy-%n%"},
		},
	}

	plan, err := Generate(testVault(), req, seqID())
	require.NoError(t, err)
	require.Len(t, plan.Accounts, 2)
	require.Len(t, plan.Services, 4)

	assert.Equal(t, []string{"mail1", "proxy-1", "mail2", "proxy-2"},
		[]string{plan.Services[0].Label, plan.Services[1].Label, plan.Services[2].Label, plan.Services[3].Label})
	assert.Equal(t, []string{plan.Services[0].ID, plan.Services[1].ID}, plan.Accounts[0].LinkedServices)
	assert.Equal(t, []string{plan.Services[2].ID, plan.Services[3].ID}, plan.Accounts[1].LinkedServices)

	for _, svc := range plan.Services {
		assert.Empty(t, svc.Data)
		assert.NotNil(t, svc.Data)
	}
	assert.Equal(t, []string{"gmail"}, plan.Services[0].Tags)
	assert.Equal(t, "email", plan.Services[2].ServiceTypeID)
}

func TestGenerate_UnknownTypeAbortsBatch(t *testing.T) {
	req := model.BulkCreateRequest{
		AccountConfig:  model.BulkAccountConfig{Count: 2, NameTemplate: "Acc%n%"},
		LinkServices:   true,
		ServiceConfigs: []model.ServiceLinkConfig{{ServiceTypeID: "email", NameTemplate: "%n%"}, {ServiceTypeID: "gone", NameTemplate: "%n%"}},
	}

	plan, err := Generate(testVault(), req, seqID())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownServiceType)
	assert.ErrorIs(t, err, model.ErrReferential)
	assert.Empty(t, plan.Accounts)
	assert.Empty(t, plan.Services)
}

func TestGenerate_InvalidRequest(t *testing.T) {
	_, err := Generate(testVault(), model.BulkCreateRequest{}, seqID())
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestGenerate_CollisionsAreReported(t *testing.T) {
	t.Run("with existing accounts", func(t *testing.T) {
		req := model.BulkCreateRequest{AccountConfig: model.BulkAccountConfig{Count: 3, NameTemplate: "Work%n%", StartNumber: 5}}

		plan, err := Generate(testVault(), req, seqID())
		require.NoError(t, err)
		assert.Len(t, plan.Accounts, 3)
		assert.Equal(t, []string{"Work6"}, plan.Collisions)
	})

	t.Run("bare number template", func(t *testing.T) {
		req := model.BulkCreateRequest{AccountConfig: model.BulkAccountConfig{Count: 2, NameTemplate: "%n%"}}

		plan, err := Generate(&model.Vault{Accounts: []model.Account{{Label: "1"}}}, req, seqID())
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1"}, []string{plan.Accounts[0].Label, plan.Accounts[1].Label})
		assert.Equal(t, []string{"1"}, plan.Collisions)
	})
}

func TestPlan_Apply(t *testing.T) {
	v := testVault()
	req := model.BulkCreateRequest{
		AccountConfig:  model.BulkAccountConfig{Count: 1, NameTemplate: "New%n%", StartNumber: 1},
		LinkServices:   true,
		ServiceConfigs: []model.ServiceLinkConfig{{ServiceTypeID: "email", NameTemplate: "m%n%"}},
	}
	plan, err := Generate(v, req, seqID())
	require.NoError(t, err)

	before := v.Clone()
	out := plan.Apply(v)

	assert.Equal(t, before, v.Clone())
	assert.Len(t, out.Accounts, 2)
	assert.Len(t, out.Services, 1)
	assert.Equal(t, "New1", out.Accounts[1].Label)
}
