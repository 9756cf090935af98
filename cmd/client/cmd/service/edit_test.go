package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credvault/internal/model"
)

func TestApplyServiceEdit(t *testing.T) {
	stored := model.Service{
		ID:            "s2",
		ServiceTypeID: "discord",
		Label:         "disc",
		Data:          map[string]string{"username": "neo", "email_ref": "s1"},
		Tags:          []string{"farm"},
	}
	label := "Discord main"

	tests := []struct {
		name string
		edit serviceEdit
		want model.Service
	}{
		{
			name: "nothing",
			edit: serviceEdit{},
			want: stored,
		},
		{
			name: "relabel keeps data",
			edit: serviceEdit{Label: &label},
			want: model.Service{ID: "s2", ServiceTypeID: "discord", Label: label, Data: stored.Data, Tags: []string{"farm"}},
		},
		{
			name: "set and unset",
			edit: serviceEdit{Set: map[string]string{"username": "trinity"}, Unset: []string{"email_ref"}},
			want: model.Service{ID: "s2", ServiceTypeID: "discord", Label: "disc", Data: map[string]string{"username": "trinity"}, Tags: []string{"farm"}},
		},
		{
			name: "clear tags",
			edit: serviceEdit{Tags: []string{}},
			want: model.Service{ID: "s2", ServiceTypeID: "discord", Label: "disc", Data: stored.Data, Tags: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyServiceEdit(stored, tt.edit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "neo", stored.Data["username"], "stored service must not change")
}

func TestApplyServiceEdit_Errors(t *testing.T) {
	stored := model.Service{ID: "s1", Label: "main", Data: map[string]string{"address": "a@x.com"}}

	_, err := applyServiceEdit(stored, serviceEdit{Unset: []string{"pin"}})
	assert.Error(t, err)

	_, err = applyServiceEdit(stored, serviceEdit{Set: map[string]string{"address": "b"}, Unset: []string{"address"}})
	assert.Error(t, err)
}
