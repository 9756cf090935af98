package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credvault/internal/domain/bulk"
	"credvault/internal/gateway/local"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{local.ErrAuth, http.StatusUnauthorized},
		{local.ErrInvalidOldPassword, http.StatusUnauthorized},
		{local.ErrVaultLocked, http.StatusLocked},
		{fmt.Errorf("%w: s1", local.ErrServiceNotFound), http.StatusNotFound},
		{local.ErrVaultNotFound, http.StatusNotFound},
		{local.ErrServiceTypeExists, http.StatusConflict},
		{local.ErrVaultBusy, http.StatusConflict},
		{bulk.ErrCountOutOfRange, http.StatusUnprocessableEntity},
		{bulk.ErrUnknownServiceType, http.StatusUnprocessableEntity},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestFrom(t *testing.T) {
	assert.NoError(t, From(nil))

	err := From(fmt.Errorf("%w: a1", local.ErrAccountNotFound))
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.GetStatus())
	assert.Equal(t, "account not found: a1", se.Error())
}
