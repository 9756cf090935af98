// Package httperr maps gateway errors to HTTP statuses. The response detail is
// always the gateway message so clients can surface it unchanged.
package httperr

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"credvault/internal/gateway/local"
	"credvault/internal/model"
)

func Status(err error) int {
	switch {
	case errors.Is(err, local.ErrAuth), errors.Is(err, local.ErrInvalidOldPassword):
		return http.StatusUnauthorized
	case errors.Is(err, local.ErrVaultLocked):
		return http.StatusLocked
	case errors.Is(err, local.ErrVaultNotFound),
		errors.Is(err, local.ErrServiceTypeNotFound),
		errors.Is(err, local.ErrServiceNotFound),
		errors.Is(err, local.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, local.ErrVaultExists),
		errors.Is(err, local.ErrServiceTypeExists),
		errors.Is(err, local.ErrVaultBusy):
		return http.StatusConflict
	case errors.Is(err, local.ErrEmptyPassword),
		errors.Is(err, model.ErrValidation),
		errors.Is(err, model.ErrReferential):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// From converts err into a huma status error, or returns nil.
func From(err error) error {
	if err == nil {
		return nil
	}
	return huma.NewError(Status(err), err.Error())
}
