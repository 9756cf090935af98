package catalog

import (
	"fmt"

	"credvault/internal/model"
)

var (
	ErrUnknownServiceType = fmt.Errorf("%w: service type not found", model.ErrReferential)
	ErrUnknownService     = fmt.Errorf("%w: service not found", model.ErrReferential)
	ErrUnknownAccount     = fmt.Errorf("%w: account not found", model.ErrReferential)
	ErrServiceTypeExists  = fmt.Errorf("%w: service type already exists", model.ErrValidation)
	ErrEmptyPassword      = fmt.Errorf("%w: password is required", model.ErrValidation)
)

func backendErr(op string, err error) error {
	return &model.BackendError{Op: op, Err: err}
}
