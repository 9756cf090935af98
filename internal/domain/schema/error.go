package schema

import (
	"fmt"

	"credvault/internal/model"
)

var (
	ErrMissingNameOrID      = fmt.Errorf("%w: service type name and id are required", model.ErrValidation)
	ErrDuplicateKey         = fmt.Errorf("%w: duplicate field key", model.ErrValidation)
	ErrEmptyFieldKey        = fmt.Errorf("%w: field key is empty", model.ErrValidation)
	ErrUnknownFieldType     = fmt.Errorf("%w: unknown field type", model.ErrValidation)
	ErrMissingLinkedType    = fmt.Errorf("%w: linked_service field needs a linked service type", model.ErrValidation)
	ErrUnexpectedLinkedType = fmt.Errorf("%w: only linked_service fields may name a linked service type", model.ErrValidation)
	ErrEmptyLabel           = fmt.Errorf("%w: label is required", model.ErrValidation)
	ErrUnknownField         = fmt.Errorf("%w: unknown field", model.ErrValidation)
	ErrRequiredField        = fmt.Errorf("%w: required field is empty", model.ErrValidation)
)
