package importer

import (
	"errors"
	"fmt"

	"credvault/internal/model"
)

var (
	ErrEmptyInput       = fmt.Errorf("%w: nothing to import", model.ErrValidation)
	ErrEmptySeparator   = fmt.Errorf("%w: separator is required", model.ErrValidation)
	ErrBadMapping       = fmt.Errorf("%w: invalid column mapping", model.ErrValidation)
	ErrNoPrimaryType    = fmt.Errorf("%w: primary service type is required", model.ErrValidation)
	ErrUnknownPrimary   = fmt.Errorf("%w: primary service type not found", model.ErrReferential)
	ErrForeignField     = fmt.Errorf("%w: mapping targets another service type", model.ErrValidation)
	ErrUnknownField     = fmt.Errorf("%w: mapping targets an unknown field", model.ErrValidation)
	ErrColumnOutOfRange = fmt.Errorf("%w: column out of range", model.ErrValidation)
	ErrLabelColumn      = fmt.Errorf("%w: label column is required", model.ErrValidation)
	ErrEmptyPattern     = fmt.Errorf("%w: label pattern is required", model.ErrValidation)
	ErrUnknownStrategy  = fmt.Errorf("%w: unknown label strategy", model.ErrValidation)

	// ErrPlaceholderPattern rejects bulk-style templates: the number is
	// always appended to the import pattern.
	ErrPlaceholderPattern = fmt.Errorf("%w: label pattern is a prefix and must not contain %s", model.ErrValidation, model.NumberPlaceholder)

	ErrInvalidState = errors.New("import step is not allowed in the current state")
)
