package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"credvault/internal/model"
)

var (
	disallowedKeyChars = regexp.MustCompile(`[^a-z0-9_\s]`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
)

// GenerateKey turns a human label into a storage key: lowercase, only [a-z0-9_],
// whitespace runs collapsed to a single underscore, no leading or trailing underscore.
func GenerateKey(label string) string {
	key := strings.ToLower(label)
	key = disallowedKeyChars.ReplaceAllString(key, "")
	key = strings.TrimSpace(key)
	key = whitespaceRun.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}

// NewServiceType builds a type whose id is derived from the name.
// Fields with an empty key get one generated from their label, fields without an id get a fresh one.
func NewServiceType(name, icon string, fields []model.ServiceField) model.ServiceType {
	out := make([]model.ServiceField, len(fields))
	for i, f := range fields {
		if f.Key == "" {
			f.Key = GenerateKey(f.Label)
		}
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		if f.Type == "" {
			f.Type = model.FieldText
		}
		out[i] = f
	}
	return model.ServiceType{
		ID:     GenerateKey(name),
		Name:   name,
		Icon:   icon,
		Fields: out,
	}
}

// ValidateServiceType checks the structural rules of a type.
func ValidateServiceType(t model.ServiceType) error {
	if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.ID) == "" {
		return ErrMissingNameOrID
	}

	seen := make(map[string]struct{}, len(t.Fields))
	for _, f := range t.Fields {
		if strings.TrimSpace(f.Key) == "" {
			return fmt.Errorf("%w: field %q", ErrEmptyFieldKey, f.Label)
		}
		if _, dup := seen[f.Key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, f.Key)
		}
		seen[f.Key] = struct{}{}

		if !f.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownFieldType, f.Type)
		}
		linked := f.Type == model.FieldLinkedService
		if linked && f.LinkedServiceTypeID == "" {
			return fmt.Errorf("%w: field %q", ErrMissingLinkedType, f.Key)
		}
		if !linked && f.LinkedServiceTypeID != "" {
			return fmt.Errorf("%w: field %q", ErrUnexpectedLinkedType, f.Key)
		}
	}

	return nil
}

// ValidateServiceData checks a service payload against its type:
// non-blank label, only keys the type declares, required fields filled.
func ValidateServiceData(t model.ServiceType, label string, data map[string]string) error {
	return ValidateServiceEdit(t, label, data, nil)
}

// ValidateServiceEdit is ValidateServiceData for an existing service.
// Keys present in stored are accepted even when the type no longer
// declares them, so a type that lost a field keeps its services editable.
func ValidateServiceEdit(t model.ServiceType, label string, data, stored map[string]string) error {
	if strings.TrimSpace(label) == "" {
		return ErrEmptyLabel
	}
	for key := range data {
		if _, kept := stored[key]; kept {
			continue
		}
		if _, ok := t.Field(key); !ok {
			return fmt.Errorf("%w: %q is not a field of %q", ErrUnknownField, key, t.ID)
		}
	}
	for _, f := range t.Fields {
		if f.Required && strings.TrimSpace(data[f.Key]) == "" {
			return fmt.Errorf("%w: %q", ErrRequiredField, f.Key)
		}
	}
	return nil
}
