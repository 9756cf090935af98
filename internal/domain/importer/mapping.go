package importer

import (
	"fmt"
	"strings"

	"credvault/internal/model"
)

type MappingKind int

const (
	MapIgnore MappingKind = iota
	MapTags
	MapField
)

// Mapping binds one column to nothing, to the tag set or to a field of the primary type.
//
// For linked_service fields the cell is looked up on the linked type under
// LookupKey. An empty LookupKey means the same key as FieldKey.
type Mapping struct {
	Kind          MappingKind
	ServiceTypeID string
	FieldKey      string
	LookupKey     string
}

func Ignore() Mapping { return Mapping{Kind: MapIgnore} }
func Tags() Mapping   { return Mapping{Kind: MapTags} }

func Field(serviceTypeID, fieldKey string) Mapping {
	return Mapping{Kind: MapField, ServiceTypeID: serviceTypeID, FieldKey: fieldKey}
}

// LinkedField maps a linked_service field whose target is found by lookupKey.
func LinkedField(serviceTypeID, fieldKey, lookupKey string) Mapping {
	return Mapping{Kind: MapField, ServiceTypeID: serviceTypeID, FieldKey: fieldKey, LookupKey: lookupKey}
}

func (m Mapping) lookupKey() string {
	if m.LookupKey != "" {
		return m.LookupKey
	}
	return m.FieldKey
}

func (m Mapping) String() string {
	switch m.Kind {
	case MapTags:
		return "tags"
	case MapField:
		if m.LookupKey != "" {
			return fmt.Sprintf("field:%s:%s:%s", m.ServiceTypeID, m.FieldKey, m.LookupKey)
		}
		return fmt.Sprintf("field:%s:%s", m.ServiceTypeID, m.FieldKey)
	default:
		return "ignore"
	}
}

// ParseMapping reads "ignore", "tags", "field:<type>:<key>" or "field:<type>:<key>:<lookup key>".
func ParseMapping(s string) (Mapping, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "ignore":
		return Ignore(), nil
	case "tags":
		return Tags(), nil
	}

	parts := strings.Split(s, ":")
	if parts[0] != "field" || len(parts) < 3 || len(parts) > 4 {
		return Mapping{}, fmt.Errorf("%w: %q", ErrBadMapping, s)
	}
	for _, p := range parts[1:] {
		if p == "" {
			return Mapping{}, fmt.Errorf("%w: %q", ErrBadMapping, s)
		}
	}

	m := Field(parts[1], parts[2])
	if len(parts) == 4 {
		m.LookupKey = parts[3]
	}
	return m, nil
}

type LabelStrategy string

const (
	StrategyMap      LabelStrategy = "map"
	StrategyGenerate LabelStrategy = "generate"
)

// Config is everything chosen between parsing and previewing.
type Config struct {
	PrimaryTypeID string
	// Columns not present are ignored.
	Columns     map[int]Mapping
	Strategy    LabelStrategy
	LabelColumn int
	Pattern     string
	StartNumber int
}

// Validate checks the config against the vault and the parsed table.
func (c Config) Validate(vault *model.Vault, table Table) error {
	if strings.TrimSpace(c.PrimaryTypeID) == "" {
		return ErrNoPrimaryType
	}
	primary, ok := vault.ServiceType(c.PrimaryTypeID)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPrimary, c.PrimaryTypeID)
	}

	for col, m := range c.Columns {
		if col < 0 || col >= len(table.Header) {
			return fmt.Errorf("%w: %d", ErrColumnOutOfRange, col+1)
		}
		if m.Kind != MapField {
			continue
		}
		if m.ServiceTypeID != c.PrimaryTypeID {
			return fmt.Errorf("%w: column %d maps to %q", ErrForeignField, col+1, m.ServiceTypeID)
		}
		if _, ok := primary.Field(m.FieldKey); !ok {
			return fmt.Errorf("%w: %q on %q", ErrUnknownField, m.FieldKey, primary.ID)
		}
	}

	switch c.Strategy {
	case StrategyMap:
		if c.LabelColumn < 0 || c.LabelColumn >= len(table.Header) {
			return ErrLabelColumn
		}
	case StrategyGenerate:
		if strings.TrimSpace(c.Pattern) == "" {
			return ErrEmptyPattern
		}
		if strings.Contains(c.Pattern, model.NumberPlaceholder) {
			return fmt.Errorf("%w: %q", ErrPlaceholderPattern, c.Pattern)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, c.Strategy)
	}
	return nil
}
