// Package bulk expands a templated request into accounts and linked services.
package bulk

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"credvault/internal/model"
)

const (
	MinCount = 1
	MaxCount = 100
)

var (
	ErrEmptyTemplate      = fmt.Errorf("%w: name template is required", model.ErrValidation)
	ErrMissingPlaceholder = fmt.Errorf("%w: name template must contain %s", model.ErrValidation, model.NumberPlaceholder)
	ErrCountOutOfRange    = fmt.Errorf("%w: count must be between %d and %d", model.ErrValidation, MinCount, MaxCount)
	ErrNoServiceConfigs   = fmt.Errorf("%w: at least one service config is required", model.ErrValidation)
	ErrIncompleteConfig   = fmt.Errorf("%w: service config needs a type and a name template", model.ErrValidation)
	ErrUnknownServiceType = fmt.Errorf("%w: service type not found", model.ErrReferential)
)

// Plan is the expansion of one request. Accounts[i].LinkedServices point into Services.
type Plan struct {
	Accounts   []model.Account
	Services   []model.Service
	Collisions []string
}

// Validate checks the request before anything is generated.
func Validate(req model.BulkCreateRequest) error {
	cfg := req.AccountConfig
	if strings.TrimSpace(cfg.NameTemplate) == "" {
		return ErrEmptyTemplate
	}
	if !strings.Contains(cfg.NameTemplate, model.NumberPlaceholder) {
		return ErrMissingPlaceholder
	}
	if cfg.Count < MinCount || cfg.Count > MaxCount {
		return fmt.Errorf("%w: got %d", ErrCountOutOfRange, cfg.Count)
	}

	if !req.LinkServices {
		return nil
	}
	if len(req.ServiceConfigs) == 0 {
		return ErrNoServiceConfigs
	}
	for i, sc := range req.ServiceConfigs {
		if strings.TrimSpace(sc.ServiceTypeID) == "" || strings.TrimSpace(sc.NameTemplate) == "" {
			return fmt.Errorf("%w: config #%d", ErrIncompleteConfig, i+1)
		}
	}
	return nil
}

// Render substitutes every placeholder in template with n.
func Render(template string, n int) string {
	return strings.ReplaceAll(template, model.NumberPlaceholder, strconv.Itoa(n))
}

// Generate expands req against the vault. The vault is only read: it resolves
// service types and detects label collisions. A config naming a missing type
// aborts the whole batch.
func Generate(vault *model.Vault, req model.BulkCreateRequest, newID func() string) (Plan, error) {
	if err := Validate(req); err != nil {
		return Plan{}, err
	}

	if req.LinkServices {
		for _, sc := range req.ServiceConfigs {
			if _, ok := vault.ServiceType(sc.ServiceTypeID); !ok {
				return Plan{}, fmt.Errorf("%w: %q", ErrUnknownServiceType, sc.ServiceTypeID)
			}
		}
	}

	cfg := req.AccountConfig
	plan := Plan{
		Accounts: make([]model.Account, 0, cfg.Count),
	}
	if req.LinkServices {
		plan.Services = make([]model.Service, 0, cfg.Count*len(req.ServiceConfigs))
	}

	seen := make(map[string]struct{}, len(vault.Accounts)+cfg.Count)
	for _, a := range vault.Accounts {
		seen[a.Label] = struct{}{}
	}

	for i := 0; i < cfg.Count; i++ {
		n := cfg.StartNumber + i

		acc := model.Account{
			ID:             newID(),
			Label:          Render(cfg.NameTemplate, n),
			Notes:          cfg.Notes,
			Tags:           append([]string{}, cfg.Tags...),
			LinkedServices: []string{},
		}
		if _, dup := seen[acc.Label]; dup {
			plan.Collisions = append(plan.Collisions, acc.Label)
		}
		seen[acc.Label] = struct{}{}

		if req.LinkServices {
			for _, sc := range req.ServiceConfigs {
				svc := model.Service{
					ID:            newID(),
					ServiceTypeID: sc.ServiceTypeID,
					Label:         Render(sc.NameTemplate, n),
					Data:          map[string]string{},
					Tags:          append([]string{}, sc.Tags...),
				}
				plan.Services = append(plan.Services, svc)
				acc.LinkedServices = append(acc.LinkedServices, svc.ID)
			}
		}

		plan.Accounts = append(plan.Accounts, acc)
	}

	return plan, nil
}

// Apply returns a copy of vault with the plan appended. vault is not modified.
func (p Plan) Apply(vault *model.Vault) *model.Vault {
	out := *vault
	out.Accounts = slices.Concat(vault.Accounts, p.Accounts)
	out.Services = slices.Concat(vault.Services, p.Services)
	return &out
}
