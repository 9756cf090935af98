package importer

import (
	"fmt"
	"strconv"
	"strings"

	"credvault/internal/model"
)

type SkipReason string

const (
	SkipEmptyLabel     SkipReason = "empty_label"
	SkipUnresolvedLink SkipReason = "unresolved_link"
	SkipDuplicate      SkipReason = "duplicate"
)

// Skip records why an input row was not imported. Row is 1-based.
type Skip struct {
	Row    int
	Reason SkipReason
	Detail string
}

// Result is the proposed batch. Accepted+Skipped equals the number of input rows.
type Result struct {
	Services []model.Service
	Accepted int
	Skipped  int
	Skips    []Skip
}

func (r *Result) skip(row int, reason SkipReason, format string, args ...any) {
	r.Skipped++
	r.Skips = append(r.Skips, Skip{Row: row + 1, Reason: reason, Detail: fmt.Sprintf(format, args...)})
}

type pendingLink struct {
	fieldKey     string
	lookupKey    string
	targetTypeID string
	value        string
}

// Reconcile builds new services of the primary type from the table.
// It only reads the vault. The same input and id sequence always give the same result.
func Reconcile(vault *model.Vault, table Table, cfg Config, newID func() string) (Result, error) {
	if err := cfg.Validate(vault, table); err != nil {
		return Result{}, err
	}
	primary, _ := vault.ServiceType(cfg.PrimaryTypeID)

	nextNumber := cfg.StartNumber
	if cfg.Strategy == StrategyGenerate {
		nextNumber = firstFreeNumber(vault.Services, cfg.Pattern, cfg.StartNumber)
	}

	var res Result
	taken := make(map[string]struct{})
	for _, svc := range vault.Services {
		if svc.ServiceTypeID == primary.ID {
			taken[svc.Label] = struct{}{}
		}
	}

	for i, row := range table.Rows {
		var label string
		if cfg.Strategy == StrategyMap {
			label = table.Cell(i, cfg.LabelColumn)
			if label == "" {
				res.skip(i, SkipEmptyLabel, "column %d is empty", cfg.LabelColumn+1)
				continue
			}
		} else {
			label = cfg.Pattern + strconv.Itoa(nextNumber+res.Accepted)
		}

		data := make(map[string]string)
		tags := []string{}
		var links []pendingLink

		for col, cell := range row {
			if cfg.Strategy == StrategyMap && col == cfg.LabelColumn {
				continue
			}
			m, ok := cfg.Columns[col]
			if !ok || m.Kind == MapIgnore || cell == "" {
				continue
			}

			switch m.Kind {
			case MapTags:
				tags = model.UnionIDs(tags, splitTags(cell)...)
			case MapField:
				f, _ := primary.Field(m.FieldKey)
				if f.Type == model.FieldLinkedService {
					links = append(links, pendingLink{
						fieldKey:     f.Key,
						lookupKey:    m.lookupKey(),
						targetTypeID: f.LinkedServiceTypeID,
						value:        cell,
					})
					continue
				}
				data[f.Key] = cell
			}
		}

		if reason := resolveLinks(vault, links, data); reason != "" {
			res.skip(i, SkipUnresolvedLink, "%s", reason)
			continue
		}

		if _, dup := taken[label]; dup {
			res.skip(i, SkipDuplicate, "%q already exists", label)
			continue
		}
		taken[label] = struct{}{}

		res.Services = append(res.Services, model.Service{
			ID:            newID(),
			ServiceTypeID: primary.ID,
			Label:         label,
			Data:          data,
			Tags:          tags,
		})
		res.Accepted++
	}

	return res, nil
}

// resolveLinks writes the id of every resolved target into data.
// It returns a non-empty reason for the first link that does not resolve.
func resolveLinks(vault *model.Vault, links []pendingLink, data map[string]string) string {
	for _, l := range links {
		target, ok := vault.ServiceType(l.targetTypeID)
		if !ok {
			return fmt.Sprintf("linked type %q not found", l.targetTypeID)
		}
		if _, ok := target.Field(l.lookupKey); !ok {
			return fmt.Sprintf("%q has no field %q", target.ID, l.lookupKey)
		}

		found := ""
		for _, svc := range vault.Services {
			if svc.ServiceTypeID == target.ID && svc.Data[l.lookupKey] == l.value {
				found = svc.ID
				break
			}
		}
		if found == "" {
			return fmt.Sprintf("no %q with %s=%q", target.ID, l.lookupKey, l.value)
		}
		data[l.fieldKey] = found
	}
	return ""
}

// firstFreeNumber returns one past the largest integer suffix among labels
// starting with pattern, or start when there is none.
func firstFreeNumber(services []model.Service, pattern string, start int) int {
	best, found := 0, false
	for _, svc := range services {
		suffix, ok := strings.CutPrefix(svc.Label, pattern)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if !found || n > best {
			best, found = n, true
		}
	}
	if !found {
		return start
	}
	return best + 1
}

func splitTags(cell string) []string {
	var out []string
	for _, t := range strings.Split(cell, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
