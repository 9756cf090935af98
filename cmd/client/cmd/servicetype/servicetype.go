package servicetype

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"credvault/internal/model"
)

// TypeCmd is the parent of the service type commands.
var TypeCmd = &cobra.Command{
	Use:     "type",
	Aliases: []string{"types"},
	Short:   "Manage service types",
	Long:    `Service types describe the fields a service stores, e.g. an email address and its password.`,
}

// ParseField reads "Label[,type][,required][,masked][,link=<type id>]".
func ParseField(spec string) (model.ServiceField, error) {
	parts := strings.Split(spec, ",")
	f := model.ServiceField{Label: strings.TrimSpace(parts[0]), Type: model.FieldText}
	if f.Label == "" {
		return model.ServiceField{}, fmt.Errorf("field %q: label is empty", spec)
	}

	for i, p := range parts[1:] {
		p = strings.TrimSpace(p)
		switch {
		case p == "required":
			f.Required = true
		case p == "masked":
			f.Masked = true
		case strings.HasPrefix(p, "link="):
			f.Type = model.FieldLinkedService
			f.LinkedServiceTypeID = strings.TrimPrefix(p, "link=")
		case i == 0 && model.FieldType(p).Valid():
			f.Type = model.FieldType(p)
		default:
			return model.ServiceField{}, fmt.Errorf("field %q: unknown option %q", spec, p)
		}
	}
	if f.Type == model.FieldSecret {
		f.Masked = true
	}
	return f, nil
}
