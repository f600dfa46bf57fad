package filtering

import (
	"encoding/json"

	"github.com/stacklok/sobject-gateway/internal/schema"
)

func describe(name string, fieldNames ...string) *schema.Description {
	fields := make([]schema.Field, 0, len(fieldNames))
	for _, f := range fieldNames {
		fields = append(fields, schema.Field{Name: f})
	}
	return &schema.Description{
		Name:       name,
		Fields:     fields,
		Attributes: map[string]json.RawMessage{"label": json.RawMessage(`"` + name + `"`)},
	}
}

func names(fields []schema.Field) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}
