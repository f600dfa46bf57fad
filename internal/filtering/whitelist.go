package filtering

import (
	"log/slog"

	"github.com/stacklok/sobject-gateway/internal/config"
	"github.com/stacklok/sobject-gateway/internal/schema"
)

// Whitelist exposes only the configured classes and fields
type Whitelist struct {
	classList []string
	classes   classSet
	fields    fieldSets
}

var _ Policy = (*Whitelist)(nil)

// NewWhitelist builds a whitelist from cfg. A nil cfg restricts nothing.
// Malformed configs are logged as warnings and never rejected.
func NewWhitelist(cfg *config.FilterConfig) *Whitelist {
	if cfg == nil {
		return &Whitelist{classes: classSet{}, fields: fieldSets{}}
	}

	for _, advisory := range cfg.Advisories() {
		slog.Warn("Whitelist configuration advisory", "advisory", advisory)
	}

	return &Whitelist{
		classList: append([]string(nil), cfg.Classes...),
		classes:   newClassSet(cfg.Classes),
		fields:    newFieldSets(cfg.Fields),
	}
}

// Kind returns KindWhitelist
func (*Whitelist) Kind() Kind {
	return KindWhitelist
}

// IsClassVisible is true when no classes are whitelisted or the class is one of them
func (w *Whitelist) IsClassVisible(className string) bool {
	return len(w.classes) == 0 || w.classes.has(className)
}

// IsFieldVisible is true when the class has no field list or the field is on it
func (w *Whitelist) IsFieldVisible(className, fieldName string) bool {
	allowed := w.fields[className]
	return len(allowed) == 0 || allowed.has(fieldName)
}

// FilterClassList returns the whitelisted classes in configured order when any
// are configured. The input is not consulted in that case. With no classes
// configured the input is returned unchanged.
func (w *Whitelist) FilterClassList(names []string) []string {
	if len(w.classList) == 0 {
		return names
	}
	return append([]string(nil), w.classList...)
}

// FilterDescription keeps only whitelisted fields. It returns a
// *NoFieldsRemainingError when nothing is left.
func (w *Whitelist) FilterDescription(desc *schema.Description, className string) error {
	if desc == nil || desc.Fields == nil {
		return nil
	}

	kept := make([]schema.Field, 0, len(desc.Fields))
	for _, field := range desc.Fields {
		if w.IsFieldVisible(className, field.Name) {
			kept = append(kept, field)
		}
	}

	desc.Fields = kept
	if len(kept) == 0 {
		return &NoFieldsRemainingError{ClassName: className}
	}
	return nil
}
