package filtering

import (
	"github.com/stacklok/sobject-gateway/internal/config"
	"github.com/stacklok/sobject-gateway/internal/schema"
)

// Blacklist hides the configured classes and fields
type Blacklist struct {
	classes classSet
	fields  fieldSets
}

var _ Policy = (*Blacklist)(nil)

// NewBlacklist builds a blacklist from cfg. A nil cfg hides nothing.
func NewBlacklist(cfg *config.FilterConfig) *Blacklist {
	if cfg == nil {
		return &Blacklist{classes: classSet{}, fields: fieldSets{}}
	}
	return &Blacklist{
		classes: newClassSet(cfg.Classes),
		fields:  newFieldSets(cfg.Fields),
	}
}

// Kind returns KindBlacklist
func (*Blacklist) Kind() Kind {
	return KindBlacklist
}

// IsClassVisible is true unless the class is blacklisted
func (b *Blacklist) IsClassVisible(className string) bool {
	return !b.classes.has(className)
}

// IsFieldVisible is true unless the field is blacklisted for the class
func (b *Blacklist) IsFieldVisible(className, fieldName string) bool {
	return !b.fields[className].has(fieldName)
}

// FilterClassList drops blacklisted classes, preserving input order
func (b *Blacklist) FilterClassList(names []string) []string {
	filtered := make([]string, 0, len(names))
	for _, name := range names {
		if b.IsClassVisible(name) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

// FilterDescription moves blacklisted fields into RejectedFields.
// It never fails, even when every field is rejected.
func (b *Blacklist) FilterDescription(desc *schema.Description, className string) error {
	if desc == nil || desc.Fields == nil {
		return nil
	}

	kept := make([]schema.Field, 0, len(desc.Fields))
	rejected := make([]schema.Field, 0)
	for _, field := range desc.Fields {
		if b.IsFieldVisible(className, field.Name) {
			kept = append(kept, field)
		} else {
			rejected = append(rejected, field)
		}
	}

	desc.Fields = kept
	desc.RejectedFields = rejected
	return nil
}
