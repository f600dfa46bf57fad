package filtering

import (
	"github.com/stacklok/sobject-gateway/internal/config"
	"github.com/stacklok/sobject-gateway/internal/schema"
)

//go:generate mockgen -destination=mocks/mock_policy.go -package=mocks -source=policy.go Policy

// Kind identifies the filtering strategy of a Policy
type Kind string

const (
	// KindBlacklist hides listed classes and fields
	KindBlacklist Kind = "blacklist"
	// KindWhitelist exposes only listed classes and fields
	KindWhitelist Kind = "whitelist"
	// KindChain applies a blacklist followed by a whitelist
	KindChain Kind = "chain"
)

// Policy decides which classes and fields are visible
type Policy interface {
	// Kind returns the filtering strategy
	Kind() Kind

	// IsClassVisible reports whether the class may be exposed
	IsClassVisible(className string) bool

	// IsFieldVisible reports whether a field of the class may be exposed
	IsFieldVisible(className, fieldName string) bool

	// FilterClassList returns the class names that may be listed
	FilterClassList(names []string) []string

	// FilterDescription removes hidden fields from desc in place
	FilterDescription(desc *schema.Description, className string) error
}

// NewPolicy builds the policy described by the filter section.
// A nil or empty section yields a blacklist that hides nothing.
func NewPolicy(section *config.FilterSection) Policy {
	if section.IsEmpty() {
		return NewBlacklist(nil)
	}

	switch {
	case section.Blacklist != nil && section.Whitelist != nil:
		return NewChain(NewBlacklist(section.Blacklist), NewWhitelist(section.Whitelist))
	case section.Whitelist != nil:
		return NewWhitelist(section.Whitelist)
	default:
		return NewBlacklist(section.Blacklist)
	}
}

// classSet indexes class names
type classSet map[string]struct{}

func newClassSet(names []string) classSet {
	set := make(classSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

func (s classSet) has(name string) bool {
	_, ok := s[name]
	return ok
}

// fieldSets indexes field names per class
type fieldSets map[string]classSet

func newFieldSets(fields map[string][]string) fieldSets {
	sets := make(fieldSets, len(fields))
	for className, names := range fields {
		sets[className] = newClassSet(names)
	}
	return sets
}
