package filtering

import (
	"github.com/stacklok/sobject-gateway/internal/schema"
)

// Chain applies a blacklist followed by a whitelist
type Chain struct {
	blacklist *Blacklist
	whitelist *Whitelist
}

var _ Policy = (*Chain)(nil)

// NewChain combines both policies. Nil arguments restrict nothing.
func NewChain(blacklist *Blacklist, whitelist *Whitelist) *Chain {
	if blacklist == nil {
		blacklist = NewBlacklist(nil)
	}
	if whitelist == nil {
		whitelist = NewWhitelist(nil)
	}
	return &Chain{blacklist: blacklist, whitelist: whitelist}
}

// Kind returns KindChain
func (*Chain) Kind() Kind {
	return KindChain
}

// IsClassVisible requires both policies to expose the class
func (c *Chain) IsClassVisible(className string) bool {
	return c.blacklist.IsClassVisible(className) && c.whitelist.IsClassVisible(className)
}

// IsFieldVisible requires both policies to expose the field
func (c *Chain) IsFieldVisible(className, fieldName string) bool {
	return c.blacklist.IsFieldVisible(className, fieldName) && c.whitelist.IsFieldVisible(className, fieldName)
}

// FilterClassList runs the blacklist and then the whitelist
func (c *Chain) FilterClassList(names []string) []string {
	return c.whitelist.FilterClassList(c.blacklist.FilterClassList(names))
}

// FilterDescription runs the blacklist and then the whitelist
func (c *Chain) FilterDescription(desc *schema.Description, className string) error {
	if err := c.blacklist.FilterDescription(desc, className); err != nil {
		return err
	}
	return c.whitelist.FilterDescription(desc, className)
}
