package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidQuery is returned by Build when a required component is missing
var ErrInvalidQuery = errors.New("invalid query")

// Component identifies one of the parts of a SOQL statement
type Component string

const (
	// ComponentSelect is the SELECT field list
	ComponentSelect Component = "select"
	// ComponentFrom is the SObject name
	ComponentFrom Component = "from"
	// ComponentWhere is the WHERE condition
	ComponentWhere Component = "where"
	// ComponentOrderBy is the ORDER BY expression
	ComponentOrderBy Component = "orderBy"
	// ComponentLimit is the LIMIT value
	ComponentLimit Component = "limit"
)

// AllComponents lists every component in render order
var AllComponents = []Component{
	ComponentSelect,
	ComponentFrom,
	ComponentWhere,
	ComponentOrderBy,
	ComponentLimit,
}

// Builder builds a SOQL statement.
//
// A Builder is configured through chainable methods and rendered with Build.
// It is not safe for concurrent use.
type Builder struct {
	attrs map[Component]string
}

// New returns an empty Builder
func New() *Builder {
	return &Builder{attrs: make(map[Component]string, len(AllComponents))}
}

// NewBuilder returns a Builder preloaded with the SELECT and FROM components.
// Empty arguments leave the corresponding component unset.
func NewBuilder(selects, from string) *Builder {
	b := New()
	if selects != "" {
		b.Select(selects)
	}
	if from != "" {
		b.From(from)
	}
	return b
}

// Select sets the SELECT field list, e.g. "Id, Name"
func (b *Builder) Select(fields string) *Builder {
	return b.set(ComponentSelect, fields)
}

// From sets the SObject to query
func (b *Builder) From(sobject string) *Builder {
	return b.set(ComponentFrom, sobject)
}

// Where sets the WHERE condition
func (b *Builder) Where(condition string) *Builder {
	return b.set(ComponentWhere, condition)
}

// OrderBy sets the ORDER BY expression, e.g. "Name asc"
func (b *Builder) OrderBy(expr string) *Builder {
	return b.set(ComponentOrderBy, expr)
}

// Limit sets the LIMIT value
func (b *Builder) Limit(limit int) *Builder {
	return b.set(ComponentLimit, strconv.Itoa(limit))
}

// LimitString sets the LIMIT value from text, as received from a query string
func (b *Builder) LimitString(limit string) *Builder {
	return b.set(ComponentLimit, limit)
}

// Set stores value under the given component
func (b *Builder) Set(c Component, value string) *Builder {
	return b.set(c, value)
}

func (b *Builder) set(c Component, value string) *Builder {
	if b.attrs == nil {
		b.attrs = make(map[Component]string, len(AllComponents))
	}
	b.attrs[c] = value
	return b
}

// Get returns the value of a component and whether it has been set
func (b *Builder) Get(c Component) (string, bool) {
	v, ok := b.attrs[c]
	return v, ok
}

// Components returns a copy of the components set so far
func (b *Builder) Components() map[Component]string {
	out := make(map[Component]string, len(b.attrs))
	for k, v := range b.attrs {
		out[k] = v
	}
	return out
}

// Build renders the SOQL statement.
//
// Build returns ErrInvalidQuery when SELECT or FROM has not been set. It has
// no side effects, so calling it repeatedly without changing the builder
// yields the same string. Components are not escaped.
func (b *Builder) Build() (string, error) {
	if err := b.verify(); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(b.attrs[ComponentSelect])
	sb.WriteString(" FROM ")
	sb.WriteString(b.attrs[ComponentFrom])

	if where, ok := b.attrs[ComponentWhere]; ok {
		sb.WriteString(" WHERE ")
		sb.WriteString(where)
	}
	if orderBy, ok := b.attrs[ComponentOrderBy]; ok {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(orderBy)
	}
	if limit, ok := b.attrs[ComponentLimit]; ok {
		sb.WriteString(" LIMIT ")
		sb.WriteString(limit)
	}

	return sb.String(), nil
}

// verify ensures the required components are present
func (b *Builder) verify() error {
	if _, ok := b.attrs[ComponentSelect]; !ok {
		return fmt.Errorf("%w: no SELECT value was found", ErrInvalidQuery)
	}
	if _, ok := b.attrs[ComponentFrom]; !ok {
		return fmt.Errorf("%w: no FROM value was found", ErrInvalidQuery)
	}
	return nil
}
