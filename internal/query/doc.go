// Package query builds SOQL statements with a fluent API and runs them
// against an SObject through an Executor.
//
// A Builder holds five text components which are combined on Build:
//
//	SELECT <select> FROM <from>[ WHERE <where>][ ORDER BY <orderBy>][ LIMIT <limit>]
//
// SELECT and FROM are required; the optional clauses are emitted in the fixed
// order WHERE, ORDER BY, LIMIT. Each setter overwrites the previous value and
// returns the same Builder, so calls can be chained:
//
//	soql, err := query.New().
//		Select("Id, Name").
//		From("Account").
//		Where("AnnualRevenue > 5.0").
//		OrderBy("Name asc").
//		Limit(10).
//		Build()
//
// # Trust boundary
//
// The builder performs no escaping or quoting of any kind. Components are
// concatenated verbatim, so callers must never pass untrusted input as a
// component; doing so allows arbitrary SOQL to be injected. Input that does
// cross that boundary must first pass CheckCondition, CheckOrderBy or
// ParseLimit, which accept only references to a given set of fields.
//
// A Service binds a Builder to one SObject, preloading SELECT with the
// object's visible field list and FROM with its name, and executes the
// rendered statement lazily every time results are requested.
package query
