// Package filtering restricts which SObject classes and fields the gateway
// exposes to its callers.
//
// Two policy kinds are supported:
//
//   - Blacklist: hides the listed classes and the listed fields of each class.
//     Rejected fields are kept aside on the description so callers can tell
//     what was removed.
//   - Whitelist: exposes only the listed classes and, per class, only the
//     listed fields. A class without a field list keeps all of its fields.
//
// When both are configured they are combined in a Chain that applies the
// blacklist first and the whitelist second.
//
// # Filtering Logic
//
// Field and class visibility follow these rules:
//
//  1. Blacklisted classes are removed from class listings
//  2. Blacklisted fields are moved to RejectedFields
//  3. A non-empty whitelist class list replaces the class listing entirely
//  4. Whitelisted fields are retained; all others are dropped
//  5. A whitelisted description left with no fields is an error
//
// # Active Policy
//
// Store holds the active policy and is safe for concurrent use. Policies are
// immutable once built, so a reload swaps the whole value:
//
//	store := filtering.NewStore()
//	store.SetConfiguration(cfg.Filter)
//
//	names := store.Policy().FilterClassList(names)
package filtering
