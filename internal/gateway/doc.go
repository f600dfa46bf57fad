// Package gateway exposes SObject metadata through the active filter policy.
//
// MetadataGateway wraps a Client that talks to the remote API and applies
// the policy held by a PolicySource to every listing and description it
// returns. Queries are passed through unchanged; NewQuery builds a query
// whose SELECT list only names fields the policy retains.
package gateway
