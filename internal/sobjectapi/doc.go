// Package sobjectapi implements the gateway Client over the SObject REST API.
//
// Requests carry a bearer token and a generated request id. Transport errors,
// 5xx responses and 429 responses are retried with exponential backoff;
// other failures are returned as *HTTPError. The API version is discovered
// from /services/data on first use unless one is configured.
package sobjectapi
