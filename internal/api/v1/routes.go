// Package v1 provides the REST API handlers for filtered SObject metadata.
package v1

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/stacklok/sobject-gateway/internal/api/common"
	"github.com/stacklok/sobject-gateway/internal/filtering"
	"github.com/stacklok/sobject-gateway/internal/gateway"
	"github.com/stacklok/sobject-gateway/internal/query"
	"github.com/stacklok/sobject-gateway/internal/schema"
	"github.com/stacklok/sobject-gateway/internal/versions"
)

// ListResponse is the reply to a class listing
type ListResponse struct {
	SObjects []string `json:"sobjects"`
	Count    int      `json:"count"`
}

// DescribeAllResponse is the reply to describing every class
type DescribeAllResponse struct {
	SObjects []schema.NamedDescription `json:"sobjects"`
	Count    int                       `json:"count"`
}

// SOQLResponse is the reply to rendering a query
type SOQLResponse struct {
	SOQL string `json:"soql"`
}

// RecordsResponse is the reply to a record query
type RecordsResponse struct {
	SObject string          `json:"sobject"`
	SOQL    string          `json:"soql"`
	Records []schema.Record `json:"records"`
	Count   int             `json:"count"`
}

// Routes handles HTTP requests for the v1 endpoints
type Routes struct {
	service gateway.Service
}

// NewRoutes creates a new Routes instance with the given service
func NewRoutes(svc gateway.Service) *Routes {
	return &Routes{service: svc}
}

// Router creates the router for the v1 endpoints
func Router(svc gateway.Service) http.Handler {
	routes := NewRoutes(svc)

	r := chi.NewRouter()
	r.Get("/sobjects", routes.listSObjects)
	r.Get("/sobjects/{name}", routes.describeSObject)
	r.Get("/sobjects/{name}/records", routes.queryRecords)
	r.Get("/describe", routes.describeSObjects)
	r.Get("/soql", routes.renderSOQL)

	return r
}

// ReadinessCheck reports whether the gateway can serve traffic
type ReadinessCheck func(ctx context.Context) error

// HealthRouter creates the router for health, readiness and version endpoints.
// A nil check makes the readiness endpoint always succeed.
func HealthRouter(ready ReadinessCheck) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", healthHandler)
	r.Get("/readiness", readinessHandler(ready))
	r.Get("/version", versionHandler)
	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, map[string]string{"status": "healthy"}, http.StatusOK)
}

func readinessHandler(ready ReadinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(r.Context()); err != nil {
				common.WriteErrorResponse(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		common.WriteJSONResponse(w, map[string]string{"status": "ready"}, http.StatusOK)
	}
}

func versionHandler(w http.ResponseWriter, _ *http.Request) {
	common.WriteJSONResponse(w, versions.GetVersionInfo(), http.StatusOK)
}

// listSObjects returns the visible class names, optionally narrowed by ?match= globs
func (routes *Routes) listSObjects(w http.ResponseWriter, r *http.Request) {
	matcher, err := filtering.NewNameMatcher(r.URL.Query()["match"]...)
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	names, err := routes.service.ListSObjects(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}

	names = matcher.Filter(names)
	common.WriteJSONResponse(w, ListResponse{SObjects: names, Count: len(names)}, http.StatusOK)
}

func (routes *Routes) describeSObject(w http.ResponseWriter, r *http.Request) {
	name, err := common.GetSObjectName(r, "name")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	if !routes.service.IsClassVisible(name) {
		common.WriteErrorResponse(w, "sobject "+name+" not found", http.StatusNotFound)
		return
	}

	desc, err := routes.service.DescribeSObject(r.Context(), name)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSONResponse(w, desc, http.StatusOK)
}

func (routes *Routes) describeSObjects(w http.ResponseWriter, r *http.Request) {
	all, err := routes.service.DescribeSObjects(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}

	// Hidden classes are left out, as they are from the listing
	descs := make([]schema.NamedDescription, 0, len(all))
	for _, entry := range all {
		if routes.service.IsClassVisible(entry.Name) {
			descs = append(descs, entry)
		}
	}

	common.WriteJSONResponse(w, DescribeAllResponse{SObjects: descs, Count: len(descs)}, http.StatusOK)
}

// renderSOQL builds a query from the select, from, where, orderBy and limit
// parameters without executing it
func (routes *Routes) renderSOQL(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	builder := query.New()

	for param, component := range map[string]query.Component{
		"select":  query.ComponentSelect,
		"from":    query.ComponentFrom,
		"where":   query.ComponentWhere,
		"orderBy": query.ComponentOrderBy,
		"limit":   query.ComponentLimit,
	} {
		if params.Has(param) {
			builder.Set(component, params.Get(param))
		}
	}

	soql, err := builder.Build()
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSONResponse(w, SOQLResponse{SOQL: soql}, http.StatusOK)
}

// applyRecordParams sets the where, orderBy and limit parameters on svc.
// The parameters come from the caller, so each is checked to reference only
// the visible fields before it reaches the builder.
func applyRecordParams(svc *query.Service, params url.Values) error {
	fields := svc.VisibleFields()

	if params.Has("where") {
		where := params.Get("where")
		if err := query.CheckCondition(where, fields); err != nil {
			return err
		}
		svc.Where(where)
	}
	if params.Has("orderBy") {
		orderBy := params.Get("orderBy")
		if err := query.CheckOrderBy(orderBy, fields); err != nil {
			return err
		}
		svc.OrderBy(orderBy)
	}
	if params.Has("limit") {
		limit, err := query.ParseLimit(params.Get("limit"))
		if err != nil {
			return err
		}
		svc.Limit(limit)
	}
	return nil
}

// queryRecords runs a query over the visible fields of a class
func (routes *Routes) queryRecords(w http.ResponseWriter, r *http.Request) {
	name, err := common.GetSObjectName(r, "name")
	if err != nil {
		common.WriteErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	svc, err := routes.service.NewQuery(r.Context(), name)
	if err != nil {
		common.WriteError(w, err)
		return
	}

	if err := applyRecordParams(svc, r.URL.Query()); err != nil {
		common.WriteError(w, err)
		return
	}

	soql, err := svc.Build()
	if err != nil {
		common.WriteError(w, err)
		return
	}

	records, err := svc.All(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}

	common.WriteJSONResponse(w, RecordsResponse{
		SObject: name,
		SOQL:    soql,
		Records: records,
		Count:   len(records),
	}, http.StatusOK)
}
