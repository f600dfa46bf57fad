package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/sobject-gateway/internal/filtering"
	"github.com/stacklok/sobject-gateway/internal/otel"
	"github.com/stacklok/sobject-gateway/internal/query"
	"github.com/stacklok/sobject-gateway/internal/schema"
	"github.com/stacklok/sobject-gateway/internal/telemetry"
)

//go:generate mockgen -destination=mocks/mock_gateway.go -package=mocks -source=gateway.go Client,Service

// TracerName is the tracer name for gateway spans
const TracerName = "github.com/stacklok/sobject-gateway/gateway"

// ErrClassNotVisible is returned when the active policy hides the requested class
var ErrClassNotVisible = errors.New("sobject is not visible")

// Client talks to the remote SObject API
type Client interface {
	// ListSObjects returns the names of every SObject class
	ListSObjects(ctx context.Context) ([]string, error)
	// DescribeSObject returns the description of one class
	DescribeSObject(ctx context.Context, name string) (*schema.Description, error)
	// DescribeSObjects returns the descriptions of every class
	DescribeSObjects(ctx context.Context) ([]schema.NamedDescription, error)
	// Query executes a SOQL query and returns every record
	Query(ctx context.Context, soql string) ([]schema.Record, error)
}

// PolicySource provides the active filter policy
type PolicySource interface {
	Policy() filtering.Policy
}

// Service is the filtered view of the remote API
type Service interface {
	// ListSObjects returns the visible class names
	ListSObjects(ctx context.Context) ([]string, error)
	// DescribeSObject returns a description with hidden fields removed
	DescribeSObject(ctx context.Context, name string) (*schema.Description, error)
	// DescribeSObjects returns every description with hidden fields removed
	DescribeSObjects(ctx context.Context) ([]schema.NamedDescription, error)
	// Query executes a SOQL query unchanged
	Query(ctx context.Context, soql string) ([]schema.Record, error)
	// NewQuery returns a query service selecting the visible fields of a class
	NewQuery(ctx context.Context, className string) (*query.Service, error)
	// IsClassVisible reports whether the active policy exposes the class
	IsClassVisible(className string) bool
}

// MetadataGateway applies the active filter policy to a Client
type MetadataGateway struct {
	client  Client
	store   PolicySource
	tracer  trace.Tracer
	metrics *telemetry.GatewayMetrics
}

var _ Service = (*MetadataGateway)(nil)
var _ query.Executor = (*MetadataGateway)(nil)

// Option configures a MetadataGateway
type Option func(*MetadataGateway)

// WithTracer sets the tracer used for gateway spans
func WithTracer(tracer trace.Tracer) Option {
	return func(g *MetadataGateway) {
		g.tracer = tracer
	}
}

// WithMetrics sets the instruments recorded by the gateway
func WithMetrics(metrics *telemetry.GatewayMetrics) Option {
	return func(g *MetadataGateway) {
		g.metrics = metrics
	}
}

// New creates a MetadataGateway. A nil store applies no filtering.
func New(client Client, store PolicySource, opts ...Option) *MetadataGateway {
	if store == nil {
		store = filtering.NewStore()
	}

	g := &MetadataGateway{
		client: client,
		store:  store,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// policy returns the policy for one operation. Each operation reads it once so
// a concurrent reload never mixes two policies within a call.
func (g *MetadataGateway) policy() filtering.Policy {
	p := g.store.Policy()
	if p == nil {
		return filtering.NewBlacklist(nil)
	}
	return p
}

// observe is deferred with a pointer to the named error result
func (g *MetadataGateway) observe(ctx context.Context, operation string, start time.Time, err *error) {
	g.metrics.RecordOperation(ctx, operation, time.Since(start), *err == nil)
}

// IsClassVisible reports whether the active policy exposes the class
func (g *MetadataGateway) IsClassVisible(className string) bool {
	return g.policy().IsClassVisible(className)
}

// ListSObjects returns the class names the active policy allows to be listed
func (g *MetadataGateway) ListSObjects(ctx context.Context) (names []string, err error) {
	ctx, span := otel.StartSpan(ctx, g.tracer, "gateway.ListSObjects")
	defer span.End()
	defer g.observe(ctx, "list", time.Now(), &err)

	all, err := g.client.ListSObjects(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to list sobjects: %w", err)
	}

	policy := g.policy()
	names = policy.FilterClassList(all)

	g.metrics.RecordHiddenClasses(ctx, string(policy.Kind()), len(all)-len(names))
	span.SetAttributes(
		otel.AttrPolicyKind.String(string(policy.Kind())),
		otel.AttrResultCount.Int(len(names)),
	)
	slog.DebugContext(ctx, "Listed sobjects",
		"total", len(all),
		"visible", len(names),
		"policy", policy.Kind())

	return names, nil
}

// DescribeSObject returns the description of name with hidden fields removed
func (g *MetadataGateway) DescribeSObject(ctx context.Context, name string) (desc *schema.Description, err error) {
	ctx, span := otel.StartSpan(ctx, g.tracer, "gateway.DescribeSObject",
		trace.WithAttributes(otel.AttrSObjectName.String(name)))
	defer span.End()
	defer g.observe(ctx, "describe", time.Now(), &err)

	desc, err = g.client.DescribeSObject(ctx, name)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to describe sobject %s: %w", name, err)
	}

	if err := g.filterDescription(ctx, g.policy(), desc, name); err != nil {
		otel.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		otel.AttrFieldCount.Int(len(desc.Fields)),
		otel.AttrRejectedCount.Int(len(desc.RejectedFields)),
	)
	return desc, nil
}

// DescribeSObjects returns every description with hidden fields removed.
// Each entry is filtered under its own name; the first failure aborts.
func (g *MetadataGateway) DescribeSObjects(ctx context.Context) (descs []schema.NamedDescription, err error) {
	ctx, span := otel.StartSpan(ctx, g.tracer, "gateway.DescribeSObjects")
	defer span.End()
	defer g.observe(ctx, "describe_all", time.Now(), &err)

	descs, err = g.client.DescribeSObjects(ctx)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to describe sobjects: %w", err)
	}

	policy := g.policy()
	for _, entry := range descs {
		if err := g.filterDescription(ctx, policy, entry.Description, entry.Name); err != nil {
			otel.RecordError(span, err)
			return nil, err
		}
	}

	span.SetAttributes(otel.AttrResultCount.Int(len(descs)))
	return descs, nil
}

func (g *MetadataGateway) filterDescription(
	ctx context.Context,
	policy filtering.Policy,
	desc *schema.Description,
	name string,
) error {
	if desc == nil {
		return nil
	}

	before := len(desc.Fields)
	if err := policy.FilterDescription(desc, name); err != nil {
		slog.WarnContext(ctx, "Filter policy removed every field",
			"sobject", name,
			"policy", policy.Kind())
		return fmt.Errorf("failed to filter description of %s: %w", name, err)
	}

	g.metrics.RecordHiddenFields(ctx, string(policy.Kind()), name, before-len(desc.Fields))
	return nil
}

// Query executes soql through the client unchanged
func (g *MetadataGateway) Query(ctx context.Context, soql string) (records []schema.Record, err error) {
	ctx, span := otel.StartSpan(ctx, g.tracer, "gateway.Query",
		trace.WithAttributes(otel.AttrQueryLength.Int(len(soql))))
	defer span.End()
	defer g.observe(ctx, "query", time.Now(), &err)

	records, err = g.client.Query(ctx, soql)
	if err != nil {
		otel.RecordError(span, err)
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	span.SetAttributes(otel.AttrResultCount.Int(len(records)))
	return records, nil
}

// NewQuery describes className through the active policy and returns a query
// service selecting only the retained fields. Hidden classes are rejected
// with ErrClassNotVisible.
func (g *MetadataGateway) NewQuery(ctx context.Context, className string) (*query.Service, error) {
	if !g.IsClassVisible(className) {
		return nil, fmt.Errorf("%w: %s", ErrClassNotVisible, className)
	}

	desc, err := g.DescribeSObject(ctx, className)
	if err != nil {
		return nil, err
	}

	return query.NewService(g, className, desc.FieldList()), nil
}
