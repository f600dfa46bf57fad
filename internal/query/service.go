package query

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/stacklok/sobject-gateway/internal/schema"
)

//go:generate mockgen -destination=mocks/mock_executor.go -package=mocks -source=service.go Executor

// Executor runs a rendered SOQL statement and returns the matching records
type Executor interface {
	Query(ctx context.Context, soql string) ([]schema.Record, error)
}

// Service is a Builder bound to a single SObject. Results are fetched lazily:
// each call to All, Each or Last renders the current statement and sends it
// to the Executor.
type Service struct {
	builder     *Builder
	executor    Executor
	sobjectName string
	fields      []string
}

// NewService creates a Service that selects fieldList from sobjectName
func NewService(executor Executor, sobjectName, fieldList string) *Service {
	return &Service{
		builder:     NewBuilder(fieldList, sobjectName),
		executor:    executor,
		sobjectName: sobjectName,
		fields:      splitFieldList(fieldList),
	}
}

func splitFieldList(fieldList string) []string {
	var fields []string
	for _, f := range strings.Split(fieldList, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// SObjectName returns the name of the SObject the service queries
func (s *Service) SObjectName() string {
	return s.sobjectName
}

// VisibleFields returns the fields the service was created with. Select does
// not change them.
func (s *Service) VisibleFields() []string {
	return append([]string(nil), s.fields...)
}

// Builder exposes the underlying builder
func (s *Service) Builder() *Builder {
	return s.builder
}

// Select overrides the field list
func (s *Service) Select(fields string) *Service {
	s.builder.Select(fields)
	return s
}

// Where sets the WHERE condition
func (s *Service) Where(condition string) *Service {
	s.builder.Where(condition)
	return s
}

// OrderBy sets the ORDER BY expression
func (s *Service) OrderBy(expr string) *Service {
	s.builder.OrderBy(expr)
	return s
}

// Limit sets the LIMIT value
func (s *Service) Limit(limit int) *Service {
	s.builder.Limit(limit)
	return s
}

// LimitString sets the LIMIT value from text
func (s *Service) LimitString(limit string) *Service {
	s.builder.LimitString(limit)
	return s
}

// Build renders the current statement
func (s *Service) Build() (string, error) {
	return s.builder.Build()
}

// All sends the query and returns every record
func (s *Service) All(ctx context.Context) ([]schema.Record, error) {
	soql, err := s.builder.Build()
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "Sending SOQL query", "sobject", s.sobjectName, "soql", soql)

	records, err := s.executor.Query(ctx, soql)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", s.sobjectName, err)
	}
	return records, nil
}

// Each sends the query and calls fn for every record, stopping at the first error
func (s *Service) Each(ctx context.Context, fn func(schema.Record) error) error {
	records, err := s.All(ctx)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

// Last sends the query and returns the final record, or nil when there are none
func (s *Service) Last(ctx context.Context) (schema.Record, error) {
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[len(records)-1], nil
}

// PrintSOQL writes "<sobject>: <statement>" to w for inline debugging.
// Nothing is written when the statement cannot be built; the ErrInvalidQuery
// from Build is returned instead.
func (s *Service) PrintSOQL(w io.Writer) error {
	soql, err := s.builder.Build()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s: %s\n", s.sobjectName, soql)
	return err
}
