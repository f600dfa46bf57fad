package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"

	"github.com/stacklok/sobject-gateway/internal/config"
	"github.com/stacklok/sobject-gateway/internal/filtering"
	filteringmocks "github.com/stacklok/sobject-gateway/internal/filtering/mocks"
	"github.com/stacklok/sobject-gateway/internal/gateway/mocks"
	"github.com/stacklok/sobject-gateway/internal/query"
	"github.com/stacklok/sobject-gateway/internal/schema"
	"github.com/stacklok/sobject-gateway/internal/telemetry"
)

func describe(name string, fieldNames ...string) *schema.Description {
	fields := make([]schema.Field, 0, len(fieldNames))
	for _, f := range fieldNames {
		fields = append(fields, schema.Field{Name: f})
	}
	return &schema.Description{
		Name:       name,
		Fields:     fields,
		Attributes: map[string]json.RawMessage{"custom": json.RawMessage(`false`)},
	}
}

func fieldNames(desc *schema.Description) []string {
	return desc.FieldNames()
}

func newStore(section *config.FilterSection) *filtering.Store {
	store := filtering.NewStore()
	store.SetConfiguration(section)
	return store
}

func TestMetadataGateway_ListSObjects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		section  *config.FilterSection
		expected []string
	}{
		{
			name:     "no policy",
			section:  nil,
			expected: []string{"a", "b", "c", "d"},
		},
		{
			name:     "blacklist removes classes",
			section:  &config.FilterSection{Blacklist: &config.FilterConfig{Classes: []string{"a", "c"}}},
			expected: []string{"b", "d"},
		},
		{
			name:     "whitelist substitutes classes",
			section:  &config.FilterSection{Whitelist: &config.FilterConfig{Classes: []string{"a", "c"}}},
			expected: []string{"a", "c"},
		},
		{
			name:     "whitelist without classes keeps input",
			section:  &config.FilterSection{Whitelist: &config.FilterConfig{Fields: map[string][]string{"a": {"Id"}}}},
			expected: []string{"a", "b", "c", "d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			t.Cleanup(ctrl.Finish)

			client := mocks.NewMockClient(ctrl)
			client.EXPECT().ListSObjects(gomock.Any()).Return([]string{"a", "b", "c", "d"}, nil)

			gw := New(client, newStore(tt.section))
			got, err := gw.ListSObjects(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMetadataGateway_ListSObjectsClientError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	clientErr := errors.New("connection refused")
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().ListSObjects(gomock.Any()).Return(nil, clientErr)

	_, err := New(client, nil).ListSObjects(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, clientErr)
	assert.Contains(t, err.Error(), "failed to list sobjects")
}

func TestMetadataGateway_DescribeSObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		section      *config.FilterSection
		fields       []string
		wantFields   []string
		wantRejected []string
		wantErr      error
	}{
		{
			name:       "no policy",
			fields:     []string{"one", "two", "three"},
			wantFields: []string{"one", "two", "three"},
		},
		{
			name: "blacklist partitions fields",
			section: &config.FilterSection{Blacklist: &config.FilterConfig{
				Fields: map[string][]string{"Opportunity": {"two"}},
			}},
			fields:       []string{"one", "two", "three"},
			wantFields:   []string{"one", "three"},
			wantRejected: []string{"two"},
		},
		{
			name: "whitelist empty field list keeps everything",
			section: &config.FilterSection{Whitelist: &config.FilterConfig{
				Fields: map[string][]string{"Opportunity": {}},
			}},
			fields:     []string{"one", "two"},
			wantFields: []string{"one", "two"},
		},
		{
			name: "whitelist keeps listed fields",
			section: &config.FilterSection{Whitelist: &config.FilterConfig{
				Fields: map[string][]string{"Opportunity": {"three", "one"}},
			}},
			fields:     []string{"one", "two", "three"},
			wantFields: []string{"one", "three"},
		},
		{
			name: "whitelist leaving nothing fails",
			section: &config.FilterSection{Whitelist: &config.FilterConfig{
				Fields: map[string][]string{"Opportunity": {"missing"}},
			}},
			fields:  []string{"one", "two"},
			wantErr: filtering.ErrNoFieldsRemaining,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctrl := gomock.NewController(t)
			t.Cleanup(ctrl.Finish)

			client := mocks.NewMockClient(ctrl)
			client.EXPECT().
				DescribeSObject(gomock.Any(), "Opportunity").
				Return(describe("Opportunity", tt.fields...), nil)

			got, err := New(client, newStore(tt.section)).DescribeSObject(context.Background(), "Opportunity")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantFields, fieldNames(got))
			if tt.wantRejected != nil {
				assert.Equal(t, tt.wantRejected, (&schema.Description{Fields: got.RejectedFields}).FieldNames())
			}
			assert.Equal(t, json.RawMessage(`false`), got.Attributes["custom"])
		})
	}
}

func TestMetadataGateway_DescribeSObjectClientError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	clientErr := errors.New("404 not found")
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().DescribeSObject(gomock.Any(), "Nope").Return(nil, clientErr)

	_, err := New(client, nil).DescribeSObject(context.Background(), "Nope")
	assert.ErrorIs(t, err, clientErr)
}

func TestMetadataGateway_DescribeSObjects(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().DescribeSObjects(gomock.Any()).Return([]schema.NamedDescription{
		{Name: "Account", Description: describe("Account", "Id", "Name")},
		{Name: "Contact", Description: describe("Contact", "Id", "Email")},
		{Name: "Empty", Description: nil},
	}, nil)

	store := newStore(&config.FilterSection{Blacklist: &config.FilterConfig{
		Fields: map[string][]string{"Account": {"Name"}, "Contact": {"Email"}},
	}})

	got, err := New(client, store).DescribeSObjects(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Account", got[0].Name)
	assert.Equal(t, []string{"Id"}, fieldNames(got[0].Description))
	assert.Equal(t, "Contact", got[1].Name)
	assert.Equal(t, []string{"Id"}, fieldNames(got[1].Description))
	assert.Nil(t, got[2].Description)
}

func TestMetadataGateway_DescribeSObjectsFirstErrorAborts(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().DescribeSObjects(gomock.Any()).Return([]schema.NamedDescription{
		{Name: "Account", Description: describe("Account", "Id")},
		{Name: "Case", Description: describe("Case", "Subject")},
	}, nil)

	store := newStore(&config.FilterSection{Whitelist: &config.FilterConfig{
		Fields: map[string][]string{"Account": {"Missing"}},
	}})

	_, err := New(client, store).DescribeSObjects(context.Background())
	require.Error(t, err)

	var nfErr *filtering.NoFieldsRemainingError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "Account", nfErr.ClassName)
}

func TestMetadataGateway_QueryPassthrough(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	records := []schema.Record{{"Id": "001"}}
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().Query(gomock.Any(), "SELECT Secret__c FROM Account").Return(records, nil)

	store := newStore(&config.FilterSection{Blacklist: &config.FilterConfig{
		Fields: map[string][]string{"Account": {"Secret__c"}},
	}})

	got, err := New(client, store).Query(context.Background(), "SELECT Secret__c FROM Account")
	require.NoError(t, err)
	assert.Equal(t, records, got)
}

func TestMetadataGateway_QueryError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	clientErr := errors.New("MALFORMED_QUERY")
	client := mocks.NewMockClient(ctrl)
	client.EXPECT().Query(gomock.Any(), gomock.Any()).Return(nil, clientErr)

	_, err := New(client, nil).Query(context.Background(), "SELECT")
	assert.ErrorIs(t, err, clientErr)
}

func TestMetadataGateway_NewQuery(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().
		DescribeSObject(gomock.Any(), "Account").
		Return(describe("Account", "Id", "Name", "Secret__c"), nil)
	client.EXPECT().
		Query(gomock.Any(), "SELECT Id,Name FROM Account WHERE Name LIKE 'A%' LIMIT 1").
		Return([]schema.Record{{"Id": "001"}}, nil)

	store := newStore(&config.FilterSection{Blacklist: &config.FilterConfig{
		Fields: map[string][]string{"Account": {"Secret__c"}},
	}})

	svc, err := New(client, store).NewQuery(context.Background(), "Account")
	require.NoError(t, err)

	last, err := svc.Where("Name LIKE 'A%'").Limit(1).Last(context.Background())
	require.NoError(t, err)
	assert.Equal(t, schema.Record{"Id": "001"}, last)
}

func TestMetadataGateway_NewQueryHiddenClass(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	client := mocks.NewMockClient(ctrl)
	store := newStore(&config.FilterSection{Blacklist: &config.FilterConfig{Classes: []string{"User"}}})

	gw := New(client, store)
	assert.False(t, gw.IsClassVisible("User"))
	assert.True(t, gw.IsClassVisible("Account"))

	_, err := gw.NewQuery(context.Background(), "User")
	assert.ErrorIs(t, err, ErrClassNotVisible)
}

func TestMetadataGateway_NewQueryWithoutFields(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().DescribeSObject(gomock.Any(), "Odd").Return(&schema.Description{Name: "Odd"}, nil)

	svc, err := New(client, nil).NewQuery(context.Background(), "Odd")
	require.NoError(t, err)

	_, err = svc.Build()
	assert.ErrorIs(t, err, query.ErrInvalidQuery)
}

type policySourceFunc func() filtering.Policy

func (f policySourceFunc) Policy() filtering.Policy { return f() }

func TestMetadataGateway_UsesPolicyOncePerCall(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	policy := filteringmocks.NewMockPolicy(ctrl)
	policy.EXPECT().FilterClassList([]string{"a", "b"}).Return([]string{"a"})
	policy.EXPECT().Kind().Return(filtering.KindBlacklist).AnyTimes()

	calls := 0
	source := policySourceFunc(func() filtering.Policy {
		calls++
		return policy
	})

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().ListSObjects(gomock.Any()).Return([]string{"a", "b"}, nil)

	got, err := New(client, source).ListSObjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, 1, calls)
}

func TestMetadataGateway_ConcurrentReload(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().ListSObjects(gomock.Any()).Return([]string{"a", "b"}, nil).AnyTimes()

	store := filtering.NewStore()
	gw := New(client, store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.SetConfiguration(&config.FilterSection{Blacklist: &config.FilterConfig{Classes: []string{"a"}}})
		}()
		go func() {
			defer wg.Done()
			got, err := gw.ListSObjects(context.Background())
			assert.NoError(t, err)
			// Either the old or the new policy, never a mix
			assert.Contains(t, [][]string{{"a", "b"}, {"b"}}, got)
		}()
	}
	wg.Wait()
}

func TestMetadataGateway_Telemetry(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := telemetry.NewGatewayMetrics(mp)
	require.NoError(t, err)

	client := mocks.NewMockClient(ctrl)
	client.EXPECT().DescribeSObject(gomock.Any(), "Case").Return(describe("Case", "Id", "Subject", "Secret"), nil)
	client.EXPECT().DescribeSObject(gomock.Any(), "Lead").Return(nil, errors.New("boom"))

	store := newStore(&config.FilterSection{Blacklist: &config.FilterConfig{
		Fields: map[string][]string{"Case": {"Secret", "Subject"}},
	}})
	gw := New(client, store, WithTracer(tp.Tracer(TracerName)), WithMetrics(metrics))

	_, err = gw.DescribeSObject(context.Background(), "Case")
	require.NoError(t, err)
	_, err = gw.DescribeSObject(context.Background(), "Lead")
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "gateway.DescribeSObject", spans[0].Name)
	assert.Equal(t, codes.Unset, spans[0].Status.Code)
	assert.Equal(t, codes.Error, spans[1].Status.Code)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var hiddenFields int64
	var durationPoints int
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			switch m.Name {
			case "sobject_gateway_hidden_fields_total":
				for _, dp := range m.Data.(metricdata.Sum[int64]).DataPoints {
					hiddenFields += dp.Value
				}
			case "sobject_gateway_operation_duration_seconds":
				durationPoints = len(m.Data.(metricdata.Histogram[float64]).DataPoints)
			}
		}
	}
	assert.Equal(t, int64(2), hiddenFields)
	assert.Equal(t, 2, durationPoints, "success and failure series")
}
