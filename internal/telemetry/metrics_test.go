package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestNewMetrics_recordsToProvider(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(ctx) }()

	m := NewMetrics(provider.Meter(meterName))

	m.LoginsTotal.Add(ctx, 2)
	m.ForcedLogoutsTotal.Add(ctx, 1)
	m.RequestDuration.Record(ctx, 12.5)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	got := map[string]metricdata.Metrics{}
	for _, md := range rm.ScopeMetrics[0].Metrics {
		got[md.Name] = md
	}

	logins, ok := got["storefront.session.logins.total"]
	require.True(t, ok)
	sum, ok := logins.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Equal(t, int64(2), sum.DataPoints[0].Value)

	require.Contains(t, got, "storefront.session.forced_logouts.total")
	require.Contains(t, got, "storefront.http.request.duration")
}

func TestGetMetrics_singleton(t *testing.T) {
	m := GetMetrics()
	require.NotNil(t, m)
	require.Same(t, m, GetMetrics())
	require.NotNil(t, m.OrdersPlacedTotal)
}
