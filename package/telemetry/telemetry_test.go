package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.scnd.dev/open/upgrader"
)

func TestNewWithoutExporter(t *testing.T) {
	telemetry, err := New(&upgrader.Config{})
	require.NoError(t, err)
	require.NotNil(t, telemetry.Tracer)
	require.NotNil(t, telemetry.Instrument)
	require.Nil(t, telemetry.TracerProvider)
	require.NoError(t, telemetry.Shutdown(context.Background()))
}

func TestInstrument(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	instrument, err := NewInstrument(provider.Meter("test"))
	require.NoError(t, err)
	instrument.FileRewritten(ctx, "call_site", "app/views/alchemy/pages/show.html.erb")
	instrument.FileRewritten(ctx, "call_site", "app/views/alchemy/pages/index.html.erb")
	instrument.ElementAppended(ctx, "header")

	var collected metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &collected))

	totals := make(map[string]int64)
	for _, scope := range collected.ScopeMetrics {
		for _, m := range scope.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, m.Name)
			for _, point := range sum.DataPoints {
				totals[m.Name] += point.Value
			}
		}
	}

	require.Equal(t, int64(2), totals["upgrader.file.rewritten"])
	require.Equal(t, int64(1), totals["upgrader.element.appended"])
	require.Zero(t, totals["upgrader.file.moved"])
}
