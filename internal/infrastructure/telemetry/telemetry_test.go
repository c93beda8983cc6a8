package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/mrops-br/storefront-api/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"google.golang.org/grpc/connectivity"
)

func testOTLPConfig() *config.OTLPConfig {
	return &config.OTLPConfig{ServiceName: "storefront-test", Environment: "test"}
}

func TestLogger_InjectsTraceContextAndRoute(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(testOTLPConfig(), &buf, slog.LevelInfo)

	telem, err := NewNoOpTelemetry(testOTLPConfig(), &bytes.Buffer{})
	require.NoError(t, err)
	defer telem.Shutdown(context.Background())

	ctx, span := telem.TracerProvider.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	ctx = WithHTTPRoute(ctx, "/products/{id}")

	logger.InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, "storefront-test", record["service.name"])
	assert.Equal(t, "test", record["environment"])
	assert.Equal(t, "/products/{id}", record["http.route"])
	assert.Equal(t, span.SpanContext().TraceID().String(), record["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), record["span_id"])
}

func TestLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(testOTLPConfig(), &buf, slog.LevelWarn)

	logger.Info("ignored")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestHTTPRouteFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", HTTPRouteFromContext(context.Background()))
}

func TestNoOpTelemetry_ExposesPrometheusMetrics(t *testing.T) {
	telem, err := NewNoOpTelemetry(testOTLPConfig(), &bytes.Buffer{})
	require.NoError(t, err)
	defer telem.Shutdown(context.Background())

	counter, err := telem.MeterProvider.Meter("test").Int64Counter("cart.items.added",
		metric.WithDescription("test counter"),
	)
	require.NoError(t, err)
	counter.Add(context.Background(), 2)

	families, err := telem.Registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, family := range families {
		if family.GetName() == "cart_items_added_total" {
			found = true
		}
	}
	assert.True(t, found, "otel counter should be exported through the prometheus registry")
}

func TestNew_DisabledUsesNoOp(t *testing.T) {
	cfg := testOTLPConfig()
	cfg.Enabled = false

	telem, err := New(cfg)
	require.NoError(t, err)
	defer telem.Shutdown(context.Background())

	assert.NotNil(t, telem.Logger)
	assert.NotNil(t, telem.Registry)
}

func TestTelemetry_ShutdownClosesOTLPConnections(t *testing.T) {
	cfg := testOTLPConfig()
	cfg.Enabled = true
	cfg.Endpoint = "127.0.0.1:1"

	telem, err := NewTelemetry(cfg)
	require.NoError(t, err)
	require.Len(t, telem.conns, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	// nothing listens on the endpoint, so the final metric export may fail
	_ = telem.Shutdown(ctx)

	for _, conn := range telem.conns {
		assert.Equal(t, connectivity.Shutdown, conn.GetState())
	}
}
