package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/d60-Lab/litreview/config"
)

func TestInitInstallsProvider(t *testing.T) {
	shutdown, err := Init(context.Background(), "litreview-test", config.TracingConfig{
		Endpoint:    "localhost:4318",
		Insecure:    true,
		SampleRatio: 0,
	})
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "noop")
	span.End()

	require.NoError(t, shutdown(context.Background()))
}
