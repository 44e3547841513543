package tracer

import (
	"context"
	"testing"

	"fin-analyst-be/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSamplerDescription(t *testing.T) {
	assert.Contains(t, Sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, Sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, Sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestInitTracerDisabled(t *testing.T) {
	shutdown := InitTracer(config.TelemetryConfig{Enabled: false}, "test")
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}
