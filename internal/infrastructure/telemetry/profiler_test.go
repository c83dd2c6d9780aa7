package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_Validation(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "app"}, zap.NewNop())
	assert.ErrorContains(t, err, "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
	assert.ErrorContains(t, err, "application name")
}

func TestLabelPairs(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	pairs := labelPairs(map[string]string{
		"route":  "/api/products",
		"method": "GET",
		"":       "x",
		"empty":  "",
		"long":   string(long),
	})

	require.Len(t, pairs, 6)
	assert.Equal(t, []string{"long", "method", "route"}, []string{pairs[0], pairs[2], pairs[4]})
	assert.Len(t, pairs[1], maxLabelValueLength)
	assert.Equal(t, "GET", pairs[3])
}

func TestWithProfilingLabels_RunsFunction(t *testing.T) {
	called := 0
	WithProfilingLabels(context.Background(), HTTPRequestLabels("/api/products", "GET"), func(context.Context) {
		called++
	})
	WithProfilingLabels(context.Background(), nil, func(context.Context) {
		called++
	})
	assert.Equal(t, 2, called)
}
