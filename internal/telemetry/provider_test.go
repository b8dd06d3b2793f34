package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestNew_DisabledIsNoop(t *testing.T) {
	p, err := New(Config{})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.IsType(t, noop.Meter{}, p.Meter("test"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledRequiresWriter(t *testing.T) {
	_, err := New(Config{Enabled: true})
	assert.Error(t, err)
}

func TestProvider_ShutdownFlushesCounters(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(Config{Enabled: true, Writer: &buf})
	require.NoError(t, err)
	require.True(t, p.Enabled())

	c, err := p.Meter("army-command/test").Int64Counter("battle.ticks")
	require.NoError(t, err)
	c.Add(context.Background(), 7)

	require.NoError(t, p.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "battle.ticks")
}
