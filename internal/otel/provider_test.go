package otel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otellog "go.opentelemetry.io/otel/log"
)

func TestNew_Disabled(t *testing.T) {
	p, err := New(Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.Nil(t, p.LoggerProvider())
	assert.NotNil(t, p.Meter("test"))
	assert.NoError(t, p.Flush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNew_EnabledWithoutOutputs(t *testing.T) {
	_, err := New(Config{Enabled: true, ServiceName: "test"})
	assert.Error(t, err)
}

func TestNew_FileExporter(t *testing.T) {
	var buf bytes.Buffer
	p, err := New(Config{
		Enabled:      true,
		ServiceName:  "loadout-test",
		BatchTimeout: time.Second,
		LogWriter:    &buf,
	})
	require.NoError(t, err)
	require.NotNil(t, p.LoggerProvider())

	var rec otellog.Record
	rec.SetBody(otellog.StringValue("preference saved"))
	p.LoggerProvider().Logger("test").Emit(context.Background(), rec)

	require.NoError(t, p.Flush(context.Background()))
	assert.Contains(t, buf.String(), "preference saved")
	assert.Contains(t, buf.String(), "loadout-test")
	require.NoError(t, p.Shutdown(context.Background()))
}
