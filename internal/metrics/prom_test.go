package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-controller/internal/logger"
)

func TestPromRecorderVehicle(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewPromRecorder(reg)
	require.NoError(t, err)

	r.RecordVehicle(42, 200, 10, 1234, true)
	r.RecordAverage(75, true)
	r.RecordQueueDepth(3)
	r.RecordTelemetrySent()
	r.RecordTelemetrySent()

	assert.Equal(t, 42.0, testutil.ToFloat64(r.speed))
	assert.Equal(t, 200.0, testutil.ToFloat64(r.accelerator))
	assert.Equal(t, 10.0, testutil.ToFloat64(r.brake))
	assert.Equal(t, 1234.0, testutil.ToFloat64(r.distance))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.engine))
	assert.Equal(t, 75.0, testutil.ToFloat64(r.average))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.warning))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.queueDepth))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.sent))
}

func TestPromRecorderIndicatorMode(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewPromRecorder(reg)
	require.NoError(t, err)

	r.RecordIndicatorMode("hazard")

	expected := `
# HELP car_indicator_mode 1 for the active indicator mode
# TYPE car_indicator_mode gauge
car_indicator_mode{mode="flashing"} 0
car_indicator_mode{mode="hazard"} 1
car_indicator_mode{mode="idle"} 0
`
	assert.NoError(t, testutil.CollectAndCompare(r.indicator, strings.NewReader(expected)))
}

func TestPromRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromRecorder(reg)
	require.NoError(t, err)
	second, err := NewPromRecorder(reg)
	require.NoError(t, err)

	second.RecordTelemetrySent()
	assert.Equal(t, 1.0, testutil.ToFloat64(first.sent))
}

func TestStartPromServerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- StartPromServer(ctx, "127.0.0.1:0", prometheus.NewRegistry(), logger.NewLogger(nil, logger.LogLevelError))
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(6 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
