package observability

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

func TestPromObsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs := NewPromObs(nil, reg)

	obs.IncCounter(ports.MetricReportsAccepted, 5)
	assert.Equal(t, 5.0, testutil.ToFloat64(obs.counters[ports.MetricReportsAccepted]))

	obs.IncCounter(ports.MetricQueueDropped, 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(obs.counters[ports.MetricQueueDropped]))

	obs.SetGauge(ports.MetricInventorySize, 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(obs.gauges[ports.MetricInventorySize]))

	obs.ObserveLatency(ports.MetricSinkLatency, 0.5)
	hCollector := obs.histos[ports.MetricSinkLatency].(prometheus.Collector)
	assert.Equal(t, 1, testutil.CollectAndCount(hCollector))

	obs.IncCounter("not_a_metric", 1)
	obs.SetGauge("not_a_metric", 1)

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestPromObsLogsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug", "json")
	require.NoError(t, err)
	obs := NewPromObs(logger, prometheus.NewRegistry())

	obs.LogError("report_rejected", errors.New("bad passkey"), ports.F("remote", "10.0.0.2:5000"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line), "log line %q", buf.String())
	assert.Equal(t, "report_rejected", line["msg"])
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "10.0.0.2:5000", line["remote"])
	assert.Equal(t, "bad passkey", line["error"])
}

func TestNewLoggerRejectsUnknown(t *testing.T) {
	_, err := NewLogger(&bytes.Buffer{}, "loud", "text")
	assert.Error(t, err)
	_, err = NewLogger(&bytes.Buffer{}, "info", "xml")
	assert.Error(t, err)

	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn", "")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
