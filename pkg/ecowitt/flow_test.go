package ecowitt

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlowWiresBothSides(t *testing.T) {
	cfg := testConfig(t)

	flow, err := ConfFromConfig(cfg)
	require.NoError(t, err)
	assert.Same(t, cfg, flow.Config())

	rcv := &stubReceiver{}
	h := &stubHost{}
	sink := &stubSink{}

	b, err := flow.
		StreamIN(
			StreamInReceiver(rcv),
			StreamInHost(h),
			StreamInIDGenerator(func(key string) EntityID { return EntityID("id-" + key) }),
			StreamInStartupPolicy(StartupReuseCached),
			StreamInObservability(&stubObservability{}),
		).
		StreamOUT(
			StreamOutSink(sink),
			StreamOutQueue(&stubQueue{}),
			StreamOutObservability(&stubObservability{}),
		)
	require.NoError(t, err)
	assert.Same(t, rcv, b.receiver.inner)
	assert.Same(t, h, b.host)
	assert.Same(t, sink, b.sink)
	assert.Equal(t, StartupReuseCached, cfg.Host.StartupPolicy)
}

func TestFlowRejectsNilAdapters(t *testing.T) {
	flow, err := ConfFromConfig(testConfig(t))
	require.NoError(t, err)

	_, err = flow.
		StreamIN(StreamInHost(nil), StreamInStartupPolicy("sometimes")).
		StreamOUT(StreamOutCallback("cb", nil))
	require.Error(t, err)
	assert.ErrorIs(t, err, errNilAdapter)
	assert.Contains(t, err.Error(), "stream in host")
	assert.Contains(t, err.Error(), "startup policy")
	assert.Contains(t, err.Error(), "stream out callback")
}

func TestConfValidatesEagerly(t *testing.T) {
	_, err := ConfFromConfig(nil)
	assert.Error(t, err)

	cfg := testConfig(t)
	cfg.Station.MAC = ""
	_, err = ConfFromConfig(cfg)
	assert.Error(t, err)
}

func TestConfLoadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "station:\n  mac: \"AA:BB:CC:DD:EE:FF\"\nsensors:\n  soil:\n    hidden: true\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	flow, err := Conf(path, WithFlowOptions(WithReceiver(&stubReceiver{}), nil))
	require.NoError(t, err)
	assert.True(t, flow.Config().Sensors.Soil.Hidden)
	assert.Len(t, flow.base, 1)
}

func TestFlowRunStopsWithContext(t *testing.T) {
	flow, err := ConfFromConfig(testConfig(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = flow.StreamIN(
		StreamInReceiver(&stubReceiver{}),
		StreamInObservability(&stubObservability{}),
	).Run(ctx,
		StreamOutCallback("discard", func([]Reading) error { return nil }),
	)
	if err != nil {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
