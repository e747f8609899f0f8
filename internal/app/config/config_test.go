package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christocomm/homebridge-ecowitt/internal/app/discovery"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	data := `
station:
  mac: "AA:BB:CC:DD:EE:FF"
policy:
  max_queue_len: 1000
sensors:
  th:
    hidden: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Policy.MaxQueueLen)
	assert.Equal(t, 50*time.Millisecond, cfg.Policy.IdleSleep)
	assert.Equal(t, "/data/report", cfg.Server.Path)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, ports.StartupUnregisterAll, cfg.Host.StartupPolicy)
	assert.Equal(t, SinkNone, cfg.Sink.Kind)
	assert.Equal(t, ":9100", cfg.Metrics.Addr)

	hidden := cfg.Hidden()
	assert.True(t, hidden[discovery.CategoryTH])
	assert.False(t, hidden[discovery.CategorySoil])
}

func TestParseValidation(t *testing.T) {
	cases := map[string]struct {
		yaml string
		want string
	}{
		"missing mac": {
			yaml: "server:\n  addr: \":8080\"\n",
			want: "station.mac",
		},
		"timescale without dsn": {
			yaml: "station:\n  mac: x\nsink:\n  kind: timescale\n",
			want: "timescale.conn_string",
		},
		"mongo without uri": {
			yaml: "station:\n  mac: x\nsink:\n  kind: mongo\n",
			want: "mongo.uri",
		},
		"unknown sink": {
			yaml: "station:\n  mac: x\nsink:\n  kind: kafka\n",
			want: "sink.kind",
		},
		"bad startup policy": {
			yaml: "station:\n  mac: x\nhost:\n  startup_policy: maybe\n",
			want: "host.startup_policy",
		},
		"bad queue policy": {
			yaml: "station:\n  mac: x\npolicy:\n  on_queue_full: reject\n",
			want: "on_queue_full",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseFullConfig(t *testing.T) {
	data := `
station:
  mac: " AA:BB:CC:DD:EE:FF "
server:
  path: /ecowitt
host:
  startup_policy: reuse_cached
  journal_dir: /var/lib/ecowitt
sink:
  kind: mongo
mongo:
  uri: mongodb://localhost:27017
policy:
  on_queue_full: block
  idle_sleep: 10ms
log:
  format: json
`
	cfg, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", cfg.Station.MAC)
	assert.Equal(t, 10*time.Millisecond, cfg.Policy.IdleSleep)
	assert.Equal(t, "readings", cfg.Mongo.Collection)
	assert.Equal(t, "json", cfg.Log.Format)
}
