package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/christocomm/homebridge-ecowitt/internal/app/discovery"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

const (
	SinkNone      = "none"
	SinkTimescale = "timescale"
	SinkMongo     = "mongo"
)

type Config struct {
	Station   StationConfig   `yaml:"station"`
	Server    ServerConfig    `yaml:"server"`
	Sensors   SensorsConfig   `yaml:"sensors"`
	Host      HostConfig      `yaml:"host"`
	Policy    ports.Policy    `yaml:"policy"`
	Sink      SinkConfig      `yaml:"sink"`
	Timescale TimescaleConfig `yaml:"timescale"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

type StationConfig struct {
	MAC string `yaml:"mac"`
}

type ServerConfig struct {
	Addr    string        `yaml:"addr"`
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

// SensorsConfig hides whole multi-channel categories from discovery.
type SensorsConfig struct {
	TH   SensorToggle `yaml:"th"`
	PM25 SensorToggle `yaml:"pm25"`
	Soil SensorToggle `yaml:"soil"`
	Leak SensorToggle `yaml:"leak"`
}

type SensorToggle struct {
	Hidden bool `yaml:"hidden"`
}

type HostConfig struct {
	StartupPolicy string `yaml:"startup_policy"`
	// JournalDir keeps registrations on disk; empty keeps them in memory.
	JournalDir string `yaml:"journal_dir"`
}

type SinkConfig struct {
	Kind string `yaml:"kind"`
}

type TimescaleConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type MongoConfig struct {
	URI        string `yaml:"uri"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse decodes YAML, fills defaults and validates the result.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	c.Station.MAC = strings.TrimSpace(c.Station.MAC)
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Path == "" {
		c.Server.Path = "/data/report"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 10 * time.Second
	}
	if c.Host.StartupPolicy == "" {
		c.Host.StartupPolicy = ports.StartupUnregisterAll
	}
	if c.Policy.MaxQueueLen == 0 {
		c.Policy.MaxQueueLen = 10_000
	}
	if c.Policy.MaxBatchSize == 0 {
		c.Policy.MaxBatchSize = 500
	}
	if c.Policy.IdleSleep == 0 {
		c.Policy.IdleSleep = 50 * time.Millisecond
	}
	if c.Policy.OnQueueFull == "" {
		c.Policy.OnQueueFull = "drop"
	}
	if c.Sink.Kind == "" {
		c.Sink.Kind = SinkNone
	}
	if c.Timescale.Table == "" {
		c.Timescale.Table = "ecowitt_readings"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "ecowitt"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "readings"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9100"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) Validate() error {
	if c.Station.MAC == "" {
		return fmt.Errorf("station.mac is required")
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return fmt.Errorf("server.path must start with /")
	}
	switch c.Host.StartupPolicy {
	case ports.StartupUnregisterAll, ports.StartupReuseCached:
	default:
		return fmt.Errorf("host.startup_policy must be %q or %q", ports.StartupUnregisterAll, ports.StartupReuseCached)
	}
	if c.Policy.MaxQueueLen <= 0 {
		return fmt.Errorf("policy.max_queue_len must be > 0")
	}
	if c.Policy.MaxBatchSize <= 0 {
		return fmt.Errorf("policy.max_batch_size must be > 0")
	}
	switch c.Policy.OnQueueFull {
	case "block", "drop":
	default:
		return fmt.Errorf("policy.on_queue_full must be block or drop")
	}
	switch c.Sink.Kind {
	case SinkNone:
	case SinkTimescale:
		if c.Timescale.ConnString == "" {
			return fmt.Errorf("timescale.conn_string is required")
		}
	case SinkMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("mongo.uri is required")
		}
	default:
		return fmt.Errorf("unknown sink.kind %q", c.Sink.Kind)
	}
	if c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	return nil
}

// Hidden converts the sensor toggles into the discovery filter.
func (c *Config) Hidden() discovery.Hidden {
	return discovery.Hidden{
		discovery.CategoryTH:   c.Sensors.TH.Hidden,
		discovery.CategoryPM25: c.Sensors.PM25.Hidden,
		discovery.CategorySoil: c.Sensors.Soil.Hidden,
		discovery.CategoryLeak: c.Sensors.Leak.Hidden,
	}
}
