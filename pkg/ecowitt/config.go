package ecowitt

import (
	"github.com/christocomm/homebridge-ecowitt/internal/app/config"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// Policy controls queue thresholds between the station and the sink.
	Policy = ports.Policy
	// StationConfig identifies the base unit by its MAC address.
	StationConfig = config.StationConfig
	// ServerConfig configures the HTTP receiver.
	ServerConfig = config.ServerConfig
	// SensorsConfig hides sensor categories from discovery.
	SensorsConfig = config.SensorsConfig
	// SensorToggle is one hideable category.
	SensorToggle = config.SensorToggle
	// HostConfig selects the startup policy and where registrations are kept.
	HostConfig = config.HostConfig
	// SinkConfig selects the readings sink.
	SinkConfig = config.SinkConfig
	// TimescaleConfig configures the Timescale sink.
	TimescaleConfig = config.TimescaleConfig
	// MongoConfig configures the MongoDB sink.
	MongoConfig = config.MongoConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
	// LogConfig configures the slog handler.
	LogConfig = config.LogConfig
)

const (
	StartupUnregisterAll = ports.StartupUnregisterAll
	StartupReuseCached   = ports.StartupReuseCached

	SinkNone      = config.SinkNone
	SinkTimescale = config.SinkTimescale
	SinkMongo     = config.SinkMongo
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
