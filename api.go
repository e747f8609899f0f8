package ecowitt

import (
	base "github.com/christocomm/homebridge-ecowitt/pkg/ecowitt"
)

// Re-exported errors for convenience.
var (
	ErrAuthentication    = base.ErrAuthentication
	ErrMalformedPayload  = base.ErrMalformedPayload
	ErrNotRunning        = base.ErrNotRunning
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
)

// Type aliases so consumers can import github.com/christocomm/homebridge-ecowitt directly.
type (
	Config           = base.Config
	Policy           = base.Policy
	StationConfig    = base.StationConfig
	ServerConfig     = base.ServerConfig
	SensorsConfig    = base.SensorsConfig
	SensorToggle     = base.SensorToggle
	HostConfig       = base.HostConfig
	SinkConfig       = base.SinkConfig
	TimescaleConfig  = base.TimescaleConfig
	MongoConfig      = base.MongoConfig
	MetricsConfig    = base.MetricsConfig
	LogConfig        = base.LogConfig
	Flow             = base.Flow
	FlowOption       = base.FlowOption
	StreamInOption   = base.StreamInOption
	StreamOutOption  = base.StreamOutOption
	Bridge           = base.Bridge
	BridgeOption     = base.BridgeOption
	Reading          = base.Reading
	ReadingBatchSink = base.ReadingBatchSink
	Submission       = base.Submission
	EntityID         = base.EntityID
	EntityInfo       = base.EntityInfo
	Descriptor       = base.Descriptor
	Receiver         = base.Receiver
	Host             = base.Host
	IDGenerator      = base.IDGenerator
	ReadingQueue     = base.ReadingQueue
	Sink             = base.Sink
	Observability    = base.Observability
	Field            = base.Field
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Passkey returns the PASSKEY a station with the given MAC sends.
func Passkey(mac string) string {
	return base.Passkey(mac)
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...BridgeOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInReceiver(r Receiver) StreamInOption {
	return base.StreamInReceiver(r)
}

func StreamInHost(h Host) StreamInOption {
	return base.StreamInHost(h)
}

func StreamInIDGenerator(gen IDGenerator) StreamInOption {
	return base.StreamInIDGenerator(gen)
}

func StreamInStartupPolicy(policy string) StreamInOption {
	return base.StreamInStartupPolicy(policy)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutQueue(q ReadingQueue) StreamOutOption {
	return base.StreamOutQueue(q)
}

func StreamOutSink(s Sink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

func StreamOutCallback(name string, fn ReadingBatchSink) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Bridge and options.
func NewBridge(cfg *Config, opts ...BridgeOption) (*Bridge, error) {
	return base.NewBridge(cfg, opts...)
}

func WithReceiver(r Receiver) BridgeOption {
	return base.WithReceiver(r)
}

func WithHost(h Host) BridgeOption {
	return base.WithHost(h)
}

func WithReadingQueue(q ReadingQueue) BridgeOption {
	return base.WithReadingQueue(q)
}

func WithSink(s Sink) BridgeOption {
	return base.WithSink(s)
}

func WithObservability(obs Observability) BridgeOption {
	return base.WithObservability(obs)
}

func WithIDGenerator(gen IDGenerator) BridgeOption {
	return base.WithIDGenerator(gen)
}

// Sink adapters.
func NewCallbackSink(name string, fn ReadingBatchSink) Sink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan []Reading, func()) {
	return base.NewChannelSink(name, buffer)
}
