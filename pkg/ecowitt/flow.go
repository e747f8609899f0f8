package ecowitt

import (
	"context"
	"errors"
	"fmt"
)

// Flow assembles a Bridge in the order a report travels: configuration first, then the
// station side (where reports arrive and where entities get registered), then the
// publish side (where readings end up).
//
//	flow, _ := ecowitt.Conf("config.yaml")
//	bridge, err := flow.
//		StreamIN(ecowitt.StreamInHost(myHost)).
//		StreamOUT(ecowitt.StreamOutCallback("log", printReadings))
type Flow struct {
	cfg     *Config
	base    []BridgeOption
	station []BridgeOption
	publish []BridgeOption
	errs    []error
}

// FlowOption adjusts a Flow while it is created.
type FlowOption func(*Flow)

// StreamInOption selects an adapter on the station side.
type StreamInOption struct {
	name  string
	apply func(*Flow) error
}

// StreamOutOption selects an adapter on the publish side.
type StreamOutOption struct {
	name  string
	apply func(*Flow) error
}

var errNilAdapter = errors.New("adapter is nil")

// Conf loads the YAML config at path and starts a Flow from it.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return ConfFromConfig(cfg, opts...)
}

// ConfFromConfig starts a Flow from cfg. The config is defaulted and validated here so
// mistakes surface before any adapter is chosen.
func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f := &Flow{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// WithFlowOptions passes BridgeOptions straight through to NewBridge.
func WithFlowOptions(opts ...BridgeOption) FlowOption {
	return func(f *Flow) {
		f.base = appendNonNil(f.base, opts...)
	}
}

func (f *Flow) Config() *Config {
	if f == nil {
		return nil
	}
	return f.cfg
}

// StreamIN records station-side choices. Invalid choices are reported by StreamOUT.
func (f *Flow) StreamIN(opts ...StreamInOption) *Flow {
	if f == nil {
		return nil
	}
	for _, opt := range opts {
		if opt.apply == nil {
			continue
		}
		if err := opt.apply(f); err != nil {
			f.errs = append(f.errs, fmt.Errorf("stream in %s: %w", opt.name, err))
		}
	}
	return f
}

// StreamOUT records publish-side choices and builds the Bridge.
func (f *Flow) StreamOUT(opts ...StreamOutOption) (*Bridge, error) {
	if f == nil {
		return nil, fmt.Errorf("flow is nil")
	}
	for _, opt := range opts {
		if opt.apply == nil {
			continue
		}
		if err := opt.apply(f); err != nil {
			f.errs = append(f.errs, fmt.Errorf("stream out %s: %w", opt.name, err))
		}
	}
	if err := errors.Join(f.errs...); err != nil {
		return nil, err
	}

	all := make([]BridgeOption, 0, len(f.base)+len(f.station)+len(f.publish))
	all = append(all, f.base...)
	all = append(all, f.station...)
	all = append(all, f.publish...)
	return NewBridge(f.cfg, all...)
}

// Run builds the Bridge with StreamOUT and runs it until ctx is done.
func (f *Flow) Run(ctx context.Context, opts ...StreamOutOption) error {
	b, err := f.StreamOUT(opts...)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}

func stationSide(name string, isNil bool, opt BridgeOption) StreamInOption {
	return StreamInOption{name: name, apply: func(f *Flow) error {
		if isNil {
			return errNilAdapter
		}
		f.station = append(f.station, opt)
		return nil
	}}
}

func publishSide(name string, isNil bool, opt BridgeOption) StreamOutOption {
	return StreamOutOption{name: name, apply: func(f *Flow) error {
		if isNil {
			return errNilAdapter
		}
		f.publish = append(f.publish, opt)
		return nil
	}}
}

// StreamInReceiver replaces the HTTP endpoint the station posts to.
func StreamInReceiver(r Receiver) StreamInOption {
	return stationSide("receiver", r == nil, WithReceiver(r))
}

// StreamInHost registers entities with h instead of the built-in memory or journal host.
func StreamInHost(h Host) StreamInOption {
	return stationSide("host", h == nil, WithHost(h))
}

func StreamInIDGenerator(gen IDGenerator) StreamInOption {
	return stationSide("id generator", gen == nil, WithIDGenerator(gen))
}

// StreamInStartupPolicy decides what happens to entities the host cached from an
// earlier run: StartupUnregisterAll or StartupReuseCached.
func StreamInStartupPolicy(policy string) StreamInOption {
	return StreamInOption{name: "startup policy", apply: func(f *Flow) error {
		switch policy {
		case StartupUnregisterAll, StartupReuseCached:
			f.cfg.Host.StartupPolicy = policy
			return nil
		default:
			return fmt.Errorf("unknown policy %q", policy)
		}
	}}
}

// StreamInObservability sets the logging and metrics backend for the whole bridge.
func StreamInObservability(obs Observability) StreamInOption {
	return stationSide("observability", obs == nil, WithObservability(obs))
}

func StreamOutQueue(q ReadingQueue) StreamOutOption {
	return publishSide("queue", q == nil, WithReadingQueue(q))
}

// StreamOutSink writes readings to s instead of the configured Timescale or MongoDB sink.
func StreamOutSink(s Sink) StreamOutOption {
	return publishSide("sink", s == nil, WithSink(s))
}

// StreamOutObservability is StreamInObservability for callers that think of metrics as
// an output. The last one given wins.
func StreamOutObservability(obs Observability) StreamOutOption {
	return publishSide("observability", obs == nil, WithObservability(obs))
}

// StreamOutCallback hands every published batch to fn.
func StreamOutCallback(name string, fn ReadingBatchSink) StreamOutOption {
	return publishSide("callback", fn == nil, WithSink(NewCallbackSink(name, fn)))
}

func appendNonNil(dst []BridgeOption, opts ...BridgeOption) []BridgeOption {
	for _, opt := range opts {
		if opt != nil {
			dst = append(dst, opt)
		}
	}
	return dst
}
