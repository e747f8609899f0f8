package ecowitt

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/christocomm/homebridge-ecowitt/internal/adapters/host"
	"github.com/christocomm/homebridge-ecowitt/internal/adapters/httpin"
	"github.com/christocomm/homebridge-ecowitt/internal/adapters/observability"
	"github.com/christocomm/homebridge-ecowitt/internal/adapters/queue"
	"github.com/christocomm/homebridge-ecowitt/internal/adapters/sink"
	"github.com/christocomm/homebridge-ecowitt/internal/app/pipeline"
	"github.com/christocomm/homebridge-ecowitt/internal/app/station"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// BridgeOption customizes the dependencies used by Bridge.
type BridgeOption func(*bridgeOverrides)

type bridgeOverrides struct {
	receiver      Receiver
	host          Host
	queue         ReadingQueue
	sink          Sink
	observability Observability
	logger        *slog.Logger
	idGenerator   IDGenerator
	registry      *prometheus.Registry
}

// WithReceiver replaces the HTTP receiver (simulators, other transports).
func WithReceiver(r Receiver) BridgeOption {
	return func(o *bridgeOverrides) {
		o.receiver = r
	}
}

// WithHost registers entities with a custom host instead of the built-in one.
func WithHost(h Host) BridgeOption {
	return func(o *bridgeOverrides) {
		o.host = h
	}
}

// WithReadingQueue injects a custom queue implementation.
func WithReadingQueue(q ReadingQueue) BridgeOption {
	return func(o *bridgeOverrides) {
		o.queue = q
	}
}

// WithSink injects a custom sink so readings can be sent to any database or API.
func WithSink(s Sink) BridgeOption {
	return func(o *bridgeOverrides) {
		o.sink = s
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) BridgeOption {
	return func(o *bridgeOverrides) {
		o.observability = obs
	}
}

// WithLogger sets the logger used by the default observability backend.
func WithLogger(l *slog.Logger) BridgeOption {
	return func(o *bridgeOverrides) {
		o.logger = l
	}
}

// WithIDGenerator overrides how entity ids are derived from identity keys.
func WithIDGenerator(gen IDGenerator) BridgeOption {
	return func(o *bridgeOverrides) {
		o.idGenerator = gen
	}
}

// WithRegistry makes the bridge register and serve metrics from reg.
func WithRegistry(reg *prometheus.Registry) BridgeOption {
	return func(o *bridgeOverrides) {
		o.registry = reg
	}
}

// Bridge wires receiver → station → queue → sink and exposes lifecycle hooks for
// embedding the bridge inside any Go service.
type Bridge struct {
	cfg      *Config
	policy   ports.Policy
	obs      ports.Observability
	registry *prometheus.Registry
	host     ports.Host
	receiver *inProcess
	queue    ports.ReadingQueue
	sink     ports.Sink
	station  *station.Station
	closers  []io.Closer

	metricsSrv  *http.Server
	cancel      context.CancelFunc
	stationDone <-chan struct{}
	publishDone chan struct{}
	startOnce   sync.Once
	startErr    error
}

// NewBridge bootstraps the default adapters (HTTP receiver, memory or journal host,
// in-memory queue, configured sink, slog + Prometheus observability). Options override
// any of them.
func NewBridge(cfg *Config, opts ...BridgeOption) (*Bridge, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var overrides bridgeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	b := &Bridge{cfg: cfg, policy: cfg.Policy}
	ok := false
	defer func() {
		if !ok {
			_ = b.closeAll()
		}
	}()

	b.registry = overrides.registry
	if b.registry == nil {
		b.registry = prometheus.NewRegistry()
		b.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	b.obs = overrides.observability
	if b.obs == nil {
		logger := overrides.logger
		if logger == nil {
			var err error
			logger, err = observability.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
			if err != nil {
				return nil, err
			}
		}
		b.obs = observability.NewPromObs(logger, b.registry)
	}

	b.host = overrides.host
	if b.host == nil {
		if cfg.Host.JournalDir != "" {
			j, err := host.NewFileJournal(cfg.Host.JournalDir)
			if err != nil {
				return nil, fmt.Errorf("open host journal: %w", err)
			}
			b.closers = append(b.closers, j)
			b.host = j
		} else {
			b.host = host.NewMemory()
		}
	}

	b.queue = overrides.queue
	if b.queue == nil {
		b.queue = queue.NewMemQueue(cfg.Policy.MaxQueueLen)
	}

	rcv := overrides.receiver
	if rcv == nil {
		rcv = httpin.NewReceiver(httpin.Config{
			Addr:    cfg.Server.Addr,
			Path:    cfg.Server.Path,
			Timeout: cfg.Server.Timeout,
		}, b.obs)
	}
	b.receiver = &inProcess{inner: rcv}

	b.sink = overrides.sink
	if b.sink == nil {
		snk, err := b.openSink()
		if err != nil {
			return nil, err
		}
		b.sink = snk
	}

	st, err := station.New(cfg.Station.MAC, b.host, b.obs, station.Options{
		Hidden:        cfg.Hidden(),
		IDGenerator:   overrides.idGenerator,
		StartupPolicy: cfg.Host.StartupPolicy,
	})
	if err != nil {
		return nil, err
	}
	b.station = st

	ok = true
	return b, nil
}

func (b *Bridge) openSink() (ports.Sink, error) {
	switch b.cfg.Sink.Kind {
	case SinkTimescale:
		db, err := sql.Open("postgres", b.cfg.Timescale.ConnString)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, db)
		return sink.NewTimescaleSink(db, b.cfg.Timescale.Table), nil
	case SinkMongo:
		client, err := sink.ConnectMongo(b.cfg.Mongo.URI)
		if err != nil {
			return nil, err
		}
		ms, err := sink.NewMongoSink(client, b.cfg.Mongo.Database, b.cfg.Mongo.Collection)
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		b.closers = append(b.closers, ms)
		return ms, nil
	default:
		return nil, nil
	}
}

// Start applies the host startup policy, then begins the station and publish loops and
// the metrics server. It returns immediately; call Run to block on a context instead.
func (b *Bridge) Start() error {
	if b == nil {
		return fmt.Errorf("bridge is nil")
	}
	b.startOnce.Do(func() {
		b.startErr = b.start()
	})
	return b.startErr
}

func (b *Bridge) start() error {
	if err := b.station.Start(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	var q ports.ReadingQueue
	if b.sink != nil {
		q = b.queue
	}
	done, err := pipeline.RunStationPipeline(ctx, b.receiver, b.station, q, b.policy, b.obs)
	if err != nil {
		cancel()
		return err
	}
	b.stationDone = done

	if b.sink != nil {
		b.publishDone = make(chan struct{})
		go func() {
			pipeline.RunPublishPipeline(ctx, b.queue, b.sink, b.policy, b.obs)
			close(b.publishDone)
		}()
	}

	b.startMetrics()
	b.obs.LogInfo("bridge_started",
		ports.F("station", b.cfg.Station.MAC),
		ports.F("startup_policy", b.cfg.Host.StartupPolicy),
		ports.F("sink", sinkName(b.sink)))
	return nil
}

// Run starts the bridge and blocks until the provided context is cancelled.
// Upon cancellation it attempts a graceful shutdown.
func (b *Bridge) Run(ctx context.Context) error {
	if err := b.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return b.Shutdown(shutdownCtx)
}

// Shutdown stops the receiver, drains the loops, and closes the metrics server and any
// sink or journal the bridge opened.
func (b *Bridge) Shutdown(ctx context.Context) error {
	var errs []error

	if b.receiver != nil {
		if err := b.receiver.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	if b.cancel != nil {
		b.cancel()
	}
	for _, done := range []<-chan struct{}{b.stationDone, b.publishDone} {
		if done == nil {
			continue
		}
		select {
		case <-done:
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
	}

	if b.metricsSrv != nil {
		if err := b.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if err := b.closeAll(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (b *Bridge) closeAll() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// MetricsHandler serves the bridge registry in the Prometheus exposition format.
func (b *Bridge) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(b.registry, promhttp.HandlerOpts{})
}

func (b *Bridge) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", b.MetricsHandler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	b.metricsSrv = &http.Server{
		Addr:              b.cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	srv := b.metricsSrv
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.obs.LogError("metrics_server_exited", err, ports.F("addr", srv.Addr))
		}
	}()
}

func sinkName(s ports.Sink) string {
	if s == nil {
		return SinkNone
	}
	return s.Name()
}
