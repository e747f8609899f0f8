package observability

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// PromObs logs through slog and records metrics in Prometheus collectors.
type PromObs struct {
	log      *slog.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers the bridge collectors on reg (the default registerer when nil).
// A nil logger falls back to slog.Default().
func NewPromObs(logger *slog.Logger, reg prometheus.Registerer) *PromObs {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	accepted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricReportsAccepted,
		Help: "Reports that passed authentication and parsing.",
	})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricReportsRejected,
		Help: "Reports rejected as unauthenticated or malformed.",
	})
	unknown := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricUnknownSensor,
		Help: "Discovered descriptors without a sensor constructor.",
	})
	published := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricReadingsPublished,
		Help: "Readings written to the sink.",
	})
	queueDrops := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricQueueDropped,
		Help: "Readings lost due to queue backpressure policies.",
	})
	sinkFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: ports.MetricSinkFailures,
		Help: "Batches the sink failed to write.",
	})
	inventory := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: ports.MetricInventorySize,
		Help: "Sensor entities registered for the station.",
	})
	queueGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: ports.MetricQueueLength,
		Help: "Current number of readings buffered in the in-memory queue.",
	})
	reportLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    ports.MetricReportLatency,
		Help:    "Time to decode, reconcile and dispatch one report.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
	})
	sinkLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    ports.MetricSinkLatency,
		Help:    "Latency of a sink batch write.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	reg.MustRegister(accepted, rejected, unknown, published, queueDrops, sinkFailures,
		inventory, queueGauge, reportLatency, sinkLatency)

	return &PromObs{
		log: logger,
		counters: map[string]prometheus.Counter{
			ports.MetricReportsAccepted:   accepted,
			ports.MetricReportsRejected:   rejected,
			ports.MetricUnknownSensor:     unknown,
			ports.MetricReadingsPublished: published,
			ports.MetricQueueDropped:      queueDrops,
			ports.MetricSinkFailures:      sinkFailures,
		},
		gauges: map[string]prometheus.Gauge{
			ports.MetricInventorySize: inventory,
			ports.MetricQueueLength:   queueGauge,
		},
		histos: map[string]prometheus.Observer{
			ports.MetricReportLatency: reportLatency,
			ports.MetricSinkLatency:   sinkLatency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.log.Info(msg, attrs(fields)...)
}

func (p *PromObs) LogWarn(msg string, fields ...ports.Field) {
	p.log.Warn(msg, attrs(fields)...)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	args := attrs(fields)
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	p.log.Error(msg, args...)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func attrs(fields []ports.Field) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, slog.Any(f.Key, f.Value))
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
