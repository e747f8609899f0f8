package ports

type Observability interface {
	LogInfo(msg string, fields ...Field)
	LogWarn(msg string, fields ...Field)
	LogError(msg string, err error, fields ...Field)

	IncCounter(name string, v float64)
	ObserveLatency(name string, seconds float64)

	SetGauge(name string, v float64)
}

type Field struct {
	Key   string
	Value any
}

// F is shorthand for building a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Metric names understood by the Prometheus adapter.
const (
	MetricReportsAccepted   = "ecowitt_reports_accepted_total"
	MetricReportsRejected   = "ecowitt_reports_rejected_total"
	MetricUnknownSensor     = "ecowitt_unknown_sensor_total"
	MetricReadingsPublished = "ecowitt_readings_published_total"
	MetricQueueDropped      = "ecowitt_queue_dropped_total"
	MetricSinkFailures      = "ecowitt_sink_failures_total"
	MetricInventorySize     = "ecowitt_inventory_size"
	MetricQueueLength       = "ecowitt_queue_length"
	MetricReportLatency     = "ecowitt_report_latency_seconds"
	MetricSinkLatency       = "ecowitt_sink_latency_seconds"
)
