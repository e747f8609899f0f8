package pipeline

import (
	"context"
	"time"

	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// RunPublishPipeline drains the queue into the sink in batches until ctx is cancelled.
// Failed batches are dropped; the next report supersedes them.
func RunPublishPipeline(ctx context.Context, q ports.ReadingQueue, sink ports.Sink, pol ports.Policy, obs ports.Observability) {
	idle := idleSleep(pol)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		batch := q.DequeueBatch(pol.MaxBatchSize)
		if len(batch) == 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(idle):
			}
			continue
		}

		start := time.Now()
		if err := sink.WriteBatch(batch); err != nil {
			obs.IncCounter(ports.MetricSinkFailures, 1)
			obs.LogError("sink_write_failed", err,
				ports.F("sink", sink.Name()),
				ports.F("readings", len(batch)))
			continue
		}
		obs.ObserveLatency(ports.MetricSinkLatency, time.Since(start).Seconds())
		obs.IncCounter(ports.MetricReadingsPublished, float64(len(batch)))
		obs.SetGauge(ports.MetricQueueLength, float64(q.Len()))
	}
}
