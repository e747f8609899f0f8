package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/christocomm/homebridge-ecowitt/internal/app/station"
	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// Handler processes one submission. *station.Station satisfies it.
type Handler interface {
	Handle(sub *domain.Submission) ([]*domain.Reading, error)
}

var _ Handler = (*station.Station)(nil)

// RunStationPipeline starts the receiver and feeds its submissions to h one at a time.
// Accepted readings are enqueued for publishing unless q is nil. The returned channel
// closes once the loop has exited after ctx is cancelled.
func RunStationPipeline(ctx context.Context, rcv ports.Receiver, h Handler, q ports.ReadingQueue, pol ports.Policy, obs ports.Observability) (<-chan struct{}, error) {
	buf := pol.MaxQueueLen
	if buf <= 0 {
		buf = 1
	}
	ch := make(chan *domain.Submission, buf)

	if err := rcv.Start(ch); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				drain(ch, ctx.Err())
				return
			case sub := <-ch:
				readings, err := h.Handle(sub)
				sub.Reply(err)
				if err != nil || q == nil {
					continue
				}
				for _, r := range readings {
					if !enqueueWithPolicy(ctx, q, r, pol, obs) {
						obs.IncCounter(ports.MetricQueueDropped, 1)
					}
				}
				obs.SetGauge(ports.MetricQueueLength, float64(q.Len()))
			}
		}
	}()

	return done, nil
}

// drain answers submissions still buffered so no handler waits for a closed loop.
func drain(ch <-chan *domain.Submission, err error) {
	for {
		select {
		case sub := <-ch:
			sub.Reply(err)
		default:
			return
		}
	}
}

func enqueueWithPolicy(ctx context.Context, q ports.ReadingQueue, r *domain.Reading, pol ports.Policy, obs ports.Observability) bool {
	sleep := idleSleep(pol)

	for {
		if ok := q.Enqueue(r); ok {
			return true
		}

		switch pol.OnQueueFull {
		case "block":
			select {
			case <-ctx.Done():
				return false
			case <-time.After(sleep):
			}
		case "drop":
			obs.LogError("queue_full_drop", fmt.Errorf("queue length exceeded capacity %d", pol.MaxQueueLen),
				ports.F("entity", r.EntityID))
			return false
		default:
			obs.LogError("queue_policy_invalid", fmt.Errorf("policy=%s", pol.OnQueueFull))
			return false
		}
	}
}

func idleSleep(pol ports.Policy) time.Duration {
	if pol.IdleSleep <= 0 {
		return 5 * time.Millisecond
	}
	return pol.IdleSleep
}
