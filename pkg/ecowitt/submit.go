package ecowitt

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/christocomm/homebridge-ecowitt/internal/domain"
	"github.com/christocomm/homebridge-ecowitt/internal/ports"
)

// ErrNotRunning is returned by Submit before Start or after Shutdown.
var ErrNotRunning = errors.New("ecowitt: bridge not running")

// inProcess shares the station channel between the configured receiver and Submit.
type inProcess struct {
	inner ports.Receiver

	mu  sync.RWMutex
	out chan<- *domain.Submission
}

func (p *inProcess) Start(out chan<- *domain.Submission) error {
	if p.inner != nil {
		if err := p.inner.Start(out); err != nil {
			return err
		}
	}
	p.mu.Lock()
	p.out = out
	p.mu.Unlock()
	return nil
}

func (p *inProcess) Stop() error {
	p.mu.Lock()
	p.out = nil
	p.mu.Unlock()
	if p.inner != nil {
		return p.inner.Stop()
	}
	return nil
}

func (p *inProcess) channel() chan<- *domain.Submission {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.out
}

// Submit pushes a report into the bridge without going through a receiver, as if the
// station had posted fields. It waits for the station to process it and returns the
// authentication or parsing error, if any.
func (b *Bridge) Submit(ctx context.Context, fields map[string]any) error {
	if b == nil || b.receiver == nil {
		return ErrNotRunning
	}
	out := b.receiver.channel()
	if out == nil {
		return ErrNotRunning
	}

	sub := &domain.Submission{
		Fields:     fields,
		RemoteAddr: "in-process",
		ReceivedAt: time.Now().UTC(),
		Result:     make(chan error, 1),
	}

	select {
	case out <- sub:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-sub.Result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ ports.Receiver = (*inProcess)(nil)
