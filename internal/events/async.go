package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"activities-backend/internal/logging"
)

var (
	// ErrQueueFull is returned when the delivery queue has no room left.
	ErrQueueFull = errors.New("events: publish queue full")
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("events: publisher closed")
)

// AsyncPublisher hands events to a background worker so that callers never
// wait on the broker. Each delivery gets its own timeout.
type AsyncPublisher struct {
	next    Publisher
	timeout time.Duration
	log     logging.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan ActivityEvent
	done   chan struct{}
}

// NewAsyncPublisher starts a worker delivering to next. buffer bounds the
// number of events waiting for delivery.
func NewAsyncPublisher(next Publisher, buffer int, timeout time.Duration, log logging.Logger) *AsyncPublisher {
	if log == nil {
		log = logging.Nop()
	}
	if buffer < 1 {
		buffer = 1
	}
	p := &AsyncPublisher{
		next:    next,
		timeout: timeout,
		log:     log,
		queue:   make(chan ActivityEvent, buffer),
		done:    make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish enqueues event and returns immediately.
func (p *AsyncPublisher) Publish(ctx context.Context, event ActivityEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

func (p *AsyncPublisher) run() {
	defer close(p.done)
	for event := range p.queue {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		if err := p.next.Publish(ctx, event); err != nil {
			p.log.Warn(ctx, "deliver activity event failed",
				"type", event.Type, "activity_id", event.ActivityID, "error", err)
		}
		cancel()
	}
}

// Close stops accepting events, delivers what is queued and closes next.
func (p *AsyncPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	<-p.done
	return p.next.Close()
}
