package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingPublisher holds every delivery until release is closed.
type blockingPublisher struct {
	release chan struct{}

	mu        sync.Mutex
	delivered []string
	closed    bool
}

func newBlockingPublisher() *blockingPublisher {
	return &blockingPublisher{release: make(chan struct{})}
}

func (p *blockingPublisher) Publish(ctx context.Context, e ActivityEvent) error {
	select {
	case <-p.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.delivered = append(p.delivered, e.ActivityID)
	return nil
}

func (p *blockingPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *blockingPublisher) snapshot() ([]string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.delivered...), p.closed
}

func TestAsyncPublisher_DoesNotWaitForDelivery(t *testing.T) {
	inner := newBlockingPublisher()
	p := NewAsyncPublisher(inner, 8, time.Minute, nil)

	start := time.Now()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, p.Publish(context.Background(), NewActivityEvent(ActivityCreated, id, nil)))
	}
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	delivered, _ := inner.snapshot()
	assert.Empty(t, delivered)

	close(inner.release)
	require.NoError(t, p.Close())

	delivered, closed := inner.snapshot()
	assert.Equal(t, []string{"a", "b", "c"}, delivered)
	assert.True(t, closed)
}

func TestAsyncPublisher_QueueFull(t *testing.T) {
	inner := newBlockingPublisher()
	p := NewAsyncPublisher(inner, 1, time.Minute, nil)
	t.Cleanup(func() {
		close(inner.release)
		_ = p.Close()
	})

	// the worker takes the first event and blocks; the second fills the buffer
	require.NoError(t, p.Publish(context.Background(), NewActivityEvent(ActivityCreated, "a", nil)))
	require.Eventually(t, func() bool { return len(p.queue) == 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, p.Publish(context.Background(), NewActivityEvent(ActivityCreated, "b", nil)))

	err := p.Publish(context.Background(), NewActivityEvent(ActivityCreated, "c", nil))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestAsyncPublisher_DeliveryTimeout(t *testing.T) {
	inner := newBlockingPublisher()
	p := NewAsyncPublisher(inner, 4, 20*time.Millisecond, nil)

	require.NoError(t, p.Publish(context.Background(), NewActivityEvent(ActivityUpdated, "a", nil)))

	done := make(chan error, 1)
	go func() { done <- p.Close() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("close did not return after the delivery timeout")
	}

	delivered, closed := inner.snapshot()
	assert.Empty(t, delivered)
	assert.True(t, closed)
}

func TestAsyncPublisher_PublishAfterClose(t *testing.T) {
	inner := newBlockingPublisher()
	p := NewAsyncPublisher(inner, 1, time.Second, nil)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	err := p.Publish(context.Background(), NewActivityEvent(ActivityDeleted, "a", nil))
	assert.ErrorIs(t, err, ErrPublisherClosed)
}
