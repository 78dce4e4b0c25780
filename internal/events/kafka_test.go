package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activities-backend/internal/models"
)

type recordingWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisherWithWriter(w)

	activity := &models.Activity{ID: "abc", Date: "2025-01-01", Pics: []string{}}
	require.NoError(t, p.Publish(context.Background(), NewActivityEvent(ActivityCreated, "abc", activity)))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "abc", string(msg.Key))
	assert.Equal(t, "event-type", msg.Headers[0].Key)
	assert.Equal(t, ActivityCreated, string(msg.Headers[0].Value))

	var decoded ActivityEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ActivityCreated, decoded.Type)
	assert.Equal(t, "abc", decoded.ActivityID)
	require.NotNil(t, decoded.Activity)
	assert.Equal(t, "2025-01-01", decoded.Activity.Date)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_DeleteOmitsActivity(t *testing.T) {
	w := &recordingWriter{}
	p := NewKafkaPublisherWithWriter(w)

	require.NoError(t, p.Publish(context.Background(), NewActivityEvent(ActivityDeleted, "abc", nil)))
	assert.NotContains(t, string(w.msgs[0].Value), `"activity"`)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	p := NewKafkaPublisherWithWriter(&recordingWriter{err: errors.New("broker down")})

	err := p.Publish(context.Background(), NewActivityEvent(ActivityUpdated, "abc", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "activity.updated")
	assert.Contains(t, err.Error(), "broker down")
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), ActivityEvent{}))
	assert.NoError(t, p.Close())
}

func TestNewKafkaPublisher_FlushesSingleMessagesQuickly(t *testing.T) {
	p := NewKafkaPublisher([]string{"localhost:9092"}, "activities")
	t.Cleanup(func() { _ = p.Close() })

	w, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, 10*time.Millisecond, w.BatchTimeout)
	assert.Equal(t, "activities", w.Topic)
}
