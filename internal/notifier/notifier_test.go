package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testEvent() models.PasswordResetEvent {
	return models.PasswordResetEvent{
		UserID:    "01927a6e-7c1f-7000-8000-0000000000a1",
		Email:     "ada@example.com",
		Name:      "Ada",
		ResetURL:  "https://cotisations.example.com/api/v1/auth/resetpassword/deadbeef",
		ExpiresAt: time.Date(2026, 1, 1, 12, 10, 0, 0, time.UTC),
	}
}

// ── KafkaNotifier ──

func TestKafkaNotifier_PublishesEventKeyedByUser(t *testing.T) {
	w := &fakeWriter{}
	n := newKafkaNotifier(w, logger.Nop())
	event := testEvent()

	require.NoError(t, n.NotifyPasswordReset(context.Background(), event))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, []byte(event.UserID), msg.Key)
	assert.Equal(t, []kafka.Header{{Key: "event", Value: []byte(EventPasswordReset)}}, msg.Headers)

	var got models.PasswordResetEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event.ResetURL, got.ResetURL)
	assert.True(t, event.ExpiresAt.Equal(got.ExpiresAt))
}

func TestKafkaNotifier_WrapsWriteErrors(t *testing.T) {
	n := newKafkaNotifier(&fakeWriter{err: errors.New("broker down")}, logger.Nop())

	err := n.NotifyPasswordReset(context.Background(), testEvent())
	assert.ErrorIs(t, err, ErrPublishingEvent)
}

func TestKafkaNotifier_Close(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newKafkaNotifier(w, logger.Nop()).Close())
	assert.True(t, w.closed)
}

// ── LogNotifier ──

func TestLogNotifier_NeverLogsTheLink(t *testing.T) {
	var buf bytes.Buffer
	log := logger.Nop()
	log.Logger = log.Output(&buf).Level(0)
	n := NewLogNotifier(log)

	require.NoError(t, n.NotifyPasswordReset(context.Background(), testEvent()))
	assert.Contains(t, buf.String(), testEvent().UserID)
	assert.NotContains(t, buf.String(), "deadbeef")
	assert.NotContains(t, buf.String(), "resetpassword")
}

func TestNew_FallsBackToLogNotifier(t *testing.T) {
	n := New(config.Notifier{}, logger.Nop())
	_, ok := n.(*LogNotifier)
	assert.True(t, ok)

	n = New(config.Notifier{Brokers: []string{"localhost:9092"}, Topic: "t"}, logger.Nop())
	_, ok = n.(*KafkaNotifier)
	assert.True(t, ok)
	assert.NoError(t, n.Close())
}
