package notifier

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/seguikro/cotisations/internal/config"
	"github.com/seguikro/cotisations/internal/logger"
	"github.com/seguikro/cotisations/models"
)

const (
	writeTimeout   = 10 * time.Second
	publishTimeout = 5 * time.Second

	// EventPasswordReset is set as the "event" header of every message.
	EventPasswordReset = "password-reset"
)

// messageWriter is the subset of *kafka.Writer used by KafkaNotifier.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotifier publishes password reset events to a Kafka topic. A
// downstream mailer consumes the topic and sends the e-mail.
type KafkaNotifier struct {
	writer messageWriter
	log    *logger.Logger
}

func NewKafkaNotifier(cfg config.Notifier, log *logger.Logger) *KafkaNotifier {
	transport := &kafka.Transport{}
	if cfg.Username != "" && cfg.Password != "" {
		transport.SASL = plain.Mechanism{Username: cfg.Username, Password: cfg.Password}
	}
	if cfg.TLS {
		transport.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: writeTimeout,
		Transport:    transport,
	}

	return newKafkaNotifier(writer, log)
}

func newKafkaNotifier(writer messageWriter, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{writer: writer, log: log}
}

// NotifyPasswordReset publishes the event keyed by user id so that the
// events of one user stay ordered on a single partition.
func (n *KafkaNotifier) NotifyPasswordReset(ctx context.Context, event models.PasswordResetEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingEvent, err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(event.UserID),
		Value:   payload,
		Headers: []kafka.Header{{Key: "event", Value: []byte(EventPasswordReset)}},
		Time:    time.Now(),
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "*KafkaNotifier.NotifyPasswordReset").
			Str("user_id", event.UserID).
			Msg("failed to publish password reset event")
		return fmt.Errorf("%w: %w", ErrPublishingEvent, err)
	}

	return nil
}

func (n *KafkaNotifier) Close() error {
	if err := n.writer.Close(); err != nil {
		n.log.Err(err).Msg("error closing kafka writer")
		return err
	}
	return nil
}
