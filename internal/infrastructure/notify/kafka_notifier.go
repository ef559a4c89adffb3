package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// messageWriter is the subset of *kafka.Writer used by KafkaNotifier.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig configures the SMS gateway topic.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// smsRequest is the payload consumed by the SMS gateway.
type smsRequest struct {
	To     string    `json:"to"`
	Body   string    `json:"body"`
	Source string    `json:"source"`
	SentAt time.Time `json:"sentAt"`
}

// KafkaNotifier publishes SMS requests to a Kafka topic. Messages are keyed
// by phone number so the gateway sees them in order per recipient.
type KafkaNotifier struct {
	writer messageWriter
	log    zerolog.Logger
	now    func() time.Time
}

func NewKafkaNotifier(cfg KafkaConfig, log zerolog.Logger) (*KafkaNotifier, error) {
	if len(cfg.Brokers) == 0 || cfg.Topic == "" {
		return nil, errors.New("kafka notifier: brokers and topic are required")
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  3,
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return newKafkaNotifier(w, log), nil
}

func newKafkaNotifier(w messageWriter, log zerolog.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		writer: w,
		log:    log.With().Str("component", "sms").Logger(),
		now:    time.Now,
	}
}

func (n *KafkaNotifier) Send(ctx context.Context, phone, body string) error {
	payload, err := json.Marshal(smsRequest{
		To:     phone,
		Body:   body,
		Source: "madinti-auth",
		SentAt: n.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode sms request: %w", err)
	}

	if err := n.writer.WriteMessages(ctx, kafka.Message{Key: []byte(phone), Value: payload}); err != nil {
		return fmt.Errorf("publish sms request: %w", err)
	}
	return nil
}

// Close flushes pending writes.
func (n *KafkaNotifier) Close() error {
	if err := n.writer.Close(); err != nil {
		n.log.Error().Err(err).Msg("failed to close kafka writer")
		return err
	}
	return nil
}
