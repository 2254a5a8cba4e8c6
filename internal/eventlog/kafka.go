// Package eventlog экспортирует поток широковещательных событий в Kafka.
package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shenikar/crisis_broadcasting_system/internal/broadcast"
	"github.com/sirupsen/logrus"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink реализует broadcast.Sink. Ключ сообщения - комната, поэтому порядок внутри комнаты сохраняется.
type KafkaSink struct {
	writer messageWriter
	logger *logrus.Logger
}

// NewKafkaSink создает асинхронного писателя: публикация в хабе не ждет брокер
func NewKafkaSink(brokers []string, topic string, logger *logrus.Logger) *KafkaSink {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.WithError(err).WithField("count", len(messages)).Warn("Failed to export broadcast envelopes to Kafka")
			}
		},
	}
	return &KafkaSink{writer: w, logger: logger}
}

// Write отправляет конверт в Kafka
func (s *KafkaSink) Write(ctx context.Context, env broadcast.Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to serialize envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(env.Room),
		Value: value,
		Time:  env.Timestamp,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
			{Key: "event", Value: []byte(env.Event)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish envelope: %w", err)
	}
	return nil
}

// Close сбрасывает буфер писателя
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
