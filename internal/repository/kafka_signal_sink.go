package repository

import (
	"context"

	"PDMScan/internal/domain/models"
	"PDMScan/internal/domain/repository"
	pkgkafka "PDMScan/pkg/kafka"
)

// KafkaSignalSink implements SignalSink for Kafka. Messages are keyed by
// symbol so a hashing balancer preserves per-symbol ordering.
type KafkaSignalSink struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaSignalSink creates a Kafka signal sink.
func NewKafkaSignalSink(producer *pkgkafka.Producer, topic string) repository.SignalSink {
	return &KafkaSignalSink{producer: producer, topic: topic}
}

func (p *KafkaSignalSink) Publish(ctx context.Context, s models.PDMSignal) error {
	return p.producer.Publish(ctx, p.topic, []byte(s.Symbol), s)
}

func (p *KafkaSignalSink) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
