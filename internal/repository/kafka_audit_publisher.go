package repository

import (
	"context"
	"fmt"

	"FameFeed/internal/domain/models"
	pkgkafka "FameFeed/pkg/kafka"
)

// KafkaAuditSink publishes read-audit events to a Kafka topic, keyed by
// database so per-database ordering survives partitioning.
type KafkaAuditSink struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaAuditSink(producer *pkgkafka.Producer, topic string) *KafkaAuditSink {
	return &KafkaAuditSink{producer: producer, topic: topic}
}

func (s *KafkaAuditSink) Emit(ctx context.Context, ev models.ReadAudit) error {
	if err := s.producer.Publish(ctx, s.topic, []byte(ev.Database), ev); err != nil {
		return fmt.Errorf("publish audit %s: %w", ev.ID, err)
	}
	return nil
}

func (s *KafkaAuditSink) Close() error {
	return s.producer.Close()
}
