package utils

import (
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/vibra-events/vibra-backend/config"
)

// NewKafkaWriter returns a producer for KAFKA_TOPIC, or nil when kafka is not configured.
func NewKafkaWriter(cfg *config.Config) *kafka.Writer {
	if !cfg.KafkaEnabled() {
		return nil
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           50 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaReader returns a consumer-group reader for KAFKA_TOPIC, or nil when kafka is not configured.
func NewKafkaReader(cfg *config.Config) *kafka.Reader {
	if !cfg.KafkaEnabled() {
		return nil
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		GroupID:  cfg.KafkaGroupID,
		Topic:    cfg.KafkaTopic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
}
