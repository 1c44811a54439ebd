package utils

import (
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/atalvarez9/events-directory-backend/config"
)

var KafkaWriter *kafka.Writer

// InitializeKafka sets up the writer used by the notification dispatcher.
// The writer batches internally; delivery retries beyond its own are handled
// by the dispatcher.
func InitializeKafka(cfg *config.Config) {
	KafkaWriter = &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
	}
	log.Printf("✅ Kafka writer ready (topic=%s brokers=%v)", cfg.KafkaTopic, cfg.KafkaBrokers)
}

// CloseKafka flushes and closes the shared writer.
func CloseKafka() {
	if KafkaWriter != nil {
		if err := KafkaWriter.Close(); err != nil {
			log.Printf("⚠️ Kafka writer close: %v", err)
		}
	}
}
