package notification

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
)

// Sink is the outbound publish boundary. The dispatcher owns batching and
// retry; a sink only has to deliver one batch or fail it.
type Sink interface {
	Publish(ctx context.Context, facts []Fact) error
}

// KafkaSink publishes facts as one message per {event, attendee} pair, keyed
// by event id so a consumer sees an event's facts in order.
type KafkaSink struct {
	Writer *kafka.Writer
}

func NewKafkaSink(w *kafka.Writer) *KafkaSink {
	return &KafkaSink{Writer: w}
}

func (s *KafkaSink) Publish(ctx context.Context, facts []Fact) error {
	msgs := make([]kafka.Message, 0, len(facts))
	for _, f := range facts {
		payload, err := json.Marshal(f)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(f.EventID.String()),
			Value: payload,
		})
	}
	return s.Writer.WriteMessages(ctx, msgs...)
}
