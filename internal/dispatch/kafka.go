package dispatch

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"geofence-control-plane/internal/event"
)

// KafkaDispatcher implements Dispatcher using segmentio/kafka-go.
type KafkaDispatcher struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaDispatcher creates a Kafka dispatcher that writes geofence events to
// the given topic. Returns (nil, nil) when brokers or topic are empty so the
// caller can treat Kafka dispatch as disabled. Call Close when shutting down.
func NewKafkaDispatcher(brokers []string, topic string) (*KafkaDispatcher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaDispatcher{writer: writer, topic: topic}, nil
}

// Dispatch serializes the event as JSON and writes it to the Kafka topic.
// The message key is the user name so events for one user stay ordered within
// a partition. Uses a short timeout so slow Kafka does not block callers
// indefinitely.
func (d *KafkaDispatcher) Dispatch(ctx context.Context, ev *event.Event) error {
	if d == nil || d.writer == nil || ev == nil {
		return nil
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = d.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(ev.Tokens.User),
		Value: payload,
	})
	if err != nil {
		log.Printf("dispatch: kafka write failed: %v", err)
		return err
	}
	return nil
}

// Close closes the Kafka writer. Safe to call multiple times.
func (d *KafkaDispatcher) Close() error {
	if d == nil || d.writer == nil {
		return nil
	}
	return d.writer.Close()
}
