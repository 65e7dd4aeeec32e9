package command

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"geofence-control-plane/internal/message"
)

// KafkaPublisher implements Publisher using segmentio/kafka-go. The command
// topic carries the device routing key "<prefix>/<user>/<device>/cmd" as the
// message key so a transport bridge can republish it to the right device.
type KafkaPublisher struct {
	writer *kafka.Writer
	prefix string
}

// NewKafkaPublisher creates a command publisher for the given topic. Returns
// (nil, nil) when brokers or topic are empty so the caller can treat command
// publishing as disabled. Call Close when shutting down.
func NewKafkaPublisher(brokers []string, topic, prefix string) (*KafkaPublisher, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, nil
	}
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	return &KafkaPublisher{writer: writer, prefix: prefix}, nil
}

// Publish serializes the command and writes it keyed by the device routing key.
func (p *KafkaPublisher) Publish(ctx context.Context, user, device string, cmd *message.Command) error {
	if p == nil || p.writer == nil || cmd == nil {
		return nil
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, kafka.Message{
		Key:   []byte(p.prefix + "/" + user + "/" + device + "/cmd"),
		Value: payload,
	})
}

// Close closes the Kafka writer. Safe to call multiple times.
func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
