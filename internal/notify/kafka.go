package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

const EventOrderPlaced = "order.placed"

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderEvent struct {
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Order      OrderSummary `json:"order"`
}

// Kafka publishes order events keyed by order id, so one order's events stay
// on one partition.
type Kafka struct {
	writer MessageWriter
}

func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
	}
}

func NewKafka(writer MessageWriter) *Kafka {
	return &Kafka{writer: writer}
}

func (k *Kafka) Notify(ctx context.Context, s OrderSummary) error {
	value, err := json.Marshal(OrderEvent{
		Type:       EventOrderPlaced,
		OccurredAt: time.Now().UTC(),
		Order:      s,
	})
	if err != nil {
		return err
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(s.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(EventOrderPlaced)},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: kafka: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}
