package event

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"gift-service/internal/port"
	"gift-service/pkg/config"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewWriter creates a synchronous writer for the order topic
func NewWriter(cfg *config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrderTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}
}

// KafkaPublisher publishes an OrderPlaced event for every committed order
type KafkaPublisher struct {
	writer   MessageWriter
	producer string
	now      func() time.Time
}

func NewKafkaPublisher(writer MessageWriter, producer string) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, producer: producer, now: time.Now}
}

func (p *KafkaPublisher) Name() string {
	return "kafka"
}

// NotifyOrder implements port.OrderNotifier
func (p *KafkaPublisher) NotifyOrder(ctx context.Context, placed port.OrderPlaced) error {
	order := placed.Order
	payload, err := json.Marshal(OrderPlacedPayload{
		OrderID:     order.ID,
		MemberID:    placed.MemberID,
		ProductID:   order.Product.ID,
		ProductName: order.Product.Name,
		OptionID:    order.Option.ID,
		OptionName:  order.Option.Name,
		Quantity:    order.Quantity,
		Message:     order.Message,
		OrderedAt:   order.OrderedAt,
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	orderID := strconv.FormatUint(uint64(order.ID), 10)
	value, err := json.Marshal(Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  eventVersion,
		OccurredAt:    p.now().UTC(),
		Producer:      p.producer,
		CorrelationID: orderID,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(orderID),
		Value: value,
		Time:  p.now(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderPlaced)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order %s: %w", orderID, err)
	}
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
