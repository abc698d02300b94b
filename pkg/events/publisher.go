// Package events publishes order lifecycle events to Kafka. Consumers
// (the notification service, reporting jobs) are decoupled from the API
// process.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TopicOrderCreated       = "order.created"
	TopicOrderCancelled     = "order.cancelled"
	TopicOrderPacked        = "order.packed"
	TopicOrderStatusChanged = "order.status_changed"
)

// Envelope is the wire format for every order event.
type Envelope struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id"`
	Payload   interface{} `json:"payload,omitempty"`
	EmittedAt time.Time   `json:"emitted_at"`
}

type KafkaPublisher struct {
	writer *kafkago.Writer
	cfg    *config.KafkaConfig
	logger *zap.Logger
}

func NewKafkaPublisher(cfg *config.KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafkago.Writer{
			Addr:         kafkago.TCP(cfg.Brokers...),
			Balancer:     &kafkago.LeastBytes{},
			RequiredAcks: kafkago.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Publish emits one event; the event type is the topic. Keyed by order ID
// so per-order ordering holds within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType, orderID string, payload interface{}) error {
	env := Envelope{
		Type:      eventType,
		OrderID:   orderID,
		Payload:   payload,
		EmittedAt: time.Now(),
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: p.cfg.Topic(eventType),
		Key:   []byte(orderID),
		Value: value,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NewReader builds a consumer for one event topic; used by the
// notification service.
func NewReader(cfg *config.KafkaConfig, topic, groupID string) *kafkago.Reader {
	return kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic(topic),
		GroupID:  groupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}
