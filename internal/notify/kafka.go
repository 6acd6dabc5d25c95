package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

// MessageWriter is the part of *kafka.Writer the notifier needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ParseBrokers splits a comma separated broker list, dropping blanks.
func ParseBrokers(csv string) []string {
	var brokers []string
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

type BreakerConfig struct {
	// ConsecutiveFailures opens the breaker.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before letting a probe through.
	OpenTimeout time.Duration
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
	}
}

// KafkaNotifier publishes order events. Writes go through a circuit breaker so a dead broker
// costs one fast error instead of a write timeout per order.
type KafkaNotifier struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

func NewKafkaNotifier(writer MessageWriter, cfg BreakerConfig, logger *slog.Logger) *KafkaNotifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "kafka-notifier",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
		},
	})

	return &KafkaNotifier{
		writer:  writer,
		breaker: breaker,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return ulid.Make().String() },
	}
}

func (n *KafkaNotifier) OrderPlaced(ctx context.Context, order domain.Order) error {
	return n.publish(ctx, order, EventOrderPlaced, orderPlacedPayload(order))
}

func (n *KafkaNotifier) OrderStatusChanged(ctx context.Context, order domain.Order, status domain.OrderStatus, note string) error {
	return n.publish(ctx, order, EventOrderStatusChanged, map[string]any{
		"status":         string(status),
		"status_message": StatusMessage(status),
		"note":           note,
	})
}

func (n *KafkaNotifier) publish(ctx context.Context, order domain.Order, eventType string, payload map[string]any) error {
	event := Event{
		EventID:     n.newID(),
		Type:        eventType,
		OrderID:     order.ID.String(),
		OrderNumber: order.Number,
		UserID:      order.UserID,
		CreatedAt:   n.now().UTC(),
		Payload:     payload,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: data,
		Time:  event.CreatedAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(eventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}

	_, err = n.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, n.writer.WriteMessages(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	n.logger.DebugContext(ctx, "event published",
		slog.String("event_id", event.EventID),
		slog.String("type", eventType),
		slog.String("order_id", event.OrderID))

	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
