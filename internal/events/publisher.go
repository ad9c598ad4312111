package events

import (
	"context"
	"encoding/json"
	"time"

	"storefront/internal/domain"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

const TypeOrderPlaced = "order.placed"

// OrderPlaced is the payload emitted once an order is durable.
type OrderPlaced struct {
	Type      string          `json:"type"`
	OrderID   string          `json:"orderId"`
	UserID    string          `json:"userId"`
	Mode      string          `json:"mode"`
	Total     decimal.Decimal `json:"total"`
	LineCount int             `json:"lineCount"`
	PlacedAt  time.Time       `json:"placedAt"`
}

// NewOrderPlaced builds the event for o.
func NewOrderPlaced(o domain.Order, mode string) OrderPlaced {
	return OrderPlaced{
		Type:      TypeOrderPlaced,
		OrderID:   o.ID,
		UserID:    o.OwnerID,
		Mode:      mode,
		Total:     o.Total,
		LineCount: len(o.Items),
		PlacedAt:  o.PlacedAt,
	}
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error
	Close() error
}

// KafkaPublisher writes events keyed by user id so one user's orders stay ordered.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: 5 * time.Second,
		MaxAttempts:  3,
	}
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, evt OrderPlaced) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.UserID),
		Value: data,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(evt.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Noop drops every event.
type Noop struct{}

func (Noop) PublishOrderPlaced(context.Context, OrderPlaced) error { return nil }

func (Noop) Close() error { return nil }
