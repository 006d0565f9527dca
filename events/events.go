// Package events publishes order lifecycle events on an in-process pub/sub.
// The transport is watermill's GoChannel; swapping in a broker-backed
// publisher only requires passing a different message.Publisher.
package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/shopspring/decimal"
)

const TopicOrders = "orders"

const (
	OrderPlaced        = "order.placed"
	OrderCancelled     = "order.cancelled"
	OrderPaid          = "order.paid"
	OrderStatusChanged = "order.status_changed"
)

// OrderEvent is the payload published for every order lifecycle change.
type OrderEvent struct {
	Type        string          `json:"type"`
	OrderID     uint            `json:"order_id"`
	OrderRef    string          `json:"order_ref"`
	UserID      uint            `json:"user_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// Publisher wraps a watermill publisher. A nil *Publisher is a no-op, so
// handlers work without messaging wired up (tests rely on this).
type Publisher struct {
	pub message.Publisher
}

func NewPublisher(pub message.Publisher) *Publisher {
	return &Publisher{pub: pub}
}

// NewGoChannel builds the in-process pub/sub used by the single-binary
// deployment. The returned GoChannel doubles as the subscriber side.
func NewGoChannel() (*Publisher, *gochannel.GoChannel) {
	ch := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	return &Publisher{pub: ch}, ch
}

// Publish emits ev on the orders topic. Publishing happens after the owning
// transaction commits, so failures are logged, never propagated.
func (p *Publisher) Publish(ev OrderEvent) {
	if p == nil || p.pub == nil {
		return
	}
	ev.OccurredAt = time.Now()

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("events: marshal %s: %v", ev.Type, err)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("type", ev.Type)
	if err := p.pub.Publish(TopicOrders, msg); err != nil {
		log.Printf("events: publish %s: %v", ev.Type, err)
	}
}

// LogOrderEvents consumes the orders topic and logs each event until ctx is
// cancelled.
func LogOrderEvents(ctx context.Context, sub message.Subscriber) error {
	messages, err := sub.Subscribe(ctx, TopicOrders)
	if err != nil {
		return err
	}
	go func() {
		for msg := range messages {
			log.Printf("order event %s: %s", msg.Metadata.Get("type"), msg.Payload)
			msg.Ack()
		}
	}()
	return nil
}
