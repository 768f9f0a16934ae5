// Package events announces operator actions (approvals, stream starts,
// catalog edits) to other marketplace services over AMQP.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/atlasdata/alfurij-admin/internal/platform/otel"
	"github.com/atlasdata/alfurij-admin/internal/platform/telemetry/metrics"
	"github.com/atlasdata/alfurij-admin/internal/platform/timeouts"
)

// Exchange is the durable fanout exchange actions are published to.
const Exchange = "admin_actions_exchange"

// Kind names one operator action.
type Kind string

const (
	ListingApproved  Kind = "listing.approved"
	ListingRejected  Kind = "listing.rejected"
	ListingCreated   Kind = "listing.created"
	StreamStarted    Kind = "stream.started"
	StreamEnded      Kind = "stream.ended"
	StreamSaved      Kind = "stream.saved"
	BannerCreated    Kind = "banner.created"
	BannerDeleted    Kind = "banner.deleted"
	BannersReordered Kind = "banner.reordered"
	ModelSaved       Kind = "model.saved"
	ModelDeleted     Kind = "model.deleted"
	ModelsCleared    Kind = "model.cleared"
	EmployeeCreated  Kind = "employee.created"
)

// Event is the JSON body of one published message.
type Event struct {
	Kind       Kind              `json:"kind"`
	ResourceID string            `json:"resource_id,omitempty"`
	ActorID    string            `json:"actor_id,omitempty"`
	ActorEmail string            `json:"actor_email,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Publisher announces events. Publishing is best effort: callers log the
// error and carry on, the upstream mutation already happened.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Noop discards events; it is used when no broker is configured.
type Noop struct{}

// Publish discards event.
func (Noop) Publish(context.Context, Event) error { return nil }

// Close does nothing.
func (Noop) Close() error { return nil }

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes events to Exchange.
type AMQPPublisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	ch      channel
	metrics *metrics.Registry
	now     func() time.Time
}

// Dial connects to the broker at url and declares Exchange.
func Dial(url string, reg *metrics.Registry) (*AMQPPublisher, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("events: amqp url is required")
	}
	conn, err := amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeouts.APIDial),
	})
	if err != nil {
		return nil, fmt.Errorf("events: dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("events: open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		Exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("events: declare exchange: %w", err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, metrics: reg, now: time.Now}, nil
}

// Publish sends event as a persistent JSON message.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", event.Kind, err)
	}
	ctx, span := otel.Tracer("admin/events").Start(ctx, "events.publish")
	span.SetAttributes(attribute.String("admin.event.kind", string(event.Kind)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, timeouts.EventPublish)
	defer cancel()

	p.mu.Lock()
	err = p.ch.PublishWithContext(ctx,
		Exchange, // exchange
		"",       // routing key
		false,    // mandatory
		false,    // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Type:         string(event.Kind),
			Body:         body,
		})
	p.mu.Unlock()
	p.metrics.EventPublished(string(event.Kind), err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("events: publish %s: %w", event.Kind, err)
	}
	return nil
}

// Close closes the channel and connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	if p.ch != nil {
		if err := p.ch.Close(); err != nil {
			firstErr = err
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Emit publishes event on pub and logs failures; a nil pub is ignored.
func Emit(ctx context.Context, pub Publisher, event Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.Printf("admin: %v", err)
	}
}
