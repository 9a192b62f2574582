package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"rookery/contexts/social-graph/relationship-service/ports"
)

// NATS is the event bus adapter used by the worker's outbox relay.
// Published subjects follow the event type, e.g. relationship.requested.
type NATS struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewNATS(servers []string, clientName string, logger *slog.Logger) (*NATS, error) {
	if len(servers) == 0 {
		return nil, fmt.Errorf("nats servers are required")
	}
	conn, err := nats.Connect(strings.Join(servers, ","),
		nats.Name(clientName),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(500*time.Millisecond),
		nats.Timeout(3*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &NATS{
		conn:   conn,
		logger: logger,
	}, nil
}

func (n *NATS) Publish(ctx context.Context, topic string, event ports.EventEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}
	if err := n.conn.Publish(topic, payload); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}

	if n.logger != nil {
		n.logger.Info("event published",
			"event", "nats_publish",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"topic", topic,
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
	}
	return nil
}

func (n *NATS) Close() error {
	if n == nil || n.conn == nil {
		return nil
	}
	return n.conn.Drain()
}

var _ ports.EventPublisher = (*NATS)(nil)
