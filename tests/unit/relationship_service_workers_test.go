package unit

import (
	"context"
	"testing"

	relationshipservice "rookery/contexts/social-graph/relationship-service"
	"rookery/contexts/social-graph/relationship-service/application/workers"
	"rookery/contexts/social-graph/relationship-service/ports"
	httptransport "rookery/contexts/social-graph/relationship-service/transport/http"
)

type capturingPublisher struct {
	published []ports.EventEnvelope
	topics    []string
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.published = append(p.published, event)
	p.topics = append(p.topics, topic)
	return nil
}

func TestOutboxRelayPublishesRequestEventOnce(t *testing.T) {
	module := relationshipservice.NewInMemoryModule(nil, nil)

	if _, err := module.Handler.SendRequestHandler(
		context.Background(),
		"alice",
		"Alice",
		httptransport.SendRequestRequest{AddresseeID: "bob"},
	); err != nil {
		t.Fatalf("send request should succeed: %v", err)
	}

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
	}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay cycle failed: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.published))
	}
	event := publisher.published[0]
	if event.EventType != "relationship.requested" {
		t.Fatalf("unexpected event type %s", event.EventType)
	}
	if publisher.topics[0] != "relationship.requested" {
		t.Fatalf("topic must follow the event type, got %s", publisher.topics[0])
	}

	// Published rows stay published; a second cycle republishes nothing.
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay cycle failed: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected no republishing, got %d events", len(publisher.published))
	}
}

func TestOutboxRelayCoversAcceptAndBlock(t *testing.T) {
	module := relationshipservice.NewInMemoryModule(nil, nil)

	if _, err := module.Handler.SendRequestHandler(
		context.Background(),
		"alice",
		"Alice",
		httptransport.SendRequestRequest{AddresseeID: "bob"},
	); err != nil {
		t.Fatalf("send request should succeed: %v", err)
	}
	if _, err := module.Handler.RespondRequestHandler(
		context.Background(),
		"bob",
		"Bob",
		"alice",
		httptransport.RespondRequestRequest{Action: "accept"},
	); err != nil {
		t.Fatalf("accept should succeed: %v", err)
	}
	if _, err := module.Handler.BlockActorHandler(
		context.Background(),
		"carol",
		httptransport.BlockActorRequest{TargetID: "alice"},
	); err != nil {
		t.Fatalf("block should succeed: %v", err)
	}

	publisher := &capturingPublisher{}
	relay := workers.OutboxRelay{
		Outbox:    module.Store,
		Publisher: publisher,
	}
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay cycle failed: %v", err)
	}

	seen := make(map[string]int)
	for _, event := range publisher.published {
		seen[event.EventType]++
	}
	for _, want := range []string{"relationship.requested", "relationship.accepted", "relationship.blocked"} {
		if seen[want] != 1 {
			t.Fatalf("expected one %s event, got %d (all: %v)", want, seen[want], seen)
		}
	}
}
