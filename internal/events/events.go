package events

import (
	"context"
	"sync"
	"time"
)

const (
	TransferCreated    = "transfer.created"
	TransferApproved   = "transfer.approved"
	TransferRejected   = "transfer.rejected"
	TransferUpdated    = "transfer.updated"
	TransferDeleted    = "transfer.deleted"
	CountStarted       = "count.started"
	CountFinalized     = "count.finalized"
	CountDeleted       = "count.deleted"
	ProductionApproved = "production.approved"
)

type Event struct {
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	ActorID     string    `json:"actor_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload,omitempty"`
}

func New(eventType, aggregateID, actorID string, payload any) Event {
	return Event{
		Type:        eventType,
		AggregateID: aggregateID,
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

// Publisher fans committed ledger changes out to other services. It is called
// after commit; a failure never undoes the change.
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, ...Event) error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, events ...Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
