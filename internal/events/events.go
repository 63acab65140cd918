// Package events publishes ledger change notifications.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types double as AMQP routing keys.
const (
	AccountCreated     = "account.created"
	AccountUpdated     = "account.updated"
	AccountDeleted     = "account.deleted"
	CategoryCreated    = "category.created"
	CategoryUpdated    = "category.updated"
	CategoryDeleted    = "category.deleted"
	TransactionCreated = "transaction.created"
	TransactionUpdated = "transaction.updated"
	TransactionDeleted = "transaction.deleted"
)

// Event describes a committed change to a user's ledger.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	ResourceID string    `json:"resourceId"`
	Amount     *int64    `json:"amount,omitempty"` // miliunits, transactions only
	OccurredAt time.Time `json:"occurredAt"`
}

// New stamps an event with the current time.
func New(eventType, userID, resourceID string) Event {
	return Event{
		Type:       eventType,
		UserID:     userID,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC(),
	}
}

// WithAmount returns a copy of e carrying amount.
func (e Event) WithAmount(amount int64) Event {
	e.Amount = &amount
	return e
}

// ToJSON encodes the event body.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to interested consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
