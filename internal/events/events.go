// Package events publishes household activity to an AMQP exchange so other
// tooling (exports, notifications) can react to changes. Publishing is
// optional: when no broker is configured the services carry a nil Publisher
// and skip it.
package events

import (
	"context"
	"encoding/json"
	"time"
)

// Event types carried on the exchange; also used as routing keys.
const (
	TypeExpenseCreated     = "expense.created"
	TypeExpenseUpdated     = "expense.updated"
	TypeExpenseDeleted     = "expense.deleted"
	TypeSettlementRecorded = "settlement.recorded"
)

// Event is the JSON envelope published for every mutation.
type Event struct {
	Type      string    `json:"type"`
	ExpenseID string    `json:"expense_id"`
	Month     string    `json:"month"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent builds an event stamped with the current time.
func NewEvent(eventType, expenseID, month string, amount float64) Event {
	return Event{
		Type:      eventType,
		ExpenseID: expenseID,
		Month:     month,
		Amount:    amount,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the event to JSON bytes.
func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher sends events somewhere. Implementations must be safe for
// sequential reuse; the single-session model never publishes concurrently.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
