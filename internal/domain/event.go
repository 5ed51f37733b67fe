package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventTransactionPosted EventType = "lottery.wallet.transaction.posted"
	EventTicketPurchased   EventType = "lottery.ticket.purchased"
	EventDrawClosed        EventType = "lottery.draw.closed"
	EventDrawSettled       EventType = "lottery.draw.settled"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateWallet AggregateType = "wallet"
	AggregateTicket AggregateType = "ticket"
	AggregateDraw   AggregateType = "draw"
)

// OutboxDraft is the payload written to the event_outbox table. Events are
// inserted in the same store transaction as the state change they describe
// and published asynchronously by the outbox poller.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// OutboxRow is an OutboxDraft with its store-assigned sequence ID, as read
// back by the poller.
type OutboxRow struct {
	SeqID int64
	OutboxDraft
}
