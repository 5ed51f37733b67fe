package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NewTransactionPostedEvent creates the standard wallet event for a ledger entry.
func NewTransactionPostedEvent(tx *Transaction) OutboxDraft {
	payload, _ := json.Marshal(tx)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateWallet,
		AggregateID:   tx.WalletID.String(),
		EventType:     EventTransactionPosted,
		PartitionKey:  tx.WalletID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewTicketPurchasedEvent creates a ticket lifecycle event.
func NewTicketPurchasedEvent(ticket *Ticket) OutboxDraft {
	payload, _ := json.Marshal(ticket)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateTicket,
		AggregateID:   ticket.ID.String(),
		EventType:     EventTicketPurchased,
		PartitionKey:  ticket.UserID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewDrawClosedEvent records the scheduled -> completed transition.
func NewDrawClosedEvent(drawID uuid.UUID) OutboxDraft {
	payload, _ := json.Marshal(map[string]string{"draw_id": drawID.String()})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateDraw,
		AggregateID:   drawID.String(),
		EventType:     EventDrawClosed,
		PartitionKey:  drawID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewDrawSettledEvent records a completed settlement pass.
func NewDrawSettledEvent(drawID uuid.UUID, payoutCount int, totalPaid int64) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"draw_id":      drawID.String(),
		"payout_count": payoutCount,
		"total_paid":   totalPaid,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateDraw,
		AggregateID:   drawID.String(),
		EventType:     EventDrawSettled,
		PartitionKey:  drawID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
