package domain

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus tracks the lifecycle of a purchased ticket.
// pending -> winner or pending -> loser, exactly once, during settlement.
type TicketStatus string

const (
	TicketPending TicketStatus = "pending"
	TicketWinner  TicketStatus = "winner"
	TicketLoser   TicketStatus = "loser"
)

// Ticket represents a tickets row.
type Ticket struct {
	ID            uuid.UUID    `json:"id"`
	UserID        uuid.UUID    `json:"user_id"`
	LotteryDrawID uuid.UUID    `json:"lottery_draw_id"`
	Numbers       []int32      `json:"numbers"`
	PurchaseTime  time.Time    `json:"purchase_time"`
	Status        TicketStatus `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// PayoutStatus tracks a payout record. Payouts are written as completed in
// the settlement pass and never updated afterward.
type PayoutStatus string

const (
	PayoutCompleted PayoutStatus = "completed"
)

// Payout represents a payouts row. One per winning ticket (unique FK).
type Payout struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	TicketID    uuid.UUID    `json:"ticket_id"`
	Amount      int64        `json:"amount"`
	Status      PayoutStatus `json:"status"`
	ProcessedAt time.Time    `json:"processed_at"`
	CreatedAt   time.Time    `json:"created_at"`
}
