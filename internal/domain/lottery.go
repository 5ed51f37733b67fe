package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GameType represents a game_types row. Rules holds the serialized rule set
// consumed by the rules resolver; it is validated against the closed schema
// when an admin writes it.
type GameType struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Rules       json.RawMessage `json:"rules"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DrawStatus tracks the lifecycle of a lottery draw.
type DrawStatus string

const (
	// DrawScheduled means ticket sales are open.
	DrawScheduled DrawStatus = "scheduled"
	// DrawCompleted means sales are closed, awaiting or holding results.
	DrawCompleted DrawStatus = "completed"
	// DrawSettled is terminal: all pending tickets have been resolved and
	// winners paid. Guards against double settlement.
	DrawSettled DrawStatus = "settled"
	// DrawCancelled is terminal; no settlement will happen.
	DrawCancelled DrawStatus = "cancelled"
)

// LotteryDraw represents a lottery_draws row.
type LotteryDraw struct {
	ID         uuid.UUID  `json:"id"`
	GameTypeID uuid.UUID  `json:"game_type_id"`
	DrawTime   time.Time  `json:"draw_time"`
	Status     DrawStatus `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DrawResult holds the winning numbers for a draw. One per draw at most.
type DrawResult struct {
	ID            uuid.UUID `json:"id"`
	LotteryDrawID uuid.UUID `json:"lottery_draw_id"`
	Numbers       []int32   `json:"numbers"`
	DrawTime      time.Time `json:"draw_time"`
}

// PrizeTier maps an exact match count to a prize amount for one draw.
// match_count is unique per draw.
type PrizeTier struct {
	ID            uuid.UUID `json:"id"`
	LotteryDrawID uuid.UUID `json:"lottery_draw_id"`
	MatchCount    int       `json:"match_count"`
	PrizeAmount   int64     `json:"prize_amount"`
}

// Jackpot is an optional per-draw jackpot record. It is informational in the
// settlement pass: it is stored and reported with results but never paid
// automatically to any tier.
type Jackpot struct {
	ID            uuid.UUID `json:"id"`
	LotteryDrawID uuid.UUID `json:"lottery_draw_id"`
	Amount        int64     `json:"amount"`
	RolledOver    bool      `json:"rolled_over"`
}
