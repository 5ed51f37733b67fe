// Package settlement drives the draw lifecycle: close, publish-result, and
// the all-or-nothing settlement pass that resolves every pending ticket.
package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/ledger"
	"github.com/hhpro-max/lucky-lottery/internal/prize"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
)

// Settler orchestrates draw lifecycle transitions. Every operation runs in
// one store transaction and serializes on the draw row lock, so two
// concurrent settles (or a settle racing a close) cannot interleave.
type Settler struct {
	db      repository.Beginner
	draws   repository.DrawRepository
	tickets repository.TicketRepository
	payouts repository.PayoutRepository
	outbox  repository.OutboxRepository
	engine  *ledger.Engine
	logger  *slog.Logger
}

// NewSettler creates a settlement orchestrator.
func NewSettler(
	db repository.Beginner,
	draws repository.DrawRepository,
	tickets repository.TicketRepository,
	payouts repository.PayoutRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	logger *slog.Logger,
) *Settler {
	return &Settler{
		db:      db,
		draws:   draws,
		tickets: tickets,
		payouts: payouts,
		outbox:  outbox,
		engine:  engine,
		logger:  logger,
	}
}

// TierInput is one prize tier of a publish-result request.
type TierInput struct {
	MatchCount  int   `json:"match_count"`
	PrizeAmount int64 `json:"prize_amount"`
}

// Summary reports the outcome of a settlement pass.
type Summary struct {
	PayoutCount int   `json:"payout_count"`
	TotalPaid   int64 `json:"total_paid"`
}

// CloseDraw transitions a draw from scheduled to completed, stopping ticket
// sales.
func (s *Settler) CloseDraw(ctx context.Context, drawID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	draw, err := s.draws.LockForUpdate(ctx, tx, drawID)
	if err != nil {
		return domain.ErrInternal("lock draw", err)
	}
	if draw == nil {
		return domain.ErrNotFound("draw", drawID.String())
	}
	if draw.Status != domain.DrawScheduled {
		return domain.ErrCannotClose()
	}

	if err := s.draws.UpdateStatus(ctx, tx, drawID, domain.DrawCompleted); err != nil {
		return domain.ErrInternal("close draw", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewDrawClosedEvent(drawID)); err != nil {
		return domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("draw closed", "draw_id", drawID)
	return nil
}

// PublishResult records the winning numbers, prize tiers, and optional
// jackpot for a closed draw. At most one result per draw; duplicate tier
// match counts are rejected up front so settlement never sees an ambiguous
// tier table.
func (s *Settler) PublishResult(ctx context.Context, drawID uuid.UUID, numbers []int32, tiers []TierInput, jackpotAmount *int64) (*domain.DrawResult, error) {
	if err := domain.ValidateNumbers(numbers); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	seen := make(map[int]bool, len(tiers))
	for _, tier := range tiers {
		if tier.MatchCount < 0 {
			return nil, domain.ErrValidation(fmt.Sprintf("match_count must not be negative, got %d", tier.MatchCount))
		}
		if tier.PrizeAmount <= 0 {
			return nil, domain.ErrValidation(fmt.Sprintf("prize_amount must be positive, got %d", tier.PrizeAmount))
		}
		if seen[tier.MatchCount] {
			return nil, domain.ErrValidation(fmt.Sprintf("duplicate prize tier for match count %d", tier.MatchCount))
		}
		seen[tier.MatchCount] = true
	}
	if jackpotAmount != nil && *jackpotAmount <= 0 {
		return nil, domain.ErrValidation("jackpot amount must be positive")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	draw, err := s.draws.LockForUpdate(ctx, tx, drawID)
	if err != nil {
		return nil, domain.ErrInternal("lock draw", err)
	}
	if draw == nil {
		return nil, domain.ErrNotFound("draw", drawID.String())
	}
	if draw.Status != domain.DrawCompleted {
		return nil, domain.ErrMustCloseFirst()
	}

	existing, err := s.draws.FindResult(ctx, tx, drawID)
	if err != nil {
		return nil, domain.ErrInternal("find draw result", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("draw result already published")
	}

	result := &domain.DrawResult{
		ID:            uuid.New(),
		LotteryDrawID: drawID,
		Numbers:       numbers,
		DrawTime:      time.Now(),
	}
	if err := s.draws.InsertResult(ctx, tx, result); err != nil {
		return nil, domain.ErrInternal("insert draw result", err)
	}

	for _, tier := range tiers {
		err := s.draws.InsertTier(ctx, tx, &domain.PrizeTier{
			ID:            uuid.New(),
			LotteryDrawID: drawID,
			MatchCount:    tier.MatchCount,
			PrizeAmount:   tier.PrizeAmount,
		})
		if err != nil {
			return nil, domain.ErrInternal("insert prize tier", err)
		}
	}

	if jackpotAmount != nil {
		err := s.draws.InsertJackpot(ctx, tx, &domain.Jackpot{
			ID:            uuid.New(),
			LotteryDrawID: drawID,
			Amount:        *jackpotAmount,
			RolledOver:    false,
		})
		if err != nil {
			return nil, domain.ErrInternal("insert jackpot", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("draw result published", "draw_id", drawID, "tiers", len(tiers))
	return result, nil
}

// SettleDraw resolves every pending ticket of a completed draw: winners get
// a payout row, a wallet credit with its ledger entry, and status=winner;
// the rest become losers. The whole pass commits or rolls back as one store
// transaction, and the draw moves to the terminal settled status inside it.
//
// Settling an already-settled draw is a no-op returning a zero Summary, so
// admin retries are safe.
func (s *Settler) SettleDraw(ctx context.Context, drawID uuid.UUID) (*Summary, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	draw, err := s.draws.LockForUpdate(ctx, tx, drawID)
	if err != nil {
		return nil, domain.ErrInternal("lock draw", err)
	}
	if draw == nil {
		return nil, domain.ErrNotFound("draw", drawID.String())
	}
	if draw.Status == domain.DrawSettled {
		return &Summary{}, nil
	}
	if draw.Status != domain.DrawCompleted {
		return nil, domain.ErrNotReady()
	}

	result, err := s.draws.FindResult(ctx, tx, drawID)
	if err != nil {
		return nil, domain.ErrInternal("find draw result", err)
	}
	if result == nil {
		return nil, domain.ErrResultMissing()
	}

	tiers, err := s.draws.ListTiers(ctx, tx, drawID)
	if err != nil {
		return nil, domain.ErrInternal("list prize tiers", err)
	}
	if len(tiers) == 0 {
		return nil, domain.ErrNoTiers()
	}
	table, err := prize.BuildTierTable(tiers)
	if err != nil {
		// Publish-time validation rejects duplicates; hitting this means
		// the tier rows were tampered with outside the API.
		return nil, domain.ErrInternal("build tier table", err)
	}

	tickets, err := s.tickets.ListPendingByDraw(ctx, tx, drawID)
	if err != nil {
		return nil, domain.ErrInternal("list pending tickets", err)
	}

	summary := &Summary{}
	now := time.Now()
	for i := range tickets {
		ticket := &tickets[i]
		matchCount, amount, won := prize.Evaluate(ticket.Numbers, result.Numbers, table)
		if !won {
			if err := s.tickets.UpdateStatus(ctx, tx, ticket.ID, domain.TicketLoser); err != nil {
				return nil, domain.ErrInternal("mark ticket loser", err)
			}
			continue
		}

		payout := &domain.Payout{
			ID:          uuid.New(),
			UserID:      ticket.UserID,
			TicketID:    ticket.ID,
			Amount:      amount,
			Status:      domain.PayoutCompleted,
			ProcessedAt: now,
		}
		if err := s.payouts.Insert(ctx, tx, payout); err != nil {
			return nil, domain.ErrInternal("insert payout", err)
		}

		_, err := s.engine.ExecutePayoutCredit(ctx, tx, domain.PayoutCreditParams{
			UserID:   ticket.UserID,
			Amount:   amount,
			TicketID: ticket.ID,
		})
		if err != nil {
			return nil, domain.ErrInternal("credit payout", err)
		}

		if err := s.tickets.UpdateStatus(ctx, tx, ticket.ID, domain.TicketWinner); err != nil {
			return nil, domain.ErrInternal("mark ticket winner", err)
		}

		summary.PayoutCount++
		summary.TotalPaid += amount
		s.logger.Debug("ticket won",
			"ticket_id", ticket.ID, "match_count", matchCount, "prize", amount)
	}

	if err := s.draws.UpdateStatus(ctx, tx, drawID, domain.DrawSettled); err != nil {
		return nil, domain.ErrInternal("mark draw settled", err)
	}
	event := domain.NewDrawSettledEvent(drawID, summary.PayoutCount, summary.TotalPaid)
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("draw settled",
		"draw_id", drawID,
		"tickets", len(tickets),
		"payout_count", summary.PayoutCount,
		"total_paid", summary.TotalPaid,
	)
	return summary, nil
}
