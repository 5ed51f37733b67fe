// Package service holds the player-facing business operations built on the
// repositories and the ledger engine.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/ledger"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
	"github.com/hhpro-max/lucky-lottery/internal/rules"
)

// MinTicketPriceKey is the settings key for the platform-wide price floor.
const MinTicketPriceKey = "min_ticket_price"

// TicketService handles ticket purchase and lookup.
type TicketService struct {
	db        repository.Beginner
	draws     repository.DrawRepository
	gameTypes repository.GameTypeRepository
	tickets   repository.TicketRepository
	settings  repository.SettingRepository
	outbox    repository.OutboxRepository
	engine    *ledger.Engine
	logger    *slog.Logger
}

// NewTicketService creates a ticket service.
func NewTicketService(
	db repository.Beginner,
	draws repository.DrawRepository,
	gameTypes repository.GameTypeRepository,
	tickets repository.TicketRepository,
	settings repository.SettingRepository,
	outbox repository.OutboxRepository,
	engine *ledger.Engine,
	logger *slog.Logger,
) *TicketService {
	return &TicketService{
		db:        db,
		draws:     draws,
		gameTypes: gameTypes,
		tickets:   tickets,
		settings:  settings,
		outbox:    outbox,
		engine:    engine,
		logger:    logger,
	}
}

// PurchaseParams carries a ticket purchase request.
type PurchaseParams struct {
	UserID  uuid.UUID
	DrawID  uuid.UUID
	Numbers []int32
}

// PurchaseResult is the outcome of a successful purchase.
type PurchaseResult struct {
	Ticket *domain.Ticket `json:"ticket"`
	Price  int64          `json:"price"`
}

// Purchase validates the pick against the draw's game rules, debits the
// wallet, and records the ticket in one store transaction, so a failed
// debit never leaves an orphan ticket and a failed insert never keeps the
// player's money.
func (s *TicketService) Purchase(ctx context.Context, params PurchaseParams) (*PurchaseResult, error) {
	if err := domain.ValidateNumbers(params.Numbers); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	draw, err := s.draws.FindByID(ctx, tx, params.DrawID)
	if err != nil {
		return nil, domain.ErrInternal("find draw", err)
	}
	if draw == nil {
		return nil, domain.ErrNotFound("draw", params.DrawID.String())
	}
	if draw.Status != domain.DrawScheduled {
		return nil, domain.ErrDrawClosed()
	}

	gameType, err := s.gameTypes.FindByID(ctx, tx, draw.GameTypeID)
	if err != nil {
		return nil, domain.ErrInternal("find game type", err)
	}
	if gameType == nil || !gameType.Active {
		return nil, domain.ErrGameUnavailable()
	}

	ruleSet := rules.Parse(gameType.Rules)
	if appErr := rules.ValidateSelection(ruleSet, params.Numbers); appErr != nil {
		return nil, appErr
	}

	floor, _, err := s.settings.GetInt64(ctx, tx, MinTicketPriceKey)
	if err != nil {
		return nil, domain.ErrInternal("read min ticket price", err)
	}
	price := rules.ResolvePrice(ruleSet, floor)

	_, err = s.engine.ExecutePurchaseDebit(ctx, tx, domain.PurchaseDebitParams{
		UserID: params.UserID,
		Price:  price,
		DrawID: params.DrawID,
	})
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		ID:            uuid.New(),
		UserID:        params.UserID,
		LotteryDrawID: params.DrawID,
		Numbers:       params.Numbers,
		PurchaseTime:  time.Now(),
		Status:        domain.TicketPending,
	}
	if err := s.tickets.Insert(ctx, tx, ticket); err != nil {
		return nil, domain.ErrInternal("insert ticket", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewTicketPurchasedEvent(ticket)); err != nil {
		return nil, domain.ErrInternal("insert outbox event", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("ticket purchased",
		"ticket_id", ticket.ID, "user_id", params.UserID,
		"draw_id", params.DrawID, "price", price)
	return &PurchaseResult{Ticket: ticket, Price: price}, nil
}

// ListByUser returns the user's tickets, optionally filtered to one draw.
func (s *TicketService) ListByUser(ctx context.Context, db repository.DBTX, userID uuid.UUID, drawID *uuid.UUID) ([]domain.Ticket, error) {
	tickets, err := s.tickets.ListByUser(ctx, db, userID, drawID)
	if err != nil {
		return nil, domain.ErrInternal("list tickets", err)
	}
	return tickets, nil
}

// GetByID returns a ticket visible to the requesting user. Admins may read
// any ticket; players only their own.
func (s *TicketService) GetByID(ctx context.Context, db repository.DBTX, id, requesterID uuid.UUID, isAdmin bool) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, db, id)
	if err != nil {
		return nil, domain.ErrInternal("find ticket", err)
	}
	if ticket == nil {
		return nil, domain.ErrNotFound("ticket", id.String())
	}
	if !isAdmin && ticket.UserID != requesterID {
		return nil, domain.ErrNotFound("ticket", id.String())
	}
	return ticket, nil
}

// DrawResultView bundles a draw's published result with its prize tiers and
// optional jackpot.
type DrawResultView struct {
	Result  *domain.DrawResult `json:"result"`
	Tiers   []domain.PrizeTier `json:"tiers"`
	Jackpot *domain.Jackpot    `json:"jackpot,omitempty"`
}

// GetDrawResult returns the published result for a draw.
func (s *TicketService) GetDrawResult(ctx context.Context, db repository.DBTX, drawID uuid.UUID) (*DrawResultView, error) {
	draw, err := s.draws.FindByID(ctx, db, drawID)
	if err != nil {
		return nil, domain.ErrInternal("find draw", err)
	}
	if draw == nil {
		return nil, domain.ErrNotFound("draw", drawID.String())
	}

	result, err := s.draws.FindResult(ctx, db, drawID)
	if err != nil {
		return nil, domain.ErrInternal("find draw result", err)
	}
	if result == nil {
		return nil, domain.ErrNotFound("result for draw", drawID.String())
	}

	tiers, err := s.draws.ListTiers(ctx, db, drawID)
	if err != nil {
		return nil, domain.ErrInternal("list prize tiers", err)
	}
	jackpot, err := s.draws.FindJackpot(ctx, db, drawID)
	if err != nil {
		return nil, domain.ErrInternal("find jackpot", err)
	}

	return &DrawResultView{Result: result, Tiers: tiers, Jackpot: jackpot}, nil
}
