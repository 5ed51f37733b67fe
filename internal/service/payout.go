package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
)

// PayoutService exposes payout history reads.
type PayoutService struct {
	pool    repository.DBTX
	payouts repository.PayoutRepository
}

// NewPayoutService creates a payout service.
func NewPayoutService(pool repository.DBTX, payouts repository.PayoutRepository) *PayoutService {
	return &PayoutService{pool: pool, payouts: payouts}
}

// ListByUser returns the user's payouts newest first.
func (s *PayoutService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Payout, error) {
	list, err := s.payouts.ListByUser(ctx, s.pool, userID)
	if err != nil {
		return nil, domain.ErrInternal("list payouts", err)
	}
	return list, nil
}

// GetByID returns one payout. Non-owners get NOT_FOUND unless the requester
// is an admin, so payout IDs are not enumerable.
func (s *PayoutService) GetByID(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*domain.Payout, error) {
	payout, err := s.payouts.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find payout", err)
	}
	if payout == nil {
		return nil, domain.ErrNotFound("payout", id.String())
	}
	if payout.UserID != requesterID && !isAdmin {
		return nil, domain.ErrNotFound("payout", id.String())
	}
	return payout, nil
}

// ListByDraw returns every payout generated by one draw's settlement.
func (s *PayoutService) ListByDraw(ctx context.Context, drawID uuid.UUID) ([]domain.Payout, error) {
	list, err := s.payouts.ListByDraw(ctx, s.pool, drawID)
	if err != nil {
		return nil, domain.ErrInternal("list payouts", err)
	}
	return list, nil
}
