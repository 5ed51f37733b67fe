package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type payoutRepo struct{}

// NewPayoutRepository returns a pgx-backed PayoutRepository.
func NewPayoutRepository() PayoutRepository {
	return &payoutRepo{}
}

const payoutColumns = `id, user_id, ticket_id, amount, status, processed_at, created_at`

func (r *payoutRepo) Insert(ctx context.Context, db DBTX, payout *domain.Payout) error {
	_, err := db.Exec(ctx, `
		INSERT INTO payouts (id, user_id, ticket_id, amount, status, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		payout.ID, payout.UserID, payout.TicketID,
		Int64ToNumeric(payout.Amount), string(payout.Status), payout.ProcessedAt)
	if err != nil {
		return fmt.Errorf("insert payout: %w", err)
	}
	return nil
}

func (r *payoutRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Payout, error) {
	row := db.QueryRow(ctx,
		`SELECT `+payoutColumns+` FROM payouts WHERE id = $1`, id)

	p, err := scanPayout(row)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *payoutRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Payout, error) {
	rows, err := db.Query(ctx, `
		SELECT `+payoutColumns+` FROM payouts
		WHERE user_id = $1 ORDER BY processed_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query payouts: %w", err)
	}
	defer rows.Close()
	return collectPayouts(rows)
}

func (r *payoutRepo) ListByDraw(ctx context.Context, db DBTX, drawID uuid.UUID) ([]domain.Payout, error) {
	rows, err := db.Query(ctx, `
		SELECT p.id, p.user_id, p.ticket_id, p.amount, p.status, p.processed_at, p.created_at
		FROM payouts p
		JOIN tickets t ON t.id = p.ticket_id
		WHERE t.lottery_draw_id = $1
		ORDER BY p.processed_at DESC`, drawID)
	if err != nil {
		return nil, fmt.Errorf("query draw payouts: %w", err)
	}
	defer rows.Close()
	return collectPayouts(rows)
}

func scanPayout(row pgx.Row) (*domain.Payout, error) {
	var p domain.Payout
	var amountNum pgtype.Numeric
	err := row.Scan(&p.ID, &p.UserID, &p.TicketID, &amountNum, &p.Status, &p.ProcessedAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payout: %w", err)
	}
	if p.Amount, err = NumericToInt64(amountNum); err != nil {
		return nil, fmt.Errorf("convert payout amount: %w", err)
	}
	return &p, nil
}

func collectPayouts(rows pgx.Rows) ([]domain.Payout, error) {
	var payouts []domain.Payout
	for rows.Next() {
		var p domain.Payout
		var amountNum pgtype.Numeric
		if err := rows.Scan(&p.ID, &p.UserID, &p.TicketID, &amountNum, &p.Status, &p.ProcessedAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payout row: %w", err)
		}
		var err error
		if p.Amount, err = NumericToInt64(amountNum); err != nil {
			return nil, err
		}
		payouts = append(payouts, p)
	}
	return payouts, rows.Err()
}
