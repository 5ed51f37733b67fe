package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/jackc/pgx/v5"
)

type ticketRepo struct{}

// NewTicketRepository returns a pgx-backed TicketRepository.
func NewTicketRepository() TicketRepository {
	return &ticketRepo{}
}

const ticketColumns = `id, user_id, lottery_draw_id, numbers, purchase_time, status, created_at`

func (r *ticketRepo) Insert(ctx context.Context, db DBTX, ticket *domain.Ticket) error {
	_, err := db.Exec(ctx, `
		INSERT INTO tickets (id, user_id, lottery_draw_id, numbers, purchase_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		ticket.ID, ticket.UserID, ticket.LotteryDrawID, ticket.Numbers,
		ticket.PurchaseTime, string(ticket.Status))
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *ticketRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Ticket, error) {
	row := db.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	return scanTicket(row)
}

func (r *ticketRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, drawID *uuid.UUID) ([]domain.Ticket, error) {
	var rows pgx.Rows
	var err error
	if drawID != nil {
		rows, err = db.Query(ctx, `
			SELECT `+ticketColumns+` FROM tickets
			WHERE user_id = $1 AND lottery_draw_id = $2
			ORDER BY purchase_time DESC`, userID, *drawID)
	} else {
		rows, err = db.Query(ctx, `
			SELECT `+ticketColumns+` FROM tickets
			WHERE user_id = $1
			ORDER BY purchase_time DESC`, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()
	return collectTickets(rows)
}

// ListPendingByDraw orders by created_at so repeated settlement attempts walk
// tickets deterministically.
func (r *ticketRepo) ListPendingByDraw(ctx context.Context, db DBTX, drawID uuid.UUID) ([]domain.Ticket, error) {
	rows, err := db.Query(ctx, `
		SELECT `+ticketColumns+` FROM tickets
		WHERE lottery_draw_id = $1 AND status = $2
		ORDER BY created_at ASC, id ASC`, drawID, string(domain.TicketPending))
	if err != nil {
		return nil, fmt.Errorf("query pending tickets: %w", err)
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *ticketRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TicketStatus) error {
	_, err := tx.Exec(ctx,
		`UPDATE tickets SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return fmt.Errorf("update ticket status: %w", err)
	}
	return nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(&t.ID, &t.UserID, &t.LotteryDrawID, &t.Numbers, &t.PurchaseTime, &t.Status, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	return &t, nil
}

func collectTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var tickets []domain.Ticket
	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.UserID, &t.LotteryDrawID, &t.Numbers, &t.PurchaseTime, &t.Status, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
