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

type transactionRepo struct{}

// NewTransactionRepository returns a pgx-backed TransactionRepository.
func NewTransactionRepository() TransactionRepository {
	return &transactionRepo{}
}

const transactionColumns = `id, wallet_id, type, amount, balance_after, reference, created_at`

func (r *transactionRepo) Insert(ctx context.Context, db DBTX, params domain.PostLedgerEntryParams, balanceAfter int64) (*domain.Transaction, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO transactions (wallet_id, type, amount, balance_after, reference)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+transactionColumns,
		params.WalletID,
		string(params.Type),
		Int64ToNumeric(params.Amount),
		Int64ToNumeric(balanceAfter),
		params.Reference,
	)
	return scanTransaction(row)
}

func (r *transactionRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Transaction, error) {
	row := db.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	return scanTransaction(row)
}

func (r *transactionRepo) ListByWallet(ctx context.Context, db DBTX, walletID uuid.UUID, cursor *string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows pgx.Rows
	var err error
	if cursor != nil {
		rows, err = db.Query(ctx, `
			SELECT `+transactionColumns+`
			FROM transactions
			WHERE wallet_id = $1
			  AND (created_at, id) <= ((SELECT created_at, id FROM transactions WHERE id = $2))
			ORDER BY created_at DESC, id DESC
			LIMIT $3`, walletID, *cursor, limit)
	} else {
		rows, err = db.Query(ctx, `
			SELECT `+transactionColumns+`
			FROM transactions
			WHERE wallet_id = $1
			ORDER BY created_at DESC, id DESC
			LIMIT $2`, walletID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		var amountNum, balNum pgtype.Numeric
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Type, &amountNum, &balNum, &t.Reference, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		if t.Amount, err = NumericToInt64(amountNum); err != nil {
			return nil, err
		}
		if t.BalanceAfter, err = NumericToInt64(balNum); err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	var amountNum, balNum pgtype.Numeric
	err := row.Scan(&t.ID, &t.WalletID, &t.Type, &amountNum, &balNum, &t.Reference, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}

	if t.Amount, err = NumericToInt64(amountNum); err != nil {
		return nil, fmt.Errorf("convert amount: %w", err)
	}
	if t.BalanceAfter, err = NumericToInt64(balNum); err != nil {
		return nil, fmt.Errorf("convert balance_after: %w", err)
	}
	return &t, nil
}
