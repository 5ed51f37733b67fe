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

type walletRepo struct{}

// NewWalletRepository returns a pgx-backed WalletRepository.
func NewWalletRepository() WalletRepository {
	return &walletRepo{}
}

const walletColumns = `id, user_id, balance, currency_code, created_at, updated_at`

func (r *walletRepo) FindByUser(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.Wallet, error) {
	row := db.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1`, userID)
	return scanWallet(row)
}

func (r *walletRepo) LockByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
	return scanWallet(row)
}

func (r *walletRepo) Create(ctx context.Context, db DBTX, wallet *domain.Wallet) error {
	_, err := db.Exec(ctx, `
		INSERT INTO wallets (id, user_id, balance, currency_code)
		VALUES ($1, $2, $3, $4)`,
		wallet.ID, wallet.UserID, Int64ToNumeric(wallet.Balance), wallet.CurrencyCode)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// ApplyDelta uses server-side arithmetic so the new balance is computed under
// the row lock, never from a stale read.
func (r *walletRepo) ApplyDelta(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta int64) (*domain.Wallet, error) {
	row := tx.QueryRow(ctx, `
		UPDATE wallets SET balance = balance + $1, updated_at = now()
		WHERE id = $2
		RETURNING `+walletColumns, Int64ToNumeric(delta), walletID)
	return scanWallet(row)
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	var balNum pgtype.Numeric
	err := row.Scan(&w.ID, &w.UserID, &balNum, &w.CurrencyCode, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}

	w.Balance, err = NumericToInt64(balNum)
	if err != nil {
		return nil, fmt.Errorf("convert balance: %w", err)
	}
	return &w, nil
}
