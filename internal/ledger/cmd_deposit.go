package ledger

import (
	"context"
	"fmt"

	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ExecuteDeposit credits the user's wallet.
// Pattern: Lock → PostLedgerEntry.
func (e *Engine) ExecuteDeposit(ctx context.Context, tx pgx.Tx, params domain.DepositParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	wallet, err := e.LockWalletForUser(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("deposit: %w", err)
	}

	entry, updated, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		WalletID:  wallet.ID,
		Type:      domain.TxCredit,
		Amount:    params.Amount,
		Reference: refOrDefault(params.Reference, "deposit"),
	})
	if err != nil {
		return nil, fmt.Errorf("deposit post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Wallet: updated}, nil
}

func refOrDefault(ref, fallback string) string {
	if ref == "" {
		return fallback
	}
	return ref
}
