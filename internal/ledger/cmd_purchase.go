package ledger

import (
	"context"
	"fmt"

	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ExecutePurchaseDebit debits the ticket price from the user's wallet.
// It runs inside the same store transaction as the ticket insert, so either
// both the debit and the ticket become visible or neither does.
func (e *Engine) ExecutePurchaseDebit(ctx context.Context, tx pgx.Tx, params domain.PurchaseDebitParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Price); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	wallet, err := e.LockWalletForUser(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("purchase debit: %w", err)
	}

	if wallet.Balance < params.Price {
		return nil, domain.ErrInsufficientBalance()
	}

	entry, updated, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		WalletID:  wallet.ID,
		Type:      domain.TxDebit,
		Amount:    params.Price,
		Reference: fmt.Sprintf("ticket purchase draw %s", params.DrawID),
	})
	if err != nil {
		return nil, fmt.Errorf("purchase debit post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Wallet: updated}, nil
}
