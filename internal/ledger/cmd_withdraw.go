package ledger

import (
	"context"
	"fmt"

	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ExecuteWithdraw debits the user's wallet. The balance check runs against
// the locked row, so concurrent withdrawals serialize on the wallet lock.
func (e *Engine) ExecuteWithdraw(ctx context.Context, tx pgx.Tx, params domain.WithdrawParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	wallet, err := e.LockWalletForUser(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}

	if wallet.Balance < params.Amount {
		return nil, domain.ErrInsufficientBalance()
	}

	entry, updated, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		WalletID:  wallet.ID,
		Type:      domain.TxDebit,
		Amount:    params.Amount,
		Reference: refOrDefault(params.Reference, "withdrawal"),
	})
	if err != nil {
		return nil, fmt.Errorf("withdraw post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Wallet: updated}, nil
}
