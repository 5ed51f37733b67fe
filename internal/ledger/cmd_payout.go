package ledger

import (
	"context"
	"fmt"

	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/jackc/pgx/v5"
)

// ExecutePayoutCredit credits a settlement prize to the winner's wallet.
// The payout row is inserted by the settlement orchestrator in the same
// store transaction; this command covers the balance side and its ledger row.
func (e *Engine) ExecutePayoutCredit(ctx context.Context, tx pgx.Tx, params domain.PayoutCreditParams) (*domain.CommandResult, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	wallet, err := e.LockWalletForUser(ctx, tx, params.UserID)
	if err != nil {
		return nil, fmt.Errorf("payout credit: %w", err)
	}

	entry, updated, err := e.PostLedgerEntry(ctx, tx, domain.PostLedgerEntryParams{
		WalletID:  wallet.ID,
		Type:      domain.TxCredit,
		Amount:    params.Amount,
		Reference: fmt.Sprintf("draw payout ticket %s", params.TicketID),
	})
	if err != nil {
		return nil, fmt.Errorf("payout credit post: %w", err)
	}

	return &domain.CommandResult{Transaction: entry, Wallet: updated}, nil
}
