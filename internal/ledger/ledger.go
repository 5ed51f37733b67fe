// Package ledger implements the wallet-ledger write path. Every balance
// mutation goes through PostLedgerEntry, which pairs the balance change with
// an append-only transactions row and an outbox event inside the caller's
// store transaction.
package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Engine provides the foundational ledger operations:
//  1. LockWalletForUser: row-level pessimistic lock
//  2. PostLedgerEntry: atomic balance update + append-only insert + outbox event
//
// The command methods (deposit, withdraw, purchase debit, payout credit)
// compose these two.
type Engine struct {
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	outbox       repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	outbox repository.OutboxRepository,
) *Engine {
	return &Engine{
		wallets:      wallets,
		transactions: transactions,
		outbox:       outbox,
	}
}

// LockWalletForUser acquires a row-level lock and returns the user's wallet.
// Must be called within a transaction.
func (e *Engine) LockWalletForUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := e.wallets.LockByUser(ctx, tx, userID)
	if err != nil {
		return nil, fmt.Errorf("lock wallet: %w", err)
	}
	if wallet == nil {
		return nil, domain.ErrNotFound("wallet for user", userID.String())
	}
	return wallet, nil
}

// PostLedgerEntry atomically updates the wallet balance and inserts a ledger
// entry. This is the core write primitive; all commands delegate to this.
//
// Steps:
//  1. Apply the signed delta with server-side arithmetic
//  2. Insert the transactions row with the post-update balance snapshot
//  3. Insert the outbox event
//
// All 3 steps run within the caller's transaction. The caller must already
// hold the wallet row lock.
func (e *Engine) PostLedgerEntry(ctx context.Context, tx pgx.Tx, params domain.PostLedgerEntryParams) (*domain.Transaction, *domain.Wallet, error) {
	wallet, err := e.wallets.ApplyDelta(ctx, tx, params.WalletID, params.Delta())
	if err != nil {
		return nil, nil, fmt.Errorf("apply balance delta: %w", err)
	}

	entry, err := e.transactions.Insert(ctx, tx, params, wallet.Balance)
	if err != nil {
		return nil, nil, fmt.Errorf("insert transaction: %w", err)
	}

	event := domain.NewTransactionPostedEvent(entry)
	if err := e.outbox.Insert(ctx, tx, event); err != nil {
		return nil, nil, fmt.Errorf("insert outbox event: %w", err)
	}

	return entry, wallet, nil
}
