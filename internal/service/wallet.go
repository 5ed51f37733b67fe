package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/ledger"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
)

// WalletService exposes wallet reads and the money-moving commands.
type WalletService struct {
	db           repository.Beginner
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	engine       *ledger.Engine
	logger       *slog.Logger
}

// NewWalletService creates a wallet service.
func NewWalletService(
	db repository.Beginner,
	wallets repository.WalletRepository,
	transactions repository.TransactionRepository,
	engine *ledger.Engine,
	logger *slog.Logger,
) *WalletService {
	return &WalletService{
		db:           db,
		wallets:      wallets,
		transactions: transactions,
		engine:       engine,
		logger:       logger,
	}
}

// GetWallet returns the user's wallet.
func (s *WalletService) GetWallet(ctx context.Context, db repository.DBTX, userID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.wallets.FindByUser(ctx, db, userID)
	if err != nil {
		return nil, domain.ErrInternal("find wallet", err)
	}
	if wallet == nil {
		return nil, domain.ErrNotFound("wallet for user", userID.String())
	}
	return wallet, nil
}

// Deposit credits the user's wallet inside one store transaction.
func (s *WalletService) Deposit(ctx context.Context, params domain.DepositParams) (*domain.CommandResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecuteDeposit(ctx, tx, params)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("deposit posted",
		"user_id", params.UserID, "amount", params.Amount,
		"transaction_id", result.Transaction.ID)
	return result, nil
}

// Withdraw debits the user's wallet inside one store transaction.
func (s *WalletService) Withdraw(ctx context.Context, params domain.WithdrawParams) (*domain.CommandResult, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	result, err := s.engine.ExecuteWithdraw(ctx, tx, params)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit tx", err)
	}

	s.logger.Info("withdrawal posted",
		"user_id", params.UserID, "amount", params.Amount,
		"transaction_id", result.Transaction.ID)
	return result, nil
}

// ListTransactions returns the wallet's ledger entries newest first.
func (s *WalletService) ListTransactions(ctx context.Context, db repository.DBTX, userID uuid.UUID, cursor *string, limit int) ([]domain.Transaction, error) {
	wallet, err := s.GetWallet(ctx, db, userID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.transactions.ListByWallet(ctx, db, wallet.ID, cursor, limit)
	if err != nil {
		return nil, domain.ErrInternal("list transactions", err)
	}
	return entries, nil
}
