package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Beginner starts store transactions. Satisfied by pgxpool.Pool.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// WalletRepository provides access to wallets.
type WalletRepository interface {
	// FindByUser returns the user's wallet, or nil if none exists.
	FindByUser(ctx context.Context, db DBTX, userID uuid.UUID) (*domain.Wallet, error)

	// LockByUser acquires a row-level lock (SELECT FOR UPDATE) on the
	// user's wallet. Must be called within a transaction.
	LockByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error)

	// Create inserts a new wallet.
	Create(ctx context.Context, db DBTX, wallet *domain.Wallet) error

	// ApplyDelta adjusts the balance using server-side arithmetic and
	// returns the updated row. The caller must hold the row lock.
	ApplyDelta(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta int64) (*domain.Wallet, error)
}

// TransactionRepository provides access to the append-only transactions ledger.
type TransactionRepository interface {
	// Insert creates a ledger entry with the post-update balance snapshot.
	Insert(ctx context.Context, db DBTX, params domain.PostLedgerEntryParams, balanceAfter int64) (*domain.Transaction, error)

	// FindByID returns a transaction by ID, or nil.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Transaction, error)

	// ListByWallet returns ledger entries newest first with cursor pagination.
	ListByWallet(ctx context.Context, db DBTX, walletID uuid.UUID, cursor *string, limit int) ([]domain.Transaction, error)
}

// GameTypeRepository provides access to game_types.
type GameTypeRepository interface {
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.GameType, error)
	FindByName(ctx context.Context, db DBTX, name string) (*domain.GameType, error)
	List(ctx context.Context, db DBTX) ([]domain.GameType, error)
	Create(ctx context.Context, db DBTX, gt *domain.GameType) error
	Update(ctx context.Context, db DBTX, gt *domain.GameType) error
}

// DrawRepository provides access to lottery_draws and their result rows.
type DrawRepository interface {
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.LotteryDraw, error)

	// LockForUpdate acquires a row-level lock on the draw. Settlement and
	// lifecycle transitions serialize on this lock.
	LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.LotteryDraw, error)

	Create(ctx context.Context, db DBTX, draw *domain.LotteryDraw) error
	List(ctx context.Context, db DBTX, status *domain.DrawStatus) ([]domain.LotteryDraw, error)

	// ListDueScheduled returns scheduled draws whose draw_time has passed.
	ListDueScheduled(ctx context.Context, db DBTX) ([]domain.LotteryDraw, error)

	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.DrawStatus) error

	InsertResult(ctx context.Context, db DBTX, result *domain.DrawResult) error
	FindResult(ctx context.Context, db DBTX, drawID uuid.UUID) (*domain.DrawResult, error)

	InsertTier(ctx context.Context, db DBTX, tier *domain.PrizeTier) error
	ListTiers(ctx context.Context, db DBTX, drawID uuid.UUID) ([]domain.PrizeTier, error)

	InsertJackpot(ctx context.Context, db DBTX, jackpot *domain.Jackpot) error
	FindJackpot(ctx context.Context, db DBTX, drawID uuid.UUID) (*domain.Jackpot, error)
}

// TicketRepository provides access to tickets.
type TicketRepository interface {
	Insert(ctx context.Context, db DBTX, ticket *domain.Ticket) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Ticket, error)
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID, drawID *uuid.UUID) ([]domain.Ticket, error)

	// ListPendingByDraw returns pending tickets in insertion order.
	ListPendingByDraw(ctx context.Context, db DBTX, drawID uuid.UUID) ([]domain.Ticket, error)

	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TicketStatus) error
}

// PayoutRepository provides access to payouts.
type PayoutRepository interface {
	Insert(ctx context.Context, db DBTX, payout *domain.Payout) error
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Payout, error)
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Payout, error)
	ListByDraw(ctx context.Context, db DBTX, drawID uuid.UUID) ([]domain.Payout, error)
}

// SettingRepository provides access to the settings key/value table.
type SettingRepository interface {
	// Get returns the raw value for a key; found is false when absent.
	Get(ctx context.Context, db DBTX, key string) (value string, found bool, err error)

	// GetInt64 parses the value as int64, returning 0/false when absent
	// or unparseable.
	GetInt64(ctx context.Context, db DBTX, key string) (int64, bool, error)

	Upsert(ctx context.Context, db DBTX, key, value string) error
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event within the same transaction as the
	// state change it describes.
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events oldest first.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxRow, error)

	// MarkPublished stamps events as published.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
