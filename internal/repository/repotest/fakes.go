// Package repotest provides in-memory fakes of the repository interfaces
// for unit-testing transactional orchestration without a database.
package repotest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Tx is a fake pgx.Tx. The embedded nil interface panics on any method not
// overridden here, which is exactly what a test wants: orchestration code
// must only ever Commit or Rollback the transaction handle itself.
type Tx struct {
	pgx.Tx
	Committed  bool
	RolledBack bool
}

func (t *Tx) Commit(ctx context.Context) error {
	t.Committed = true
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// DB is a fake repository.Beginner handing out fake transactions.
type DB struct {
	Txs []*Tx
}

func (d *DB) Begin(ctx context.Context) (pgx.Tx, error) {
	tx := &Tx{}
	d.Txs = append(d.Txs, tx)
	return tx, nil
}

// LastTx returns the most recently begun transaction.
func (d *DB) LastTx() *Tx {
	if len(d.Txs) == 0 {
		return nil
	}
	return d.Txs[len(d.Txs)-1]
}

// Wallets is an in-memory WalletRepository keyed by user ID.
type Wallets struct {
	ByUser map[uuid.UUID]*domain.Wallet
}

func NewWallets() *Wallets {
	return &Wallets{ByUser: make(map[uuid.UUID]*domain.Wallet)}
}

// Add registers a wallet with the given balance and returns it.
func (w *Wallets) Add(userID uuid.UUID, balance int64) *domain.Wallet {
	wallet := &domain.Wallet{
		ID:           uuid.New(),
		UserID:       userID,
		Balance:      balance,
		CurrencyCode: "USD",
	}
	w.ByUser[userID] = wallet
	return wallet
}

func (w *Wallets) FindByUser(ctx context.Context, db repository.DBTX, userID uuid.UUID) (*domain.Wallet, error) {
	return w.ByUser[userID], nil
}

func (w *Wallets) LockByUser(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (*domain.Wallet, error) {
	return w.ByUser[userID], nil
}

func (w *Wallets) Create(ctx context.Context, db repository.DBTX, wallet *domain.Wallet) error {
	w.ByUser[wallet.UserID] = wallet
	return nil
}

func (w *Wallets) ApplyDelta(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta int64) (*domain.Wallet, error) {
	for _, wallet := range w.ByUser {
		if wallet.ID == walletID {
			if wallet.Balance+delta < 0 {
				return nil, fmt.Errorf("balance check violated")
			}
			wallet.Balance += delta
			return wallet, nil
		}
	}
	return nil, fmt.Errorf("wallet %s not found", walletID)
}

// Transactions is an in-memory TransactionRepository.
type Transactions struct {
	Inserted []domain.Transaction
}

func (t *Transactions) Insert(ctx context.Context, db repository.DBTX, params domain.PostLedgerEntryParams, balanceAfter int64) (*domain.Transaction, error) {
	entry := domain.Transaction{
		ID:           uuid.New(),
		WalletID:     params.WalletID,
		Type:         params.Type,
		Amount:       params.Amount,
		BalanceAfter: balanceAfter,
		Reference:    params.Reference,
		CreatedAt:    time.Now(),
	}
	t.Inserted = append(t.Inserted, entry)
	return &entry, nil
}

func (t *Transactions) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Transaction, error) {
	for i := range t.Inserted {
		if t.Inserted[i].ID == id {
			return &t.Inserted[i], nil
		}
	}
	return nil, nil
}

func (t *Transactions) ListByWallet(ctx context.Context, db repository.DBTX, walletID uuid.UUID, cursor *string, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, entry := range t.Inserted {
		if entry.WalletID == walletID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// GameTypes is an in-memory GameTypeRepository.
type GameTypes struct {
	ByID map[uuid.UUID]*domain.GameType
}

func NewGameTypes() *GameTypes {
	return &GameTypes{ByID: make(map[uuid.UUID]*domain.GameType)}
}

func (g *GameTypes) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.GameType, error) {
	return g.ByID[id], nil
}

func (g *GameTypes) FindByName(ctx context.Context, db repository.DBTX, name string) (*domain.GameType, error) {
	for _, gt := range g.ByID {
		if gt.Name == name {
			return gt, nil
		}
	}
	return nil, nil
}

func (g *GameTypes) List(ctx context.Context, db repository.DBTX) ([]domain.GameType, error) {
	var out []domain.GameType
	for _, gt := range g.ByID {
		out = append(out, *gt)
	}
	return out, nil
}

func (g *GameTypes) Create(ctx context.Context, db repository.DBTX, gt *domain.GameType) error {
	g.ByID[gt.ID] = gt
	return nil
}

func (g *GameTypes) Update(ctx context.Context, db repository.DBTX, gt *domain.GameType) error {
	g.ByID[gt.ID] = gt
	return nil
}

// Draws is an in-memory DrawRepository.
type Draws struct {
	ByID     map[uuid.UUID]*domain.LotteryDraw
	Results  map[uuid.UUID]*domain.DrawResult
	Tiers    map[uuid.UUID][]domain.PrizeTier
	Jackpots map[uuid.UUID]*domain.Jackpot
}

func NewDraws() *Draws {
	return &Draws{
		ByID:     make(map[uuid.UUID]*domain.LotteryDraw),
		Results:  make(map[uuid.UUID]*domain.DrawResult),
		Tiers:    make(map[uuid.UUID][]domain.PrizeTier),
		Jackpots: make(map[uuid.UUID]*domain.Jackpot),
	}
}

// Add registers a draw in the given status and returns it.
func (d *Draws) Add(status domain.DrawStatus) *domain.LotteryDraw {
	draw := &domain.LotteryDraw{
		ID:         uuid.New(),
		GameTypeID: uuid.New(),
		DrawTime:   time.Now(),
		Status:     status,
	}
	d.ByID[draw.ID] = draw
	return draw
}

func (d *Draws) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.LotteryDraw, error) {
	return d.ByID[id], nil
}

func (d *Draws) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.LotteryDraw, error) {
	return d.ByID[id], nil
}

func (d *Draws) Create(ctx context.Context, db repository.DBTX, draw *domain.LotteryDraw) error {
	d.ByID[draw.ID] = draw
	return nil
}

func (d *Draws) List(ctx context.Context, db repository.DBTX, status *domain.DrawStatus) ([]domain.LotteryDraw, error) {
	var out []domain.LotteryDraw
	for _, draw := range d.ByID {
		if status == nil || draw.Status == *status {
			out = append(out, *draw)
		}
	}
	return out, nil
}

func (d *Draws) ListDueScheduled(ctx context.Context, db repository.DBTX) ([]domain.LotteryDraw, error) {
	var out []domain.LotteryDraw
	for _, draw := range d.ByID {
		if draw.Status == domain.DrawScheduled && !draw.DrawTime.After(time.Now()) {
			out = append(out, *draw)
		}
	}
	return out, nil
}

func (d *Draws) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.DrawStatus) error {
	draw, ok := d.ByID[id]
	if !ok {
		return fmt.Errorf("draw %s not found", id)
	}
	draw.Status = status
	return nil
}

func (d *Draws) InsertResult(ctx context.Context, db repository.DBTX, result *domain.DrawResult) error {
	d.Results[result.LotteryDrawID] = result
	return nil
}

func (d *Draws) FindResult(ctx context.Context, db repository.DBTX, drawID uuid.UUID) (*domain.DrawResult, error) {
	return d.Results[drawID], nil
}

func (d *Draws) InsertTier(ctx context.Context, db repository.DBTX, tier *domain.PrizeTier) error {
	d.Tiers[tier.LotteryDrawID] = append(d.Tiers[tier.LotteryDrawID], *tier)
	return nil
}

func (d *Draws) ListTiers(ctx context.Context, db repository.DBTX, drawID uuid.UUID) ([]domain.PrizeTier, error) {
	return d.Tiers[drawID], nil
}

func (d *Draws) InsertJackpot(ctx context.Context, db repository.DBTX, jackpot *domain.Jackpot) error {
	d.Jackpots[jackpot.LotteryDrawID] = jackpot
	return nil
}

func (d *Draws) FindJackpot(ctx context.Context, db repository.DBTX, drawID uuid.UUID) (*domain.Jackpot, error) {
	return d.Jackpots[drawID], nil
}

// Tickets is an in-memory TicketRepository preserving insertion order.
type Tickets struct {
	All []*domain.Ticket
}

// Add registers a pending ticket for the draw and returns it.
func (t *Tickets) Add(userID, drawID uuid.UUID, numbers []int32) *domain.Ticket {
	ticket := &domain.Ticket{
		ID:            uuid.New(),
		UserID:        userID,
		LotteryDrawID: drawID,
		Numbers:       numbers,
		PurchaseTime:  time.Now(),
		Status:        domain.TicketPending,
	}
	t.All = append(t.All, ticket)
	return ticket
}

func (t *Tickets) Insert(ctx context.Context, db repository.DBTX, ticket *domain.Ticket) error {
	t.All = append(t.All, ticket)
	return nil
}

func (t *Tickets) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Ticket, error) {
	for _, ticket := range t.All {
		if ticket.ID == id {
			return ticket, nil
		}
	}
	return nil, nil
}

func (t *Tickets) ListByUser(ctx context.Context, db repository.DBTX, userID uuid.UUID, drawID *uuid.UUID) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range t.All {
		if ticket.UserID != userID {
			continue
		}
		if drawID != nil && ticket.LotteryDrawID != *drawID {
			continue
		}
		out = append(out, *ticket)
	}
	return out, nil
}

func (t *Tickets) ListPendingByDraw(ctx context.Context, db repository.DBTX, drawID uuid.UUID) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, ticket := range t.All {
		if ticket.LotteryDrawID == drawID && ticket.Status == domain.TicketPending {
			out = append(out, *ticket)
		}
	}
	return out, nil
}

func (t *Tickets) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TicketStatus) error {
	for _, ticket := range t.All {
		if ticket.ID == id {
			ticket.Status = status
			return nil
		}
	}
	return fmt.Errorf("ticket %s not found", id)
}

// Payouts is an in-memory PayoutRepository.
type Payouts struct {
	Inserted []domain.Payout
}

func (p *Payouts) Insert(ctx context.Context, db repository.DBTX, payout *domain.Payout) error {
	p.Inserted = append(p.Inserted, *payout)
	return nil
}

func (p *Payouts) FindByID(ctx context.Context, db repository.DBTX, id uuid.UUID) (*domain.Payout, error) {
	for i := range p.Inserted {
		if p.Inserted[i].ID == id {
			return &p.Inserted[i], nil
		}
	}
	return nil, nil
}

func (p *Payouts) ListByUser(ctx context.Context, db repository.DBTX, userID uuid.UUID) ([]domain.Payout, error) {
	var out []domain.Payout
	for _, payout := range p.Inserted {
		if payout.UserID == userID {
			out = append(out, payout)
		}
	}
	return out, nil
}

func (p *Payouts) ListByDraw(ctx context.Context, db repository.DBTX, drawID uuid.UUID) ([]domain.Payout, error) {
	return p.Inserted, nil
}

// Settings is an in-memory SettingRepository.
type Settings struct {
	Values map[string]string
}

func NewSettings() *Settings {
	return &Settings{Values: make(map[string]string)}
}

func (s *Settings) Get(ctx context.Context, db repository.DBTX, key string) (string, bool, error) {
	v, ok := s.Values[key]
	return v, ok, nil
}

func (s *Settings) GetInt64(ctx context.Context, db repository.DBTX, key string) (int64, bool, error) {
	v, ok := s.Values[key]
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

func (s *Settings) Upsert(ctx context.Context, db repository.DBTX, key, value string) error {
	s.Values[key] = value
	return nil
}

// Outbox is an in-memory OutboxRepository.
type Outbox struct {
	Inserted []domain.OutboxDraft
}

func (o *Outbox) Insert(ctx context.Context, db repository.DBTX, draft domain.OutboxDraft) error {
	o.Inserted = append(o.Inserted, draft)
	return nil
}

func (o *Outbox) FetchUnpublished(ctx context.Context, db repository.DBTX, limit int) ([]domain.OutboxRow, error) {
	var out []domain.OutboxRow
	for i, draft := range o.Inserted {
		if i >= limit {
			break
		}
		out = append(out, domain.OutboxRow{SeqID: int64(i + 1), OutboxDraft: draft})
	}
	return out, nil
}

func (o *Outbox) MarkPublished(ctx context.Context, db repository.DBTX, ids []int64) error {
	return nil
}

// EventTypes returns the event types of all inserted drafts in order.
func (o *Outbox) EventTypes() []domain.EventType {
	out := make([]domain.EventType, 0, len(o.Inserted))
	for _, draft := range o.Inserted {
		out = append(out, draft.EventType)
	}
	return out
}
