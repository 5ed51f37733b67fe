package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/ledger"
	"github.com/hhpro-max/lucky-lottery/internal/repository/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ticketFixture struct {
	db        *repotest.DB
	draws     *repotest.Draws
	gameTypes *repotest.GameTypes
	tickets   *repotest.Tickets
	settings  *repotest.Settings
	wallets   *repotest.Wallets
	ledgerTxs *repotest.Transactions
	outbox    *repotest.Outbox
	svc       *TicketService
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		db:        &repotest.DB{},
		draws:     repotest.NewDraws(),
		gameTypes: repotest.NewGameTypes(),
		tickets:   &repotest.Tickets{},
		settings:  repotest.NewSettings(),
		wallets:   repotest.NewWallets(),
		ledgerTxs: &repotest.Transactions{},
		outbox:    &repotest.Outbox{},
	}
	engine := ledger.NewEngine(f.wallets, f.ledgerTxs, f.outbox)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewTicketService(f.db, f.draws, f.gameTypes, f.tickets, f.settings, f.outbox, engine, logger)
	return f
}

// addGame registers an active game type with the given rules and a scheduled
// draw for it.
func (f *ticketFixture) addGame(rules string) *domain.LotteryDraw {
	gt := &domain.GameType{
		ID:     uuid.New(),
		Name:   "pick3",
		Rules:  json.RawMessage(rules),
		Active: true,
	}
	f.gameTypes.ByID[gt.ID] = gt

	draw := f.draws.Add(domain.DrawScheduled)
	draw.GameTypeID = gt.ID
	return draw
}

func code(t *testing.T, err error) string {
	t.Helper()
	var appErr *domain.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

// --- Purchase Tests ---

func TestPurchase(t *testing.T) {
	rules := `{"numbers":3,"min":1,"max":10,"ticket_price":250}`

	t.Run("happy path debits wallet and stores ticket", func(t *testing.T) {
		f := newTicketFixture()
		draw := f.addGame(rules)
		user := uuid.New()
		f.wallets.Add(user, 1000)

		result, err := f.svc.Purchase(context.Background(), PurchaseParams{
			UserID:  user,
			DrawID:  draw.ID,
			Numbers: []int32{1, 5, 10},
		})
		require.NoError(t, err)

		assert.Equal(t, int64(250), result.Price)
		assert.Equal(t, domain.TicketPending, result.Ticket.Status)
		assert.Equal(t, []int32{1, 5, 10}, result.Ticket.Numbers)

		assert.Equal(t, int64(750), f.wallets.ByUser[user].Balance)

		// Exactly one ledger row for the debit.
		require.Len(t, f.ledgerTxs.Inserted, 1)
		assert.Equal(t, domain.TxDebit, f.ledgerTxs.Inserted[0].Type)
		assert.Equal(t, int64(250), f.ledgerTxs.Inserted[0].Amount)
		assert.Equal(t, int64(750), f.ledgerTxs.Inserted[0].BalanceAfter)
		assert.Contains(t, f.ledgerTxs.Inserted[0].Reference, draw.ID.String())

		// Transaction-posted event plus ticket-purchased event.
		types := f.outbox.EventTypes()
		require.Len(t, types, 2)
		assert.Equal(t, domain.EventTicketPurchased, types[1])

		assert.True(t, f.db.LastTx().Committed)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		f := newTicketFixture()
		draw := f.addGame(rules)
		user := uuid.New()
		f.wallets.Add(user, 100)

		_, err := f.svc.Purchase(context.Background(), PurchaseParams{
			UserID: user, DrawID: draw.ID, Numbers: []int32{1, 5, 10},
		})
		assert.Equal(t, "INSUFFICIENT_BALANCE", code(t, err))
		assert.Equal(t, int64(100), f.wallets.ByUser[user].Balance)
		assert.Empty(t, f.tickets.All)
		assert.True(t, f.db.LastTx().RolledBack)
	})

	t.Run("closed draw rejected", func(t *testing.T) {
		f := newTicketFixture()
		draw := f.addGame(rules)
		draw.Status = domain.DrawCompleted
		user := uuid.New()
		f.wallets.Add(user, 1000)

		_, err := f.svc.Purchase(context.Background(), PurchaseParams{
			UserID: user, DrawID: draw.ID, Numbers: []int32{1, 5, 10},
		})
		assert.Equal(t, "DRAW_CLOSED", code(t, err))
	})

	t.Run("inactive game rejected", func(t *testing.T) {
		f := newTicketFixture()
		draw := f.addGame(rules)
		f.gameTypes.ByID[draw.GameTypeID].Active = false
		user := uuid.New()
		f.wallets.Add(user, 1000)

		_, err := f.svc.Purchase(context.Background(), PurchaseParams{
			UserID: user, DrawID: draw.ID, Numbers: []int32{1, 5, 10},
		})
		assert.Equal(t, "GAME_UNAVAILABLE", code(t, err))
	})

	t.Run("wrong number count rejected", func(t *testing.T) {
		f := newTicketFixture()
		draw := f.addGame(rules)
		user := uuid.New()
		f.wallets.Add(user, 1000)

		_, err := f.svc.Purchase(context.Background(), PurchaseParams{
			UserID: user, DrawID: draw.ID, Numbers: []int32{1, 5},
		})
		assert.Equal(t, "WRONG_COUNT", code(t, err))
	})

	t.Run("out of range rejected", func(t *testing.T) {
		f := newTicketFixture()
		draw := f.addGame(rules)
		user := uuid.New()
		f.wallets.Add(user, 1000)

		_, err := f.svc.Purchase(context.Background(), PurchaseParams{
			UserID: user, DrawID: draw.ID, Numbers: []int32{1, 5, 11},
		})
		assert.Equal(t, "OUT_OF_RANGE", code(t, err))
	})

	t.Run("unknown draw", func(t *testing.T) {
		f := newTicketFixture()
		user := uuid.New()
		f.wallets.Add(user, 1000)

		_, err := f.svc.Purchase(context.Background(), PurchaseParams{
			UserID: user, DrawID: uuid.New(), Numbers: []int32{1, 5, 10},
		})
		assert.Equal(t, "NOT_FOUND", code(t, err))
	})

	t.Run("malformed stored rules do not block sales", func(t *testing.T) {
		f := newTicketFixture()
		draw := f.addGame(`{broken json`)
		user := uuid.New()
		f.wallets.Add(user, 1000)

		result, err := f.svc.Purchase(context.Background(), PurchaseParams{
			UserID: user, DrawID: draw.ID, Numbers: []int32{42},
		})
		require.NoError(t, err)
		// No price in rules, no setting: hard default.
		assert.Equal(t, int64(100), result.Price)
	})

	t.Run("min_ticket_price setting used when rules carry no price", func(t *testing.T) {
		f := newTicketFixture()
		draw := f.addGame(`{"numbers":3,"min":1,"max":10}`)
		f.settings.Values[MinTicketPriceKey] = "500"
		user := uuid.New()
		f.wallets.Add(user, 1000)

		result, err := f.svc.Purchase(context.Background(), PurchaseParams{
			UserID: user, DrawID: draw.ID, Numbers: []int32{1, 5, 10},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(500), result.Price)
		assert.Equal(t, int64(500), f.wallets.ByUser[user].Balance)
	})

	t.Run("empty numbers rejected before touching the store", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.svc.Purchase(context.Background(), PurchaseParams{
			UserID: uuid.New(), DrawID: uuid.New(), Numbers: nil,
		})
		assert.Equal(t, "VALIDATION_ERROR", code(t, err))
		assert.Empty(t, f.db.Txs)
	})
}

// --- GetByID Tests ---

func TestGetByID(t *testing.T) {
	f := newTicketFixture()
	owner := uuid.New()
	stranger := uuid.New()
	ticket := f.tickets.Add(owner, uuid.New(), []int32{1, 2, 3})

	t.Run("owner sees own ticket", func(t *testing.T) {
		got, err := f.svc.GetByID(context.Background(), nil, ticket.ID, owner, false)
		require.NoError(t, err)
		assert.Equal(t, ticket.ID, got.ID)
	})

	t.Run("stranger gets not found", func(t *testing.T) {
		_, err := f.svc.GetByID(context.Background(), nil, ticket.ID, stranger, false)
		assert.Equal(t, "NOT_FOUND", code(t, err))
	})

	t.Run("admin sees any ticket", func(t *testing.T) {
		got, err := f.svc.GetByID(context.Background(), nil, ticket.ID, stranger, true)
		require.NoError(t, err)
		assert.Equal(t, ticket.ID, got.ID)
	})
}

// --- GetDrawResult Tests ---

func TestGetDrawResult(t *testing.T) {
	f := newTicketFixture()
	draw := f.draws.Add(domain.DrawSettled)
	result := &domain.DrawResult{ID: uuid.New(), LotteryDrawID: draw.ID, Numbers: []int32{1, 2, 3}}
	require.NoError(t, f.draws.InsertResult(context.Background(), nil, result))
	require.NoError(t, f.draws.InsertTier(context.Background(), nil, &domain.PrizeTier{
		ID: uuid.New(), LotteryDrawID: draw.ID, MatchCount: 3, PrizeAmount: 10000,
	}))

	t.Run("published result returned with tiers", func(t *testing.T) {
		view, err := f.svc.GetDrawResult(context.Background(), nil, draw.ID)
		require.NoError(t, err)
		assert.Equal(t, []int32{1, 2, 3}, view.Result.Numbers)
		assert.Len(t, view.Tiers, 1)
		assert.Nil(t, view.Jackpot)
	})

	t.Run("draw without result", func(t *testing.T) {
		pending := f.draws.Add(domain.DrawScheduled)
		_, err := f.svc.GetDrawResult(context.Background(), nil, pending.ID)
		assert.Equal(t, "NOT_FOUND", code(t, err))
	})
}
