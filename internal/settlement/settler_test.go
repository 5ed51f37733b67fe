package settlement

import (
	"context"
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

type fixture struct {
	db      *repotest.DB
	draws   *repotest.Draws
	tickets *repotest.Tickets
	payouts *repotest.Payouts
	wallets *repotest.Wallets
	outbox  *repotest.Outbox
	settler *Settler
}

func newFixture() *fixture {
	f := &fixture{
		db:      &repotest.DB{},
		draws:   repotest.NewDraws(),
		tickets: &repotest.Tickets{},
		payouts: &repotest.Payouts{},
		wallets: repotest.NewWallets(),
		outbox:  &repotest.Outbox{},
	}
	engine := ledger.NewEngine(f.wallets, &repotest.Transactions{}, f.outbox)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.settler = NewSettler(f.db, f.draws, f.tickets, f.payouts, f.outbox, engine, logger)
	return f
}

func (f *fixture) publishResult(t *testing.T, drawID uuid.UUID, numbers []int32, tiers []TierInput) {
	t.Helper()
	_, err := f.settler.PublishResult(context.Background(), drawID, numbers, tiers, nil)
	require.NoError(t, err)
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := err.(*domain.AppError)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Code
}

// --- CloseDraw Tests ---

func TestCloseDraw(t *testing.T) {
	t.Run("scheduled draw closes", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawScheduled)

		require.NoError(t, f.settler.CloseDraw(context.Background(), draw.ID))

		assert.Equal(t, domain.DrawCompleted, draw.Status)
		require.Len(t, f.outbox.Inserted, 1)
		assert.Equal(t, domain.EventDrawClosed, f.outbox.Inserted[0].EventType)
		assert.True(t, f.db.LastTx().Committed)
	})

	t.Run("completed draw rejected", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)

		err := f.settler.CloseDraw(context.Background(), draw.ID)
		assert.Equal(t, "CANNOT_CLOSE", appCode(t, err))
		assert.True(t, f.db.LastTx().RolledBack)
	})

	t.Run("settled draw rejected", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawSettled)

		err := f.settler.CloseDraw(context.Background(), draw.ID)
		assert.Equal(t, "CANNOT_CLOSE", appCode(t, err))
	})

	t.Run("unknown draw", func(t *testing.T) {
		f := newFixture()
		err := f.settler.CloseDraw(context.Background(), uuid.New())
		assert.Equal(t, "NOT_FOUND", appCode(t, err))
	})
}

// --- PublishResult Tests ---

func TestPublishResult(t *testing.T) {
	tiers := []TierInput{{MatchCount: 3, PrizeAmount: 10000}, {MatchCount: 2, PrizeAmount: 500}}

	t.Run("closed draw accepts result", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)
		jackpot := int64(1_000_000)

		result, err := f.settler.PublishResult(context.Background(), draw.ID, []int32{1, 2, 3}, tiers, &jackpot)
		require.NoError(t, err)
		assert.Equal(t, []int32{1, 2, 3}, result.Numbers)

		stored, _ := f.draws.FindResult(context.Background(), nil, draw.ID)
		require.NotNil(t, stored)
		storedTiers, _ := f.draws.ListTiers(context.Background(), nil, draw.ID)
		assert.Len(t, storedTiers, 2)
		storedJackpot, _ := f.draws.FindJackpot(context.Background(), nil, draw.ID)
		require.NotNil(t, storedJackpot)
		assert.Equal(t, jackpot, storedJackpot.Amount)
	})

	t.Run("scheduled draw must close first", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawScheduled)

		_, err := f.settler.PublishResult(context.Background(), draw.ID, []int32{1, 2, 3}, tiers, nil)
		assert.Equal(t, "MUST_CLOSE_FIRST", appCode(t, err))
	})

	t.Run("second result rejected", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)
		f.publishResult(t, draw.ID, []int32{1, 2, 3}, tiers)

		_, err := f.settler.PublishResult(context.Background(), draw.ID, []int32{4, 5, 6}, tiers, nil)
		assert.Equal(t, "CONFLICT", appCode(t, err))
	})

	t.Run("duplicate tier match counts rejected", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)

		dup := []TierInput{{MatchCount: 3, PrizeAmount: 100}, {MatchCount: 3, PrizeAmount: 200}}
		_, err := f.settler.PublishResult(context.Background(), draw.ID, []int32{1, 2, 3}, dup, nil)
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})

	t.Run("empty numbers rejected", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)

		_, err := f.settler.PublishResult(context.Background(), draw.ID, nil, tiers, nil)
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})

	t.Run("non-positive prize rejected", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)

		bad := []TierInput{{MatchCount: 2, PrizeAmount: 0}}
		_, err := f.settler.PublishResult(context.Background(), draw.ID, []int32{1, 2, 3}, bad, nil)
		assert.Equal(t, "VALIDATION_ERROR", appCode(t, err))
	})
}

// --- SettleDraw Tests ---

func TestSettleDraw(t *testing.T) {
	tiers := []TierInput{{MatchCount: 3, PrizeAmount: 10000}, {MatchCount: 2, PrizeAmount: 500}}

	t.Run("pays winners and marks losers", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)
		f.publishResult(t, draw.ID, []int32{1, 2, 3}, tiers)

		winner := uuid.New()
		partial := uuid.New()
		loser := uuid.New()
		f.wallets.Add(winner, 0)
		f.wallets.Add(partial, 0)
		f.wallets.Add(loser, 0)

		fullTicket := f.tickets.Add(winner, draw.ID, []int32{1, 2, 3})
		partialTicket := f.tickets.Add(partial, draw.ID, []int32{1, 2, 9})
		loserTicket := f.tickets.Add(loser, draw.ID, []int32{7, 8, 9})

		summary, err := f.settler.SettleDraw(context.Background(), draw.ID)
		require.NoError(t, err)

		assert.Equal(t, 2, summary.PayoutCount)
		assert.Equal(t, int64(10500), summary.TotalPaid)

		assert.Equal(t, domain.TicketWinner, fullTicket.Status)
		assert.Equal(t, domain.TicketWinner, partialTicket.Status)
		assert.Equal(t, domain.TicketLoser, loserTicket.Status)
		assert.Equal(t, domain.DrawSettled, draw.Status)

		assert.Equal(t, int64(10000), f.wallets.ByUser[winner].Balance)
		assert.Equal(t, int64(500), f.wallets.ByUser[partial].Balance)
		assert.Equal(t, int64(0), f.wallets.ByUser[loser].Balance)

		require.Len(t, f.payouts.Inserted, 2)
		assert.Equal(t, fullTicket.ID, f.payouts.Inserted[0].TicketID)
		assert.Equal(t, domain.PayoutCompleted, f.payouts.Inserted[0].Status)

		// Wallet credits put ledger events in the outbox alongside the
		// settled event; the settled event comes last.
		types := f.outbox.EventTypes()
		require.NotEmpty(t, types)
		assert.Equal(t, domain.EventDrawSettled, types[len(types)-1])

		assert.True(t, f.db.LastTx().Committed)
	})

	t.Run("settling a settled draw is a no-op", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)
		f.publishResult(t, draw.ID, []int32{1, 2, 3}, tiers)

		user := uuid.New()
		f.wallets.Add(user, 0)
		f.tickets.Add(user, draw.ID, []int32{1, 2, 3})

		first, err := f.settler.SettleDraw(context.Background(), draw.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, first.PayoutCount)

		second, err := f.settler.SettleDraw(context.Background(), draw.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, second.PayoutCount)
		assert.Equal(t, int64(0), second.TotalPaid)

		// No double payment.
		assert.Equal(t, int64(10000), f.wallets.ByUser[user].Balance)
		assert.Len(t, f.payouts.Inserted, 1)
	})

	t.Run("scheduled draw not ready", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawScheduled)

		_, err := f.settler.SettleDraw(context.Background(), draw.ID)
		assert.Equal(t, "NOT_READY", appCode(t, err))
	})

	t.Run("missing result", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)

		_, err := f.settler.SettleDraw(context.Background(), draw.ID)
		assert.Equal(t, "RESULT_MISSING", appCode(t, err))
	})

	t.Run("no tiers", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)
		result := &domain.DrawResult{ID: uuid.New(), LotteryDrawID: draw.ID, Numbers: []int32{1, 2, 3}}
		require.NoError(t, f.draws.InsertResult(context.Background(), nil, result))

		_, err := f.settler.SettleDraw(context.Background(), draw.ID)
		assert.Equal(t, "NO_TIERS", appCode(t, err))
	})

	t.Run("unknown draw", func(t *testing.T) {
		f := newFixture()
		_, err := f.settler.SettleDraw(context.Background(), uuid.New())
		assert.Equal(t, "NOT_FOUND", appCode(t, err))
	})

	t.Run("draw with no tickets settles empty", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)
		f.publishResult(t, draw.ID, []int32{1, 2, 3}, tiers)

		summary, err := f.settler.SettleDraw(context.Background(), draw.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, summary.PayoutCount)
		assert.Equal(t, domain.DrawSettled, draw.Status)
	})

	t.Run("tickets from other draws untouched", func(t *testing.T) {
		f := newFixture()
		draw := f.draws.Add(domain.DrawCompleted)
		other := f.draws.Add(domain.DrawScheduled)
		f.publishResult(t, draw.ID, []int32{1, 2, 3}, tiers)

		user := uuid.New()
		f.wallets.Add(user, 0)
		otherTicket := f.tickets.Add(user, other.ID, []int32{1, 2, 3})

		_, err := f.settler.SettleDraw(context.Background(), draw.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.TicketPending, otherTicket.Status)
		assert.Equal(t, int64(0), f.wallets.ByUser[user].Balance)
	})
}
