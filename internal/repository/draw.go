package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type drawRepo struct{}

// NewDrawRepository returns a pgx-backed DrawRepository.
func NewDrawRepository() DrawRepository {
	return &drawRepo{}
}

const drawColumns = `id, game_type_id, draw_time, status, created_at, updated_at`

func (r *drawRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.LotteryDraw, error) {
	row := db.QueryRow(ctx,
		`SELECT `+drawColumns+` FROM lottery_draws WHERE id = $1`, id)
	return scanDraw(row)
}

func (r *drawRepo) LockForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.LotteryDraw, error) {
	row := tx.QueryRow(ctx,
		`SELECT `+drawColumns+` FROM lottery_draws WHERE id = $1 FOR UPDATE`, id)
	return scanDraw(row)
}

func (r *drawRepo) Create(ctx context.Context, db DBTX, draw *domain.LotteryDraw) error {
	_, err := db.Exec(ctx, `
		INSERT INTO lottery_draws (id, game_type_id, draw_time, status)
		VALUES ($1, $2, $3, $4)`,
		draw.ID, draw.GameTypeID, draw.DrawTime, string(draw.Status))
	if err != nil {
		return fmt.Errorf("insert draw: %w", err)
	}
	return nil
}

func (r *drawRepo) List(ctx context.Context, db DBTX, status *domain.DrawStatus) ([]domain.LotteryDraw, error) {
	var rows pgx.Rows
	var err error
	if status != nil {
		rows, err = db.Query(ctx,
			`SELECT `+drawColumns+` FROM lottery_draws WHERE status = $1 ORDER BY draw_time DESC`,
			string(*status))
	} else {
		rows, err = db.Query(ctx,
			`SELECT `+drawColumns+` FROM lottery_draws ORDER BY draw_time DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("query draws: %w", err)
	}
	defer rows.Close()
	return collectDraws(rows)
}

func (r *drawRepo) ListDueScheduled(ctx context.Context, db DBTX) ([]domain.LotteryDraw, error) {
	rows, err := db.Query(ctx, `
		SELECT `+drawColumns+` FROM lottery_draws
		WHERE status = $1 AND draw_time <= now()
		ORDER BY draw_time ASC`, string(domain.DrawScheduled))
	if err != nil {
		return nil, fmt.Errorf("query due draws: %w", err)
	}
	defer rows.Close()
	return collectDraws(rows)
}

func (r *drawRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.DrawStatus) error {
	_, err := tx.Exec(ctx, `
		UPDATE lottery_draws SET status = $2, updated_at = now() WHERE id = $1`,
		id, string(status))
	if err != nil {
		return fmt.Errorf("update draw status: %w", err)
	}
	return nil
}

func (r *drawRepo) InsertResult(ctx context.Context, db DBTX, result *domain.DrawResult) error {
	_, err := db.Exec(ctx, `
		INSERT INTO draw_results (id, lottery_draw_id, numbers, draw_time)
		VALUES ($1, $2, $3, $4)`,
		result.ID, result.LotteryDrawID, result.Numbers, result.DrawTime)
	if err != nil {
		return fmt.Errorf("insert draw result: %w", err)
	}
	return nil
}

func (r *drawRepo) FindResult(ctx context.Context, db DBTX, drawID uuid.UUID) (*domain.DrawResult, error) {
	row := db.QueryRow(ctx, `
		SELECT id, lottery_draw_id, numbers, draw_time
		FROM draw_results WHERE lottery_draw_id = $1`, drawID)

	var res domain.DrawResult
	err := row.Scan(&res.ID, &res.LotteryDrawID, &res.Numbers, &res.DrawTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan draw result: %w", err)
	}
	return &res, nil
}

func (r *drawRepo) InsertTier(ctx context.Context, db DBTX, tier *domain.PrizeTier) error {
	_, err := db.Exec(ctx, `
		INSERT INTO prize_tiers (id, lottery_draw_id, match_count, prize_amount)
		VALUES ($1, $2, $3, $4)`,
		tier.ID, tier.LotteryDrawID, tier.MatchCount, Int64ToNumeric(tier.PrizeAmount))
	if err != nil {
		return fmt.Errorf("insert prize tier: %w", err)
	}
	return nil
}

func (r *drawRepo) ListTiers(ctx context.Context, db DBTX, drawID uuid.UUID) ([]domain.PrizeTier, error) {
	rows, err := db.Query(ctx, `
		SELECT id, lottery_draw_id, match_count, prize_amount
		FROM prize_tiers WHERE lottery_draw_id = $1
		ORDER BY match_count DESC`, drawID)
	if err != nil {
		return nil, fmt.Errorf("query prize tiers: %w", err)
	}
	defer rows.Close()

	var tiers []domain.PrizeTier
	for rows.Next() {
		var tier domain.PrizeTier
		var amountNum pgtype.Numeric
		if err := rows.Scan(&tier.ID, &tier.LotteryDrawID, &tier.MatchCount, &amountNum); err != nil {
			return nil, fmt.Errorf("scan prize tier: %w", err)
		}
		if tier.PrizeAmount, err = NumericToInt64(amountNum); err != nil {
			return nil, fmt.Errorf("convert prize amount: %w", err)
		}
		tiers = append(tiers, tier)
	}
	return tiers, rows.Err()
}

func (r *drawRepo) InsertJackpot(ctx context.Context, db DBTX, jackpot *domain.Jackpot) error {
	_, err := db.Exec(ctx, `
		INSERT INTO jackpots (id, lottery_draw_id, amount, rolled_over)
		VALUES ($1, $2, $3, $4)`,
		jackpot.ID, jackpot.LotteryDrawID, Int64ToNumeric(jackpot.Amount), jackpot.RolledOver)
	if err != nil {
		return fmt.Errorf("insert jackpot: %w", err)
	}
	return nil
}

func (r *drawRepo) FindJackpot(ctx context.Context, db DBTX, drawID uuid.UUID) (*domain.Jackpot, error) {
	row := db.QueryRow(ctx, `
		SELECT id, lottery_draw_id, amount, rolled_over
		FROM jackpots WHERE lottery_draw_id = $1`, drawID)

	var j domain.Jackpot
	var amountNum pgtype.Numeric
	err := row.Scan(&j.ID, &j.LotteryDrawID, &amountNum, &j.RolledOver)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan jackpot: %w", err)
	}
	if j.Amount, err = NumericToInt64(amountNum); err != nil {
		return nil, fmt.Errorf("convert jackpot amount: %w", err)
	}
	return &j, nil
}

func scanDraw(row pgx.Row) (*domain.LotteryDraw, error) {
	var d domain.LotteryDraw
	err := row.Scan(&d.ID, &d.GameTypeID, &d.DrawTime, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan draw: %w", err)
	}
	return &d, nil
}

func collectDraws(rows pgx.Rows) ([]domain.LotteryDraw, error) {
	var draws []domain.LotteryDraw
	for rows.Next() {
		var d domain.LotteryDraw
		if err := rows.Scan(&d.ID, &d.GameTypeID, &d.DrawTime, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan draw row: %w", err)
		}
		draws = append(draws, d)
	}
	return draws, rows.Err()
}
