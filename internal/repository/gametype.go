package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/jackc/pgx/v5"
)

type gameTypeRepo struct{}

// NewGameTypeRepository returns a pgx-backed GameTypeRepository.
func NewGameTypeRepository() GameTypeRepository {
	return &gameTypeRepo{}
}

const gameTypeColumns = `id, name, description, rules, active, created_at, updated_at`

func (r *gameTypeRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.GameType, error) {
	row := db.QueryRow(ctx,
		`SELECT `+gameTypeColumns+` FROM game_types WHERE id = $1`, id)
	return scanGameType(row)
}

func (r *gameTypeRepo) FindByName(ctx context.Context, db DBTX, name string) (*domain.GameType, error) {
	row := db.QueryRow(ctx,
		`SELECT `+gameTypeColumns+` FROM game_types WHERE name = $1`, name)
	return scanGameType(row)
}

func (r *gameTypeRepo) List(ctx context.Context, db DBTX) ([]domain.GameType, error) {
	rows, err := db.Query(ctx,
		`SELECT `+gameTypeColumns+` FROM game_types ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query game types: %w", err)
	}
	defer rows.Close()

	var gts []domain.GameType
	for rows.Next() {
		var gt domain.GameType
		if err := rows.Scan(&gt.ID, &gt.Name, &gt.Description, &gt.Rules, &gt.Active, &gt.CreatedAt, &gt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan game type row: %w", err)
		}
		gts = append(gts, gt)
	}
	return gts, rows.Err()
}

func (r *gameTypeRepo) Create(ctx context.Context, db DBTX, gt *domain.GameType) error {
	_, err := db.Exec(ctx, `
		INSERT INTO game_types (id, name, description, rules, active)
		VALUES ($1, $2, $3, $4, $5)`,
		gt.ID, gt.Name, gt.Description, gt.Rules, gt.Active)
	if err != nil {
		return fmt.Errorf("insert game type: %w", err)
	}
	return nil
}

func (r *gameTypeRepo) Update(ctx context.Context, db DBTX, gt *domain.GameType) error {
	_, err := db.Exec(ctx, `
		UPDATE game_types
		SET name = $2, description = $3, rules = $4, active = $5, updated_at = now()
		WHERE id = $1`,
		gt.ID, gt.Name, gt.Description, gt.Rules, gt.Active)
	if err != nil {
		return fmt.Errorf("update game type: %w", err)
	}
	return nil
}

func scanGameType(row pgx.Row) (*domain.GameType, error) {
	var gt domain.GameType
	err := row.Scan(&gt.ID, &gt.Name, &gt.Description, &gt.Rules, &gt.Active, &gt.CreatedAt, &gt.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan game type: %w", err)
	}
	return &gt, nil
}
