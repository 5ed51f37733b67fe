package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
)

type settingRepo struct{}

// NewSettingRepository returns a pgx-backed SettingRepository.
func NewSettingRepository() SettingRepository {
	return &settingRepo{}
}

func (r *settingRepo) Get(ctx context.Context, db DBTX, key string) (string, bool, error) {
	var value string
	err := db.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, true, nil
}

func (r *settingRepo) GetInt64(ctx context.Context, db DBTX, key string) (int64, bool, error) {
	value, found, err := r.Get(ctx, db, key)
	if err != nil || !found {
		return 0, false, err
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return n, true, nil
}

func (r *settingRepo) Upsert(ctx context.Context, db DBTX, key, value string) error {
	_, err := db.Exec(ctx, `
		INSERT INTO settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		key, value)
	if err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
