package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
	"github.com/hhpro-max/lucky-lottery/internal/rules"
	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation. The FindByName pre-checks are advisory; two concurrent creates
// can both pass them, and the constraint is the real guard.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// AdminService covers the back-office catalogue: game types, draw creation
// and browsing, and platform settings. Lifecycle transitions (close, draw,
// settle) live in the settlement package. Every operation is a single
// statement, so the service runs on the shared pool and never opens its own
// transaction.
type AdminService struct {
	pool      repository.DBTX
	gameTypes repository.GameTypeRepository
	draws     repository.DrawRepository
	settings  repository.SettingRepository
	logger    *slog.Logger
}

// NewAdminService creates an admin service.
func NewAdminService(
	pool repository.DBTX,
	gameTypes repository.GameTypeRepository,
	draws repository.DrawRepository,
	settings repository.SettingRepository,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		pool:      pool,
		gameTypes: gameTypes,
		draws:     draws,
		settings:  settings,
		logger:    logger,
	}
}

// GameTypeParams carries a create or update request.
type GameTypeParams struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Rules       json.RawMessage `json:"rules"`
	Active      *bool           `json:"active"`
}

// CreateGameType registers a new game. The rules document is validated
// strictly here so malformed rules never reach ticket validation.
func (s *AdminService) CreateGameType(ctx context.Context, params GameTypeParams) (*domain.GameType, error) {
	if params.Name == "" {
		return nil, domain.ErrValidation("name is required")
	}
	if len(params.Rules) > 0 {
		if _, err := rules.ParseStrict(params.Rules); err != nil {
			return nil, domain.ErrValidation("invalid rules: " + err.Error())
		}
	}

	existing, err := s.gameTypes.FindByName(ctx, s.pool, params.Name)
	if err != nil {
		return nil, domain.ErrInternal("find game type", err)
	}
	if existing != nil {
		return nil, domain.ErrConflict("game type name already in use")
	}

	active := true
	if params.Active != nil {
		active = *params.Active
	}
	gt := &domain.GameType{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		Rules:       params.Rules,
		Active:      active,
	}
	if err := s.gameTypes.Create(ctx, s.pool, gt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("game type name already in use")
		}
		return nil, domain.ErrInternal("create game type", err)
	}

	s.logger.Info("game type created", "game_type_id", gt.ID, "name", gt.Name)
	return gt, nil
}

// UpdateGameType patches an existing game. Empty fields keep their value.
func (s *AdminService) UpdateGameType(ctx context.Context, id uuid.UUID, params GameTypeParams) (*domain.GameType, error) {
	gt, err := s.gameTypes.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find game type", err)
	}
	if gt == nil {
		return nil, domain.ErrNotFound("game type", id.String())
	}

	if params.Name != "" && params.Name != gt.Name {
		other, err := s.gameTypes.FindByName(ctx, s.pool, params.Name)
		if err != nil {
			return nil, domain.ErrInternal("find game type", err)
		}
		if other != nil {
			return nil, domain.ErrConflict("game type name already in use")
		}
		gt.Name = params.Name
	}
	if params.Description != "" {
		gt.Description = params.Description
	}
	if len(params.Rules) > 0 {
		if _, err := rules.ParseStrict(params.Rules); err != nil {
			return nil, domain.ErrValidation("invalid rules: " + err.Error())
		}
		gt.Rules = params.Rules
	}
	if params.Active != nil {
		gt.Active = *params.Active
	}

	if err := s.gameTypes.Update(ctx, s.pool, gt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict("game type name already in use")
		}
		return nil, domain.ErrInternal("update game type", err)
	}

	s.logger.Info("game type updated", "game_type_id", gt.ID)
	return gt, nil
}

// ListGameTypes returns every game type, active or not.
func (s *AdminService) ListGameTypes(ctx context.Context) ([]domain.GameType, error) {
	list, err := s.gameTypes.List(ctx, s.pool)
	if err != nil {
		return nil, domain.ErrInternal("list game types", err)
	}
	return list, nil
}

// CreateDraw schedules a new draw for an active game type.
func (s *AdminService) CreateDraw(ctx context.Context, gameTypeID uuid.UUID, drawTime time.Time) (*domain.LotteryDraw, error) {
	if drawTime.IsZero() {
		return nil, domain.ErrValidation("draw_time is required")
	}
	gt, err := s.gameTypes.FindByID(ctx, s.pool, gameTypeID)
	if err != nil {
		return nil, domain.ErrInternal("find game type", err)
	}
	if gt == nil || !gt.Active {
		return nil, domain.ErrGameUnavailable()
	}

	draw := &domain.LotteryDraw{
		ID:         uuid.New(),
		GameTypeID: gameTypeID,
		DrawTime:   drawTime,
		Status:     domain.DrawScheduled,
	}
	if err := s.draws.Create(ctx, s.pool, draw); err != nil {
		return nil, domain.ErrInternal("create draw", err)
	}

	s.logger.Info("draw scheduled", "draw_id", draw.ID, "game_type_id", gameTypeID, "draw_time", drawTime)
	return draw, nil
}

// ListDraws returns draws, optionally filtered by status.
func (s *AdminService) ListDraws(ctx context.Context, status *domain.DrawStatus) ([]domain.LotteryDraw, error) {
	list, err := s.draws.List(ctx, s.pool, status)
	if err != nil {
		return nil, domain.ErrInternal("list draws", err)
	}
	return list, nil
}

// GetDraw returns one draw by ID.
func (s *AdminService) GetDraw(ctx context.Context, id uuid.UUID) (*domain.LotteryDraw, error) {
	draw, err := s.draws.FindByID(ctx, s.pool, id)
	if err != nil {
		return nil, domain.ErrInternal("find draw", err)
	}
	if draw == nil {
		return nil, domain.ErrNotFound("draw", id.String())
	}
	return draw, nil
}

// PutSetting writes a platform setting. Known integer settings are checked
// before the write.
func (s *AdminService) PutSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return domain.ErrValidation("setting key is required")
	}
	if key == MinTicketPriceKey {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return domain.ErrValidation("min_ticket_price must be a non-negative integer")
		}
	}
	if err := s.settings.Upsert(ctx, s.pool, key, value); err != nil {
		return domain.ErrInternal("upsert setting", err)
	}
	s.logger.Info("setting updated", "key", key)
	return nil
}
