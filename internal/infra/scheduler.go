package infra

import (
	"context"
	"log/slog"

	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
	"github.com/hhpro-max/lucky-lottery/internal/settlement"
	"github.com/robfig/cron/v3"
)

// DrawScheduler closes scheduled draws whose draw time has passed, on a cron
// schedule. Closing goes through the settlement orchestrator so the status
// guard and the draw row lock apply; a draw an admin closed by hand in the
// meantime is simply skipped.
type DrawScheduler struct {
	cron    *cron.Cron
	pool    repository.DBTX
	draws   repository.DrawRepository
	settler *settlement.Settler
	logger  *slog.Logger
}

// NewDrawScheduler creates a draw scheduler with the given cron spec.
func NewDrawScheduler(spec string, pool repository.DBTX, draws repository.DrawRepository, settler *settlement.Settler, logger *slog.Logger) (*DrawScheduler, error) {
	s := &DrawScheduler{
		cron:    cron.New(),
		pool:    pool,
		draws:   draws,
		settler: settler,
		logger:  logger,
	}
	_, err := s.cron.AddFunc(spec, func() {
		s.closeDueDraws(context.Background())
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the cron loop.
func (s *DrawScheduler) Start() {
	s.cron.Start()
	s.logger.Info("draw scheduler started")
}

// Stop halts the cron loop, waiting for a running job to finish.
func (s *DrawScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("draw scheduler stopped")
}

func (s *DrawScheduler) closeDueDraws(ctx context.Context) {
	due, err := s.draws.ListDueScheduled(ctx, s.pool)
	if err != nil {
		s.logger.Error("list due draws failed", "error", err)
		return
	}

	for _, draw := range due {
		err := s.settler.CloseDraw(ctx, draw.ID)
		if err != nil {
			if appErr, ok := err.(*domain.AppError); ok && appErr.Code == "CANNOT_CLOSE" {
				continue
			}
			s.logger.Error("auto-close draw failed", "draw_id", draw.ID, "error", err)
			continue
		}
		s.logger.Info("draw auto-closed", "draw_id", draw.ID, "draw_time", draw.DrawTime)
	}
}
