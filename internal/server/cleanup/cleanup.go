// Package cleanup runs the periodic housekeeping job: it removes accounts
// whose email was never confirmed, expired refresh tokens and images whose
// upload was never completed.
package cleanup

import (
	"context"
	"database/sql"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrijs2005/fooddiary/internal/logging"
	"github.com/dmitrijs2005/fooddiary/internal/server/config"
	"github.com/dmitrijs2005/fooddiary/internal/server/metrics"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

const (
	stalePendingAge = 24 * time.Hour
	assetBatchSize  = 100
)

// ObjectDeleter removes stored objects.
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// Report counts what one run removed.
type Report struct {
	Users         int64
	RefreshTokens int64
	Assets        int64
}

type Service struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	storage     ObjectDeleter
	retention   time.Duration
	schedule    string
	logger      logging.Logger
	cron        *cron.Cron
	now         func() time.Time
}

func NewService(db *sql.DB, m repomanager.RepositoryManager, st ObjectDeleter, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		db:          db,
		repomanager: m,
		storage:     st,
		retention:   cfg.UnconfirmedUserRetention,
		schedule:    cfg.CleanupSchedule,
		logger:      logger.With("module", "cleanup"),
		cron:        cron.New(cron.WithLocation(time.UTC)),
		now:         time.Now,
	}
}

// Start schedules the job. Runs never overlap.
func (s *Service) Start() error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		ctx := context.Background()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error(ctx, "cleanup failed", "error", err)
		}
	}))
	if _, err := s.cron.AddJob(s.schedule, job); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info(context.Background(), "cleanup scheduled", "schedule", s.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running job until ctx is done.
func (s *Service) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// RunOnce performs a single cleanup pass.
func (s *Service) RunOnce(ctx context.Context) (Report, error) {
	var rep Report
	now := s.now()

	n, keys, err := s.repomanager.Users(s.db).DeleteUnconfirmedBefore(ctx, now.Add(-s.retention))
	if err != nil {
		return rep, err
	}
	for _, key := range keys {
		s.deleteObject(ctx, key)
	}
	rep.Users = n
	metrics.RecordCleanup("unconfirmed_users", n)

	n, err = s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, now)
	if err != nil {
		return rep, err
	}
	rep.RefreshTokens = n
	metrics.RecordCleanup("refresh_tokens", n)

	n, err = s.deleteStaleAssets(ctx, now.Add(-stalePendingAge))
	rep.Assets = n
	metrics.RecordCleanup("pending_assets", n)
	if err != nil {
		return rep, err
	}

	s.logger.Info(ctx, "cleanup finished", "users", rep.Users, "refresh_tokens", rep.RefreshTokens, "assets", rep.Assets)
	return rep, nil
}

func (s *Service) deleteStaleAssets(ctx context.Context, before time.Time) (int64, error) {
	repo := s.repomanager.Assets(s.db)
	list, err := repo.ListStalePending(ctx, before, assetBatchSize)
	if err != nil {
		return 0, err
	}

	var n int64
	for _, a := range list {
		// The row goes first: a row that is still referenced must keep its object.
		if err := repo.Delete(ctx, a.ID); err != nil {
			s.logger.Warn(ctx, "failed to delete asset", "asset_id", a.ID, "error", err)
			continue
		}
		n++
		s.deleteObject(ctx, a.ObjectKey)
	}
	return n, nil
}

// deleteObject removes an object whose row is already gone. Failures are
// logged only.
func (s *Service) deleteObject(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "failed to delete object", "key", key, "error", err)
	}
}
