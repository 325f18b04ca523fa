package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/dbx"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// CycleService tracks menstrual cycles and predicts the next one.
type CycleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCycleService(db *sql.DB, m repomanager.RepositoryManager) *CycleService {
	return &CycleService{db: db, repomanager: m}
}

func (s *CycleService) Create(ctx context.Context, ownerID string, start time.Time, notes string) (*models.Cycle, error) {
	c, err := models.NewCycle(ownerID, start, notes)
	if err != nil {
		return nil, err
	}
	c.ID = newID()
	c.Days = []models.CycleDay{}
	if err := s.repomanager.Cycles(s.db).Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CycleService) Get(ctx context.Context, ownerID, id string) (*models.Cycle, error) {
	return s.repomanager.Cycles(s.db).Get(ctx, ownerID, id)
}

func (s *CycleService) List(ctx context.Context, ownerID string) ([]*models.Cycle, error) {
	return s.repomanager.Cycles(s.db).List(ctx, ownerID)
}

func (s *CycleService) Delete(ctx context.Context, ownerID, id string) error {
	return s.repomanager.Cycles(s.db).Delete(ctx, ownerID, id)
}

// AddOrUpdateDay records a day of the cycle. Recording the same date again
// replaces the earlier values.
func (s *CycleService) AddOrUpdateDay(ctx context.Context, ownerID, cycleID string, d models.CycleDay) (*models.Cycle, error) {
	var out *models.Cycle
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Cycles(tx)
		c, err := repo.Get(ctx, ownerID, cycleID)
		if err != nil {
			return err
		}
		day, err := c.AddOrUpdateDay(d)
		if err != nil {
			return err
		}
		if err := repo.UpsertDay(ctx, c.ID, *day); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CycleService) RemoveDay(ctx context.Context, ownerID, cycleID string, date time.Time) error {
	repo := s.repomanager.Cycles(s.db)
	if _, err := repo.Get(ctx, ownerID, cycleID); err != nil {
		return err
	}
	return repo.DeleteDay(ctx, cycleID, models.NormalizeDate(date))
}

// Predict returns the expected start of the next cycle, or
// common.ErrorNotFound when no cycle was recorded yet.
func (s *CycleService) Predict(ctx context.Context, ownerID string) (*models.CyclePrediction, error) {
	list, err := s.repomanager.Cycles(s.db).List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	p := models.PredictNextCycle(list)
	if p == nil {
		return nil, common.ErrorNotFound
	}
	return p, nil
}
