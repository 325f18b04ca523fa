package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// HydrationService records water intake.
type HydrationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewHydrationService(db *sql.DB, m repomanager.RepositoryManager) *HydrationService {
	return &HydrationService{db: db, repomanager: m}
}

// Add records amountML drunk at ts. A zero ts means now.
func (s *HydrationService) Add(ctx context.Context, ownerID string, ts time.Time, amountML int) (*models.HydrationEntry, error) {
	if ts.IsZero() {
		ts = now()
	}
	e, err := models.NewHydrationEntry(ownerID, ts, amountML)
	if err != nil {
		return nil, err
	}
	e.ID = newID()
	if err := s.repomanager.Hydration(s.db).Add(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *HydrationService) Delete(ctx context.Context, ownerID, id string) error {
	return s.repomanager.Hydration(s.db).Delete(ctx, ownerID, id)
}

// Daily summarizes the water drunk on date against the user's goal.
func (s *HydrationService) Daily(ctx context.Context, ownerID string, date time.Time) (*models.DailyHydration, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	day := models.NormalizeDate(date)
	entries, err := s.repomanager.Hydration(s.db).ListRange(ctx, ownerID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return models.NewDailyHydration(day, entries, user.DailyWaterGoalML), nil
}
