package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/measurements"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// MeasurementService keeps one series of body measurements, weight or waist.
type MeasurementService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	kind        models.MeasurementKind
}

func NewMeasurementService(db *sql.DB, m repomanager.RepositoryManager, kind models.MeasurementKind) *MeasurementService {
	return &MeasurementService{db: db, repomanager: m, kind: kind}
}

func (s *MeasurementService) repo() (measurements.Repository, error) {
	return s.repomanager.Measurements(s.db, s.kind)
}

// Upsert records value for date, replacing an earlier reading of that day.
func (s *MeasurementService) Upsert(ctx context.Context, ownerID string, date time.Time, value float64) (*models.Measurement, error) {
	m, err := models.NewMeasurement(ownerID, date, value)
	if err != nil {
		return nil, err
	}
	m.ID = newID()
	repo, err := s.repo()
	if err != nil {
		return nil, err
	}
	if err := repo.Upsert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MeasurementService) List(ctx context.Context, ownerID string, from, to time.Time) ([]*models.Measurement, error) {
	r, err := models.NewDateRange(from, to)
	if err != nil {
		return nil, err
	}
	repo, err := s.repo()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx, ownerID, r.From, r.To)
}

func (s *MeasurementService) Delete(ctx context.Context, ownerID, id string) error {
	repo, err := s.repo()
	if err != nil {
		return err
	}
	return repo.Delete(ctx, ownerID, id)
}
