package services

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/server/models"
	"github.com/dmitrijs2005/fooddiary/internal/server/repositories/repomanager"
)

// StatisticsService aggregates meals, water and weight over date ranges.
type StatisticsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStatisticsService(db *sql.DB, m repomanager.RepositoryManager) *StatisticsService {
	return &StatisticsService{db: db, repomanager: m}
}

// DailyNutrition returns one entry per day of from..to, including days
// without meals.
func (s *StatisticsService) DailyNutrition(ctx context.Context, ownerID string, from, to time.Time) ([]models.DailyNutrition, error) {
	r, err := models.NewDateRange(from, to)
	if err != nil {
		return nil, err
	}
	user, err := s.repomanager.Users(s.db).GetByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return s.dailyNutrition(ctx, ownerID, r, user.DailyCalorieGoal)
}

func (s *StatisticsService) dailyNutrition(ctx context.Context, ownerID string, r models.DateRange, goal int) ([]models.DailyNutrition, error) {
	meals, err := s.repomanager.Meals(s.db).ListByRange(ctx, ownerID, r.From, r.To)
	if err != nil {
		return nil, err
	}
	cat, err := mealsCatalog(ctx, s.repomanager, s.db, ownerID, meals...)
	if err != nil {
		return nil, err
	}

	byDay := map[time.Time]*models.DailyNutrition{}
	for _, m := range meals {
		n, err := cat.MealTotal(m)
		if err != nil {
			return nil, err
		}
		day := models.NormalizeDate(m.Date)
		d, ok := byDay[day]
		if !ok {
			d = &models.DailyNutrition{Date: day}
			byDay[day] = d
		}
		d.Nutrition = d.Nutrition.Add(n)
		d.Meals++
	}

	out := make([]models.DailyNutrition, 0, r.Days())
	r.Each(func(day time.Time) {
		d := models.DailyNutrition{Date: day}
		if v, ok := byDay[day]; ok {
			d = *v
		}
		d.Nutrition = d.Nutrition.Rounded()
		d.CalorieGoal = goal
		out = append(out, d)
	})
	return out, nil
}

// WeightTrend returns the weight readings of from..to, oldest first.
func (s *StatisticsService) WeightTrend(ctx context.Context, ownerID string, from, to time.Time) ([]models.WeightPoint, error) {
	r, err := models.NewDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.weightTrend(ctx, ownerID, r)
}

func (s *StatisticsService) weightTrend(ctx context.Context, ownerID string, r models.DateRange) ([]models.WeightPoint, error) {
	repo, err := s.repomanager.Measurements(s.db, models.MeasurementWeight)
	if err != nil {
		return nil, err
	}
	list, err := repo.List(ctx, ownerID, r.From, r.To)
	if err != nil {
		return nil, err
	}
	out := make([]models.WeightPoint, 0, len(list))
	for _, m := range list {
		out = append(out, models.WeightPoint{Date: m.Date, Value: m.Value})
	}
	return out, nil
}

// Summary condenses from..to. Calories are averaged over days with at least
// one meal and water over days with at least one entry.
func (s *StatisticsService) Summary(ctx context.Context, ownerID string, from, to time.Time) (*models.Summary, error) {
	r, err := models.NewDateRange(from, to)
	if err != nil {
		return nil, err
	}
	days, err := s.dailyNutrition(ctx, ownerID, r, 0)
	if err != nil {
		return nil, err
	}
	water, err := s.repomanager.Hydration(s.db).DailyTotals(ctx, ownerID, r.From, r.EndExclusive())
	if err != nil {
		return nil, err
	}
	weights, err := s.weightTrend(ctx, ownerID, r)
	if err != nil {
		return nil, err
	}

	sum := &models.Summary{From: r.From, To: r.To, Days: r.Days()}
	var calories float64
	for _, d := range days {
		if d.Meals > 0 {
			sum.DaysLogged++
			calories += d.Nutrition.Calories
		}
	}
	if sum.DaysLogged > 0 {
		sum.AverageCalories = round2(calories / float64(sum.DaysLogged))
	}

	var ml, waterDays int
	for _, v := range water {
		if v > 0 {
			ml += v
			waterDays++
		}
	}
	if waterDays > 0 {
		sum.AverageWaterML = round2(float64(ml) / float64(waterDays))
	}

	if len(weights) > 0 {
		first, last := weights[0].Value, weights[len(weights)-1].Value
		delta := round2(last - first)
		sum.StartWeight, sum.EndWeight, sum.WeightDelta = &first, &last, &delta
	}
	return sum, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
