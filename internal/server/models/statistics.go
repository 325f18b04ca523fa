package models

import "time"

// DailyNutrition is the nutrition eaten on one day against the calorie goal.
type DailyNutrition struct {
	Date        time.Time `json:"date"`
	Nutrition   Nutrition `json:"nutrition"`
	Meals       int       `json:"meals"`
	CalorieGoal int       `json:"calorie_goal"`
}

type WeightPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Summary condenses a period: averages per day and the weight change.
type Summary struct {
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	Days            int       `json:"days"`
	DaysLogged      int       `json:"days_logged"`
	AverageCalories float64   `json:"average_calories"`
	AverageWaterML  float64   `json:"average_water_ml"`
	StartWeight     *float64  `json:"start_weight,omitempty"`
	EndWeight       *float64  `json:"end_weight,omitempty"`
	WeightDelta     *float64  `json:"weight_delta,omitempty"`
}
