package models

import (
	"time"
)

type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
	MealOther     MealType = "other"
)

func (t MealType) Valid() bool {
	switch t {
	case MealBreakfast, MealLunch, MealDinner, MealSnack, MealOther:
		return true
	}
	return false
}

const (
	MinSatiety = 0
	MaxSatiety = 9
)

// ClampSatiety keeps a satiety level within 0..9. Out-of-range values
// are treated as not recorded and become 0.
func ClampSatiety(v int) int {
	if v < MinSatiety || v > MaxSatiety {
		return 0
	}
	return v
}

// Meal is a single consumption: what was eaten on a date, with optional
// manual nutrition totals overriding the item sum.
type Meal struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"-"`
	Date            time.Time  `json:"date"`
	TimeOfDay       string     `json:"time_of_day,omitempty"`
	Type            MealType   `json:"type"`
	Comment         string     `json:"comment,omitempty"`
	SatietyBefore   int        `json:"satiety_before"`
	SatietyAfter    int        `json:"satiety_after"`
	ImageAssetID    *string    `json:"image_asset_id,omitempty"`
	ManualNutrition bool       `json:"manual_nutrition"`
	Manual          Nutrition  `json:"manual"`
	Items           []MealItem `json:"items"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// MealItem references exactly one of a product or a recipe. Amount is in the
// product's unit or, for recipes, in servings.
type MealItem struct {
	ProductID *string `json:"product_id,omitempty"`
	RecipeID  *string `json:"recipe_id,omitempty"`
	Amount    float64 `json:"amount"`
}

func (i MealItem) Validate() error {
	if (i.ProductID == nil) == (i.RecipeID == nil) {
		return invalid("meal item must reference exactly one of product or recipe")
	}
	if i.Amount <= 0 {
		return invalid("amount must be positive")
	}
	return nil
}

// Normalize applies the meal invariants that never fail: the date becomes
// UTC midnight, satiety is clamped and an empty type becomes "other".
func (m *Meal) Normalize() {
	m.Date = NormalizeDate(m.Date)
	m.SatietyBefore = ClampSatiety(m.SatietyBefore)
	m.SatietyAfter = ClampSatiety(m.SatietyAfter)
	if m.Type == "" {
		m.Type = MealOther
	}
}

func (m *Meal) Validate() error {
	if m.Date.IsZero() {
		return invalid("meal date is required")
	}
	if !m.Type.Valid() {
		return invalid("unknown meal type %q", m.Type)
	}
	if m.TimeOfDay != "" {
		if _, err := time.Parse("15:04", m.TimeOfDay); err != nil {
			return invalid("time of day must be HH:MM")
		}
	}
	if m.ManualNutrition {
		if err := m.Manual.Validate(); err != nil {
			return err
		}
	}
	for _, it := range m.Items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ProductIDs and RecipeIDs list the distinct references of the meal's items.
func (m *Meal) ProductIDs() []string {
	var ids []string
	seen := map[string]bool{}
	for _, it := range m.Items {
		if it.ProductID != nil && !seen[*it.ProductID] {
			seen[*it.ProductID] = true
			ids = append(ids, *it.ProductID)
		}
	}
	return ids
}

func (m *Meal) RecipeIDs() []string {
	var ids []string
	seen := map[string]bool{}
	for _, it := range m.Items {
		if it.RecipeID != nil && !seen[*it.RecipeID] {
			seen[*it.RecipeID] = true
			ids = append(ids, *it.RecipeID)
		}
	}
	return ids
}
