package models

import (
	"strings"
	"time"
)

type Recipe struct {
	ID              string       `json:"id"`
	OwnerID         string       `json:"-"`
	Name            string       `json:"name"`
	Description     string       `json:"description,omitempty"`
	Servings        int          `json:"servings"`
	TotalWeight     float64      `json:"total_weight,omitempty"`
	ManualNutrition bool         `json:"manual_nutrition"`
	Manual          Nutrition    `json:"manual"`
	ImageAssetID    *string      `json:"image_asset_id,omitempty"`
	Steps           []RecipeStep `json:"steps"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

type RecipeStep struct {
	Description string             `json:"description"`
	Ingredients []RecipeIngredient `json:"ingredients"`
}

type RecipeIngredient struct {
	ProductID string  `json:"product_id"`
	Amount    float64 `json:"amount"`
}

func (r *Recipe) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return invalid("recipe name is required")
	}
	if len(r.Name) > maxProductName {
		return invalid("recipe name is longer than %d characters", maxProductName)
	}
	if r.Servings <= 0 {
		return invalid("servings must be positive")
	}
	if r.TotalWeight < 0 {
		return invalid("total weight must not be negative")
	}
	if r.ManualNutrition {
		if err := r.Manual.Validate(); err != nil {
			return err
		}
	}
	for i, s := range r.Steps {
		for _, ing := range s.Ingredients {
			if ing.ProductID == "" {
				return invalid("step %d: ingredient product is required", i+1)
			}
			if ing.Amount <= 0 {
				return invalid("step %d: ingredient amount must be positive", i+1)
			}
		}
	}
	return nil
}

// ProductIDs lists the distinct products used by the recipe's ingredients.
func (r *Recipe) ProductIDs() []string {
	seen := map[string]bool{}
	var ids []string
	for _, s := range r.Steps {
		for _, ing := range s.Ingredients {
			if !seen[ing.ProductID] {
				seen[ing.ProductID] = true
				ids = append(ids, ing.ProductID)
			}
		}
	}
	return ids
}

// Ingredients flattens the ingredients of all steps.
func (r *Recipe) Ingredients() []RecipeIngredient {
	var out []RecipeIngredient
	for _, s := range r.Steps {
		out = append(out, s.Ingredients...)
	}
	return out
}

func (r *Recipe) PerServing(total Nutrition) Nutrition {
	if r.Servings <= 0 {
		return total
	}
	return total.Scale(1 / float64(r.Servings))
}
