package models

import "math"

// Nutrition is an energy and macronutrient breakdown: kcal and grams.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
	Fiber    float64 `json:"fiber"`
}

func (n Nutrition) Add(o Nutrition) Nutrition {
	return Nutrition{
		Calories: n.Calories + o.Calories,
		Proteins: n.Proteins + o.Proteins,
		Fats:     n.Fats + o.Fats,
		Carbs:    n.Carbs + o.Carbs,
		Fiber:    n.Fiber + o.Fiber,
	}
}

func (n Nutrition) Scale(f float64) Nutrition {
	return Nutrition{
		Calories: n.Calories * f,
		Proteins: n.Proteins * f,
		Fats:     n.Fats * f,
		Carbs:    n.Carbs * f,
		Fiber:    n.Fiber * f,
	}
}

// Rounded rounds every component to two decimals.
func (n Nutrition) Rounded() Nutrition {
	r := func(v float64) float64 { return math.Round(v*100) / 100 }
	return Nutrition{
		Calories: r(n.Calories),
		Proteins: r(n.Proteins),
		Fats:     r(n.Fats),
		Carbs:    r(n.Carbs),
		Fiber:    r(n.Fiber),
	}
}

func (n Nutrition) Validate() error {
	if n.Calories < 0 || n.Proteins < 0 || n.Fats < 0 || n.Carbs < 0 || n.Fiber < 0 {
		return invalid("nutrition values must not be negative")
	}
	return nil
}

// Catalog holds the products and recipes a nutrition calculation refers to,
// keyed by id.
type Catalog struct {
	Products map[string]*Product
	Recipes  map[string]*Recipe
}

// NewCatalog indexes products and recipes by id.
func NewCatalog(products []*Product, recipes []*Recipe) *Catalog {
	c := &Catalog{
		Products: make(map[string]*Product, len(products)),
		Recipes:  make(map[string]*Recipe, len(recipes)),
	}
	for _, p := range products {
		c.Products[p.ID] = p
	}
	for _, r := range recipes {
		c.Recipes[r.ID] = r
	}
	return c
}

// RecipeTotal returns the nutrition of the whole recipe: the manual totals
// when set, otherwise the sum over all step ingredients.
func (c *Catalog) RecipeTotal(r *Recipe) (Nutrition, error) {
	if r.ManualNutrition {
		return r.Manual, nil
	}
	var total Nutrition
	for _, step := range r.Steps {
		for _, ing := range step.Ingredients {
			p, ok := c.Products[ing.ProductID]
			if !ok {
				return Nutrition{}, invalid("unknown product %s in recipe %s", ing.ProductID, r.ID)
			}
			total = total.Add(p.NutritionFor(ing.Amount))
		}
	}
	return total, nil
}

// RecipePerServing divides the recipe total by its servings.
func (c *Catalog) RecipePerServing(r *Recipe) (Nutrition, error) {
	total, err := c.RecipeTotal(r)
	if err != nil {
		return Nutrition{}, err
	}
	return r.PerServing(total), nil
}

// ItemNutrition returns the contribution of a single meal item. Product
// items scale by base amount, recipe items multiply the per-serving value
// by the number of servings eaten.
func (c *Catalog) ItemNutrition(item MealItem) (Nutrition, error) {
	switch {
	case item.ProductID != nil:
		p, ok := c.Products[*item.ProductID]
		if !ok {
			return Nutrition{}, invalid("unknown product %s", *item.ProductID)
		}
		return p.NutritionFor(item.Amount), nil
	case item.RecipeID != nil:
		r, ok := c.Recipes[*item.RecipeID]
		if !ok {
			return Nutrition{}, invalid("unknown recipe %s", *item.RecipeID)
		}
		per, err := c.RecipePerServing(r)
		if err != nil {
			return Nutrition{}, err
		}
		return per.Scale(item.Amount), nil
	default:
		return Nutrition{}, invalid("meal item has neither product nor recipe")
	}
}

// MealTotal returns the manual totals of a meal when set, otherwise the sum
// of its items.
func (c *Catalog) MealTotal(m *Meal) (Nutrition, error) {
	if m.ManualNutrition {
		return m.Manual, nil
	}
	var total Nutrition
	for _, it := range m.Items {
		n, err := c.ItemNutrition(it)
		if err != nil {
			return Nutrition{}, err
		}
		total = total.Add(n)
	}
	return total, nil
}
