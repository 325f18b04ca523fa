package models

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func testCatalog() *Catalog {
	oats := &Product{ID: "oats", BaseUnit: UnitGram, BaseAmount: 100,
		Nutrition: Nutrition{Calories: 380, Proteins: 13, Fats: 7, Carbs: 60, Fiber: 10}}
	milk := &Product{ID: "milk", BaseUnit: UnitMilliliter, BaseAmount: 100,
		Nutrition: Nutrition{Calories: 60, Proteins: 3, Fats: 3, Carbs: 5}}
	egg := &Product{ID: "egg", BaseUnit: UnitPiece, BaseAmount: 1,
		Nutrition: Nutrition{Calories: 70, Proteins: 6, Fats: 5}}

	porridge := &Recipe{ID: "porridge", Servings: 2, Steps: []RecipeStep{
		{Ingredients: []RecipeIngredient{{ProductID: "oats", Amount: 100}}},
		{Ingredients: []RecipeIngredient{{ProductID: "milk", Amount: 200}}},
	}}
	manual := &Recipe{ID: "manual", Servings: 4, ManualNutrition: true,
		Manual: Nutrition{Calories: 800, Proteins: 40}}

	return NewCatalog([]*Product{oats, milk, egg}, []*Recipe{porridge, manual})
}

func TestCatalog_RecipeTotalAndPerServing(t *testing.T) {
	c := testCatalog()

	total, err := c.RecipeTotal(c.Recipes["porridge"])
	require.NoError(t, err)
	assert.Equal(t, Nutrition{Calories: 500, Proteins: 19, Fats: 13, Carbs: 70, Fiber: 10}, total)

	per, err := c.RecipePerServing(c.Recipes["porridge"])
	require.NoError(t, err)
	assert.Equal(t, 250.0, per.Calories)
	assert.Equal(t, 9.5, per.Proteins)
}

func TestCatalog_ManualRecipeWins(t *testing.T) {
	c := testCatalog()

	per, err := c.RecipePerServing(c.Recipes["manual"])
	require.NoError(t, err)
	assert.Equal(t, Nutrition{Calories: 200, Proteins: 10}, per)
}

func TestCatalog_MealTotal(t *testing.T) {
	c := testCatalog()

	m := &Meal{Items: []MealItem{
		{ProductID: ptr("egg"), Amount: 2},
		{RecipeID: ptr("porridge"), Amount: 1.5},
	}}
	total, err := c.MealTotal(m)
	require.NoError(t, err)
	assert.Equal(t, 140+375.0, total.Calories)

	m.ManualNutrition = true
	m.Manual = Nutrition{Calories: 42}
	total, err = c.MealTotal(m)
	require.NoError(t, err)
	assert.Equal(t, Nutrition{Calories: 42}, total)
}

func TestCatalog_UnknownReference(t *testing.T) {
	c := testCatalog()

	_, err := c.ItemNutrition(MealItem{ProductID: ptr("ghost"), Amount: 1})
	assert.True(t, errors.Is(err, common.ErrorValidation))

	_, err = c.ItemNutrition(MealItem{RecipeID: ptr("ghost"), Amount: 1})
	assert.True(t, errors.Is(err, common.ErrorValidation))

	_, err = c.ItemNutrition(MealItem{Amount: 1})
	assert.True(t, errors.Is(err, common.ErrorValidation))
}

func TestNutrition_RoundedAndValidate(t *testing.T) {
	n := Nutrition{Calories: 1.006, Proteins: 2.444}
	assert.Equal(t, Nutrition{Calories: 1.01, Proteins: 2.44}, n.Rounded())

	assert.NoError(t, n.Validate())
	assert.ErrorIs(t, Nutrition{Fats: -1}.Validate(), common.ErrorValidation)
}

func TestProduct_NormalizeAndValidate(t *testing.T) {
	p := &Product{Name: "  Rice "}
	p.Normalize()
	assert.Equal(t, "Rice", p.Name)
	assert.Equal(t, UnitGram, p.BaseUnit)
	assert.Equal(t, float64(DefaultBaseAmount), p.BaseAmount)
	require.NoError(t, p.Validate())

	p.BaseUnit = "kg"
	assert.ErrorIs(t, p.Validate(), common.ErrorValidation)

	empty := &Product{}
	empty.Normalize()
	assert.ErrorIs(t, empty.Validate(), common.ErrorValidation)
}
