package models

import (
	"strings"
	"time"
)

// Unit is the measuring unit of a product's base amount.
type Unit string

const (
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitPiece      Unit = "pcs"
)

func (u Unit) Valid() bool {
	switch u {
	case UnitGram, UnitMilliliter, UnitPiece:
		return true
	}
	return false
}

const (
	DefaultBaseAmount = 100
	maxProductName    = 200
)

// Product is a food item whose Nutrition is given per BaseAmount of BaseUnit.
type Product struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"-"`
	Name         string    `json:"name"`
	Brand        string    `json:"brand,omitempty"`
	Barcode      string    `json:"barcode,omitempty"`
	BaseUnit     Unit      `json:"base_unit"`
	BaseAmount   float64   `json:"base_amount"`
	Nutrition    Nutrition `json:"nutrition"`
	ImageAssetID *string   `json:"image_asset_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Normalize fills defaults: grams per 100.
func (p *Product) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	if p.BaseUnit == "" {
		p.BaseUnit = UnitGram
	}
	if p.BaseAmount == 0 {
		p.BaseAmount = DefaultBaseAmount
	}
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return invalid("product name is required")
	}
	if len(p.Name) > maxProductName {
		return invalid("product name is longer than %d characters", maxProductName)
	}
	if !p.BaseUnit.Valid() {
		return invalid("unknown unit %q", p.BaseUnit)
	}
	if p.BaseAmount <= 0 {
		return invalid("base amount must be positive")
	}
	return p.Nutrition.Validate()
}

// NutritionFor returns the nutrition of amount units of the product.
func (p *Product) NutritionFor(amount float64) Nutrition {
	return p.Nutrition.Scale(amount / p.BaseAmount)
}
