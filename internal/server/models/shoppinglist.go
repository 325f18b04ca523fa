package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/common"
)

type ShoppingList struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"-"`
	Name      string             `json:"name"`
	IsCurrent bool               `json:"is_current"`
	Items     []ShoppingListItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type ShoppingListItem struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit,omitempty"`
	Checked   bool    `json:"checked"`
	ProductID *string `json:"product_id,omitempty"`
	Order     int     `json:"order"`
}

func (l *ShoppingList) Validate() error {
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return invalid("list name is required")
	}
	for _, it := range l.Items {
		if strings.TrimSpace(it.Name) == "" {
			return invalid("item name is required")
		}
		if it.Amount < 0 {
			return invalid("item amount must not be negative")
		}
	}
	return nil
}

// Renumber sets Order to the item's position.
func (l *ShoppingList) Renumber() {
	for i := range l.Items {
		l.Items[i].Order = i
	}
}

func (l *ShoppingList) SetItemChecked(itemID string, checked bool) error {
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			l.Items[i].Checked = checked
			return nil
		}
	}
	return common.ErrorNotFound
}

// Merge adds item to the list. An unchecked item with the same product and
// unit absorbs the amount; anything else is appended. newID supplies ids for
// appended items. It reports whether a new item was appended.
func (l *ShoppingList) Merge(item ShoppingListItem, newID func() string) bool {
	if item.ProductID != nil {
		for i := range l.Items {
			it := &l.Items[i]
			if it.Checked || it.ProductID == nil {
				continue
			}
			if *it.ProductID == *item.ProductID && it.Unit == item.Unit {
				it.Amount += item.Amount
				return false
			}
		}
	}
	item.ID = newID()
	item.Order = len(l.Items)
	l.Items = append(l.Items, item)
	return true
}
