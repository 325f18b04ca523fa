package models

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShoppingList_MergeAndCheck(t *testing.T) {
	n := 0
	newID := func() string { n++; return string(rune('a' + n - 1)) }

	l := &ShoppingList{Name: "Weekly"}
	assert.True(t, l.Merge(ShoppingListItem{Name: "Oats", Amount: 100, Unit: "g", ProductID: ptr("oats")}, newID))
	assert.False(t, l.Merge(ShoppingListItem{Name: "Oats", Amount: 50, Unit: "g", ProductID: ptr("oats")}, newID))
	assert.True(t, l.Merge(ShoppingListItem{Name: "Oats", Amount: 1, Unit: "pcs", ProductID: ptr("oats")}, newID))
	require.Len(t, l.Items, 2)
	assert.Equal(t, 150.0, l.Items[0].Amount)

	require.NoError(t, l.SetItemChecked("a", true))
	assert.True(t, l.Merge(ShoppingListItem{Name: "Oats", Amount: 10, Unit: "g", ProductID: ptr("oats")}, newID))
	assert.Len(t, l.Items, 3)
	assert.Equal(t, 2, l.Items[2].Order)

	assert.ErrorIs(t, l.SetItemChecked("zzz", true), common.ErrorNotFound)
}

func TestShoppingList_Validate(t *testing.T) {
	assert.ErrorIs(t, (&ShoppingList{Name: " "}).Validate(), common.ErrorValidation)
	assert.ErrorIs(t, (&ShoppingList{Name: "x", Items: []ShoppingListItem{{Name: "a", Amount: -1}}}).Validate(), common.ErrorValidation)
	assert.NoError(t, (&ShoppingList{Name: "x", Items: []ShoppingListItem{{Name: "a"}}}).Validate())
}

func TestNewMeasurement(t *testing.T) {
	m, err := NewMeasurement("u1", time.Date(2024, 2, 3, 18, 0, 0, 0, time.UTC), 72.5)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), m.Date)

	_, err = NewMeasurement("u1", time.Now(), 0)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestHydration(t *testing.T) {
	_, err := NewHydrationEntry("u1", time.Now(), 0)
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = NewHydrationEntry("u1", time.Now(), MaxHydrationML+1)
	assert.ErrorIs(t, err, common.ErrorValidation)

	e1, err := NewHydrationEntry("u1", time.Now(), 500)
	require.NoError(t, err)
	e2, _ := NewHydrationEntry("u1", time.Now(), 250)

	d := NewDailyHydration(time.Now(), []*HydrationEntry{e1, e2}, 1500)
	assert.Equal(t, 750, d.TotalML)
	assert.Equal(t, 0.5, d.Progress)

	empty := NewDailyHydration(time.Now(), nil, 0)
	assert.NotNil(t, empty.Entries)
	assert.Zero(t, empty.Progress)
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("image/png", 1024))
	assert.ErrorIs(t, ValidateUpload("image/gif", 1024), common.ErrorValidation)
	assert.ErrorIs(t, ValidateUpload("image/jpeg", MaxAssetSize+1), common.ErrorValidation)
	assert.ErrorIs(t, ValidateUpload("image/jpeg", 0), common.ErrorValidation)
	assert.Equal(t, ".webp", ImageExtension("image/webp"))
}

func TestRolesAndEmail(t *testing.T) {
	roles, err := NormalizeRoles([]string{RolePremium, RoleAdmin, RolePremium})
	require.NoError(t, err)
	assert.Equal(t, []string{RoleUser, RoleAdmin, RolePremium}, roles)

	_, err = NormalizeRoles([]string{"Root"})
	assert.ErrorIs(t, err, common.ErrorValidation)

	assert.Equal(t, []string{RoleUser, RolePremium}, SplitRoles(JoinRoles([]string{RoleUser, RolePremium})))
	assert.Equal(t, []string{RoleUser}, SplitRoles(""))

	assert.Equal(t, "a@b.com", NormalizeEmail("  A@B.com "))
	assert.NoError(t, ValidateEmail("a@b.com"))
	assert.Error(t, ValidateEmail("Bob <a@b.com>"))
	assert.Error(t, ValidateEmail("nope"))
}

func TestDateRange(t *testing.T) {
	r, err := NewDateRange(time.Date(2024, 1, 30, 10, 0, 0, 0, time.UTC), time.Date(2024, 2, 2, 1, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 4, r.Days())
	assert.Equal(t, time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), r.EndExclusive())

	var seen int
	r.Each(func(time.Time) { seen++ })
	assert.Equal(t, 4, seen)

	_, err = NewDateRange(r.To, r.From)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = ParseDate("2024-13-01")
	assert.ErrorIs(t, err, common.ErrorValidation)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), MonthStart(r.To))
}

func TestDateRange_Bounded(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	r, err := NewDateRange(from, from.AddDate(0, 0, MaxRangeDays-1))
	require.NoError(t, err)
	assert.Equal(t, MaxRangeDays, r.Days())

	var seen int
	r.Each(func(time.Time) { seen++ })
	assert.Equal(t, r.Days(), seen)

	_, err = NewDateRange(from, from.AddDate(0, 0, MaxRangeDays))
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = NewDateRange(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestDateRange_DaysBeyondDurationLimit(t *testing.T) {
	r := DateRange{From: time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 3652059, r.Days())
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Limit: DefaultPageSize}, Page{}.Normalize())
	assert.Equal(t, Page{Limit: MaxPageSize, Offset: 0}, Page{Limit: 1000, Offset: -5}.Normalize())
}
