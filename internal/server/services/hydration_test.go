package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fooddiary/internal/common"
	"github.com/dmitrijs2005/fooddiary/internal/server/models"
)

func TestHydrationService_Daily(t *testing.T) {
	rm := newFakeRepoManager()
	rm.users.add(&models.User{ID: "u1", DailyWaterGoalML: 2000})
	s := NewHydrationService(nil, rm)
	ctx := context.Background()

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, e := range []struct {
		at time.Time
		ml int
	}{
		{day.Add(8 * time.Hour), 250},
		{day.Add(13 * time.Hour), 750},
		{day.Add(-time.Minute), 500},
		{day.AddDate(0, 0, 1), 300},
	} {
		_, err := s.Add(ctx, "u1", e.at, e.ml)
		require.NoError(t, err)
	}

	d, err := s.Daily(ctx, "u1", day.Add(15*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, day, d.Date)
	assert.Len(t, d.Entries, 2)
	assert.Equal(t, 1000, d.TotalML)
	assert.Equal(t, 2000, d.GoalML)
	assert.Equal(t, 0.5, d.Progress)
}

func TestHydrationService_AddDefaultsToNow(t *testing.T) {
	at := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	fixClock(t, at)
	rm := newFakeRepoManager()
	s := NewHydrationService(nil, rm)

	e, err := s.Add(context.Background(), "u1", time.Time{}, 200)
	require.NoError(t, err)
	assert.Equal(t, at, e.Timestamp)

	_, err = s.Add(context.Background(), "u1", at, 0)
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = s.Add(context.Background(), "u1", at, models.MaxHydrationML+1)
	assert.ErrorIs(t, err, common.ErrorValidation)
}

func TestHydrationService_Delete(t *testing.T) {
	rm := newFakeRepoManager()
	s := NewHydrationService(nil, rm)
	ctx := context.Background()

	e, err := s.Add(ctx, "u1", time.Now(), 200)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Delete(ctx, "u2", e.ID), common.ErrorNotFound)
	require.NoError(t, s.Delete(ctx, "u1", e.ID))
	assert.Empty(t, rm.hydration.byID)
}
