package motivation

import (
	"testing"
	"time"

	"github.com/M-owl-8/ACT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGoal(t *testing.T, db *gorm.DB, userID uint, kind string, target float64, start time.Time) *models.Goal {
	t.Helper()
	goal := models.Goal{
		UserID:      userID,
		Kind:        kind,
		Title:       kind,
		TargetValue: &target,
		Status:      models.GoalActive,
		StartDate:   start,
	}
	require.NoError(t, db.Create(&goal).Error)
	return &goal
}

func TestSpendUnderIgnoresMandatory(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	start := day(-5)

	mandatory := newCategory(t, db, user.ID, models.TypeExpense, strPtr(models.ExpenseMandatory))
	excess := newCategory(t, db, user.ID, models.TypeExpense, strPtr(models.ExpenseExcess))

	addEntry(t, db, user.ID, &mandatory.ID, models.TypeExpense, 100, day(0))
	addEntry(t, db, user.ID, &excess.ID, models.TypeExpense, 60, day(0))

	goal := newGoal(t, db, user.ID, models.GoalSpendUnder, 50, start)
	require.NoError(t, RecomputeGoals(db, user.ID, day(0)))

	require.NoError(t, db.First(goal, goal.ID).Error)
	assert.Equal(t, 60.0, goal.CurrentValue)

	progress := goal.ProgressPercentage()
	require.NotNil(t, progress)
	assert.Equal(t, 100.0, *progress) // capped, never over 100
}

func TestSpendUnderCountsUncategorized(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	addEntry(t, db, user.ID, nil, models.TypeExpense, 25.5, day(0))

	goal := newGoal(t, db, user.ID, models.GoalSpendUnder, 200, day(-1))
	require.NoError(t, RecomputeGoals(db, user.ID, day(0)))

	require.NoError(t, db.First(goal, goal.ID).Error)
	assert.Equal(t, 25.5, goal.CurrentValue)
}

func TestLogNDaysCountsDistinctDates(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	addEntry(t, db, user.ID, nil, models.TypeExpense, 5, day(0))
	addEntry(t, db, user.ID, nil, models.TypeIncome, 5, day(0)) // same day
	addEntry(t, db, user.ID, nil, models.TypeExpense, 5, day(1))
	addEntry(t, db, user.ID, nil, models.TypeExpense, 5, day(2))

	goal := newGoal(t, db, user.ID, models.GoalLogNDays, 7, day(-1))
	require.NoError(t, RecomputeGoals(db, user.ID, day(2)))

	require.NoError(t, db.First(goal, goal.ID).Error)
	assert.Equal(t, 3.0, goal.CurrentValue)
}

func TestRecomputeSkipsGoalsOutsideWindow(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	addEntry(t, db, user.ID, nil, models.TypeExpense, 40, day(0))

	// window ended before the affected date
	end := day(-2)
	target := 100.0
	goal := models.Goal{
		UserID:      user.ID,
		Kind:        models.GoalSpendUnder,
		Title:       "old goal",
		TargetValue: &target,
		Status:      models.GoalActive,
		StartDate:   day(-10),
		EndDate:     &end,
	}
	require.NoError(t, db.Create(&goal).Error)

	require.NoError(t, RecomputeGoals(db, user.ID, day(0)))
	require.NoError(t, db.First(&goal, goal.ID).Error)
	assert.Equal(t, 0.0, goal.CurrentValue)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	addEntry(t, db, user.ID, nil, models.TypeExpense, 30, day(0))
	goal := newGoal(t, db, user.ID, models.GoalSpendUnder, 100, day(-1))

	require.NoError(t, RecomputeGoals(db, user.ID, day(0)))
	require.NoError(t, RecomputeGoals(db, user.ID, day(0)))

	require.NoError(t, db.First(goal, goal.ID).Error)
	assert.Equal(t, 30.0, goal.CurrentValue)
}

func TestProgressPercentageNilWithoutTarget(t *testing.T) {
	goal := models.Goal{CurrentValue: 10}
	assert.Nil(t, goal.ProgressPercentage())
}
