package motivation

import (
	"testing"

	"github.com/M-owl-8/ACT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoSpendRunBreaksOnDiscretionary(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	excess := newCategory(t, db, user.ID, models.TypeExpense, strPtr(models.ExpenseExcess))
	addEntry(t, db, user.ID, &excess.ID, models.TypeExpense, 20, day(-3))

	run, err := NoSpendRun(db, user.ID, day(-30), day(0))
	require.NoError(t, err)
	assert.Equal(t, 3, run) // today, yesterday, the day before
}

func TestNoSpendRunSurvivesMandatorySpend(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	mandatory := newCategory(t, db, user.ID, models.TypeExpense, strPtr(models.ExpenseMandatory))
	addEntry(t, db, user.ID, &mandatory.ID, models.TypeExpense, 500, day(0))
	addEntry(t, db, user.ID, &mandatory.ID, models.TypeExpense, 500, day(-1))

	run, err := NoSpendRun(db, user.ID, day(-4), day(0))
	require.NoError(t, err)
	assert.Equal(t, 5, run) // rent does not break the challenge
}

func TestNoSpendRunZeroWhenSpentToday(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	// uncategorized expenses count as discretionary
	addEntry(t, db, user.ID, nil, models.TypeExpense, 5, day(0))

	run, err := NoSpendRun(db, user.ID, day(-10), day(0))
	require.NoError(t, err)
	assert.Equal(t, 0, run)
}

func TestNoSpendRunBoundedBySince(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	run, err := NoSpendRun(db, user.ID, day(-2), day(0))
	require.NoError(t, err)
	assert.Equal(t, 3, run) // since-day itself is included
}

func TestNoSpendRunIgnoresIncome(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	addEntry(t, db, user.ID, nil, models.TypeIncome, 1000, day(0))

	run, err := NoSpendRun(db, user.ID, day(-1), day(0))
	require.NoError(t, err)
	assert.Equal(t, 2, run)
}
