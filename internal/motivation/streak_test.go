package motivation

import (
	"testing"
	"time"

	"github.com/M-owl-8/ACT/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestCheckStreakFirstEntry(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	addEntry(t, db, user.ID, nil, models.TypeExpense, 10, day(0))

	streak, err := CheckStreak(db, user.ID, day(0))
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentCount)
	assert.Equal(t, 1, streak.BestCount)
}

func TestCheckStreakIdempotentPerDay(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)
	addEntry(t, db, user.ID, nil, models.TypeExpense, 10, day(0))

	_, err := CheckStreak(db, user.ID, day(0))
	require.NoError(t, err)
	streak, err := CheckStreak(db, user.ID, day(0))
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentCount)
}

func TestCheckStreakConsecutiveDays(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	for i := 0; i < 3; i++ {
		addEntry(t, db, user.ID, nil, models.TypeExpense, 10, day(i))
		streak, err := CheckStreak(db, user.ID, day(i))
		require.NoError(t, err)
		assert.Equal(t, i+1, streak.CurrentCount)
	}

	streak, err := GetOrCreateStreak(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, streak.BestCount)
}

func TestCheckStreakGapResetsToOne(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	addEntry(t, db, user.ID, nil, models.TypeExpense, 10, day(0))
	addEntry(t, db, user.ID, nil, models.TypeExpense, 10, day(1))
	_, err := CheckStreak(db, user.ID, day(0))
	require.NoError(t, err)
	_, err = CheckStreak(db, user.ID, day(1))
	require.NoError(t, err)

	// day(2) skipped entirely; an entry on day(3) starts over
	addEntry(t, db, user.ID, nil, models.TypeExpense, 10, day(3))
	streak, err := CheckStreak(db, user.ID, day(3))
	require.NoError(t, err)
	assert.Equal(t, 1, streak.CurrentCount)
	assert.Equal(t, 2, streak.BestCount) // best survives the reset
}

func TestCheckStreakGapWithoutEntryZeroes(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	addEntry(t, db, user.ID, nil, models.TypeExpense, 10, day(0))
	_, err := CheckStreak(db, user.ID, day(0))
	require.NoError(t, err)

	// two days later, no entry booked today
	streak, err := CheckStreak(db, user.ID, day(2))
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentCount)
}

func TestCheckStreakNoEntryToday(t *testing.T) {
	db := newTestDB(t)
	user := newTestUser(t, db)

	// nothing booked at all: counter stays zero but no error
	streak, err := CheckStreak(db, user.ID, day(0))
	require.NoError(t, err)
	assert.Equal(t, 0, streak.CurrentCount)
	assert.Equal(t, "", streak.LastCheckDate)
}
