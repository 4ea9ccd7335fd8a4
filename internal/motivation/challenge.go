package motivation

import (
	"fmt"
	"time"

	"github.com/M-owl-8/ACT/internal/models"

	"gorm.io/gorm"
)

// NoSpendRun returns the number of consecutive calendar days, ending today,
// on which the user booked no discretionary expense. A day with only
// mandatory-category expenses (or no entries at all) keeps the run alive;
// a discretionary or uncategorized expense breaks it. The scan never looks
// before `since`.
func NoSpendRun(db *gorm.DB, userID uint, since, now time.Time) (int, error) {
	var entries []models.Entry
	err := db.Preload("Category").
		Where("user_id = ? AND type = ? AND booked_at >= ?", userID, models.TypeExpense, since).
		Find(&entries).Error
	if err != nil {
		return 0, fmt.Errorf("load expenses: %w", err)
	}

	spendDays := make(map[string]struct{})
	for i := range entries {
		cat := entries[i].Category
		if cat != nil && cat.ExpenseType != nil && *cat.ExpenseType == models.ExpenseMandatory {
			continue
		}
		spendDays[entries[i].BookedAt.Format(dateLayout)] = struct{}{}
	}

	sinceDay := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location())
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	run := 0
	for !day.Before(sinceDay) {
		if _, spent := spendDays[day.Format(dateLayout)]; spent {
			break
		}
		run++
		day = day.AddDate(0, 0, -1)
	}
	return run, nil
}
