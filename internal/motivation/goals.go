package motivation

import (
	"fmt"
	"time"

	"github.com/M-owl-8/ACT/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RecomputeGoals re-derives current_value for the user's active spend_under
// and log_n_days goals whose window covers the affected booked date. Streak
// and savings goals are maintained through their own paths.
func RecomputeGoals(db *gorm.DB, userID uint, affected time.Time) error {
	var goals []models.Goal
	err := db.Where("user_id = ? AND status = ? AND kind IN ?",
		userID, models.GoalActive, []string{models.GoalSpendUnder, models.GoalLogNDays}).
		Where("start_date <= ?", affected).
		Where("end_date IS NULL OR end_date >= ?", affected).
		Find(&goals).Error
	if err != nil {
		return fmt.Errorf("load active goals: %w", err)
	}

	for i := range goals {
		goal := &goals[i]

		var current float64
		switch goal.Kind {
		case models.GoalSpendUnder:
			current, err = discretionarySpend(db, userID, goal.StartDate, goal.EndDate)
		case models.GoalLogNDays:
			current, err = distinctLoggedDays(db, userID, goal.StartDate, goal.EndDate)
		}
		if err != nil {
			return fmt.Errorf("recompute goal %d: %w", goal.ID, err)
		}

		if err := db.Model(goal).Update("current_value", current).Error; err != nil {
			return fmt.Errorf("save goal %d: %w", goal.ID, err)
		}
	}
	return nil
}

// discretionarySpend sums expense entries in the window whose category is
// not mandatory. Entries without a category count as discretionary.
func discretionarySpend(db *gorm.DB, userID uint, start time.Time, end *time.Time) (float64, error) {
	var entries []models.Entry
	q := db.Preload("Category").
		Where("user_id = ? AND type = ? AND booked_at >= ?", userID, models.TypeExpense, start)
	if end != nil {
		q = q.Where("booked_at <= ?", *end)
	}
	if err := q.Find(&entries).Error; err != nil {
		return 0, err
	}

	total := decimal.Zero
	for i := range entries {
		cat := entries[i].Category
		if cat != nil && cat.ExpenseType != nil && *cat.ExpenseType == models.ExpenseMandatory {
			continue
		}
		total = total.Add(decimal.NewFromFloat(entries[i].Amount))
	}
	v, _ := total.Round(2).Float64()
	return v, nil
}

// distinctLoggedDays counts calendar dates (by booked timestamp) with at
// least one entry inside the window.
func distinctLoggedDays(db *gorm.DB, userID uint, start time.Time, end *time.Time) (float64, error) {
	var entries []models.Entry
	q := db.Select("booked_at").
		Where("user_id = ? AND booked_at >= ?", userID, start)
	if end != nil {
		q = q.Where("booked_at <= ?", *end)
	}
	if err := q.Find(&entries).Error; err != nil {
		return 0, err
	}

	days := make(map[string]struct{}, len(entries))
	for i := range entries {
		days[entries[i].BookedAt.Format(dateLayout)] = struct{}{}
	}
	return float64(len(days)), nil
}
