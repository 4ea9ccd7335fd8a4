package motivation

import (
	"fmt"
	"time"

	"github.com/M-owl-8/ACT/internal/models"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// GetOrCreateStreak loads the user's streak row, creating the initial zero
// row on first read.
func GetOrCreateStreak(db *gorm.DB, userID uint) (*models.Streak, error) {
	var streak models.Streak
	err := db.Where("user_id = ?", userID).First(&streak).Error
	if err == gorm.ErrRecordNotFound {
		streak = models.Streak{UserID: userID}
		if err := db.Create(&streak).Error; err != nil {
			return nil, fmt.Errorf("create streak: %w", err)
		}
		return &streak, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load streak: %w", err)
	}
	return &streak, nil
}

// CheckStreak updates the consecutive-day counter for the given moment.
// It is idempotent per calendar day: once a day has been credited, further
// checks on the same day are no-ops.
func CheckStreak(db *gorm.DB, userID uint, now time.Time) (*models.Streak, error) {
	streak, err := GetOrCreateStreak(db, userID)
	if err != nil {
		return nil, err
	}

	today := now.Format(dateLayout)
	if streak.LastCheckDate == today {
		return streak, nil
	}

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var entryCount int64
	if err := db.Model(&models.Entry{}).
		Where("user_id = ? AND booked_at >= ? AND booked_at < ?", userID, dayStart, dayStart.Add(24*time.Hour)).
		Count(&entryCount).Error; err != nil {
		return nil, fmt.Errorf("count today entries: %w", err)
	}

	if entryCount > 0 {
		yesterday := dayStart.AddDate(0, 0, -1).Format(dateLayout)
		switch streak.LastCheckDate {
		case yesterday:
			streak.CurrentCount++
		case today:
			// already credited
		default:
			// gap or first entry ever
			streak.CurrentCount = 1
		}
		if streak.CurrentCount > streak.BestCount {
			streak.BestCount = streak.CurrentCount
		}
		streak.LastCheckDate = today
	} else if streak.LastCheckDate != "" {
		last, err := time.ParseInLocation(dateLayout, streak.LastCheckDate, now.Location())
		if err == nil && dayStart.Sub(last) > 24*time.Hour {
			// more than one full day without an entry breaks the streak
			streak.CurrentCount = 0
		}
	}

	if err := db.Save(streak).Error; err != nil {
		return nil, fmt.Errorf("save streak: %w", err)
	}
	return streak, nil
}
