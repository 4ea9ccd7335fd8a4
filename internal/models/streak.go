package models

import "time"

// Streak is a one-row-per-user consecutive-day counter. LastCheckDate is a
// YYYY-MM-DD string; an empty string means the streak was never checked.
type Streak struct {
	UserID        uint      `gorm:"primaryKey" json:"user_id"`
	CurrentCount  int       `gorm:"not null;default:0" json:"current_count"`
	BestCount     int       `gorm:"not null;default:0" json:"best_count"`
	LastCheckDate string    `gorm:"size:10;not null;default:''" json:"last_check_date"`
	UpdatedAt     time.Time `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
