package models

import "time"

// Goal kinds.
const (
	GoalStreak     = "streak"
	GoalSpendUnder = "spend_under"
	GoalLogNDays   = "log_n_days"
	GoalSavings    = "savings"
)

// Goal statuses.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
)

// Goal is a user-defined target. CurrentValue is a cache derivable from the
// entry history, never a source of truth.
type Goal struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"index;not null" json:"user_id"`
	Kind         string     `gorm:"size:16;not null" json:"kind"`
	Title        string     `gorm:"size:100;not null" json:"title"`
	Description  *string    `gorm:"size:500" json:"description"`
	TargetValue  *float64   `json:"target_value"`
	CurrentValue float64    `gorm:"not null;default:0" json:"current_value"`
	Status       string     `gorm:"size:16;index;not null;default:active" json:"status"`
	StartDate    time.Time  `gorm:"not null" json:"start_date"`
	EndDate      *time.Time `json:"end_date"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// ProgressPercentage returns min(100, current/target*100) rounded to two
// decimals, or nil when the goal has no positive target.
func (g *Goal) ProgressPercentage() *float64 {
	if g.TargetValue == nil || *g.TargetValue <= 0 {
		return nil
	}
	p := g.CurrentValue / *g.TargetValue * 100
	p = float64(int64(p*100+0.5)) / 100
	if p > 100 {
		p = 100
	}
	return &p
}
