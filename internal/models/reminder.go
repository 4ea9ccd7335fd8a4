package models

import "time"

// Reminder is a planned future expense. Its date must fall within 90 days
// of creation; it may later be converted into a real Entry via EntryID.
type Reminder struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	CategoryID  *uint      `gorm:"index" json:"category_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Amount      *float64   `json:"amount"`
	Currency    string     `gorm:"size:3;not null;default:USD" json:"currency"`
	Note        *string    `gorm:"size:500" json:"note"`
	ReminderDate time.Time `gorm:"index;not null" json:"reminder_date"`
	IsCompleted bool       `gorm:"index;not null;default:false" json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
	EntryID     *uint      `json:"entry_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	User     User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Entry    *Entry    `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}
