package models

import "time"

// Entry is a single financial transaction. BookedAt is the business date
// (when the money moved); CreatedAt is the audit date.
type Entry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	CategoryID *uint     `gorm:"index" json:"category_id"`
	Type       string    `gorm:"size:16;index;not null" json:"type"` // income / expense
	Amount     float64   `gorm:"not null" json:"amount"`             // positive, 2-decimal rounded
	Currency   string    `gorm:"size:3;not null;default:USD" json:"currency"`
	Note       *string   `gorm:"size:500" json:"note"`
	BookedAt   time.Time `gorm:"index;not null" json:"booked_at"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	User     User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`
}
