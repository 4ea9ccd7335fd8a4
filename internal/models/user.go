package models

import "time"

// User represents an application account with authentication and preferences.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	IsAdmin      bool   `gorm:"not null;default:false" json:"is_admin"`
	Name         string `gorm:"size:100" json:"name"`

	// Secret keyword hash for password recovery, set at signup.
	RecoveryKeywordHash string `gorm:"size:255;not null" json:"-"`

	Language string `gorm:"size:8;not null;default:en" json:"language"` // en / ru / uz
	Theme    string `gorm:"size:8;not null;default:light" json:"theme"` // light / dark
	Currency string `gorm:"size:3;not null;default:USD" json:"currency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
