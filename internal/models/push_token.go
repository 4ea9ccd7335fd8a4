package models

import "time"

// PushToken stores a device push-messaging token for the external gateway.
type PushToken struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	Token      string    `gorm:"size:255;uniqueIndex;not null" json:"token"`
	DeviceType *string   `gorm:"size:16" json:"device_type"` // ios / android / web
	DeviceName *string   `gorm:"size:100" json:"device_name"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	LastUsedAt time.Time `json:"last_used_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// UserDevice records a device seen at login, best effort.
type UserDevice struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"user_id"`
	DeviceName string    `gorm:"size:100;not null" json:"device_name"`
	DeviceType string    `gorm:"size:16;not null" json:"device_type"` // mobile / web / tablet
	OS         *string   `gorm:"size:32" json:"os"`
	LastLogin  time.Time `json:"last_login"`
	CreatedAt  time.Time `json:"created_at"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
