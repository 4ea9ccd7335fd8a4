package models

import "time"

// Token is a server-side refresh-token record keyed by jti. Access tokens
// are stateless; only refresh tokens are tracked so they can be revoked.
type Token struct {
	ID        uint      `gorm:"primaryKey"`
	JTI       string    `gorm:"column:jti;size:64;uniqueIndex;not null"`
	UserID    uint      `gorm:"index;not null"`
	Type      string    `gorm:"size:16;not null"` // 'refresh'
	Revoked   bool      `gorm:"index;not null;default:false"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// PasswordResetToken is a single-use, expiring reset token persisted in the
// database so resets survive process restarts.
type PasswordResetToken struct {
	ID        uint      `gorm:"primaryKey"`
	Token     string    `gorm:"size:64;uniqueIndex;not null"`
	UserID    uint      `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
