package models

import "time"

// Backup types.
const (
	BackupDaily  = "daily"
	BackupManual = "manual"
)

// DatabaseBackup is the metadata row for one snapshot file on disk.
type DatabaseBackup struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Filename        string    `gorm:"size:255;not null" json:"filename"`
	FilePath        string    `gorm:"size:500;not null" json:"-"`
	FileSize        int64     `gorm:"not null" json:"file_size"`
	BackupType      string    `gorm:"size:16;not null;default:daily" json:"backup_type"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	CreatedByUserID *uint     `json:"created_by_user_id"`
}
