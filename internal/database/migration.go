package database

import (
	"fmt"

	"github.com/M-owl-8/ACT/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.PasswordResetToken{},
		&models.UserDevice{},
		&models.Category{},
		&models.Entry{},
		&models.Streak{},
		&models.Goal{},
		&models.Book{},
		&models.UserBookProgress{},
		&models.ReadingSession{},
		&models.Reminder{},
		&models.PushToken{},
		&models.DatabaseBackup{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
