package motivation

import (
	"testing"
	"time"

	"github.com/M-owl-8/ACT/internal/database"
	"github.com/M-owl-8/ACT/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func newTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{
		Email:               "tester@example.com",
		PasswordHash:        "x",
		RecoveryKeywordHash: "x",
		Language:            "en",
		Theme:               "light",
		Currency:            "USD",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func newCategory(t *testing.T, db *gorm.DB, userID uint, catType string, expenseType *string) *models.Category {
	t.Helper()
	cat := models.Category{
		UserID:      &userID,
		Name:        "cat-" + time.Now().Format("150405.000000"),
		Type:        catType,
		ExpenseType: expenseType,
	}
	require.NoError(t, db.Create(&cat).Error)
	return &cat
}

func addEntry(t *testing.T, db *gorm.DB, userID uint, categoryID *uint, entryType string, amount float64, booked time.Time) *models.Entry {
	t.Helper()
	entry := models.Entry{
		UserID:     userID,
		CategoryID: categoryID,
		Type:       entryType,
		Amount:     amount,
		Currency:   "USD",
		BookedAt:   booked,
	}
	require.NoError(t, db.Create(&entry).Error)
	return &entry
}

func strPtr(s string) *string { return &s }
