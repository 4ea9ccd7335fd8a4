package database

import (
	"fmt"

	"github.com/M-owl-8/ACT/internal/models"

	"gorm.io/gorm"
)

type defaultCategory struct {
	Name        string
	Type        string
	ExpenseType string
	Icon        string
	Color       string
}

var defaultCategories = []defaultCategory{
	// mandatory expenses
	{"Rent", models.TypeExpense, models.ExpenseMandatory, "🏠", "#FF6B6B"},
	{"Utilities", models.TypeExpense, models.ExpenseMandatory, "💡", "#DFE6E9"},
	{"Groceries", models.TypeExpense, models.ExpenseMandatory, "🛒", "#96CEB4"},
	{"Transport", models.TypeExpense, models.ExpenseMandatory, "🚗", "#45B7D1"},
	{"Health", models.TypeExpense, models.ExpenseMandatory, "⚕️", "#74B9FF"},

	// neutral expenses
	{"Food", models.TypeExpense, models.ExpenseNeutral, "🍔", "#4ECDC4"},
	{"Study", models.TypeExpense, models.ExpenseNeutral, "📚", "#A29BFE"},
	{"Clothing", models.TypeExpense, models.ExpenseNeutral, "👕", "#FD79A8"},
	{"Other", models.TypeExpense, models.ExpenseNeutral, "📦", "#B2BEC3"},

	// excess expenses
	{"Entertainment", models.TypeExpense, models.ExpenseExcess, "🎮", "#FFEAA7"},
	{"Shopping", models.TypeExpense, models.ExpenseExcess, "🛍️", "#FD79A8"},
	{"Dining Out", models.TypeExpense, models.ExpenseExcess, "🍽️", "#FF7675"},

	// income
	{"Salary", models.TypeIncome, "", "💰", "#00B894"},
	{"Bonus", models.TypeIncome, "", "🎁", "#00CEC9"},
	{"Freelance", models.TypeIncome, "", "💼", "#55EFC4"},
	{"Investment", models.TypeIncome, "", "📈", "#81ECEC"},
	{"Gift", models.TypeIncome, "", "🎉", "#74B9FF"},
	{"Other Income", models.TypeIncome, "", "💵", "#A29BFE"},
}

// SeedDefaults inserts the global default categories once. Defaults have a
// NULL user_id and are read-only to users.
func SeedDefaults(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).
		Where("is_default = ?", true).
		Count(&count).Error; err != nil {
		return fmt.Errorf("count default categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, dc := range defaultCategories {
		icon, color := dc.Icon, dc.Color
		cat := models.Category{
			Name:      dc.Name,
			Type:      dc.Type,
			Icon:      &icon,
			Color:     &color,
			IsDefault: true,
		}
		if dc.ExpenseType != "" {
			et := dc.ExpenseType
			cat.ExpenseType = &et
		}
		if err := db.Create(&cat).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", dc.Name, err)
		}
	}
	return nil
}
