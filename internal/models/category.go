package models

import "time"

// Entry / category direction.
const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// Expense sub-types used by spending-discipline analytics.
const (
	ExpenseMandatory = "mandatory"
	ExpenseNeutral   = "neutral"
	ExpenseExcess    = "excess"
)

// Category represents an income/expense category. A NULL UserID marks a
// global default category that is read-only to users.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"index" json:"user_id"`
	Name        string    `gorm:"size:50;not null" json:"name"`
	Type        string    `gorm:"size:16;index;not null" json:"type"`          // income / expense
	ExpenseType *string   `gorm:"size:16;index" json:"expense_type"`           // mandatory / neutral / excess, expenses only
	Color       *string   `gorm:"size:7" json:"color"`                         // hex color
	Icon        *string   `gorm:"size:10" json:"icon"`                         // emoji
	IsDefault   bool      `gorm:"index;not null;default:false" json:"is_default"`
	IsDeleted   bool      `gorm:"index;not null;default:false" json:"is_deleted"`
	CreatedAt   time.Time `json:"created_at"`

	User *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
