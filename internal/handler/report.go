package handler

import (
	"net/http"
	"time"

	"github.com/M-owl-8/ACT/internal/middleware"
	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

// rangeStart maps a named report range to its window start.
func rangeStart(name string, now time.Time) (time.Time, bool) {
	switch name {
	case "day":
		return now.AddDate(0, 0, -1), true
	case "week":
		return now.AddDate(0, 0, -7), true
	case "15d":
		return now.AddDate(0, 0, -15), true
	case "month", "":
		return now.AddDate(0, -1, 0), true
	case "last3m":
		return now.AddDate(0, -3, 0), true
	}
	return time.Time{}, false
}

func (h *ReportHandler) entriesBetween(userID uint, from, to time.Time) ([]models.Entry, error) {
	var entries []models.Entry
	err := h.DB.Preload("Category").
		Where("user_id = ? AND booked_at >= ? AND booked_at < ?", userID, from, to).
		Find(&entries).Error
	return entries, err
}

type expenseByType struct {
	Mandatory     float64 `json:"mandatory"`
	Neutral       float64 `json:"neutral"`
	Excess        float64 `json:"excess"`
	Uncategorized float64 `json:"uncategorized"`
}

func splitByExpenseType(entries []models.Entry) expenseByType {
	sums := map[string][]float64{}
	for _, e := range entries {
		if e.Type != models.TypeExpense {
			continue
		}
		key := "uncategorized"
		if e.Category != nil && e.Category.ExpenseType != nil {
			key = *e.Category.ExpenseType
		}
		sums[key] = append(sums[key], e.Amount)
	}
	return expenseByType{
		Mandatory:     util.SumRound2(sums[models.ExpenseMandatory]),
		Neutral:       util.SumRound2(sums[models.ExpenseNeutral]),
		Excess:        util.SumRound2(sums[models.ExpenseExcess]),
		Uncategorized: util.SumRound2(sums["uncategorized"]),
	}
}

// Summary reports a named range: totals, the mandatory/neutral/excess
// split, the five heaviest expense categories, and an overspending alert
// when excess passes half of mandatory spend.
func (h *ReportHandler) Summary(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	now := time.Now().UTC()
	rangeName := c.DefaultQuery("range", "month")
	from, ok := rangeStart(rangeName, now)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "range must be one of day, week, 15d, month, last3m")
		return
	}

	entries, err := h.entriesBetween(user.ID, from, now.Add(24*time.Hour))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load entries")
		return
	}

	stats := statsFor(entries, 0)
	byType := splitByExpenseType(entries)

	top := breakdownFor(entries)
	if len(top) > 5 {
		top = top[:5]
	}

	excessAlert := byType.Mandatory > 0 && byType.Excess > 0.5*byType.Mandatory

	util.JSON(c, gin.H{
		"range":           rangeName,
		"from":            from,
		"to":              now,
		"income":          stats.Income,
		"expense":         stats.Expense,
		"balance":         stats.Balance,
		"entry_count":     stats.Count,
		"expense_by_type": byType,
		"top_categories":  top,
		"excess_alert":    excessAlert,
	})
}

type monthSummary struct {
	Income  float64       `json:"income"`
	Expense float64       `json:"expense"`
	Balance float64       `json:"balance"`
	ByType  expenseByType `json:"expense_by_type"`
}

func monthSummaryFor(entries []models.Entry) monthSummary {
	s := statsFor(entries, 0)
	return monthSummary{
		Income:  s.Income,
		Expense: s.Expense,
		Balance: s.Balance,
		ByType:  splitByExpenseType(entries),
	}
}

// Comparison compares the current calendar month against the previous one.
func (h *ReportHandler) Comparison(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	now := time.Now().UTC()
	currentStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	previousStart := currentStart.AddDate(0, -1, 0)

	current, err := h.entriesBetween(user.ID, currentStart, now.Add(24*time.Hour))
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load entries")
		return
	}
	previous, err := h.entriesBetween(user.ID, previousStart, currentStart)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load entries")
		return
	}

	cur := monthSummaryFor(current)
	prev := monthSummaryFor(previous)

	util.JSON(c, gin.H{
		"current_month":          cur,
		"previous_month":         prev,
		"expense_change":         util.Round2(cur.Expense - prev.Expense),
		"income_change":          util.Round2(cur.Income - prev.Income),
		"expense_change_percent": changePercent(prev.Expense, cur.Expense),
		"income_change_percent":  changePercent(prev.Income, cur.Income),
	})
}

// changePercent returns the relative change in percent, or nil when the
// previous period had nothing to compare against.
func changePercent(previous, current float64) *float64 {
	if previous == 0 {
		return nil
	}
	p := util.Round2((current - previous) / previous * 100)
	return &p
}
