package handler

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/M-owl-8/ACT/internal/middleware"
	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

type periodStats struct {
	Days    int     `json:"days"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
	Count   int     `json:"count"`
}

type categorySlice struct {
	CategoryID   *uint   `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Icon         *string `json:"icon"`
	Color        *string `json:"color"`
	Total        float64 `json:"total"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
}

func (h *DashboardHandler) windowEntries(userID uint, days int) ([]models.Entry, error) {
	since := time.Now().UTC().AddDate(0, 0, -days)
	var entries []models.Entry
	err := h.DB.Preload("Category").
		Where("user_id = ? AND booked_at >= ?", userID, since).
		Find(&entries).Error
	return entries, err
}

func statsFor(entries []models.Entry, days int) periodStats {
	var incomes, expenses []float64
	for _, e := range entries {
		if e.Type == models.TypeIncome {
			incomes = append(incomes, e.Amount)
		} else {
			expenses = append(expenses, e.Amount)
		}
	}
	income := util.SumRound2(incomes)
	expense := util.SumRound2(expenses)
	return periodStats{
		Days:    days,
		Income:  income,
		Expense: expense,
		Balance: util.Round2(income - expense),
		Count:   len(entries),
	}
}

// breakdownFor groups expenses by category, largest first, with each
// slice's share of the expense total.
func breakdownFor(entries []models.Entry) []categorySlice {
	type agg struct {
		slice   categorySlice
		amounts []float64
	}
	byKey := map[string]*agg{}
	order := []string{}

	for _, e := range entries {
		if e.Type != models.TypeExpense {
			continue
		}
		key := "uncategorized"
		name := "Uncategorized"
		var icon, color *string
		var categoryID *uint
		if e.Category != nil {
			key = strconv.Itoa(int(e.Category.ID))
			name = e.Category.Name
			icon = e.Category.Icon
			color = e.Category.Color
			categoryID = &e.Category.ID
		}
		a, seen := byKey[key]
		if !seen {
			a = &agg{slice: categorySlice{
				CategoryID:   categoryID,
				CategoryName: name,
				Icon:         icon,
				Color:        color,
			}}
			byKey[key] = a
			order = append(order, key)
		}
		a.amounts = append(a.amounts, e.Amount)
		a.slice.Count++
	}

	var total float64
	for _, key := range order {
		byKey[key].slice.Total = util.SumRound2(byKey[key].amounts)
		total += byKey[key].slice.Total
	}

	out := make([]categorySlice, 0, len(order))
	for _, key := range order {
		s := byKey[key].slice
		if total > 0 {
			s.Percentage = util.Round2(s.Total / total * 100)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out
}

// Overview serves the home-screen summary: 7- and 30-day totals plus the
// 30-day expense breakdown.
func (h *DashboardHandler) Overview(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	week, err := h.windowEntries(user.ID, 7)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load entries")
		return
	}
	month, err := h.windowEntries(user.ID, 30)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load entries")
		return
	}

	util.JSON(c, gin.H{
		"week":      statsFor(week, 7),
		"month":     statsFor(month, 30),
		"breakdown": breakdownFor(month),
	})
}

func parseDays(c *gin.Context) (int, bool) {
	days, err := strconv.Atoi(c.Param("days"))
	if err != nil || days < 1 || days > 365 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "days must be between 1 and 365")
		return 0, false
	}
	return days, true
}

// Stats returns income/expense totals for an arbitrary trailing window.
func (h *DashboardHandler) Stats(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	days, ok := parseDays(c)
	if !ok {
		return
	}

	entries, err := h.windowEntries(user.ID, days)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load entries")
		return
	}
	util.JSON(c, statsFor(entries, days))
}

// Breakdown returns the per-category expense breakdown for a trailing window.
func (h *DashboardHandler) Breakdown(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	days, ok := parseDays(c)
	if !ok {
		return
	}

	entries, err := h.windowEntries(user.ID, days)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load entries")
		return
	}
	util.JSON(c, gin.H{"days": days, "breakdown": breakdownFor(entries)})
}
