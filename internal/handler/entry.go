package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/M-owl-8/ACT/internal/middleware"
	"github.com/M-owl-8/ACT/internal/models"
	"github.com/M-owl-8/ACT/internal/motivation"
	"github.com/M-owl-8/ACT/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type EntryHandler struct {
	DB     *gorm.DB
	Engine *motivation.Engine
}

func NewEntryHandler(db *gorm.DB, engine *motivation.Engine) *EntryHandler {
	return &EntryHandler{DB: db, Engine: engine}
}

// resolveCategory checks that the category exists, is visible to the user
// (owned or a global default) and matches the entry direction.
func (h *EntryHandler) resolveCategory(userID uint, categoryID uint, entryType string) (*models.Category, int, string) {
	var category models.Category
	if err := visibleScope(h.DB, userID).First(&category, categoryID).Error; err != nil {
		return nil, http.StatusNotFound, "Category not found"
	}
	if category.Type != entryType {
		return nil, http.StatusBadRequest, "Category type does not match entry type"
	}
	return &category, 0, ""
}

type entryReq struct {
	Type       string  `json:"type" binding:"required,oneof=income expense"`
	Amount     float64 `json:"amount" binding:"required"`
	CategoryID *uint   `json:"category_id"`
	Note       *string `json:"note" binding:"omitempty,max=500"`
	BookedAt   *string `json:"booked_at"` // RFC 3339; defaults to now
}

func parseBookedAt(raw *string) (time.Time, bool) {
	if raw == nil || *raw == "" {
		return time.Now().UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse("2006-01-02", *raw); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// Create books a new entry and notifies the motivation engine.
func (h *EntryHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req entryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid entry payload")
		return
	}

	amount, err := util.NormalizeAmount(req.Amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	bookedAt, ok := parseBookedAt(req.BookedAt)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid booked_at date")
		return
	}

	entry := models.Entry{
		UserID:   user.ID,
		Type:     req.Type,
		Amount:   amount,
		Currency: user.Currency,
		Note:     req.Note,
		BookedAt: bookedAt,
	}
	if req.CategoryID != nil {
		category, status, msg := h.resolveCategory(user.ID, *req.CategoryID, req.Type)
		if category == nil {
			util.Error(c, status, codeForStatus(status), msg)
			return
		}
		entry.CategoryID = &category.ID
	}

	if err := h.DB.Create(&entry).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create entry")
		return
	}
	h.Engine.EntryChanged(user.ID, entry.BookedAt)

	h.DB.Preload("Category").First(&entry, entry.ID)
	util.Created(c, entry)
}

func codeForStatus(status int) int {
	switch status {
	case http.StatusNotFound:
		return util.CodeNotFound
	case http.StatusForbidden:
		return util.CodeForbidden
	default:
		return util.CodeInvalidParam
	}
}

// List returns the user's entries, newest booking first. Filters:
// ?type=, ?category_id=, ?date_from=, ?date_to= (YYYY-MM-DD),
// ?limit= (default 50, max 1000), ?offset=.
func (h *EntryHandler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	q := h.DB.Model(&models.Entry{}).Where("user_id = ?", user.ID)
	if t := c.Query("type"); t != "" {
		if t != models.TypeIncome && t != models.TypeExpense {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "type must be income or expense")
			return
		}
		q = q.Where("type = ?", t)
	}
	if cid := c.Query("category_id"); cid != "" {
		id, err := strconv.Atoi(cid)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid category_id")
			return
		}
		q = q.Where("category_id = ?", id)
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid date_from")
			return
		}
		q = q.Where("booked_at >= ?", t)
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid date_to")
			return
		}
		q = q.Where("booked_at < ?", t.Add(24*time.Hour))
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	var entries []models.Entry
	if err := q.Preload("Category").
		Order("booked_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list entries")
		return
	}
	util.JSON(c, entries)
}

// Get returns one of the user's entries.
func (h *EntryHandler) Get(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid entry id")
		return
	}

	var entry models.Entry
	if err := h.DB.Preload("Category").
		Where("user_id = ?", user.ID).
		First(&entry, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Entry not found")
		return
	}
	util.JSON(c, entry)
}

type entryPatchReq struct {
	Type       *string  `json:"type" binding:"omitempty,oneof=income expense"`
	Amount     *float64 `json:"amount"`
	CategoryID *uint    `json:"category_id"`
	Note       *string  `json:"note" binding:"omitempty,max=500"`
	BookedAt   *string  `json:"booked_at"`
}

// Update patches an entry. When the booking date moves, both the old and
// the new date feed the motivation engine so goal windows on either side
// recompute.
func (h *EntryHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid entry id")
		return
	}

	var entry models.Entry
	if err := h.DB.Where("user_id = ?", user.ID).First(&entry, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Entry not found")
		return
	}

	var req entryPatchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid entry payload")
		return
	}

	oldBooked := entry.BookedAt
	if req.Type != nil {
		entry.Type = *req.Type
	}
	if req.Amount != nil {
		amount, err := util.NormalizeAmount(*req.Amount)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
		entry.Amount = amount
	}
	if req.CategoryID != nil {
		category, status, msg := h.resolveCategory(user.ID, *req.CategoryID, entry.Type)
		if category == nil {
			util.Error(c, status, codeForStatus(status), msg)
			return
		}
		entry.CategoryID = &category.ID
	} else if req.Type != nil && entry.CategoryID != nil {
		// direction changed without a new category: recheck the old one
		category, _, _ := h.resolveCategory(user.ID, *entry.CategoryID, entry.Type)
		if category == nil {
			entry.CategoryID = nil
		}
	}
	if req.BookedAt != nil {
		bookedAt, ok := parseBookedAt(req.BookedAt)
		if !ok {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid booked_at date")
			return
		}
		entry.BookedAt = bookedAt
	}

	if err := h.DB.Save(&entry).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to update entry")
		return
	}
	h.Engine.EntryChanged(user.ID, entry.BookedAt)
	if !sameDay(oldBooked, entry.BookedAt) {
		h.Engine.EntryChanged(user.ID, oldBooked)
	}

	h.DB.Preload("Category").First(&entry, entry.ID)
	util.JSON(c, entry)
}

func sameDay(a, b time.Time) bool {
	return a.UTC().Format("2006-01-02") == b.UTC().Format("2006-01-02")
}

// Delete removes an entry and recomputes around its old booking date.
func (h *EntryHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid entry id")
		return
	}

	var entry models.Entry
	if err := h.DB.Where("user_id = ?", user.ID).First(&entry, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Entry not found")
		return
	}
	if err := h.DB.Delete(&entry).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to delete entry")
		return
	}
	h.Engine.EntryChanged(user.ID, entry.BookedAt)
	util.NoContent(c)
}

// ---------- stats ----------

// Count returns total entry counts split by direction.
func (h *EntryHandler) Count(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var total, income, expense int64
	base := h.DB.Model(&models.Entry{}).Where("user_id = ?", user.ID)
	if err := base.Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to count entries")
		return
	}
	h.DB.Model(&models.Entry{}).Where("user_id = ? AND type = ?", user.ID, models.TypeIncome).Count(&income)
	h.DB.Model(&models.Entry{}).Where("user_id = ? AND type = ?", user.ID, models.TypeExpense).Count(&expense)

	util.JSON(c, gin.H{"total": total, "income": income, "expense": expense})
}

// Totals sums income and expense over an optional date range and reports
// the balance.
func (h *EntryHandler) Totals(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	q := h.DB.Model(&models.Entry{}).Where("user_id = ?", user.ID)
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid date_from")
			return
		}
		q = q.Where("booked_at >= ?", t)
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid date_to")
			return
		}
		q = q.Where("booked_at < ?", t.Add(24*time.Hour))
	}

	var entries []models.Entry
	if err := q.Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load entries")
		return
	}

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
	util.JSON(c, gin.H{
		"income":  income,
		"expense": expense,
		"balance": util.Round2(income - expense),
	})
}

// ByExpenseType breaks expenses down by mandatory/neutral/excess, with
// uncategorized expenses reported separately.
func (h *EntryHandler) ByExpenseType(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var entries []models.Entry
	if err := h.DB.Preload("Category").
		Where("user_id = ? AND type = ?", user.ID, models.TypeExpense).
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load entries")
		return
	}

	sums := map[string][]float64{}
	for _, e := range entries {
		key := "uncategorized"
		if e.Category != nil && e.Category.ExpenseType != nil {
			key = *e.Category.ExpenseType
		}
		sums[key] = append(sums[key], e.Amount)
	}

	out := gin.H{
		"mandatory":     util.SumRound2(sums[models.ExpenseMandatory]),
		"neutral":       util.SumRound2(sums[models.ExpenseNeutral]),
		"excess":        util.SumRound2(sums[models.ExpenseExcess]),
		"uncategorized": util.SumRound2(sums["uncategorized"]),
	}
	util.JSON(c, out)
}
