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

// maxReminderAhead caps how far into the future a reminder may be planned.
const maxReminderAhead = 90 * 24 * time.Hour

type ReminderHandler struct {
	DB     *gorm.DB
	Engine *motivation.Engine
}

func NewReminderHandler(db *gorm.DB, engine *motivation.Engine) *ReminderHandler {
	return &ReminderHandler{DB: db, Engine: engine}
}

func validateReminderDate(date, now time.Time) string {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(dayStart) {
		return "Reminder date cannot be in the past"
	}
	if date.After(now.Add(maxReminderAhead)) {
		return "Reminder date cannot be more than 90 days ahead"
	}
	return ""
}

type reminderReq struct {
	Title      string   `json:"title" binding:"required,min=1,max=200"`
	Amount     *float64 `json:"amount"`
	CategoryID *uint    `json:"category_id"`
	Note       *string  `json:"note" binding:"omitempty,max=500"`
	Date       string   `json:"reminder_date" binding:"required"`
}

func (h *ReminderHandler) parseReq(c *gin.Context, userID uint) (*reminderReq, *time.Time, *float64, bool) {
	var req reminderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid reminder payload")
		return nil, nil, nil, false
	}

	date, ok := parseBookedAt(&req.Date)
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid reminder_date")
		return nil, nil, nil, false
	}
	if msg := validateReminderDate(date, time.Now().UTC()); msg != "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, msg)
		return nil, nil, nil, false
	}

	var amount *float64
	if req.Amount != nil {
		a, err := util.NormalizeAmount(*req.Amount)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return nil, nil, nil, false
		}
		amount = &a
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := visibleScope(h.DB, userID).
			Where("type = ?", models.TypeExpense).
			First(&category, *req.CategoryID).Error; err != nil {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Category not found")
			return nil, nil, nil, false
		}
	}
	return &req, &date, amount, true
}

// Create plans a future expense reminder.
func (h *ReminderHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	req, date, amount, ok := h.parseReq(c, user.ID)
	if !ok {
		return
	}

	reminder := models.Reminder{
		UserID:       user.ID,
		CategoryID:   req.CategoryID,
		Title:        req.Title,
		Amount:       amount,
		Currency:     user.Currency,
		Note:         req.Note,
		ReminderDate: *date,
	}
	if err := h.DB.Create(&reminder).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create reminder")
		return
	}
	util.Created(c, reminder)
}

// List returns reminders with upcoming/completed counts. Completed ones
// are hidden unless ?include_completed=true; ?date_from/?date_to filter.
func (h *ReminderHandler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	q := h.DB.Where("user_id = ?", user.ID)
	if c.Query("include_completed") != "true" {
		q = q.Where("is_completed = ?", false)
	}
	if from := c.Query("date_from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid date_from")
			return
		}
		q = q.Where("reminder_date >= ?", t)
	}
	if to := c.Query("date_to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid date_to")
			return
		}
		q = q.Where("reminder_date < ?", t.Add(24*time.Hour))
	}

	var reminders []models.Reminder
	if err := q.Order("reminder_date").Find(&reminders).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to list reminders")
		return
	}

	var upcoming, completed int64
	h.DB.Model(&models.Reminder{}).
		Where("user_id = ? AND is_completed = ? AND reminder_date >= ?",
			user.ID, false, time.Now().UTC().Truncate(24*time.Hour)).
		Count(&upcoming)
	h.DB.Model(&models.Reminder{}).
		Where("user_id = ? AND is_completed = ?", user.ID, true).
		Count(&completed)

	util.JSON(c, gin.H{
		"reminders":       reminders,
		"upcoming_count":  upcoming,
		"completed_count": completed,
	})
}

func (h *ReminderHandler) load(c *gin.Context) (*models.Reminder, bool) {
	user, _ := middleware.CurrentUser(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid reminder id")
		return nil, false
	}

	var reminder models.Reminder
	if err := h.DB.Where("user_id = ?", user.ID).First(&reminder, id).Error; err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Reminder not found")
		return nil, false
	}
	return &reminder, true
}

func (h *ReminderHandler) Get(c *gin.Context) {
	reminder, ok := h.load(c)
	if !ok {
		return
	}
	util.JSON(c, reminder)
}

// Update replaces the mutable fields of a pending reminder.
func (h *ReminderHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	reminder, ok := h.load(c)
	if !ok {
		return
	}
	if reminder.IsCompleted {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Completed reminders cannot be modified")
		return
	}

	req, date, amount, okReq := h.parseReq(c, user.ID)
	if !okReq {
		return
	}

	reminder.Title = req.Title
	reminder.CategoryID = req.CategoryID
	reminder.Amount = amount
	reminder.Note = req.Note
	reminder.ReminderDate = *date
	if err := h.DB.Save(reminder).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to update reminder")
		return
	}
	util.JSON(c, reminder)
}

func (h *ReminderHandler) Delete(c *gin.Context) {
	reminder, ok := h.load(c)
	if !ok {
		return
	}
	if err := h.DB.Delete(reminder).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to delete reminder")
		return
	}
	util.NoContent(c)
}

// Complete marks a reminder done without creating an entry.
func (h *ReminderHandler) Complete(c *gin.Context) {
	reminder, ok := h.load(c)
	if !ok {
		return
	}
	if reminder.IsCompleted {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Reminder is already completed")
		return
	}

	now := time.Now().UTC()
	reminder.IsCompleted = true
	reminder.CompletedAt = &now
	if err := h.DB.Save(reminder).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to complete reminder")
		return
	}
	util.JSON(c, reminder)
}

type createExpenseReq struct {
	Amount *float64 `json:"amount"` // overrides the planned amount
}

// CreateExpense converts a reminder into a real expense entry in one
// transaction: the entry is booked now, the reminder links it and flips to
// completed, and the motivation engine sees the new entry.
func (h *ReminderHandler) CreateExpense(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	reminder, ok := h.load(c)
	if !ok {
		return
	}
	if reminder.IsCompleted {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Reminder is already completed")
		return
	}

	var req createExpenseReq
	_ = c.ShouldBindJSON(&req) // body optional

	amount := reminder.Amount
	if req.Amount != nil {
		amount = req.Amount
	}
	if amount == nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Reminder has no amount; provide one")
		return
	}
	normalized, err := util.NormalizeAmount(*amount)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	now := time.Now().UTC()
	note := reminder.Title
	entry := models.Entry{
		UserID:     user.ID,
		CategoryID: reminder.CategoryID,
		Type:       models.TypeExpense,
		Amount:     normalized,
		Currency:   reminder.Currency,
		Note:       &note,
		BookedAt:   now,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		reminder.IsCompleted = true
		reminder.CompletedAt = &now
		reminder.EntryID = &entry.ID
		return tx.Save(reminder).Error
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to create expense from reminder")
		return
	}
	h.Engine.EntryChanged(user.ID, entry.BookedAt)

	util.Created(c, gin.H{"reminder": reminder, "entry": entry})
}

// Calendar groups a month's reminders by date.
func (h *ReminderHandler) Calendar(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 2000 || year > 2100 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid year")
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Invalid month")
		return
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	var reminders []models.Reminder
	if err := h.DB.Where("user_id = ? AND reminder_date >= ? AND reminder_date < ?",
		user.ID, start, end).
		Order("reminder_date").
		Find(&reminders).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Failed to load reminders")
		return
	}

	byDate := map[string][]models.Reminder{}
	for _, r := range reminders {
		key := r.ReminderDate.UTC().Format("2006-01-02")
		byDate[key] = append(byDate[key], r)
	}
	util.JSON(c, gin.H{"year": year, "month": month, "days": byDate})
}
